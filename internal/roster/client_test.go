package roster

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmissionValidate(t *testing.T) {
	valid := Submission{
		FullName:    "Claire Martin",
		Email:       "claire@example.com",
		LinkedInURL: "https://linkedin.com/in/clairemartin",
		CurrentRole: "Product Manager",
	}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantErr bool
	}{
		{"All required fields present", func(s *Submission) {}, false},
		{"Missing name", func(s *Submission) { s.FullName = "" }, true},
		{"Missing email", func(s *Submission) { s.Email = "" }, true},
		{"Missing profile URL", func(s *Submission) { s.LinkedInURL = "" }, true},
		{"Missing current role", func(s *Submission) { s.CurrentRole = "" }, true},
		{"Email without at sign", func(s *Submission) { s.Email = "claire.example.com" }, true},
		{"Email without domain dot", func(s *Submission) { s.Email = "claire@example" }, true},
		{"Email with spaces", func(s *Submission) { s.Email = "claire martin@example.com" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := valid
			tt.mutate(&sub)
			err := sub.Validate()
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("Validate() = %v, want ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestListMembers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("Authorization = %q, want bearer key", got)
		}
		if got := r.URL.Query().Get("maxRecords"); got != "200" {
			t.Errorf("maxRecords = %q, want 200", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[
			{"id":"rec1","fields":{"Name":"Claire Martin","Email":"claire@example.com","LinkedIn URL":"https://linkedin.com/in/claire","Current Role":"PM","Role Types":["Product"],"Industries":["Fintech"],"Company Size":["11-50"],"Looking For":"Series A product roles"}},
			{"id":"rec2","fields":{"Name":"Lucas Bernard"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "base1", "Members", "key123", srv.Client())
	members, err := c.ListMembers(context.Background())
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members, want 2", len(members))
	}
	if members[0].FullName != "Claire Martin" || members[0].CurrentRole != "PM" {
		t.Errorf("first member mapped wrong: %+v", members[0])
	}
	if len(members[0].RoleTypes) != 1 || members[0].RoleTypes[0] != "Product" {
		t.Errorf("role types mapped wrong: %v", members[0].RoleTypes)
	}
	if members[1].ID != "rec2" || members[1].Email != "" {
		t.Errorf("sparse member mapped wrong: %+v", members[1])
	}
}

func TestListMembersUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "base1", "Members", "key123", srv.Client())
	_, err := c.ListMembers(context.Background())
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("ListMembers() error = %v, want ErrUpstream", err)
	}
}

func TestCreateMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"recNew"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "base1", "Members", "key123", srv.Client())
	id, err := c.CreateMember(context.Background(), Submission{
		FullName:    "Claire Martin",
		Email:       "claire@example.com",
		LinkedInURL: "https://linkedin.com/in/claire",
		CurrentRole: "PM",
	})
	if err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if id != "recNew" {
		t.Errorf("id = %q, want recNew", id)
	}
}

func TestCreateMemberValidatesBeforeNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "base1", "Members", "key123", srv.Client())
	_, err := c.CreateMember(context.Background(), Submission{FullName: "No Email"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("CreateMember() error = %v, want ValidationError", err)
	}
	if called {
		t.Error("store was called despite validation failure")
	}
}
