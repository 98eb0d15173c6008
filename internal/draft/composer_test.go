package draft

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/frenchtechupdates/talent-match/internal/models"
)

type stubGenerator struct {
	response string
	err      error
	prompt   string
	calls    int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.response, s.err
}

var testCandidate = Candidate{
	Name:        "Claire Martin",
	CurrentRole: "Senior PM",
	LookingFor:  "Series A product roles",
	RoleTypes:   []string{"Product"},
	Industries:  []string{"Fintech"},
}

var testJob = models.JobPosting{
	ID:             "job_1",
	Title:          "Product Manager",
	Company:        "Qonto",
	Location:       "Paris",
	WorkType:       models.WorkHybrid,
	RequiresFrench: models.FrenchYes,
}

func TestDraftSingle(t *testing.T) {
	gen := &stubGenerator{response: "\nHi Claire,\n\n...\n\nJames\n"}
	enrichment := &models.Enrichment{FundingInfo: "Raised €486M Series D, July 2021", SalarySignal: "€70–90k"}

	email, err := New(gen, "").DraftSingle(context.Background(), testCandidate, testJob, enrichment, "Product role overlap")
	if err != nil {
		t.Fatalf("DraftSingle() error = %v", err)
	}
	if email != "Hi Claire,\n\n...\n\nJames" {
		t.Errorf("email not trimmed: %q", email)
	}
	for _, want := range []string{
		"Claire Martin",
		"Product Manager",
		"Raised €486M Series D, July 2021",
		"Match reason: Product role overlap",
		"French language required: yes",
		`Sign off as: "James"`,
		"[INSERT APPLY LINK]",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDraftSingleNoEnrichment(t *testing.T) {
	gen := &stubGenerator{response: "Hi"}
	_, err := New(gen, "").DraftSingle(context.Background(), testCandidate, testJob, nil, "")
	if err != nil {
		t.Fatalf("DraftSingle() error = %v", err)
	}
	if !strings.Contains(gen.prompt, "No enrichment data available.") {
		t.Error("prompt missing no-enrichment note")
	}
	if !strings.Contains(gen.prompt, "Match reason: Strong profile alignment") {
		t.Error("prompt missing default match reason")
	}
}

func TestDraftSingleCustomSignoff(t *testing.T) {
	gen := &stubGenerator{response: "Hi"}
	if _, err := New(gen, "Margot").DraftSingle(context.Background(), testCandidate, testJob, nil, ""); err != nil {
		t.Fatalf("DraftSingle() error = %v", err)
	}
	if !strings.Contains(gen.prompt, `Sign off as: "Margot"`) {
		t.Error("prompt missing custom sign-off")
	}
}

func TestDraftSingleEmptyResponse(t *testing.T) {
	gen := &stubGenerator{response: "   \n  "}
	_, err := New(gen, "").DraftSingle(context.Background(), testCandidate, testJob, nil, "")
	if !errors.Is(err, ErrEmptyDraft) {
		t.Fatalf("DraftSingle() error = %v, want ErrEmptyDraft", err)
	}
}

func TestDraftSingleMissingInputs(t *testing.T) {
	gen := &stubGenerator{response: "Hi"}
	c := New(gen, "")

	if _, err := c.DraftSingle(context.Background(), Candidate{}, testJob, nil, ""); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("missing candidate: error = %v, want ErrNoCandidate", err)
	}
	if _, err := c.DraftSingle(context.Background(), testCandidate, models.JobPosting{}, nil, ""); !errors.Is(err, ErrNoJob) {
		t.Errorf("missing job: error = %v, want ErrNoJob", err)
	}
	if gen.calls != 0 {
		t.Errorf("model called %d times despite invalid inputs", gen.calls)
	}
}

func TestDraftMulti(t *testing.T) {
	gen := &stubGenerator{response: "Hi Claire"}
	jobs := []models.JobPosting{
		testJob,
		{ID: "job_2", Title: "Growth PM", Company: "Alan", Location: "Paris", WorkType: models.WorkRemote, RequiresFrench: models.FrenchNo, ApplyURL: "https://alan.com/jobs/1"},
	}
	enrichments := []*models.Enrichment{
		{FundingInfo: "Raised €486M Series D, July 2021"},
		nil,
	}
	reasons := []string{"Product overlap", "Growth background"}

	_, err := New(gen, "").DraftMulti(context.Background(), testCandidate, jobs, enrichments, reasons)
	if err != nil {
		t.Fatalf("DraftMulti() error = %v", err)
	}
	for _, want := range []string{
		"MULTIPLE job opportunities",
		"Role 1: Product Manager at Qonto",
		"Role 2: Growth PM at Alan",
		"Why it fits: Product overlap",
		"Company funding: Raised €486M Series D, July 2021",
		"requires French language proficiency",
		"No French language requirement.",
		"Apply: https://alan.com/jobs/1",
	} {
		if !strings.Contains(gen.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDraftMultiSingleJobFallsBack(t *testing.T) {
	gen := &stubGenerator{response: "Hi"}
	_, err := New(gen, "").DraftMulti(context.Background(), testCandidate, []models.JobPosting{testJob}, nil, []string{"overlap"})
	if err != nil {
		t.Fatalf("DraftMulti() error = %v", err)
	}
	if strings.Contains(gen.prompt, "MULTIPLE") {
		t.Error("one-job bundle used the multi prompt")
	}
	if !strings.Contains(gen.prompt, "Match reason: overlap") {
		t.Error("single fallback dropped the match reason")
	}
}

func TestDraftMultiNoJobs(t *testing.T) {
	_, err := New(&stubGenerator{response: "Hi"}, "").DraftMulti(context.Background(), testCandidate, nil, nil, nil)
	if !errors.Is(err, ErrNoJob) {
		t.Fatalf("DraftMulti() error = %v, want ErrNoJob", err)
	}
}
