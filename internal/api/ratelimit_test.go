package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterSlidingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rl := newRateLimiter(3, 10*time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("fourth attempt allowed within window")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("other address blocked")
	}

	// Oldest entry ages out, freeing exactly one slot.
	now = now.Add(10*time.Minute + time.Second)
	if !rl.allow("1.2.3.4") {
		t.Error("attempt blocked after window expiry")
	}
}

func TestClientAddr(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/submit", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := clientAddr(r); got != "10.0.0.1" {
		t.Errorf("clientAddr = %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	if got := clientAddr(r); got != "203.0.113.7" {
		t.Errorf("clientAddr = %q, want first forwarded hop", got)
	}
}
