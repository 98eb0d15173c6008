package enrich

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
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

type stubLookup struct {
	record models.FundingRecord
	found  bool
}

func (s *stubLookup) Lookup(ctx context.Context, company string) (models.FundingRecord, bool) {
	return s.record, s.found
}

const enrichmentJSON = `{
  "in_french_db": false,
  "funding_info": "Raised €486M Series D, July 2021",
  "stage": "Late Stage",
  "review_sentiment": "Generally positive.",
  "salary_signal": "€70–90k base + equity",
  "headcount": "~1500 people",
  "language_requirement": "Not required",
  "vibe_summary": "Mission driven fintech.",
  "industry": "Fintech",
  "founded": "2016",
  "hq": "Paris"
}`

func TestEnrichRequiresCompany(t *testing.T) {
	e := New(&stubGenerator{}, &stubLookup{})
	_, _, err := e.Enrich(context.Background(), "  ", "PM", "")
	if !errors.Is(err, ErrNoCompany) {
		t.Fatalf("Enrich() error = %v, want ErrNoCompany", err)
	}
}

func TestEnrichForcesDBFlagFromLookup(t *testing.T) {
	// The model says false but the funding table has the company; the
	// lookup outcome wins.
	gen := &stubGenerator{response: enrichmentJSON}
	lookup := &stubLookup{
		record: models.FundingRecord{Name: "Qonto", Raised: "€486M", Industry: "Fintech", Date: "July 2021"},
		found:  true,
	}

	enrichment, match, err := New(gen, lookup).Enrich(context.Background(), "Qonto", "PM", "desc")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if !enrichment.InFrenchDB {
		t.Error("InFrenchDB = false despite funding table hit")
	}
	if match == nil || match.Name != "Qonto" {
		t.Errorf("match = %+v, want Qonto record", match)
	}
	if !strings.Contains(gen.prompt, "Found — raised €486M") {
		t.Error("prompt missing funding table context")
	}
}

func TestEnrichNoLookupMatch(t *testing.T) {
	gen := &stubGenerator{response: strings.Replace(enrichmentJSON, `"in_french_db": false`, `"in_french_db": true`, 1)}
	enrichment, match, err := New(gen, &stubLookup{}).Enrich(context.Background(), "Mistral", "", "")
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	if enrichment.InFrenchDB {
		t.Error("InFrenchDB = true despite funding table miss")
	}
	if match != nil {
		t.Errorf("match = %+v, want nil", match)
	}
	if !strings.Contains(gen.prompt, "Not found in funding DB") {
		t.Error("prompt missing not-found context")
	}
	if enrichment.SalarySignal != "€70–90k base + equity" {
		t.Errorf("salary signal = %q", enrichment.SalarySignal)
	}
}

func TestEnrichUnparseableResponse(t *testing.T) {
	gen := &stubGenerator{response: "I have no information on this company."}
	_, _, err := New(gen, &stubLookup{}).Enrich(context.Background(), "Acme", "", "")
	if !errors.Is(err, ErrUnparseable) {
		t.Fatalf("Enrich() error = %v, want ErrUnparseable", err)
	}
}
