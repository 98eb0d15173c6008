package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frenchtechupdates/talent-match/internal/llm"
	"github.com/frenchtechupdates/talent-match/internal/models"
)

// ErrNoCompany is returned when Enrich is called without a company name.
var ErrNoCompany = fmt.Errorf("no company provided")

// ErrUnparseable is returned when the model reply contains no enrichment
// payload.
var ErrUnparseable = fmt.Errorf("no enrichment found in model response")

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// CompanyLookup resolves a company against the funding table.
type CompanyLookup interface {
	Lookup(ctx context.Context, company string) (models.FundingRecord, bool)
}

// Enricher builds a company profile from the funding table plus the model's
// own knowledge.
type Enricher struct {
	llm     TextGenerator
	funding CompanyLookup
}

// New returns an Enricher over the given model client and funding lookup.
func New(g TextGenerator, funding CompanyLookup) *Enricher {
	return &Enricher{llm: g, funding: funding}
}

// Enrich profiles one company in the context of a specific job. The second
// return is the funding-table row the company resolved to, nil when absent.
// InFrenchDB on the result always reflects that lookup, whatever the model
// claimed.
func (e *Enricher) Enrich(ctx context.Context, company, jobTitle, jobDescription string) (models.Enrichment, *models.FundingRecord, error) {
	if strings.TrimSpace(company) == "" {
		return models.Enrichment{}, nil, ErrNoCompany
	}

	var match *models.FundingRecord
	if rec, ok := e.funding.Lookup(ctx, company); ok {
		match = &rec
	}

	response, err := e.llm.GenerateContent(ctx, buildEnrichmentPrompt(company, jobTitle, jobDescription, match))
	if err != nil {
		return models.Enrichment{}, nil, fmt.Errorf("failed to get model response: %w", err)
	}

	payload, ok := llm.ExtractObject(response)
	if !ok {
		return models.Enrichment{}, nil, ErrUnparseable
	}

	var enrichment models.Enrichment
	if err := json.Unmarshal([]byte(payload), &enrichment); err != nil {
		return models.Enrichment{}, nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	enrichment.InFrenchDB = match != nil
	return enrichment, match, nil
}

func buildEnrichmentPrompt(company, jobTitle, jobDescription string, match *models.FundingRecord) string {
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	role := jobTitle
	if role == "" {
		role = "this role"
	}

	fundingLine := "Not found in funding DB"
	if match != nil {
		fundingLine = fmt.Sprintf("Found — raised %s (%s), industry: %s, description: %s",
			match.Raised, match.Date, match.Industry, match.Description)
	}

	var sb strings.Builder
	sb.WriteString("You are enriching company data for a talent matching tool focused on the French tech ecosystem.\n\n")
	fmt.Fprintf(&sb, "Company: %s\n", company)
	fmt.Fprintf(&sb, "Job title: %s\n", orNA(jobTitle))
	fmt.Fprintf(&sb, "Job description: %s\n\n", orNA(jobDescription))
	fmt.Fprintf(&sb, "French Tech funding database match: %s\n\n", fundingLine)
	sb.WriteString("Return enrichment in 5 structured sections as ONLY valid JSON:\n\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"in_french_db\": true | false,\n")
	sb.WriteString("  \"funding_info\": \"From DB if matched, otherwise best knowledge — amount, round, date (e.g. 'Raised €12M Series A, March 2024'). If unknown write null.\",\n")
	sb.WriteString("  \"stage\": \"Seed / Series A / B / C / Late Stage / Public / Unknown\",\n")
	sb.WriteString("  \"glassdoor_rating\": \"e.g. '4.1/5 (230 reviews)' — only if you have reasonable confidence, else null\",\n")
	sb.WriteString("  \"glassdoor_snippets\": [\"2-3 short representative employee quotes or recurring themes from reviews — actual snippets if known, else null\"],\n")
	sb.WriteString("  \"review_sentiment\": \"1-2 sentence summary of employee culture and sentiment\",\n")
	fmt.Fprintf(&sb, "  \"salary_signal\": \"MANDATORY — always provide a range. For the specific role '%s' at this company in this market. Format: '€X–Yk base + [equity/bonus note]'. If uncertain, give a market estimate with 'est.' prefix.\",\n", role)
	sb.WriteString("  \"headcount\": \"approximate team size and growth trajectory (e.g. '~200 people, growing fast post-Series B')\",\n")
	sb.WriteString("  \"language_requirement\": \"Required | Not required | Unknown — whether French language is required for this role. Base this on the job description and company context (French-only companies usually require French).\",\n")
	sb.WriteString("  \"vibe_summary\": \"2 sentences on mission and day-to-day culture\",\n")
	sb.WriteString("  \"industry\": \"primary industry\",\n")
	sb.WriteString("  \"founded\": \"year founded if known\",\n")
	sb.WriteString("  \"hq\": \"headquarters city\"\n")
	sb.WriteString("}\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- salary_signal is MANDATORY — always fill it, use market estimates with 'est.' if needed\n")
	sb.WriteString("- language_requirement must always be one of: 'Required' | 'Not required' | 'Unknown'\n")
	sb.WriteString("- in_french_db must be true if the funding DB match was found, false otherwise\n")
	sb.WriteString("- Use null only for fields where you truly have no signal")

	return sb.String()
}
