package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frenchtechupdates/talent-match/internal/llm"
	"github.com/frenchtechupdates/talent-match/internal/models"
)

// ErrUnparseable is returned when the model reply contains no recognizable
// job list. The admin retries manually; there is no automatic retry.
var ErrUnparseable = fmt.Errorf("no job list found in model response")

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Extractor turns raw pasted job-listing text into structured postings.
type Extractor struct {
	llm TextGenerator
}

// New returns an Extractor backed by the given model client.
func New(g TextGenerator) *Extractor {
	return &Extractor{llm: g}
}

// ExtractJobs parses raw pasted text into postings and flags duplicates.
func (e *Extractor) ExtractJobs(ctx context.Context, rawText string) ([]models.JobPosting, error) {
	response, err := e.llm.GenerateContent(ctx, buildExtractionPrompt(rawText))
	if err != nil {
		return nil, fmt.Errorf("failed to get model response: %w", err)
	}

	payload, ok := llm.ExtractArray(response)
	if !ok {
		return nil, ErrUnparseable
	}

	var jobs []models.JobPosting
	if err := json.Unmarshal([]byte(payload), &jobs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	for i, job := range jobs {
		if job.Title == "" || job.Company == "" {
			return nil, fmt.Errorf("%w: posting %d missing title or company", ErrUnparseable, i+1)
		}
	}

	FlagDuplicates(jobs)
	return jobs, nil
}

// dedupKey is the normalized identity of a posting for duplicate flagging.
type dedupKey struct {
	title   string
	company string
}

// FlagDuplicates marks every posting whose normalized (title, company) pair
// was already seen earlier in the list. The pass is pure over the ordered
// list: first occurrence stays unflagged, later repeats are flagged, order
// is never changed, and re-applying it yields identical flags.
func FlagDuplicates(jobs []models.JobPosting) {
	seen := make(map[dedupKey]bool, len(jobs))
	for i := range jobs {
		key := dedupKey{
			title:   strings.ToLower(strings.TrimSpace(jobs[i].Title)),
			company: strings.ToLower(strings.TrimSpace(jobs[i].Company)),
		}
		jobs[i].Duplicate = seen[key]
		seen[key] = true
	}
}

func buildExtractionPrompt(rawText string) string {
	var sb strings.Builder

	sb.WriteString("You will receive raw copy-pasted text from LinkedIn job search results.\n")
	sb.WriteString("It is messy and contains duplicates, noise, and repeated text patterns.\n\n")
	sb.WriteString("Your job:\n")
	sb.WriteString("1. Extract every unique job listing\n")
	sb.WriteString("2. For each job return a JSON array with these fields:\n")
	sb.WriteString("   - title: clean job title, no duplicated text, no \"with verification\"\n")
	sb.WriteString("   - company: company name only\n")
	sb.WriteString("   - location: city + region e.g. \"Paris, Île-de-France\"\n")
	sb.WriteString("   - work_type: \"Hybrid\" | \"Remote\" | \"On-site\" | \"Unknown\"\n")
	sb.WriteString("   - posted: e.g. \"1 day ago\", \"Today\", \"Unknown\"\n")
	sb.WriteString("   - requires_french: \"yes\" | \"no\" | \"unknown\" — whether French language proficiency is required.\n")
	sb.WriteString("     Use \"yes\" if: job is at a French-only company, listing is in French, or description mentions \"French required/fluent/native\".\n")
	sb.WriteString("     Use \"no\" if: listing is in English and company is international/global.\n")
	sb.WriteString("     Use \"unknown\" if: cannot determine from available context.\n")
	sb.WriteString("3. Remove all noise: alumni lines, \"Viewed\", \"Easy Apply\",\n")
	sb.WriteString("   \"Within the past X hours\", \"with verification\", header/footer text\n")
	sb.WriteString("4. If same title + company appears with different locations, keep both,\n")
	sb.WriteString("   flag with duplicate: true\n")
	sb.WriteString("5. If identical in all fields, keep only one\n\n")
	sb.WriteString("Return only a valid JSON array. No explanation, no markdown.\n\n")
	sb.WriteString("Raw text:\n")
	sb.WriteString(rawText)

	return sb.String()
}
