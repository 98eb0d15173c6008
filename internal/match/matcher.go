package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frenchtechupdates/talent-match/internal/llm"
	"github.com/frenchtechupdates/talent-match/internal/models"
)

// Precondition errors, checked locally before any model call.
var (
	ErrNoJobs       = fmt.Errorf("no jobs provided")
	ErrNoCandidates = fmt.Errorf("no candidates provided")
)

// ErrUnparseable is returned when the model reply contains no match payload.
var ErrUnparseable = fmt.Errorf("no match list found in model response")

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Matcher scores jobs against the talent-pool roster through the model,
// enforcing the two-dimension rubric on whatever comes back.
type Matcher struct {
	llm    TextGenerator
	logger *slog.Logger
}

// New returns a Matcher. logger may be nil.
func New(g TextGenerator, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{llm: g, logger: logger}
}

// memberContext is the candidate projection sent to the model.
type memberContext struct {
	Name         string   `json:"name"`
	CurrentRole  string   `json:"currentRole"`
	RoleTypes    []string `json:"roleTypes"`
	Industries   []string `json:"industries"`
	CompanySizes []string `json:"companySizes"`
	LookingFor   string   `json:"lookingFor"`
}

// Match scores every (job, member) pair and returns the jobs with their
// assigned ordinal ids plus the qualifying matches. companies is optional
// known-company context for the model.
func (m *Matcher) Match(ctx context.Context, jobs []models.JobPosting, members []models.Member, companies []models.FundingRecord) ([]models.JobPosting, []models.Match, error) {
	if len(jobs) == 0 {
		return nil, nil, ErrNoJobs
	}
	if len(members) == 0 {
		return nil, nil, ErrNoCandidates
	}

	// Stable ordinal ids; these survive for the rest of the session.
	withIDs := make([]models.JobPosting, len(jobs))
	for i, job := range jobs {
		job.ID = fmt.Sprintf("job_%d", i+1)
		withIDs[i] = job
	}

	prompt, err := buildMatchingPrompt(withIDs, members, companies)
	if err != nil {
		return nil, nil, err
	}

	response, err := m.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get model response: %w", err)
	}

	payload, ok := llm.ExtractObject(response)
	if !ok {
		return nil, nil, ErrUnparseable
	}

	var parsed struct {
		Matches []models.Match `json:"matches"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	matches := make([]models.Match, 0, len(parsed.Matches))
	for _, match := range parsed.Matches {
		if match.JobID == "" || match.CandidateName == "" {
			m.logger.Warn("dropping match with missing identity", "jobId", match.JobID, "candidate", match.CandidateName)
			continue
		}
		// Filtering is expected upstream; anything below Medium on either
		// dimension is a contract violation, logged and dropped.
		if !match.FunctionFit.Acceptable() || !match.IndustryFit.Acceptable() {
			m.logger.Warn("dropping match violating fit rubric",
				"jobId", match.JobID,
				"candidate", match.CandidateName,
				"functionFit", match.FunctionFit,
				"industryFit", match.IndustryFit,
			)
			continue
		}
		match.Confidence = models.DeriveConfidence(match.FunctionFit, match.IndustryFit)
		matches = append(matches, match)
	}

	return withIDs, matches, nil
}

func buildMatchingPrompt(jobs []models.JobPosting, members []models.Member, companies []models.FundingRecord) (string, error) {
	jobsJSON, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal jobs: %w", err)
	}

	memberCtx := make([]memberContext, len(members))
	for i, mem := range members {
		memberCtx[i] = memberContext{
			Name:         mem.FullName,
			CurrentRole:  mem.CurrentRole,
			RoleTypes:    mem.RoleTypes,
			Industries:   mem.Industries,
			CompanySizes: mem.CompanySizes,
			LookingFor:   mem.LookingFor,
		}
	}
	membersJSON, err := json.Marshal(memberCtx)
	if err != nil {
		return "", fmt.Errorf("marshal members: %w", err)
	}

	if companies == nil {
		companies = []models.FundingRecord{}
	}
	companiesJSON, err := json.Marshal(companies)
	if err != nil {
		return "", fmt.Errorf("marshal companies: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are a strict talent matching assistant for a French Tech newsletter talent pool. Your job is to surface only genuinely strong matches — not stretch fits.\n\n")
	sb.WriteString("Here are structured job listings:\n<jobs>\n")
	sb.Write(jobsJSON)
	sb.WriteString("\n</jobs>\n\n")
	sb.WriteString("Here are our talent pool members:\n<members>\n")
	sb.Write(membersJSON)
	sb.WriteString("\n</members>\n\n")
	sb.WriteString("Known companies database (for context):\n<companies>\n")
	sb.Write(companiesJSON)
	sb.WriteString("\n</companies>\n\n")
	sb.WriteString("MATCHING RULES — follow strictly:\n")
	sb.WriteString("1. FUNCTION-FIRST: The job function must match the candidate's role type list. A Marketing Manager is not a match for a Product role. A Software Engineer is not a match for a Sales role.\n")
	sb.WriteString("2. NO STRETCH ROLES: Only include candidates whose current role or stated roleTypes directly overlap with the job. Do not include \"could learn\" or \"has adjacent experience\" unless they explicitly listed that role type.\n")
	sb.WriteString("3. TWO-DIMENSION SCORING — rate both separately:\n")
	sb.WriteString("   - function_fit: how well the job function matches their role type (\"High\" | \"Medium\" | \"Low\")\n")
	sb.WriteString("   - industry_fit: how well the company's industry matches their stated industries (\"High\" | \"Medium\" | \"Low\")\n")
	sb.WriteString("   - Only include matches where BOTH function_fit AND industry_fit are \"Medium\" or \"High\"\n")
	sb.WriteString("4. DISQUALIFY if: the candidate is overqualified by 2+ levels, the industry is entirely outside their listed interests, or the company size is incompatible with their stated companySizes preference.\n\n")
	sb.WriteString("For each INCLUDED match provide:\n")
	sb.WriteString("- jobId: the job's id field\n")
	sb.WriteString("- candidateName: exact name from members list\n")
	sb.WriteString("- candidateRole: their current role\n")
	sb.WriteString("- confidence: \"High\" (both dims High) | \"Medium\" (at least one Medium, none Low)\n")
	sb.WriteString("- function_fit: \"High\" | \"Medium\"\n")
	sb.WriteString("- industry_fit: \"High\" | \"Medium\"\n")
	sb.WriteString("- reason: one sentence — cite specific role type + industry alignment\n\n")
	sb.WriteString("Return ONLY valid JSON:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"matches\": [\n")
	sb.WriteString("    {\n")
	sb.WriteString("      \"jobId\": \"job_1\",\n")
	sb.WriteString("      \"candidateName\": \"...\",\n")
	sb.WriteString("      \"candidateRole\": \"...\",\n")
	sb.WriteString("      \"confidence\": \"High|Medium\",\n")
	sb.WriteString("      \"function_fit\": \"High|Medium\",\n")
	sb.WriteString("      \"industry_fit\": \"High|Medium\",\n")
	sb.WriteString("      \"reason\": \"...\"\n")
	sb.WriteString("    }\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}")

	return sb.String(), nil
}
