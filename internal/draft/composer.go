package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/frenchtechupdates/talent-match/internal/models"
)

// ErrNoCandidate is returned when the candidate payload is missing a name.
var ErrNoCandidate = fmt.Errorf("missing candidate data")

// ErrNoJob is returned when no job is supplied to draft against.
var ErrNoJob = fmt.Errorf("missing job data")

// ErrEmptyDraft is returned when the model produced no usable email text.
// Callers keep any previously stored draft when they see this.
var ErrEmptyDraft = fmt.Errorf("model returned an empty draft")

// DefaultSignoff is the newsletter author's first name.
const DefaultSignoff = "James"

// TextGenerator produces free text for a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Candidate is the slice of a member the email prompts need.
type Candidate struct {
	Name        string   `json:"name"`
	CurrentRole string   `json:"currentRole"`
	LookingFor  string   `json:"lookingFor"`
	RoleTypes   []string `json:"roleTypes"`
	Industries  []string `json:"industries"`
}

// Composer writes outreach emails in the newsletter author's voice.
type Composer struct {
	llm     TextGenerator
	signoff string
}

// New returns a Composer. An empty signoff falls back to DefaultSignoff.
func New(g TextGenerator, signoff string) *Composer {
	if signoff == "" {
		signoff = DefaultSignoff
	}
	return &Composer{llm: g, signoff: signoff}
}

// DraftSingle writes a one-job email. enrichment may be nil.
func (c *Composer) DraftSingle(ctx context.Context, cand Candidate, job models.JobPosting, enrichment *models.Enrichment, matchReason string) (string, error) {
	if cand.Name == "" {
		return "", ErrNoCandidate
	}
	if job.Title == "" && job.Company == "" {
		return "", ErrNoJob
	}
	return c.generate(ctx, c.singlePrompt(cand, job, enrichment, matchReason))
}

// DraftMulti writes one email covering several jobs for the same candidate.
// enrichments and reasons are positional with jobs; either may be shorter,
// missing entries just omit that context.
func (c *Composer) DraftMulti(ctx context.Context, cand Candidate, jobs []models.JobPosting, enrichments []*models.Enrichment, reasons []string) (string, error) {
	if cand.Name == "" {
		return "", ErrNoCandidate
	}
	if len(jobs) == 0 {
		return "", ErrNoJob
	}
	if len(jobs) == 1 {
		var enrichment *models.Enrichment
		if len(enrichments) > 0 {
			enrichment = enrichments[0]
		}
		reason := ""
		if len(reasons) > 0 {
			reason = reasons[0]
		}
		return c.DraftSingle(ctx, cand, jobs[0], enrichment, reason)
	}
	return c.generate(ctx, c.multiPrompt(cand, jobs, enrichments, reasons))
}

func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	response, err := c.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to get model response: %w", err)
	}
	email := strings.TrimSpace(response)
	if email == "" {
		return "", ErrEmptyDraft
	}
	return email, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (c *Composer) candidateBlock(sb *strings.Builder, cand Candidate) {
	sb.WriteString("Candidate:\n")
	fmt.Fprintf(sb, "- Name: %s\n", cand.Name)
	fmt.Fprintf(sb, "- Current role: %s\n", cand.CurrentRole)
	fmt.Fprintf(sb, "- Looking for: %s\n", orDefault(cand.LookingFor, "not specified"))
	fmt.Fprintf(sb, "- Interested in: %s\n", strings.Join(cand.RoleTypes, ", "))
	fmt.Fprintf(sb, "- Industries: %s\n", strings.Join(cand.Industries, ", "))
}

func (c *Composer) singlePrompt(cand Candidate, job models.JobPosting, enrichment *models.Enrichment, matchReason string) string {
	var sb strings.Builder
	sb.WriteString("You are writing a personalized email on behalf of the French Tech Updates newsletter author — a connector and community builder in the French startup ecosystem.\n\n")
	sb.WriteString("Write a warm, direct, first-person email to a specific candidate about a job opportunity. The tone should feel personal, like a message from a trusted friend who thinks of you, not a recruiting blast.\n\n")
	c.candidateBlock(&sb, cand)
	sb.WriteString("\nJob opportunity:\n")
	fmt.Fprintf(&sb, "- Title: %s\n", job.Title)
	fmt.Fprintf(&sb, "- Company: %s\n", job.Company)
	fmt.Fprintf(&sb, "- Location: %s\n", job.Location)
	fmt.Fprintf(&sb, "- Work type: %s\n", job.WorkType)
	fmt.Fprintf(&sb, "- French language required: %s\n", orDefault(string(job.RequiresFrench), "unknown"))
	fmt.Fprintf(&sb, "- Description: %s\n", orDefault(job.Description, "N/A"))
	fmt.Fprintf(&sb, "- Apply URL: %s\n", orDefault(job.ApplyURL, "N/A"))
	fmt.Fprintf(&sb, "\nMatch reason: %s\n\n", orDefault(matchReason, "Strong profile alignment"))

	if enrichment != nil {
		sb.WriteString("Company enrichment:\n")
		fmt.Fprintf(&sb, "- Glassdoor: %s\n", orDefault(enrichment.GlassdoorRating, "N/A"))
		fmt.Fprintf(&sb, "- Review sentiment: %s\n", orDefault(enrichment.ReviewSentiment, "N/A"))
		fmt.Fprintf(&sb, "- Funding: %s\n", orDefault(enrichment.FundingInfo, "N/A"))
		fmt.Fprintf(&sb, "- Salary signal: %s\n", orDefault(enrichment.SalarySignal, "N/A"))
		fmt.Fprintf(&sb, "- Headcount: %s\n", orDefault(enrichment.Headcount, "N/A"))
		fmt.Fprintf(&sb, "- Vibe: %s\n", orDefault(enrichment.VibeSummary, "N/A"))
	} else {
		sb.WriteString("No enrichment data available.\n")
	}

	sb.WriteString("\nWrite the email following this structure:\n")
	sb.WriteString("1. Warm opener using their first name + acknowledging their current role (1-2 sentences)\n")
	sb.WriteString("2. \"I came across a role I think could be interesting for you\" framing (1 sentence)\n")
	sb.WriteString("3. Job summary — what it is, where, how they work (2-3 lines, no buzzwords)\n")
	sb.WriteString("4. Why it matches their stated interests (2-3 sentences, specific)\n")
	sb.WriteString("5. Company context using enrichment if available — ALWAYS mention the company's last funding round and date if known (e.g. \"They raised €X in [month year]\"). Include Glassdoor/salary signal if meaningful. If French language is required (\"yes\"), mention it naturally (e.g. \"Worth noting this role is French-speaking\").\n")
	sb.WriteString("6. Apply link on its own line — use the URL if provided, otherwise write [INSERT APPLY LINK]\n")
	sb.WriteString("7. Personal sign-off\n\n")
	sb.WriteString("Under 280 words. No subject line. Start directly with the opener.\n")
	fmt.Fprintf(&sb, "Sign off as: %q\n\n", c.signoff)
	sb.WriteString("Return ONLY the email text, no extra commentary.")

	return sb.String()
}

func (c *Composer) multiPrompt(cand Candidate, jobs []models.JobPosting, enrichments []*models.Enrichment, reasons []string) string {
	var roles strings.Builder
	for i, job := range jobs {
		var enrichment *models.Enrichment
		if i < len(enrichments) {
			enrichment = enrichments[i]
		}
		reason := ""
		if i < len(reasons) {
			reason = reasons[i]
		}
		if i > 0 {
			roles.WriteString("\n\n")
		}
		fmt.Fprintf(&roles, "Role %d: %s at %s\n", i+1, job.Title, job.Company)
		fmt.Fprintf(&roles, "- Location: %s · %s\n", job.Location, job.WorkType)
		fmt.Fprintf(&roles, "- Why it fits: %s\n", reason)
		if job.Description != "" {
			fmt.Fprintf(&roles, "- About the role: %s\n", job.Description)
		}
		if enrichment != nil {
			if enrichment.FundingInfo != "" {
				fmt.Fprintf(&roles, "- Company funding: %s\n", enrichment.FundingInfo)
			}
			if enrichment.VibeSummary != "" {
				fmt.Fprintf(&roles, "- Vibe: %s\n", enrichment.VibeSummary)
			}
			if enrichment.SalarySignal != "" {
				fmt.Fprintf(&roles, "- Salary: %s\n", enrichment.SalarySignal)
			}
		}
		switch job.RequiresFrench {
		case models.FrenchYes:
			roles.WriteString("- Language: ⚠️ Note: This role likely requires French language proficiency.\n")
		case models.FrenchNo:
			roles.WriteString("- Language: No French language requirement.\n")
		}
		if job.ApplyURL != "" {
			fmt.Fprintf(&roles, "- Apply: %s\n", job.ApplyURL)
		}
	}

	var sb strings.Builder
	sb.WriteString("You are writing a personalized email on behalf of the French Tech Updates newsletter author — a connector and community builder in the French startup ecosystem.\n\n")
	sb.WriteString("Write a warm, direct, first-person email to a candidate sharing MULTIPLE job opportunities you think could interest them. The tone should feel like a message from a trusted friend, not a recruiter blast.\n\n")
	c.candidateBlock(&sb, cand)
	sb.WriteString("\nRoles to share:\n")
	sb.WriteString(roles.String())
	sb.WriteString("\nWrite the email following this structure:\n")
	sb.WriteString("1. Warm opener using their first name — acknowledge their current role (1-2 sentences)\n")
	sb.WriteString("2. \"I came across a few roles I think could be interesting for you\" framing (1 sentence)\n")
	sb.WriteString("3. For each role: a short paragraph — what it is, why it fits them, key context (2-3 sentences each). ALWAYS include: the company's last funding round and date if available (e.g. \"They raised €X in [month year]\"). If a role has a language note (⚠️ French required), mention it naturally (e.g. \"Worth noting this role is French-speaking\"). End each role's paragraph with the apply link on its own line — use the URL if provided, otherwise write [INSERT APPLY LINK].\n")
	sb.WriteString("4. Brief closing — encourage them to reach out if any catch their eye\n")
	sb.WriteString("5. Warm personal sign-off\n\n")
	sb.WriteString("Keep it under 400 words. No subject line. Start directly with the opener.\n")
	fmt.Fprintf(&sb, "Sign off as: %q\n\n", c.signoff)
	sb.WriteString("Return ONLY the email text, no extra commentary.")

	return sb.String()
}
