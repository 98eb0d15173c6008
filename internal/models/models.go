package models

// WorkType is the work arrangement reported for a job posting.
type WorkType string

const (
	WorkHybrid  WorkType = "Hybrid"
	WorkRemote  WorkType = "Remote"
	WorkOnSite  WorkType = "On-site"
	WorkUnknown WorkType = "Unknown"
)

// FrenchRequirement says whether a posting requires French proficiency.
type FrenchRequirement string

const (
	FrenchYes     FrenchRequirement = "yes"
	FrenchNo      FrenchRequirement = "no"
	FrenchUnknown FrenchRequirement = "unknown"
)

// FitLevel rates one scoring dimension of a match.
type FitLevel string

const (
	FitHigh   FitLevel = "High"
	FitMedium FitLevel = "Medium"
	FitLow    FitLevel = "Low"
)

// Valid reports whether f is one of the three known levels.
func (f FitLevel) Valid() bool {
	return f == FitHigh || f == FitMedium || f == FitLow
}

// Acceptable reports whether f qualifies for inclusion in the match set.
// Low on either dimension disqualifies a pair.
func (f FitLevel) Acceptable() bool {
	return f == FitHigh || f == FitMedium
}

// Confidence is the overall tier of a match.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// DeriveConfidence computes the overall tier from the two fit dimensions.
// High only when both dimensions are High; Medium when at least one is
// Medium and neither is Low; Low otherwise.
func DeriveConfidence(functionFit, industryFit FitLevel) Confidence {
	if functionFit == FitLow || industryFit == FitLow {
		return ConfidenceLow
	}
	if functionFit == FitHigh && industryFit == FitHigh {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

// Member is a talent-pool candidate sourced read-only from the roster store.
type Member struct {
	ID           string   `json:"id"`
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	LinkedInURL  string   `json:"linkedinUrl"`
	CurrentRole  string   `json:"currentRole"`
	RoleTypes    []string `json:"roleTypes"`
	Industries   []string `json:"industries"`
	CompanySizes []string `json:"companySizes"`
	LookingFor   string   `json:"lookingFor"`
}

// JobPosting is one extracted job listing. ID is empty during the
// parse-preview stage and assigned as an ordinal once matching runs.
type JobPosting struct {
	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title"`
	Company        string            `json:"company"`
	Location       string            `json:"location"`
	WorkType       WorkType          `json:"work_type"`
	Posted         string            `json:"posted,omitempty"`
	ApplyURL       string            `json:"apply_url,omitempty"`
	Description    string            `json:"description,omitempty"`
	RequiresFrench FrenchRequirement `json:"requires_french,omitempty"`
	Duplicate      bool              `json:"duplicate"`
}

// Match pairs a job with a candidate under the two-dimension rubric.
type Match struct {
	JobID         string     `json:"jobId"`
	CandidateName string     `json:"candidateName"`
	CandidateRole string     `json:"candidateRole"`
	Confidence    Confidence `json:"confidence"`
	FunctionFit   FitLevel   `json:"function_fit"`
	IndustryFit   FitLevel   `json:"industry_fit"`
	Reason        string     `json:"reason"`
}

// Enrichment is the narrative/financial profile authored by the model for
// one company. InFrenchDB always reflects the funding-table lookup outcome,
// never the model's own claim.
type Enrichment struct {
	InFrenchDB          bool     `json:"in_french_db"`
	FundingInfo         string   `json:"funding_info"`
	Stage               string   `json:"stage"`
	GlassdoorRating     string   `json:"glassdoor_rating"`
	GlassdoorSnippets   []string `json:"glassdoor_snippets"`
	ReviewSentiment     string   `json:"review_sentiment"`
	SalarySignal        string   `json:"salary_signal"`
	Headcount           string   `json:"headcount"`
	LanguageRequirement string   `json:"language_requirement"`
	VibeSummary         string   `json:"vibe_summary"`
	Industry            string   `json:"industry"`
	Founded             string   `json:"founded"`
	HQ                  string   `json:"hq"`
}

// FundingRecord is one row of the spreadsheet-backed funding table.
type FundingRecord struct {
	Name        string `json:"name"`
	Raised      string `json:"raised"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
	Date        string `json:"date"`
}
