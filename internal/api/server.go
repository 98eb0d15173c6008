package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frenchtechupdates/talent-match/internal/draft"
	"github.com/frenchtechupdates/talent-match/internal/enrich"
	"github.com/frenchtechupdates/talent-match/internal/extract"
	"github.com/frenchtechupdates/talent-match/internal/match"
	"github.com/frenchtechupdates/talent-match/internal/models"
	"github.com/frenchtechupdates/talent-match/internal/roster"
)

const adminTokenHeader = "X-Admin-Token"

// Public signup throttle: 3 submissions per source address per 10 minutes.
const (
	submitLimit  = 3
	submitWindow = 10 * time.Minute
)

// RosterStore is the roster read/write surface the handlers need.
type RosterStore interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, sub roster.Submission) (string, error)
}

// JobExtractor parses pasted text into postings.
type JobExtractor interface {
	ExtractJobs(ctx context.Context, rawText string) ([]models.JobPosting, error)
}

// JobMatcher scores jobs against the roster.
type JobMatcher interface {
	Match(ctx context.Context, jobs []models.JobPosting, members []models.Member, companies []models.FundingRecord) ([]models.JobPosting, []models.Match, error)
}

// CompanyEnricher profiles one company.
type CompanyEnricher interface {
	Enrich(ctx context.Context, company, jobTitle, jobDescription string) (models.Enrichment, *models.FundingRecord, error)
}

// EmailComposer drafts outreach emails.
type EmailComposer interface {
	DraftSingle(ctx context.Context, cand draft.Candidate, job models.JobPosting, enrichment *models.Enrichment, matchReason string) (string, error)
	DraftMulti(ctx context.Context, cand draft.Candidate, jobs []models.JobPosting, enrichments []*models.Enrichment, reasons []string) (string, error)
}

// FundingSource supplies known-company context for matching.
type FundingSource interface {
	Records(ctx context.Context) []models.FundingRecord
}

// Server handles HTTP requests for the admin workflow and the public
// signup form.
type Server struct {
	adminPassword string
	roster        RosterStore
	extractor     JobExtractor
	matcher       JobMatcher
	enricher      CompanyEnricher
	composer      EmailComposer
	funding       FundingSource
	limiter       *rateLimiter
	logger        *slog.Logger
}

// NewServer wires the handlers. funding may be nil; logger may be nil.
func NewServer(adminPassword string, store RosterStore, extractor JobExtractor, matcher JobMatcher, enricher CompanyEnricher, composer EmailComposer, funding FundingSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		adminPassword: adminPassword,
		roster:        store,
		extractor:     extractor,
		matcher:       matcher,
		enricher:      enricher,
		composer:      composer,
		funding:       funding,
		limiter:       newRateLimiter(submitLimit, submitWindow),
		logger:        logger,
	}
}

// Router returns the HTTP router.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth", s.handleAuth)
	mux.HandleFunc("GET /api/members", s.requireAdmin(s.handleMembers))
	mux.HandleFunc("POST /api/submit", s.handleSubmit)
	mux.HandleFunc("POST /api/parse-jobs", s.requireAdmin(s.handleParseJobs))
	mux.HandleFunc("POST /api/run-matching", s.requireAdmin(s.handleRunMatching))
	mux.HandleFunc("POST /api/enrich", s.requireAdmin(s.handleEnrich))
	mux.HandleFunc("POST /api/draft-email", s.requireAdmin(s.handleDraftEmail))
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.loggingMiddleware(mux)
}

func (s *Server) tokenValid(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.adminPassword)) == 1
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.tokenValid(r.Header.Get(adminTokenHeader)) {
			s.respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !s.tokenValid(req.Password) {
		s.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.roster.ListMembers(r.Context())
	if err != nil {
		s.logger.Error("roster fetch failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch members")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"members": members})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.allow(clientAddr(r)) {
		s.respondError(w, http.StatusTooManyRequests, "Too many submissions, please try again later")
		return
	}

	var sub roster.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := s.roster.CreateMember(r.Context(), sub)
	if err != nil {
		s.respondForError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"success": true, "id": id})
}

func (s *Server) handleParseJobs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JobText string `json:"jobText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.JobText) == "" {
		s.respondError(w, http.StatusBadRequest, "No job text provided")
		return
	}

	jobs, err := s.extractor.ExtractJobs(r.Context(), req.JobText)
	if err != nil {
		s.respondForError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleRunMatching(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Jobs    []models.JobPosting `json:"jobs"`
		Members []models.Member     `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var companies []models.FundingRecord
	if s.funding != nil {
		companies = s.funding.Records(r.Context())
	}

	jobs, matches, err := s.matcher.Match(r.Context(), req.Jobs, req.Members, companies)
	if err != nil {
		s.respondForError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs, "matches": matches})
}

// enrichResponse flattens the enrichment fields and echoes the funding
// table row the company resolved to.
type enrichResponse struct {
	models.Enrichment
	FundingDBMatch *models.FundingRecord `json:"fundingDbMatch"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Company        string `json:"company"`
		JobTitle       string `json:"jobTitle"`
		JobDescription string `json:"jobDescription"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enrichment, fundingMatch, err := s.enricher.Enrich(r.Context(), req.Company, req.JobTitle, req.JobDescription)
	if err != nil {
		s.respondForError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, enrichResponse{Enrichment: enrichment, FundingDBMatch: fundingMatch})
}

func (s *Server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Candidate      draft.Candidate      `json:"candidate"`
		Job            *models.JobPosting   `json:"job"`
		Jobs           []models.JobPosting  `json:"jobs"`
		Enrichment     *models.Enrichment   `json:"enrichment"`
		Enrichments    []*models.Enrichment `json:"enrichments"`
		MatchReason    string               `json:"matchReason"`
		MatchReasons   []string             `json:"matchReasons"`
		RequiresFrench string               `json:"requiresFrench"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Candidate.Name == "" {
		s.respondError(w, http.StatusBadRequest, "Missing candidate data")
		return
	}

	var email string
	var err error
	if len(req.Jobs) > 1 {
		email, err = s.composer.DraftMulti(r.Context(), req.Candidate, req.Jobs, req.Enrichments, req.MatchReasons)
	} else {
		job := req.Job
		if job == nil && len(req.Jobs) == 1 {
			job = &req.Jobs[0]
		}
		if job == nil {
			s.respondError(w, http.StatusBadRequest, "Missing job data")
			return
		}
		if req.RequiresFrench != "" {
			job.RequiresFrench = models.FrenchRequirement(req.RequiresFrench)
		}
		email, err = s.composer.DraftSingle(r.Context(), req.Candidate, *job, req.Enrichment, req.MatchReason)
	}
	if err != nil {
		s.respondForError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"email": email})
}

// respondForError maps domain errors onto status codes: validation and
// precondition failures are 400, everything else 500.
func (s *Server) respondForError(w http.ResponseWriter, err error) {
	var ve *roster.ValidationError
	switch {
	case errors.As(err, &ve):
		s.respondError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, match.ErrNoJobs),
		errors.Is(err, match.ErrNoCandidates),
		errors.Is(err, enrich.ErrNoCompany),
		errors.Is(err, draft.ErrNoCandidate),
		errors.Is(err, draft.ErrNoJob):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnparseable),
		errors.Is(err, match.ErrUnparseable),
		errors.Is(err, enrich.ErrUnparseable):
		s.logger.Error("model response unparseable", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to parse model response")
	case errors.Is(err, draft.ErrEmptyDraft):
		s.logger.Error("draft generation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to generate email")
	case errors.Is(err, roster.ErrUpstream):
		s.logger.Error("roster store failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Roster store unavailable")
	default:
		s.logger.Error("request failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// respondError sends an error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", clientAddr(r),
			"duration", time.Since(start),
		)
	})
}
