package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/frenchtechupdates/talent-match/internal/models"
)

// ErrUpstream is returned when the roster store is unreachable or replies
// with a non-success status. Failures are terminal for the request; the
// caller reports them rather than retrying.
var ErrUpstream = fmt.Errorf("roster store unavailable")

// ValidationError describes a submission rejected before any network call.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const maxRecords = 200

// Client talks to the Airtable-backed roster store.
type Client struct {
	baseURL string
	baseID  string
	table   string
	apiKey  string
	http    *http.Client
}

// NewClient returns a roster client. httpClient may carry a timeout; nil
// falls back to http.DefaultClient.
func NewClient(baseURL, baseID, table, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		baseID:  baseID,
		table:   table,
		apiKey:  apiKey,
		http:    httpClient,
	}
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
}

// memberFields maps the store's column names onto a Member.
type memberFields struct {
	Name         string   `json:"Name"`
	Email        string   `json:"Email"`
	LinkedInURL  string   `json:"LinkedIn URL"`
	CurrentRole  string   `json:"Current Role"`
	RoleTypes    []string `json:"Role Types"`
	Industries   []string `json:"Industries"`
	CompanySizes []string `json:"Company Size"`
	LookingFor   string   `json:"Looking For"`
}

type record struct {
	ID     string       `json:"id"`
	Fields memberFields `json:"fields"`
}

// ListMembers fetches the talent-pool roster, capped at 200 records.
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	reqURL := fmt.Sprintf("%s?maxRecords=%d", c.tableURL(), maxRecords)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build roster request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body struct {
		Records []record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}

	members := make([]models.Member, 0, len(body.Records))
	for _, r := range body.Records {
		members = append(members, models.Member{
			ID:           r.ID,
			FullName:     r.Fields.Name,
			Email:        r.Fields.Email,
			LinkedInURL:  r.Fields.LinkedInURL,
			CurrentRole:  r.Fields.CurrentRole,
			RoleTypes:    r.Fields.RoleTypes,
			Industries:   r.Fields.Industries,
			CompanySizes: r.Fields.CompanySizes,
			LookingFor:   r.Fields.LookingFor,
		})
	}
	return members, nil
}

// Submission is a public signup for the talent pool.
type Submission struct {
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	LinkedInURL  string   `json:"linkedinUrl"`
	CurrentRole  string   `json:"currentRole"`
	RoleTypes    []string `json:"roleTypes"`
	Industries   []string `json:"industries"`
	CompanySizes []string `json:"companySizes"`
	LookingFor   string   `json:"lookingFor"`
}

// Validate checks required fields and email syntax before any network call.
func (s Submission) Validate() error {
	if s.FullName == "" || s.Email == "" || s.LinkedInURL == "" || s.CurrentRole == "" {
		return &ValidationError{Msg: "missing required fields"}
	}
	if !emailPattern.MatchString(s.Email) {
		return &ValidationError{Msg: "invalid email address"}
	}
	return nil
}

// CreateMember writes a validated submission to the roster store and
// returns the new record's id.
func (c *Client) CreateMember(ctx context.Context, sub Submission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"typecast": true,
		"fields": memberFields{
			Name:         sub.FullName,
			Email:        sub.Email,
			LinkedInURL:  sub.LinkedInURL,
			CurrentRole:  sub.CurrentRole,
			RoleTypes:    orEmpty(sub.RoleTypes),
			Industries:   orEmpty(sub.Industries),
			CompanySizes: orEmpty(sub.CompanySizes),
			LookingFor:   sub.LookingFor,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build roster request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	return created.ID, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
