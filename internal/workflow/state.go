// Package workflow owns the in-memory review state for one admin session:
// match cards, multi-candidate draft bundles, and their derived groupings.
// Mutations are applied synchronously by a single caller; the controller
// does no locking of its own.
package workflow

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frenchtechupdates/talent-match/internal/models"
)

var (
	ErrCardNotFound       = fmt.Errorf("match card not found")
	ErrMultiDraftNotFound = fmt.Errorf("multi draft not found")
)

// Card is one (job, candidate) pairing under review. The (Job.ID,
// Match.CandidateName) pair is its identity.
type Card struct {
	Job        models.JobPosting
	Match      models.Match
	Member     models.Member
	Enrichment *models.Enrichment
	EmailDraft string
	SentAt     time.Time
	Deleted    bool
}

// Active reports whether the card still belongs in the review queue.
func (c *Card) Active() bool { return !c.Deleted && c.SentAt.IsZero() }

// MultiDraft bundles several of one candidate's cards behind a single
// combined email. Identity is the candidate name plus the exact set of
// bundled job ids, order-independent.
type MultiDraft struct {
	ID            string
	CandidateName string
	CandidateRole string
	Member        models.Member
	Cards         []*Card
	EmailDraft    string
	SentAt        time.Time
	Deleted       bool
}

// Active reports whether the bundle still belongs in the review queue.
func (d *MultiDraft) Active() bool { return !d.Deleted && d.SentAt.IsZero() }

func (d *MultiDraft) jobIDSet() []string {
	ids := make([]string, len(d.Cards))
	for i, c := range d.Cards {
		ids[i] = c.Job.ID
	}
	slices.Sort(ids)
	return ids
}

// CandidateGroup is one candidate's active cards, in match order.
type CandidateGroup struct {
	Name  string
	Cards []*Card
}

// SentItem is one sent card or bundle in the sent listing.
type SentItem struct {
	Card   *Card
	Multi  *MultiDraft
	SentAt time.Time
}

// State is the workflow controller. Zero value is not usable; use New.
type State struct {
	cards       []*Card
	multiDrafts []*MultiDraft

	now   func() time.Time
	newID func() string
}

// New returns an empty controller.
func New() *State {
	return &State{now: time.Now, newID: uuid.NewString}
}

// LoadMatches replaces the whole review state with the matching run's
// output. Each match is joined with its posting by job id and with the
// roster by candidate name (case-insensitive); matches referencing an
// unknown job id are dropped.
func (s *State) LoadMatches(jobs []models.JobPosting, matches []models.Match, members []models.Member) {
	jobByID := make(map[string]models.JobPosting, len(jobs))
	for _, job := range jobs {
		jobByID[job.ID] = job
	}
	memberByName := make(map[string]models.Member, len(members))
	for _, m := range members {
		memberByName[strings.ToLower(m.FullName)] = m
	}

	s.cards = s.cards[:0]
	s.multiDrafts = s.multiDrafts[:0]
	for _, match := range matches {
		job, ok := jobByID[match.JobID]
		if !ok {
			continue
		}
		s.cards = append(s.cards, &Card{
			Job:    job,
			Match:  match,
			Member: memberByName[strings.ToLower(match.CandidateName)],
		})
	}
}

// Card finds a card by its identity key.
func (s *State) Card(jobID, candidateName string) (*Card, bool) {
	for _, c := range s.cards {
		if c.Job.ID == jobID && c.Match.CandidateName == candidateName {
			return c, true
		}
	}
	return nil, false
}

// SetEnrichment attaches an enrichment to every non-deleted card sharing
// jobID. The fan-out is synchronous; one enrichment record serves all
// candidates matched to the same posting.
func (s *State) SetEnrichment(jobID string, enrichment models.Enrichment) error {
	updated := 0
	for _, c := range s.cards {
		if c.Job.ID == jobID && !c.Deleted {
			e := enrichment
			c.Enrichment = &e
			updated++
		}
	}
	if updated == 0 {
		return fmt.Errorf("%w: job %s", ErrCardNotFound, jobID)
	}
	return nil
}

// SetDraft stores draft text on a card. Overwriting is always allowed,
// including after sending; only a successful generation or a manual edit
// reaches this point.
func (s *State) SetDraft(jobID, candidateName, text string) error {
	c, ok := s.Card(jobID, candidateName)
	if !ok {
		return fmt.Errorf("%w: job %s candidate %s", ErrCardNotFound, jobID, candidateName)
	}
	c.EmailDraft = text
	return nil
}

// MarkSent stamps a card as sent. Sending is irreversible; calling it
// again is a no-op that keeps the original timestamp.
func (s *State) MarkSent(jobID, candidateName string) error {
	c, ok := s.Card(jobID, candidateName)
	if !ok {
		return fmt.Errorf("%w: job %s candidate %s", ErrCardNotFound, jobID, candidateName)
	}
	if c.SentAt.IsZero() {
		c.SentAt = s.now()
	}
	return nil
}

// SoftDelete flags a card as deleted, removing it from every active view
// while keeping it in memory.
func (s *State) SoftDelete(jobID, candidateName string) error {
	c, ok := s.Card(jobID, candidateName)
	if !ok {
		return fmt.Errorf("%w: job %s candidate %s", ErrCardNotFound, jobID, candidateName)
	}
	c.Deleted = true
	return nil
}

// MultiDraftFor returns the bundle for candidateName over exactly jobIDs,
// reusing an existing live bundle with the same job-id set or creating a
// new one. Every id must resolve to one of the candidate's non-deleted
// cards.
func (s *State) MultiDraftFor(candidateName string, jobIDs []string) (*MultiDraft, error) {
	if len(jobIDs) == 0 {
		return nil, fmt.Errorf("%w: empty job set for %s", ErrCardNotFound, candidateName)
	}

	cards := make([]*Card, 0, len(jobIDs))
	for _, id := range jobIDs {
		c, ok := s.Card(id, candidateName)
		if !ok || c.Deleted {
			return nil, fmt.Errorf("%w: job %s candidate %s", ErrCardNotFound, id, candidateName)
		}
		cards = append(cards, c)
	}

	wanted := slices.Clone(jobIDs)
	slices.Sort(wanted)
	for _, d := range s.multiDrafts {
		if !d.Deleted && d.CandidateName == candidateName && slices.Equal(d.jobIDSet(), wanted) {
			return d, nil
		}
	}

	draft := &MultiDraft{
		ID:            s.newID(),
		CandidateName: candidateName,
		CandidateRole: cards[0].Match.CandidateRole,
		Member:        cards[0].Member,
		Cards:         cards,
	}
	s.multiDrafts = append(s.multiDrafts, draft)
	return draft, nil
}

// MultiDraftByID finds a bundle by id.
func (s *State) MultiDraftByID(id string) (*MultiDraft, bool) {
	for _, d := range s.multiDrafts {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// SetMultiDraft stores combined email text on a bundle.
func (s *State) SetMultiDraft(id, text string) error {
	d, ok := s.MultiDraftByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMultiDraftNotFound, id)
	}
	d.EmailDraft = text
	return nil
}

// MarkMultiSent stamps a bundle as sent, keeping the first timestamp on
// repeat calls.
func (s *State) MarkMultiSent(id string) error {
	d, ok := s.MultiDraftByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMultiDraftNotFound, id)
	}
	if d.SentAt.IsZero() {
		d.SentAt = s.now()
	}
	return nil
}

// SoftDeleteMulti flags a bundle as deleted.
func (s *State) SoftDeleteMulti(id string) error {
	d, ok := s.MultiDraftByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMultiDraftNotFound, id)
	}
	d.Deleted = true
	return nil
}

// DraftAll partitions the active cards by candidate and creates one bundle
// per group that does not already have a live bundle over the identical
// job-id set. It returns only the newly created bundles.
func (s *State) DraftAll() []*MultiDraft {
	var created []*MultiDraft
	for _, group := range s.GroupByCandidate() {
		ids := make([]string, len(group.Cards))
		for i, c := range group.Cards {
			ids[i] = c.Job.ID
		}
		slices.Sort(ids)

		exists := false
		for _, d := range s.multiDrafts {
			if !d.Deleted && d.CandidateName == group.Name && slices.Equal(d.jobIDSet(), ids) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}

		draft := &MultiDraft{
			ID:            s.newID(),
			CandidateName: group.Name,
			CandidateRole: group.Cards[0].Match.CandidateRole,
			Member:        group.Cards[0].Member,
			Cards:         group.Cards,
		}
		s.multiDrafts = append(s.multiDrafts, draft)
		created = append(created, draft)
	}
	return created
}

// GroupByCandidate returns the active cards grouped by candidate name in
// first-seen order.
func (s *State) GroupByCandidate() []CandidateGroup {
	index := make(map[string]int)
	var groups []CandidateGroup
	for _, c := range s.cards {
		if !c.Active() {
			continue
		}
		name := c.Match.CandidateName
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CandidateGroup{Name: name})
		}
		groups[i].Cards = append(groups[i].Cards, c)
	}
	return groups
}

// Pending lists active cards and bundles that have no draft yet.
func (s *State) Pending() ([]*Card, []*MultiDraft) {
	var cards []*Card
	for _, c := range s.cards {
		if c.Active() && c.EmailDraft == "" {
			cards = append(cards, c)
		}
	}
	var drafts []*MultiDraft
	for _, d := range s.multiDrafts {
		if d.Active() && d.EmailDraft == "" {
			drafts = append(drafts, d)
		}
	}
	return cards, drafts
}

// DraftsReady lists active cards and bundles whose draft is written but
// not yet sent.
func (s *State) DraftsReady() ([]*Card, []*MultiDraft) {
	var cards []*Card
	for _, c := range s.cards {
		if c.Active() && c.EmailDraft != "" {
			cards = append(cards, c)
		}
	}
	var drafts []*MultiDraft
	for _, d := range s.multiDrafts {
		if d.Active() && d.EmailDraft != "" {
			drafts = append(drafts, d)
		}
	}
	return cards, drafts
}

// Sent lists everything sent and not deleted, newest first.
func (s *State) Sent() []SentItem {
	var items []SentItem
	for _, c := range s.cards {
		if !c.Deleted && !c.SentAt.IsZero() {
			items = append(items, SentItem{Card: c, SentAt: c.SentAt})
		}
	}
	for _, d := range s.multiDrafts {
		if !d.Deleted && !d.SentAt.IsZero() {
			items = append(items, SentItem{Multi: d, SentAt: d.SentAt})
		}
	}
	slices.SortStableFunc(items, func(a, b SentItem) int {
		return b.SentAt.Compare(a.SentAt)
	})
	return items
}

// DiscardPending soft-deletes every active card and bundle that has no
// draft, returning how many were discarded.
func (s *State) DiscardPending() int {
	n := 0
	for _, c := range s.cards {
		if c.Active() && c.EmailDraft == "" {
			c.Deleted = true
			n++
		}
	}
	for _, d := range s.multiDrafts {
		if d.Active() && d.EmailDraft == "" {
			d.Deleted = true
			n++
		}
	}
	return n
}
