// Package reconcile holds the user's in-progress decisions between OCR
// extraction and committed inventory mutation. Entries live only for the
// duration of one OCR session and are discarded after submission.
package reconcile

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/invtrack/inventory-golang/internal/models"
	"github.com/invtrack/inventory-golang/internal/ocr"
)

// Action is the user's decision for one entry.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionIgnore Action = "ignore"
)

// Entry is one user-editable working record of the session.
// Invariant: Action == "update" requires a non-nil LinkedItemID.
type Entry struct {
	TempID       string  `json:"temp_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Vendor       string  `json:"vendor,omitempty"`
	Action       Action  `json:"action"`
	LinkedItemID *int64  `json:"linked_item_id,omitempty"`
	MatchScore   float64 `json:"match_score"`
}

// BatchResult is the aggregate outcome of one submission. Submission is
// never atomic: every entry is applied independently, and the result is
// returned even when every entry failed so the caller can retry only the
// failed subset.
type BatchResult struct {
	ItemsAdded     int               `json:"items_added"`
	ItemsUpdated   int               `json:"items_updated"`
	ItemsIgnored   int               `json:"items_ignored"`
	SucceededCount int               `json:"succeeded_count"`
	FailedCount    int               `json:"failed_count"`
	PerEntryErrors map[string]string `json:"errors,omitempty"` // keyed by temp_id
}

// ItemStore is the slice of the inventory store the session writes to.
type ItemStore interface {
	CreateItem(name string, quantity float64, unit string, vendor string, userID int64) (*models.Item, error)
	UpdateItemQuantity(id int64, quantity float64, userID int64) (*models.Item, error)
}

// ErrSubmitInProgress is returned when Submit is called while a previous
// batch for the same session is still outstanding.
var ErrSubmitInProgress = errors.New("a submission for this session is already in progress")

// Session is the working set of proposed mutations for one OCR upload.
type Session struct {
	mu         sync.Mutex
	entries    []*Entry
	byTempID   map[string]*Entry
	submitting bool
}

// NewSession seeds a session from the matcher's output: one entry per
// candidate, each with a fresh temp ID and a default action derived from
// the match suggestion.
func NewSession(candidates []ocr.CandidateLineItem, matches []ocr.MatchResult) *Session {
	s := &Session{byTempID: make(map[string]*Entry)}

	for i, candidate := range candidates {
		entry := &Entry{
			TempID:   uuid.New().String(),
			Name:     candidate.Name,
			Quantity: candidate.Quantity,
			Unit:     candidate.Unit,
			Vendor:   candidate.Vendor,
			Action:   ActionAdd,
		}
		// A linked match flips the default to "update".
		if i < len(matches) {
			m := matches[i]
			entry.MatchScore = m.Score
			if m.SuggestedAction == ocr.ActionUpdate && m.MatchedItemID != nil {
				entry.Action = ActionUpdate
				id := *m.MatchedItemID
				entry.LinkedItemID = &id
			}
		}
		s.entries = append(s.entries, entry)
		s.byTempID[entry.TempID] = entry
	}

	return s
}

// NewSessionFromEntries rebuilds a session from entries a client edited
// and sent back. Entries without a temp ID get a fresh one.
func NewSessionFromEntries(entries []Entry) *Session {
	s := &Session{byTempID: make(map[string]*Entry)}
	for i := range entries {
		entry := entries[i]
		if entry.TempID == "" {
			entry.TempID = uuid.New().String()
		}
		e := &entry
		s.entries = append(s.entries, e)
		s.byTempID[e.TempID] = e
	}
	return s
}

// Entries returns a snapshot copy of the current working set.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out
}

// SetAction changes the action for one entry. Unknown temp IDs are a
// silent no-op, as is switching to "update" on an entry with no linked
// inventory item (the UI disables that transition; this is the backstop).
func (s *Session) SetAction(tempID string, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.byTempID[tempID]
	if !ok {
		return
	}
	switch action {
	case ActionAdd, ActionIgnore:
		entry.Action = action
	case ActionUpdate:
		if entry.LinkedItemID != nil {
			entry.Action = action
		}
	}
}

// SetQuantity updates the proposed quantity for one entry, coercing raw
// user input to a non-negative number. Unknown temp IDs are a no-op.
func (s *Session) SetQuantity(tempID string, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.byTempID[tempID]; ok {
		entry.Quantity = CoerceQuantity(raw)
	}
}

// CoerceQuantity turns free-form quantity input into a usable value:
// anything non-numeric or negative becomes 0.
func CoerceQuantity(raw string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || q < 0 {
		return 0
	}
	return q
}

// Submit applies the working set as a batch: "ignore" entries are dropped
// and every remaining entry is applied independently against the store.
// Per-entry failures are collected, never thrown; the aggregate result is
// always returned, even when every entry failed. A second concurrent call
// for the same session is rejected with ErrSubmitInProgress.
//
// Submitting the same batch twice duplicates its "add" entries: there is
// no dedup key. That matches the system this replaces and callers must not
// rely on resubmission being safe.
func (s *Session) Submit(store ItemStore, userID int64) (BatchResult, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return BatchResult{}, ErrSubmitInProgress
	}
	s.submitting = true
	snapshot := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		snapshot = append(snapshot, *e)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	result := BatchResult{PerEntryErrors: make(map[string]string)}

	for _, entry := range snapshot {
		switch entry.Action {
		case ActionIgnore:
			result.ItemsIgnored++

		case ActionAdd:
			if _, err := store.CreateItem(entry.Name, entry.Quantity, entry.Unit, entry.Vendor, userID); err != nil {
				result.FailedCount++
				result.PerEntryErrors[entry.TempID] = err.Error()
				continue
			}
			result.ItemsAdded++
			result.SucceededCount++

		case ActionUpdate:
			if entry.LinkedItemID == nil {
				result.FailedCount++
				result.PerEntryErrors[entry.TempID] = "update entry has no linked inventory item"
				continue
			}
			if _, err := store.UpdateItemQuantity(*entry.LinkedItemID, entry.Quantity, userID); err != nil {
				result.FailedCount++
				result.PerEntryErrors[entry.TempID] = err.Error()
				continue
			}
			result.ItemsUpdated++
			result.SucceededCount++

		default:
			// Unknown actions are treated like "ignore" rather than failing
			// the batch.
			result.ItemsIgnored++
		}
	}

	if len(result.PerEntryErrors) == 0 {
		result.PerEntryErrors = nil
	}
	return result, nil
}
