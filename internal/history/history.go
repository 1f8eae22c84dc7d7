// Package history provides the bounded, append-only conversation history used
// as disambiguating context for remote translation calls.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"translator-go/internal/store"
	"translator-go/internal/types"

	"github.com/sirupsen/logrus"
)

// Entry is one completed translation turn. Entries are immutable once
// appended; insertion order is conversation order.
type Entry struct {
	Direction      types.Direction `json:"direction"`
	SourceText     string          `json:"source_text"`
	TranslatedText string          `json:"translated_text"`
	Sequence       int64           `json:"sequence"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Service stores per-session conversation histories in the in-memory store.
// Each session is bounded to the configured limit; appending beyond it evicts
// the oldest entry. Idle sessions expire after the session TTL.
type Service struct {
	store      store.Store
	limit      int
	sessionTTL time.Duration
}

// NewService creates a history service.
func NewService(s store.Store, cfg types.HistoryConfig) *Service {
	return &Service{
		store:      s,
		limit:      cfg.Limit,
		sessionTTL: cfg.SessionTTL,
	}
}

// Limit returns the configured maximum entry count per session.
func (s *Service) Limit() int {
	return s.limit
}

// Append records a completed translation turn for a session, trims the
// session to the configured limit and refreshes its TTL.
func (s *Service) Append(sessionID string, entry Entry) error {
	key := sessionKey(sessionID)

	sequence, err := s.nextSequence(key)
	if err != nil {
		return fmt.Errorf("failed to determine next sequence: %w", err)
	}
	entry.Sequence = sequence
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	if err := s.store.RPush(key, payload); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	// Oldest entries fall off the front when the session overflows.
	if err := s.store.LTrim(key, int64(-s.limit), -1); err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if err := s.store.Expire(key, s.sessionTTL); err != nil && err != store.ErrNotFound {
		logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Warn("Failed to refresh session TTL")
	}

	return nil
}

// Entries returns the session's history in chronological order, oldest first.
// Unknown sessions yield an empty history.
func (s *Service) Entries(sessionID string) ([]Entry, error) {
	payloads, err := s.store.LRange(sessionKey(sessionID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]Entry, 0, len(payloads))
	for _, payload := range payloads {
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			// A corrupt entry is dropped rather than failing the whole
			// session read.
			logrus.WithFields(logrus.Fields{"session": sessionID, "error": err}).Warn("Dropping undecodable history entry")
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// nextSequence returns the sequence for the session's next entry. The counter
// keeps climbing across evictions: it continues from the newest stored entry,
// not from the list length, which stops growing once the session is full.
func (s *Service) nextSequence(key string) (int64, error) {
	payloads, err := s.store.LRange(key, -1, -1)
	if err != nil {
		return 0, err
	}
	if len(payloads) == 0 {
		return 0, nil
	}

	var last Entry
	if err := json.Unmarshal(payloads[len(payloads)-1], &last); err != nil {
		// Undecodable tail entry; fall back to the list length so appends
		// keep working for the session.
		logrus.WithFields(logrus.Fields{"key": key, "error": err}).Warn("Undecodable newest history entry, deriving sequence from length")
		return s.store.LLen(key)
	}
	return last.Sequence + 1, nil
}

// Clear removes a session's history entirely.
func (s *Service) Clear(sessionID string) error {
	return s.store.Delete(sessionKey(sessionID))
}

func sessionKey(sessionID string) string {
	return "history:" + sessionID
}
