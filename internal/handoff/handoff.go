// Package handoff implements the session transfer slot that carries a call
// or chat summary into another screen. Each visitor owns at most one pending
// value: a second Put overwrites the first, and Take reads-and-clears, so
// unrelated flows can never see each other's summaries.
package handoff

import (
	"errors"
	"time"

	"fairvio/backend/internal/storage"
)

// Store is the slice of storage the slot needs.
type Store interface {
	SetHandoff(key, value string, ttl time.Duration) error
	TakeHandoff(key string) (string, error)
}

// Slot is the single-value transfer mailbox, keyed by visitor session.
type Slot struct {
	store Store
	ttl   time.Duration
}

func NewSlot(store Store, ttl time.Duration) *Slot {
	return &Slot{store: store, ttl: ttl}
}

// Put stores a summary for the visitor, replacing any pending one.
func (s *Slot) Put(key, summary string) error {
	if summary == "" {
		return nil
	}
	return s.store.SetHandoff(key, summary, s.ttl)
}

// Take returns the pending summary and clears the slot. The second return
// is false when no value was pending.
func (s *Slot) Take(key string) (string, bool, error) {
	value, err := s.store.TakeHandoff(key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
