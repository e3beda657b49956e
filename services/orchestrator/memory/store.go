// Package memory implements the windowed per-user conversation store.
//
// History is in-process only: conversational context does not survive a
// restart. The store is the relay's single piece of shared mutable state and
// serializes all mutations behind one mutex, which keeps per-user append
// order consistent under concurrent webhook deliveries.
package memory

import (
	"sync"

	"github.com/tidewaterlabs/supportrelay/services/orchestrator/datatypes"
)

// MaxTurns caps the number of retained turns per user. Oldest entries are
// evicted first (FIFO windowing, not importance-based).
const MaxTurns = 4

// Store keeps a bounded message log per user identifier.
type Store struct {
	mu        sync.Mutex
	histories map[string][]datatypes.Message
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{histories: make(map[string][]datatypes.Message)}
}

// GetHistory returns a copy of the user's trimmed history, oldest first.
// Unknown users get an empty history.
func (s *Store) GetHistory(userID string) []datatypes.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.histories[userID]
	if len(history) == 0 {
		return nil
	}
	out := make([]datatypes.Message, len(history))
	copy(out, history)
	return out
}

// AddMessage appends one turn and trims the history to the most recent
// MaxTurns entries.
func (s *Store) AddMessage(userID, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.histories[userID], datatypes.Message{Role: role, Content: content})
	if len(history) > MaxTurns {
		trimmed := make([]datatypes.Message, MaxTurns)
		copy(trimmed, history[len(history)-MaxTurns:])
		history = trimmed
	}
	s.histories[userID] = history
}

// Clear removes all history for the user. A later GetHistory recreates an
// empty sequence.
func (s *Store) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.histories, userID)
}
