// Package history holds the process-wide conversation turn buffer. One
// buffer is shared by every user; reads filter by user ID. The buffer is
// bounded: the oldest turn is evicted once capacity is exceeded.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Turn is one completed exchange. It is constructed only after both the
// input and the output text exist, and never mutated afterwards.
type Turn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}

// Buffer is a mutex-guarded bounded FIFO of turns.
type Buffer struct {
	mu    sync.Mutex
	turns []Turn
	max   int
}

// NewBuffer creates a buffer holding at most max turns.
func NewBuffer(max int) *Buffer {
	if max < 1 {
		max = 1
	}
	return &Buffer{max: max}
}

// Append records a completed turn, evicting the oldest entries beyond
// capacity, and returns the stored turn.
func (b *Buffer) Append(userID, message, response string) Turn {
	turn := Turn{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Message:   message,
		Response:  response,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.turns = append(b.turns, turn)
	if len(b.turns) > b.max {
		b.turns = b.turns[len(b.turns)-b.max:]
	}
	return turn
}

// List returns turns in insertion order. A non-empty userID filters to
// that user; a positive limit keeps only the newest limit entries.
func (b *Buffer) List(userID string, limit int) []Turn {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Turn, 0, len(b.turns))
	for _, t := range b.turns {
		if userID != "" && t.UserID != userID {
			continue
		}
		out = append(out, t)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Clear removes one user's turns, preserving everyone else's order. An
// empty userID drops everything.
func (b *Buffer) Clear(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if userID == "" {
		b.turns = nil
		return
	}
	kept := b.turns[:0]
	for _, t := range b.turns {
		if t.UserID != userID {
			kept = append(kept, t)
		}
	}
	b.turns = kept
}

// Len returns the current number of stored turns.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.turns)
}

// Max returns the configured capacity.
func (b *Buffer) Max() int {
	return b.max
}
