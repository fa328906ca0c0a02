// Package engine implements the typing session scoring engine.
package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"
)

// DefaultDuration is the session window in seconds.
const DefaultDuration = 60

// WordSource supplies the target sequence for a session.
type WordSource interface {
	Generate(count int) []string
}

// Session holds progress through the target sequence and the timer.
// It is not safe for concurrent use; Runner serializes access.
type Session struct {
	id        string
	target    []string
	completed []model.CompletedWord
	pending   string
	mismatch  bool
	started   bool
	expired   bool
	remaining int
	duration  int
}

// NewSession returns an idle session over target. Non-positive durations use DefaultDuration.
func NewSession(target []string, duration int) *Session {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Session{
		id:        uuid.New().String(),
		target:    append([]string(nil), target...),
		remaining: duration,
		duration:  duration,
	}
}

// Reset returns a fresh session with the same duration and a new ID.
func (s *Session) Reset(target []string) *Session {
	return NewSession(target, s.duration)
}

// ID identifies this session instance.
func (s *Session) ID() string {
	return s.id
}

// Cursor returns the index of the word being typed.
func (s *Session) Cursor() int {
	return len(s.completed)
}

// Remaining returns the seconds left in the window.
func (s *Session) Remaining() int {
	return s.remaining
}

// Pending returns the current partial input.
func (s *Session) Pending() string {
	return s.pending
}

// Phase reports the lifecycle state.
func (s *Session) Phase() model.Phase {
	switch {
	case s.expired:
		return model.PhaseExpired
	case s.started:
		return model.PhaseRunning
	default:
		return model.PhaseIdle
	}
}

// ApplyInputChange replaces the pending input and starts the session.
func (s *Session) ApplyInputChange(raw string) error {
	if s.expired {
		return ErrSessionExpired
	}
	s.started = true
	s.pending = raw
	s.mismatch = s.computeMismatch()
	return nil
}

// CommitWord finalizes the word at the cursor with the given input.
func (s *Session) CommitWord(current string) error {
	if s.expired {
		return ErrSessionExpired
	}
	typed := strings.TrimSpace(current)
	if typed == "" {
		return ErrInvalidSeparator
	}
	cursor := len(s.completed)
	if cursor >= len(s.target) {
		return ErrSequenceExhausted
	}
	word := s.target[cursor]
	s.completed = append(s.completed, model.CompletedWord{Word: word, Correct: word == typed})
	s.pending = ""
	s.mismatch = false
	return nil
}

// Tick advances the countdown by one second. It reports whether state changed.
func (s *Session) Tick() bool {
	if s.expired {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.expired = true
		s.started = false
	}
	return true
}

// Metrics computes the current metrics from the completed words.
func (s *Session) Metrics() model.Metrics {
	return ComputeMetrics(s.completed)
}

// Snapshot returns a deep copy of the session for rendering.
func (s *Session) Snapshot() model.Snapshot {
	return model.Snapshot{
		SessionID: s.id,
		Phase:     s.Phase(),
		Target:    append([]string(nil), s.target...),
		Completed: append([]model.CompletedWord(nil), s.completed...),
		Cursor:    len(s.completed),
		Pending:   s.pending,
		Mismatch:  s.mismatch,
		Remaining: s.remaining,
		Duration:  s.duration,
		Metrics:   s.Metrics(),
	}
}

func (s *Session) computeMismatch() bool {
	typed := strings.TrimSpace(s.pending)
	cursor := len(s.completed)
	if cursor >= len(s.target) {
		return typed != ""
	}
	return !strings.HasPrefix(s.target[cursor], typed)
}
