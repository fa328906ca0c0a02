package engine

import (
	"errors"
	"unicode"
)

// KeyKind classifies a keyboard event.
type KeyKind int

const (
	KeyRunes KeyKind = iota
	KeySpace
	KeyBackspace
	KeySelectAll
)

// Key is a keyboard event delivered to the input processor.
type Key struct {
	Kind  KeyKind
	Runes []rune
}

// Outcome describes what a key did to the session.
type Outcome struct {
	Changed   bool
	Committed bool
	Err       error
}

// HandleKey applies a key event to the session following the word-boundary protocol.
// Suppressed events report their reason in Outcome.Err and leave the session untouched.
func HandleKey(s *Session, key Key) Outcome {
	if s.expired {
		return Outcome{Err: ErrSessionExpired}
	}
	switch key.Kind {
	case KeySelectAll:
		return Outcome{}
	case KeySpace:
		return handleSpace(s)
	case KeyBackspace:
		return handleBackspace(s)
	case KeyRunes:
		return handleRunes(s, key.Runes)
	default:
		return Outcome{}
	}
}

func handleSpace(s *Session) Outcome {
	if err := s.CommitWord(s.pending); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Changed: true, Committed: true}
}

func handleBackspace(s *Session) Outcome {
	runes := []rune(s.pending)
	if len(runes) == 0 {
		return Outcome{}
	}
	if err := s.ApplyInputChange(string(runes[:len(runes)-1])); err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Changed: true}
}

// handleRunes processes a batch (typing or paste); whitespace inside it acts as space.
func handleRunes(s *Session, runes []rune) Outcome {
	var out Outcome
	rejected := false
	for _, r := range runes {
		var step Outcome
		if unicode.IsSpace(r) {
			step = handleSpace(s)
		} else {
			step = Outcome{Changed: true}
			if err := s.ApplyInputChange(s.pending + string(r)); err != nil {
				step = Outcome{Err: err}
			}
		}
		out.Changed = out.Changed || step.Changed
		out.Committed = out.Committed || step.Committed
		switch {
		case errors.Is(step.Err, ErrInvalidSeparator):
			rejected = true
		case step.Err != nil:
			out.Err = step.Err
		}
		if errors.Is(step.Err, ErrSessionExpired) {
			break
		}
	}
	if rejected && !out.Changed && out.Err == nil {
		out.Err = ErrInvalidSeparator
	}
	return out
}
