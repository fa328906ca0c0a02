package engine

import "errors"

// Session errors. None of them are fatal; callers suppress or log them.
var (
	ErrInvalidSeparator  = errors.New("separator with empty word")
	ErrSequenceExhausted = errors.New("target sequence exhausted")
	ErrSessionExpired    = errors.New("session expired")
	ErrInputBacklog      = errors.New("key buffer full")
)
