// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang     string
	Words    int
	Duration int
	CapsPct  float64
	PunctPct float64
	PunctSet string
	Top      int
	Nickname string
}

// BoardConfig defines filters and options for leaderboard output.
type BoardConfig struct {
	Lang  string
	Since *time.Time
	Top   int
}

// CompletedWord is one finalized slot of the target sequence.
type CompletedWord struct {
	Word    string
	Correct bool
}

// Metrics are derived from the completed words of a session.
type Metrics struct {
	WPM      int
	CPM      int
	Accuracy int
}

// Phase is the lifecycle state of a typing session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseExpired
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of session state for rendering.
type Snapshot struct {
	SessionID string
	Phase     Phase
	Target    []string
	Completed []CompletedWord
	Cursor    int
	Pending   string
	Mismatch  bool
	Remaining int
	Duration  int
	Metrics   Metrics
}

// Submission is a finished result the user asked to share.
type Submission struct {
	Nickname    string
	Metrics     Metrics
	Lang        string
	DurationSec int
}

// LeaderboardEntry is a persisted result.
type LeaderboardEntry struct {
	ID          string
	Nickname    string
	WPM         int
	CPM         int
	Accuracy    int
	Lang        string
	DurationSec int
	Timestamp   time.Time
}
