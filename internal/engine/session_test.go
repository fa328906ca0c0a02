package engine

import (
	"errors"
	"testing"

	"github.com/verte-zerg/typesprint/internal/model"
)

func typeWord(t *testing.T, s *Session, word string) {
	t.Helper()
	if out := HandleKey(s, Key{Kind: KeyRunes, Runes: []rune(word)}); out.Err != nil {
		t.Fatalf("type %q: %v", word, out.Err)
	}
	if out := HandleKey(s, Key{Kind: KeySpace}); out.Err != nil {
		t.Fatalf("commit %q: %v", word, out.Err)
	}
}

func checkSessionState(t *testing.T, s *Session) {
	t.Helper()
	if s.Cursor() != len(s.completed) {
		t.Fatalf("cursor %d != completed %d", s.Cursor(), len(s.completed))
	}
	if s.Cursor() < 0 || s.Cursor() > len(s.target) {
		t.Fatalf("cursor %d out of range [0,%d]", s.Cursor(), len(s.target))
	}
	if s.Remaining() < 0 {
		t.Fatalf("remaining went negative: %d", s.Remaining())
	}
}

func TestThreeWordRun(t *testing.T) {
	s := NewSession([]string{"the", "quick", "fox"}, 60)
	typeWord(t, s, "the")
	typeWord(t, s, "quick")
	typeWord(t, s, "fax")
	checkSessionState(t, s)

	want := []model.CompletedWord{{Word: "the", Correct: true}, {Word: "quick", Correct: true}, {Word: "fox", Correct: false}}
	if len(s.completed) != len(want) {
		t.Fatalf("expected %d completed words, got %d", len(want), len(s.completed))
	}
	for i := range want {
		if s.completed[i] != want[i] {
			t.Fatalf("word %d: expected %+v, got %+v", i, want[i], s.completed[i])
		}
	}
	m := s.Metrics()
	if m.WPM != 2 || m.Accuracy != 67 || m.CPM != 8 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestApplyInputChangeStartsSession(t *testing.T) {
	s := NewSession([]string{"alpha"}, 10)
	if s.Phase() != model.PhaseIdle {
		t.Fatalf("expected idle, got %s", s.Phase())
	}
	if err := s.ApplyInputChange("al"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Phase() != model.PhaseRunning {
		t.Fatalf("expected running, got %s", s.Phase())
	}
	if s.Pending() != "al" || s.Cursor() != 0 {
		t.Fatalf("unexpected state pending=%q cursor=%d", s.Pending(), s.Cursor())
	}
}

func TestMismatchFlag(t *testing.T) {
	s := NewSession([]string{"alpha"}, 10)
	_ = s.ApplyInputChange("alp")
	if s.Snapshot().Mismatch {
		t.Fatalf("expected prefix to match")
	}
	_ = s.ApplyInputChange("alx")
	if !s.Snapshot().Mismatch {
		t.Fatalf("expected mismatch for non-prefix")
	}
	_ = s.ApplyInputChange("alphas")
	if !s.Snapshot().Mismatch {
		t.Fatalf("expected mismatch for overlong input")
	}
}

func TestCommitWordTrimsInput(t *testing.T) {
	s := NewSession([]string{"alpha", "beta"}, 10)
	if err := s.CommitWord("  alpha "); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !s.completed[0].Correct {
		t.Fatalf("expected trimmed input to match")
	}
	if s.Pending() != "" {
		t.Fatalf("expected pending cleared, got %q", s.Pending())
	}
}

func TestCommitWordEmptyIsRejected(t *testing.T) {
	s := NewSession([]string{"alpha"}, 10)
	if err := s.CommitWord("   "); !errors.Is(err, ErrInvalidSeparator) {
		t.Fatalf("expected ErrInvalidSeparator, got %v", err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor moved on empty commit")
	}
}

func TestCommitWordSequenceExhausted(t *testing.T) {
	s := NewSession([]string{"one"}, 10)
	if err := s.CommitWord("one"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	_ = s.ApplyInputChange("two")
	if err := s.CommitWord("two"); !errors.Is(err, ErrSequenceExhausted) {
		t.Fatalf("expected ErrSequenceExhausted, got %v", err)
	}
	checkSessionState(t, s)
	if s.Cursor() != 1 || s.Pending() != "two" {
		t.Fatalf("state mutated on exhausted commit: cursor=%d pending=%q", s.Cursor(), s.Pending())
	}
	if !s.Snapshot().Mismatch {
		t.Fatalf("expected mismatch past the end of the sequence")
	}
}

func TestTickCountsDownToExpiry(t *testing.T) {
	s := NewSession([]string{"a"}, 3)
	_ = s.ApplyInputChange("a")
	for want := 2; want >= 1; want-- {
		if !s.Tick() {
			t.Fatalf("expected tick to apply")
		}
		if s.Remaining() != want {
			t.Fatalf("expected remaining %d, got %d", want, s.Remaining())
		}
		if s.Phase() != model.PhaseRunning {
			t.Fatalf("expected running at %d", want)
		}
	}
	s.Tick()
	if s.Remaining() != 0 || s.Phase() != model.PhaseExpired {
		t.Fatalf("expected expired at zero, got remaining=%d phase=%s", s.Remaining(), s.Phase())
	}
	if s.started {
		t.Fatalf("expected started cleared on expiry")
	}
}

func TestTickAfterExpiryIsNoop(t *testing.T) {
	s := NewSession([]string{"a", "b"}, 1)
	typeWord(t, s, "a")
	s.Tick()
	before := s.Snapshot()
	if s.Tick() {
		t.Fatalf("expected tick after expiry to be ignored")
	}
	after := s.Snapshot()
	if before.Remaining != after.Remaining || before.Phase != after.Phase || len(before.Completed) != len(after.Completed) {
		t.Fatalf("state changed after expiry: %+v -> %+v", before, after)
	}
}

func TestExpiredSessionRejectsMutations(t *testing.T) {
	s := NewSession([]string{"a", "b"}, 1)
	_ = s.ApplyInputChange("b")
	s.Tick()
	if err := s.ApplyInputChange("bb"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if err := s.CommitWord("b"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if s.Pending() != "b" || s.Cursor() != 0 {
		t.Fatalf("expired session mutated: pending=%q cursor=%d", s.Pending(), s.Cursor())
	}
}

func TestResetRoundTrip(t *testing.T) {
	old := NewSession([]string{"x"}, 5)
	typeWord(t, old, "x")
	s := old.Reset([]string{"a", "b", "c"})
	if s.ID() == old.ID() {
		t.Fatalf("expected a new session id")
	}
	if s.Remaining() != 5 {
		t.Fatalf("expected duration carried over, got %d", s.Remaining())
	}
	for i := 0; i < 5; i++ {
		s.Tick()
		checkSessionState(t, s)
	}
	if s.Phase() != model.PhaseExpired {
		t.Fatalf("expected expired after full duration, got %s", s.Phase())
	}
	snap := s.Snapshot()
	if len(snap.Completed) != 0 || snap.Metrics.Accuracy != 0 {
		t.Fatalf("unexpected final snapshot: %+v", snap)
	}
}

func TestNewSessionDefaultsDuration(t *testing.T) {
	s := NewSession(nil, 0)
	if s.Remaining() != DefaultDuration {
		t.Fatalf("expected default duration, got %d", s.Remaining())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	target := []string{"a", "b"}
	s := NewSession(target, 10)
	target[0] = "z"
	typeWord(t, s, "a")
	snap := s.Snapshot()
	snap.Completed[0].Word = "mutated"
	snap.Target[1] = "mutated"
	if s.completed[0].Word != "a" || s.target[1] != "b" || s.target[0] != "a" {
		t.Fatalf("snapshot or constructor aliased session state")
	}
}
