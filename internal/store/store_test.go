package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestSubmitRejectsEmptyNickname(t *testing.T) {
	st := openTestStore(t)
	_, err := st.Submit(context.Background(), model.Submission{Nickname: "   ", Metrics: model.Metrics{WPM: 10}})
	if !errors.Is(err, ErrEmptyNickname) {
		t.Fatalf("expected ErrEmptyNickname, got %v", err)
	}
	entries, err := st.QueryTop(context.Background(), 10)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no stored entries, got %d", len(entries))
	}
}

func TestSubmitTrimsNickname(t *testing.T) {
	st := openTestStore(t)
	entry, err := st.Submit(context.Background(), model.Submission{
		Nickname:    "  ada ",
		Metrics:     model.Metrics{WPM: 40, CPM: 190, Accuracy: 95},
		Lang:        "en",
		DurationSec: 60,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.Nickname != "ada" || entry.ID == "" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	top, err := st.QueryTop(context.Background(), 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(top) != 1 || top[0].ID != entry.ID || top[0].CPM != 190 || top[0].DurationSec != 60 {
		t.Fatalf("unexpected stored entry: %+v", top)
	}
}

func TestQueryTopOrdersByCPM(t *testing.T) {
	st := openTestStore(t)
	st.now = fixedClock(time.Unix(0, 0))
	ctx := context.Background()
	subs := []model.Submission{
		{Nickname: "slow", Metrics: model.Metrics{WPM: 20, CPM: 90}},
		{Nickname: "fast", Metrics: model.Metrics{WPM: 50, CPM: 260}},
		{Nickname: "tie-early", Metrics: model.Metrics{WPM: 40, CPM: 200}},
		{Nickname: "tie-late", Metrics: model.Metrics{WPM: 40, CPM: 200}},
		{Nickname: "tie-more-words", Metrics: model.Metrics{WPM: 45, CPM: 200}},
	}
	for _, sub := range subs {
		if _, err := st.Submit(ctx, sub); err != nil {
			t.Fatalf("submit %s: %v", sub.Nickname, err)
		}
	}
	top, err := st.QueryTop(ctx, 4)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	want := []string{"fast", "tie-more-words", "tie-early", "tie-late"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(top))
	}
	for i, name := range want {
		if top[i].Nickname != name {
			t.Fatalf("rank %d: expected %s, got %s", i+1, name, top[i].Nickname)
		}
	}
}

func TestListResultsFilters(t *testing.T) {
	st := openTestStore(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st.now = fixedClock(start)
	ctx := context.Background()
	for _, lang := range []string{"en", "de", "en"} {
		if _, err := st.Submit(ctx, model.Submission{Nickname: "n", Lang: lang, Metrics: model.Metrics{CPM: 100}}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	en, err := st.ListResults(ctx, model.BoardConfig{Lang: "en"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(en) != 2 {
		t.Fatalf("expected 2 en results, got %d", len(en))
	}
	since := start.Add(2 * time.Second)
	recent, err := st.ListResults(ctx, model.BoardConfig{Since: &since})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent results, got %d", len(recent))
	}
}

func TestQueryTopNonPositiveReturnsNothing(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := st.Submit(ctx, model.Submission{Nickname: "n", Metrics: model.Metrics{CPM: 100 + i}}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	for _, n := range []int{0, -1} {
		top, err := st.QueryTop(ctx, n)
		if err != nil {
			t.Fatalf("query %d: %v", n, err)
		}
		if len(top) != 0 {
			t.Fatalf("QueryTop(%d): expected no entries, got %d", n, len(top))
		}
	}
	all, err := st.ListResults(ctx, model.BoardConfig{Top: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected every result from ListResults, got %d", len(all))
	}
}

func TestQueryTopTieBreakSubSecond(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)
	times := []time.Time{base, base.Add(500 * time.Millisecond)}
	names := []string{"earlier", "later"}
	for i, name := range names {
		at := times[i]
		st.now = func() time.Time { return at }
		if _, err := st.Submit(ctx, model.Submission{Nickname: name, Metrics: model.Metrics{WPM: 40, CPM: 200}}); err != nil {
			t.Fatalf("submit %s: %v", name, err)
		}
	}
	top, err := st.QueryTop(ctx, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(top) != 2 || top[0].Nickname != "earlier" || top[1].Nickname != "later" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if !top[1].Timestamp.Equal(times[1]) {
		t.Fatalf("timestamp not preserved: %v", top[1].Timestamp)
	}
}
