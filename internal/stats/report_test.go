package stats

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "typesprint.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i, cpm := range []int{120, 300, 210} {
		sub := model.Submission{
			Nickname:    []string{"a", "b", "c"}[i],
			Metrics:     model.Metrics{WPM: cpm / 5, CPM: cpm, Accuracy: 90},
			Lang:        "en",
			DurationSec: 60,
		}
		if _, err := st.Submit(ctx, sub); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	if _, err := st.Submit(ctx, model.Submission{Nickname: "other", Lang: "de", Metrics: model.Metrics{CPM: 999}}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := BuildReport(ctx, st, model.BoardConfig{Lang: "en", Top: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Top) != 2 {
		t.Fatalf("expected 2 top entries, got %d", len(report.Top))
	}
	if report.Top[0].Nickname != "b" || report.Top[1].Nickname != "c" {
		t.Fatalf("unexpected ranking: %+v", report.Top)
	}
	if report.Summary.Results != 3 {
		t.Fatalf("expected summary over all en results, got %d", report.Summary.Results)
	}
	if report.Summary.BestCPM != 300 {
		t.Fatalf("unexpected best cpm: %d", report.Summary.BestCPM)
	}
}
