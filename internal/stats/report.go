package stats

import (
	"context"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

// Report contains precomputed data for leaderboard rendering.
type Report struct {
	Top     []model.LeaderboardEntry
	Summary Summary
}

// BuildReport loads the ranked top entries and a summary over every matching result.
func BuildReport(ctx context.Context, st *store.Store, cfg model.BoardConfig) (Report, error) {
	all, err := st.ListResults(ctx, model.BoardConfig{Lang: cfg.Lang, Since: cfg.Since})
	if err != nil {
		return Report{}, err
	}
	top := all
	if cfg.Top > 0 && len(top) > cfg.Top {
		top = top[:cfg.Top]
	}
	return Report{
		Top:     top,
		Summary: Summarize(all),
	}, nil
}
