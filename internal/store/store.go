// Package store handles SQLite persistence of leaderboard results.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typesprint/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed width so text order in SQLite matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrEmptyNickname is returned when a submission has no nickname after trimming.
var ErrEmptyNickname = errors.New("nickname must not be empty")

// Store wraps SQLite access for leaderboard data.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			nickname TEXT NOT NULL,
			wpm INTEGER NOT NULL,
			cpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			lang TEXT NOT NULL,
			duration_sec INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_cpm ON results(cpm DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Submit validates and stores a shared result.
func (s *Store) Submit(ctx context.Context, sub model.Submission) (model.LeaderboardEntry, error) {
	nickname := strings.TrimSpace(sub.Nickname)
	if nickname == "" {
		return model.LeaderboardEntry{}, ErrEmptyNickname
	}
	entry := model.LeaderboardEntry{
		ID:          uuid.New().String(),
		Nickname:    nickname,
		WPM:         sub.Metrics.WPM,
		CPM:         sub.Metrics.CPM,
		Accuracy:    sub.Metrics.Accuracy,
		Lang:        sub.Lang,
		DurationSec: sub.DurationSec,
		Timestamp:   s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results (id, nickname, wpm, cpm, accuracy, lang, duration_sec, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Nickname,
		entry.WPM,
		entry.CPM,
		entry.Accuracy,
		entry.Lang,
		entry.DurationSec,
		entry.Timestamp.Format(timeLayout),
	)
	if err != nil {
		return model.LeaderboardEntry{}, fmt.Errorf("failed to save result: %w", err)
	}
	return entry, nil
}

// QueryTop returns at most n results ranked by CPM. A non-positive n returns nothing.
func (s *Store) QueryTop(ctx context.Context, n int) ([]model.LeaderboardEntry, error) {
	if n <= 0 {
		return []model.LeaderboardEntry{}, nil
	}
	return s.ListResults(ctx, model.BoardConfig{Top: n})
}

// ListResults returns results filtered by cfg, ranked by CPM, then WPM, then age.
// A non-positive Top returns every matching result.
func (s *Store) ListResults(ctx context.Context, cfg model.BoardConfig) ([]model.LeaderboardEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, nickname, wpm, cpm, accuracy, lang, duration_sec, created_at
		FROM results
		WHERE %s
		ORDER BY cpm DESC, wpm DESC, created_at ASC`, strings.Join(clauses, " AND "))
	if cfg.Top > 0 {
		query += " LIMIT ?"
		args = append(args, cfg.Top)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var entry model.LeaderboardEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Nickname, &entry.WPM, &entry.CPM, &entry.Accuracy, &entry.Lang, &entry.DurationSec, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		entry.Timestamp = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
