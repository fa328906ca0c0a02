// Package stats contains leaderboard calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// Summary aggregates a set of leaderboard entries.
type Summary struct {
	Results     int
	Players     int
	AvgWPM      float64
	AvgCPM      float64
	AvgAccuracy float64
	BestCPM     int
	BestPlayer  string
}

// Summarize computes averages and the best result. Entries are assumed ranked.
func Summarize(entries []model.LeaderboardEntry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}
	var totalWPM, totalCPM, totalAcc float64
	players := map[string]struct{}{}
	best := entries[0]
	for _, e := range entries {
		totalWPM += float64(e.WPM)
		totalCPM += float64(e.CPM)
		totalAcc += float64(e.Accuracy)
		players[e.Nickname] = struct{}{}
		if e.CPM > best.CPM {
			best = e
		}
	}
	count := float64(len(entries))
	return Summary{
		Results:     len(entries),
		Players:     len(players),
		AvgWPM:      totalWPM / count,
		AvgCPM:      totalCPM / count,
		AvgAccuracy: totalAcc / count,
		BestCPM:     best.CPM,
		BestPlayer:  best.Nickname,
	}
}

// RenderSummary prints a summary block for entries.
func RenderSummary(w io.Writer, entries []model.LeaderboardEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	s := Summarize(entries)
	lines := []string{
		"Summary",
		fmt.Sprintf("Results: %d", s.Results),
		fmt.Sprintf("Players: %d", s.Players),
		fmt.Sprintf("Best CPM: %d (%s)", s.BestCPM, s.BestPlayer),
		fmt.Sprintf("Avg CPM: %.2f", s.AvgCPM),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

const compactWidth = 50

// RenderLeaderboard prints ranked entries as an aligned table. Narrow widths drop the date column.
func RenderLeaderboard(w io.Writer, entries []model.LeaderboardEntry, width int, useColor bool) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	title := fmt.Sprintf("Top %d Typing Results", len(entries))
	if useColor {
		title = headerStyle.Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers, rows := LeaderboardRows(entries)
	if width > 0 && width < compactWidth {
		headers = headers[:len(headers)-1]
		for i := range rows {
			rows[i] = rows[i][:len(rows[i])-1]
		}
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// LeaderboardRows formats entries as table cells, shared by the CLI and TUI views.
func LeaderboardRows(entries []model.LeaderboardEntry) ([]string, [][]string) {
	headers := []string{"#", "Nickname", "CPM", "WPM", "Accuracy", "Date"}
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			e.Nickname,
			fmt.Sprintf("%d", e.CPM),
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			e.Timestamp.Local().Format("2006-01-02"),
		})
	}
	return headers, rows
}
