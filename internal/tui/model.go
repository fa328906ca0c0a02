// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/engine"
	"github.com/verte-zerg/typesprint/internal/model"
)

const reporterTimeout = 5 * time.Second

// Reporter persists shared results and serves the leaderboard.
type Reporter interface {
	Submit(ctx context.Context, sub model.Submission) (model.LeaderboardEntry, error)
	QueryTop(ctx context.Context, n int) ([]model.LeaderboardEntry, error)
}

type snapshotMsg struct {
	snap model.Snapshot
}

type boardMsg struct {
	entries []model.LeaderboardEntry
	err     error
}

type submitMsg struct {
	entry model.LeaderboardEntry
	err   error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	source   engine.WordSource
	reporter Reporter

	width  int
	height int

	session *engine.Session
	runner  *engine.Runner
	ctx     context.Context
	cancel  context.CancelFunc
	snap    model.Snapshot

	board    []model.LeaderboardEntry
	boardErr string

	dialog *resultDialog
}

var (
	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	boardStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// NewModel constructs a typing TUI model and starts the first session.
func NewModel(cfg model.Config, source engine.WordSource, reporter Reporter) *Model {
	m := &Model{
		config:   cfg,
		source:   source,
		reporter: reporter,
	}
	m.session = engine.NewSession(source.Generate(cfg.Words), cfg.Duration)
	m.startRunner()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.fetchBoard())
}

// Close stops the active session.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		if msg.snap.SessionID != m.session.ID() {
			return m, nil
		}
		m.snap = msg.snap
		if m.snap.Phase == model.PhaseExpired && m.dialog == nil {
			m.dialog = newResultDialog(m.snap.Metrics, m.config.Nickname)
		}
		return m, m.waitForSnapshot()
	case boardMsg:
		if msg.err != nil {
			m.boardErr = msg.err.Error()
			logErrf("failed to load leaderboard: %v\n", msg.err)
			return m, nil
		}
		m.boardErr = ""
		m.board = msg.entries
		return m, nil
	case submitMsg:
		if m.dialog == nil {
			return m, nil
		}
		if !m.dialog.handleSubmitResult(msg.err) {
			return m, nil
		}
		return m, m.restart(true)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Close()
			return m, tea.Quit
		}
		if m.dialog != nil {
			return m, m.updateDialog(msg)
		}
		if msg.Type == tea.KeyCtrlR {
			return m, m.restart(false)
		}
		key, ok := mapKey(msg)
		if !ok {
			return m, nil
		}
		if err := m.runner.TrySend(key); err != nil {
			logErrf("dropped key: %v\n", err)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.snap.SessionID == "" {
		return ""
	}
	if m.dialog != nil {
		if m.width == 0 || m.height == 0 {
			return m.dialog.view()
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.view())
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	text := wrapStyledRunes(buildWordRunes(m.snap), contentWidth)
	if m.width == 0 || m.height == 0 {
		return renderCards(m.snap) + "\n" + text
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		renderCards(m.snap),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(text),
		"",
		m.renderBoard(),
	)
	footer := m.renderFooter()
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) startRunner() {
	m.runner = engine.NewRunner(m.session, engine.WithLogf(logErrf))
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.snap = m.session.Snapshot()
	runner := m.runner
	ctx := m.ctx
	go func() {
		if err := runner.Run(ctx); err != nil {
			logErrf("session runner stopped: %v\n", err)
		}
	}()
}

// restart discards the current session and starts a fresh one.
func (m *Model) restart(refreshBoard bool) tea.Cmd {
	m.Close()
	m.dialog = nil
	m.session = m.session.Reset(m.source.Generate(m.config.Words))
	m.startRunner()
	if refreshBoard {
		return tea.Batch(m.waitForSnapshot(), m.fetchBoard())
	}
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	runner := m.runner
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case snap := <-runner.Updates():
			return snapshotMsg{snap: snap}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) fetchBoard() tea.Cmd {
	reporter := m.reporter
	top := m.config.Top
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reporterTimeout)
		defer cancel()
		entries, err := reporter.QueryTop(ctx, top)
		return boardMsg{entries: entries, err: err}
	}
}

func (m *Model) submit(sub model.Submission) tea.Cmd {
	reporter := m.reporter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reporterTimeout)
		defer cancel()
		entry, err := reporter.Submit(ctx, sub)
		return submitMsg{entry: entry, err: err}
	}
}

func (m *Model) updateDialog(msg tea.KeyMsg) tea.Cmd {
	action, cmd := m.dialog.update(msg)
	switch action {
	case dialogClose:
		return m.restart(false)
	case dialogSubmit:
		return m.submit(model.Submission{
			Nickname:    m.dialog.nicknameValue(),
			Metrics:     m.dialog.metrics,
			Lang:        m.config.Lang,
			DurationSec: m.snap.Duration,
		})
	default:
		return cmd
	}
}

// mapKey translates terminal keys into engine events.
func mapKey(msg tea.KeyMsg) (engine.Key, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return engine.Key{Kind: engine.KeySpace}, true
	case tea.KeyBackspace:
		return engine.Key{Kind: engine.KeyBackspace}, true
	case tea.KeyCtrlA:
		return engine.Key{Kind: engine.KeySelectAll}, true
	case tea.KeyRunes:
		return engine.Key{Kind: engine.KeyRunes, Runes: append([]rune(nil), msg.Runes...)}, true
	default:
		return engine.Key{}, false
	}
}

func renderCards(snap model.Snapshot) string {
	cards := []string{
		metricCard("Time Left", fmt.Sprintf("%ds", snap.Remaining)),
		metricCard("WPM", fmt.Sprintf("%d", snap.Metrics.WPM)),
		metricCard("CPM", fmt.Sprintf("%d", snap.Metrics.CPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", snap.Metrics.Accuracy)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Width(12).Render(content)
}

func (m *Model) renderBoard() string {
	if m.boardErr != "" {
		return footerStyle.Render("Leaderboard unavailable")
	}
	if len(m.board) == 0 {
		return footerStyle.Render("No results yet. Finish a run and share it.")
	}
	lines := []string{fmt.Sprintf("Top %d Typing Results", len(m.board))}
	for i, e := range m.board {
		lines = append(lines, fmt.Sprintf("%2d. %-16s %4d CPM  %3d WPM  %3d%%", i+1, truncate(e.Nickname, 16), e.CPM, e.WPM, e.Accuracy))
	}
	return boardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Words %d/%d", m.snap.Cursor, len(m.snap.Target))}
	if len(m.board) > 0 {
		segments = append(segments, fmt.Sprintf("Best %d CPM", m.board[0].CPM))
	}
	segments = append(segments, "ctrl+r new text", "ctrl+c quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
