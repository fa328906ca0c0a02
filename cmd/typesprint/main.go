// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/engine"
	"github.com/verte-zerg/typesprint/internal/generator"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/statsui"
	"github.com/verte-zerg/typesprint/internal/store"
	"github.com/verte-zerg/typesprint/internal/tui"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

const (
	defaultLang     = wordlist.EmbeddedLang
	defaultWords    = 150
	defaultDuration = engine.DefaultDuration
	defaultCaps     = 0.0
	defaultPunct    = 0.0
	defaultTop      = 10
)

const defaultPunctSet = ".,!?;:"

var (
	practiceLang     string
	practiceWords    int
	practiceDuration int
	practiceCaps     float64
	practicePunct    float64
	practicePunctSet string
	practiceTop      int
	practiceNickname string

	boardLang  string
	boardSince string
	boardTop   int
	boardPlain bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "Timed typing speed test with a local leaderboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "number of target words per test")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "test duration in seconds")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().IntVar(&practiceTop, "top", defaultTop, "leaderboard entries shown under the text")
	rootCmd.Flags().StringVar(&practiceNickname, "nickname", "", "nickname prefilled in the share form")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newLeaderboardCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyFloatConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyFloatConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyStringConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyIntConfig(cmd, "top", &practiceTop, fileCfg.Leaderboard.Top)
	applyStringConfig(cmd, "nickname", &practiceNickname, fileCfg.Leaderboard.Nickname)

	cfg := model.Config{
		Lang:     practiceLang,
		Words:    practiceWords,
		Duration: practiceDuration,
		CapsPct:  practiceCaps,
		PunctPct: practicePunct,
		PunctSet: practicePunctSet,
		Top:      practiceTop,
		Nickname: strings.TrimSpace(practiceNickname),
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	wordPath := config.DefaultWordListPath(cfg.Lang)
	words, err := wordlist.Load(cfg.Lang, wordPath)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	src := generator.NewSource(generator.New(), words, cfg.CapsPct, cfg.PunctPct, []rune(cfg.PunctSet))
	typing := tui.NewModel(cfg, src, st)
	defer typing.Close()
	program := tea.NewProgram(typing, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available wordlist languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			langs, err := availableLangs(config.DefaultWordListDir())
			if err != nil {
				return err
			}
			for _, lang := range langs {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

// availableLangs lists the embedded language plus every <lang>.txt in dir.
func availableLangs(dir string) ([]string, error) {
	seen := map[string]struct{}{wordlist.EmbeddedLang: {}}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().StringVar(&boardLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&boardSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&boardTop, "top", defaultTop, "number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&boardPlain, "plain", false, "print a static table instead of the TUI")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "top", &boardTop, fileCfg.Leaderboard.Top)

	cfg, err := boardConfig(boardLang, boardSince, boardTop)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if boardPlain {
		return printLeaderboard(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}

	board := statsui.NewModel(st, cfg)
	program := tea.NewProgram(board, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func boardConfig(lang, since string, top int) (model.BoardConfig, error) {
	if top < 0 {
		return model.BoardConfig{}, fmt.Errorf("--top must be >= 0")
	}
	cfg := model.BoardConfig{Lang: strings.TrimSpace(lang), Top: top}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.BoardConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

func printLeaderboard(ctx context.Context, w io.Writer, st *store.Store, cfg model.BoardConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build leaderboard: %w", err)
	}
	if err := stats.RenderSummary(w, report.Top); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Top) == 0 {
		return nil
	}
	if err := stats.RenderLeaderboard(w, report.Top, stats.TerminalWidth(), stats.ShouldUseColor(w)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q               # Language code
# words = %d             # Number of target words per test
# duration = %d           # Test duration in seconds
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q      # Punctuation set

[leaderboard]
# top = %d                # Entries shown under the text
# nickname = ""           # Prefilled in the share form
`,
		defaultLang,
		defaultWords,
		defaultDuration,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultTop,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Top < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typesprint langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
