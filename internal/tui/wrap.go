package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typesprint/internal/model"
)

const (
	historyWords  = 8
	lookaheadWord = 40
)

var (
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	missedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{
		s:       style.Render(string(r)),
		width:   runewidth.RuneWidth(r),
		isSpace: r == ' ',
	}
}

// buildWordRunes renders the recent completed words, the word under the
// cursor with the typed input laid over it, and the upcoming words.
func buildWordRunes(snap model.Snapshot) []styledRune {
	var out []styledRune
	appendWord := func(word string, style lipgloss.Style) {
		if len(out) > 0 {
			out = append(out, newStyledRune(' ', pendingStyle))
		}
		for _, r := range word {
			out = append(out, newStyledRune(r, style))
		}
	}

	start := len(snap.Completed) - historyWords
	if start < 0 {
		start = 0
	}
	for _, w := range snap.Completed[start:] {
		if w.Correct {
			appendWord(w.Word, doneStyle)
		} else {
			appendWord(w.Word, missedStyle)
		}
	}

	if snap.Cursor >= len(snap.Target) {
		return out
	}
	if len(out) > 0 {
		out = append(out, newStyledRune(' ', pendingStyle))
	}
	out = append(out, currentWordRunes(snap.Target[snap.Cursor], snap.Pending, snap.Mismatch)...)

	end := snap.Cursor + 1 + lookaheadWord
	if end > len(snap.Target) {
		end = len(snap.Target)
	}
	for _, w := range snap.Target[snap.Cursor+1 : end] {
		appendWord(w, pendingStyle)
	}
	return out
}

func currentWordRunes(target, pending string, mismatch bool) []styledRune {
	targetRunes := []rune(target)
	inputRunes := []rune(pending)
	out := make([]styledRune, 0, len(targetRunes)+1)
	for i, r := range targetRunes {
		style := currentWordStyle
		if i < len(inputRunes) {
			if inputRunes[i] == r {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
			if mismatch {
				style = style.Strikethrough(true)
			}
		}
		if i == len(inputRunes) {
			style = style.Underline(true)
		}
		out = append(out, newStyledRune(r, style))
	}
	for i := len(targetRunes); i < len(inputRunes); i++ {
		out = append(out, newStyledRune(inputRunes[i], incorrectStyle.Strikethrough(true)))
	}
	if len(inputRunes) >= len(targetRunes) {
		out = append(out, newStyledRune(' ', pendingStyle.Underline(true)))
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
