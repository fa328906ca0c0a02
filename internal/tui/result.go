package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/store"
)

type dialogMode int

const (
	modeSummary dialogMode = iota
	modeShare
)

type dialogAction int

const (
	dialogNone dialogAction = iota
	dialogClose
	dialogSubmit
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2).
			Width(52)
	modalTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	modalHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	modalErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// resultDialog shows the final metrics and the optional share form.
type resultDialog struct {
	mode        dialogMode
	metrics     model.Metrics
	nickname    textinput.Model
	nicknameErr bool
	notice      string
	saving      bool
}

func newResultDialog(metrics model.Metrics, nickname string) *resultDialog {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Nickname"
	input.CharLimit = 32
	input.Width = 30
	input.Cursor.SetMode(cursor.CursorBlink)
	input.SetValue(nickname)
	return &resultDialog{
		mode:     modeSummary,
		metrics:  metrics,
		nickname: input,
	}
}

func (d *resultDialog) nicknameValue() string {
	return strings.TrimSpace(d.nickname.Value())
}

func (d *resultDialog) update(msg tea.KeyMsg) (dialogAction, tea.Cmd) {
	if d.saving {
		return dialogNone, nil
	}
	if d.mode == modeSummary {
		switch msg.String() {
		case "enter", "t", "esc":
			return dialogClose, nil
		case "s":
			d.mode = modeShare
			return dialogNone, d.nickname.Focus()
		}
		return dialogNone, nil
	}

	switch msg.String() {
	case "esc":
		return dialogClose, nil
	case "enter":
		if d.nicknameValue() == "" {
			d.nicknameErr = true
			return dialogNone, nil
		}
		d.saving = true
		d.notice = ""
		return dialogSubmit, nil
	}
	var cmd tea.Cmd
	d.nickname, cmd = d.nickname.Update(msg)
	d.nicknameErr = false
	return dialogNone, cmd
}

// handleSubmitResult reports whether the dialog is done.
func (d *resultDialog) handleSubmitResult(err error) bool {
	d.saving = false
	switch {
	case err == nil:
		return true
	case errors.Is(err, store.ErrEmptyNickname):
		d.nicknameErr = true
	default:
		d.notice = fmt.Sprintf("Could not save result: %v. Press enter to retry or esc to discard.", err)
		logErrf("failed to save result: %v\n", err)
	}
	return false
}

func (d *resultDialog) view() string {
	if d.mode == modeShare {
		return modalStyle.Render(d.shareView())
	}
	return modalStyle.Render(d.summaryView())
}

func (d *resultDialog) summaryView() string {
	lines := []string{
		modalTitleStyle.Render("YOUR RESULTS ARE AS FOLLOWS:"),
		"",
		fmt.Sprintf("CPM: %s", modalValueStyle.Render(fmt.Sprintf("%d", d.metrics.CPM))),
		fmt.Sprintf("WPM: %s", modalValueStyle.Render(fmt.Sprintf("%d", d.metrics.WPM))),
		fmt.Sprintf("Accuracy: %s", modalValueStyle.Render(fmt.Sprintf("%d%%", d.metrics.Accuracy))),
		"",
		modalHintStyle.Render("enter: try again  s: share"),
	}
	return strings.Join(lines, "\n")
}

func (d *resultDialog) shareView() string {
	lines := []string{
		modalTitleStyle.Render("ENTER YOUR NICKNAME TO SHARE THE RESULT:"),
		modalHintStyle.Render("Your result is saved under this nickname. You can also skip this step."),
		"",
		d.nickname.View(),
	}
	if d.nicknameErr {
		lines = append(lines, modalErrorStyle.Render("Nickname must not be empty."))
	}
	if d.notice != "" {
		lines = append(lines, modalErrorStyle.Render(d.notice))
	}
	hint := "enter: save  esc: cancel"
	if d.saving {
		hint = "Saving..."
	}
	lines = append(lines, "", modalHintStyle.Render(hint))
	return strings.Join(lines, "\n")
}
