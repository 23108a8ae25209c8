package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qbank/app"
	"qbank/config"
	"qbank/feedback"
	"qbank/moderation"
	"qbank/types"
)

// Screen is the view currently in front
type Screen string

const (
	ScreenDashboard Screen = "dashboard"
	ScreenBucket    Screen = "bucket"
	ScreenReport    Screen = "report"
)

// Model is the terminal dashboard. All moderation state lives in Session and
// Report; the backend stays the source of truth.
type Model struct {
	buckets  *moderation.Controller
	reports  *moderation.ReportViewer
	board    *moderation.StatsBoard
	activity *feedback.Log

	Screen      Screen
	Stats       types.Stats
	Connected   bool
	LastUpdated time.Time

	Session moderation.Session
	Cursor  int

	Report       moderation.Report
	ReportCursor int

	// Busy blocks further actions until the in-flight one returns
	Busy   bool
	Status string
	Err    error

	pollInterval time.Duration
	exportDir    string
}

// NewModel creates the dashboard model from a wired App
func NewModel(a *app.App) Model {
	return Model{
		buckets:      a.Buckets,
		reports:      a.Reports,
		board:        a.Stats,
		activity:     a.Activity,
		Screen:       ScreenDashboard,
		pollInterval: config.StatsPollInterval,
		exportDir:    ".",
	}
}

// WithExportDir sets where 'x' writes bucket workbooks
func (m Model) WithExportDir(dir string) Model {
	m.exportDir = dir
	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshStats(m.board),
		tickCmd(m.pollInterval),
	)
}

func (m Model) currentQuestion() (types.Question, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Session.Questions) {
		return types.Question{}, false
	}
	return m.Session.Questions[m.Cursor], true
}

func (m Model) currentMatch() (types.DuplicateMatch, bool) {
	if m.ReportCursor < 0 || m.ReportCursor >= len(m.Report.Matches) {
		return types.DuplicateMatch{}, false
	}
	return m.Report.Matches[m.ReportCursor], true
}

// getStateText returns the status line for the current screen
func (m Model) getStateText() string {
	switch {
	case m.Err != nil:
		return failureLineStyle.Render("❌ " + feedback.Message(m.Err))
	case m.Busy:
		return progressLineStyle.Render("⏳ " + m.Status)
	case !m.Connected:
		return failureLineStyle.Render("❌ Not connected to the question bank API")
	case m.Status != "":
		return progressLineStyle.Render(m.Status)
	default:
		return ""
	}
}

// formatQuestion renders one question line for the bucket list
func formatQuestion(q types.Question, selected, focused bool) string {
	box := "[ ]"
	if selected {
		box = "[x]"
	}
	cursor := "  "
	if focused {
		cursor = "➜ "
	}
	text := strings.Join(strings.Fields(q.QuestionText), " ")
	if r := []rune(text); len(r) > 70 {
		text = string(r[:70]) + "..."
	}
	line := fmt.Sprintf("%s%s #%d %s", cursor, box, q.ID, text)
	meta := fmt.Sprintf("      %s / %s · %s · %s · %d marks", q.Metadata.Subject, q.Metadata.Topic, q.Metadata.BloomLevel, q.Metadata.Difficulty, q.Metadata.Marks)
	if focused {
		return selectedRowStyle.Render(line) + "\n" + hintStyle.Render(meta)
	}
	return line + "\n" + hintStyle.Render(meta)
}

// formatMatch renders one similarity match for the report view
func formatMatch(match types.DuplicateMatch, focused bool) string {
	var b strings.Builder
	cursor := "  "
	if focused {
		cursor = "➜ "
	}
	header := fmt.Sprintf("%s#%d  %d%%  %s", cursor, match.MatchQuestion.ID, match.Percent(), match.Verdict)
	b.WriteString(verdictStyle(match.Verdict).Render(header))
	b.WriteString("\n")
	b.WriteString("    " + match.MatchQuestion.QuestionText)
	b.WriteString("\n")
	if match.Reason != "" {
		b.WriteString(hintStyle.Render("    " + match.Reason))
		b.WriteString("\n")
	}
	return b.String()
}
