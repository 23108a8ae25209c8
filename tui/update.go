package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"qbank/moderation"
	"qbank/types"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(refreshStats(m.board), tickCmd(m.pollInterval))
	case StatsMsg:
		return m.handleStats(msg), nil
	case BucketLoadedMsg:
		return m.handleBucketLoaded(msg), nil
	case SubmitMsg:
		return m.handleSubmit(msg), nil
	case ReportLoadedMsg:
		return m.handleReportLoaded(msg), nil
	case ResolvedMsg:
		return m.handleResolved(msg), nil
	case ExportedMsg:
		return m.handleExported(msg), nil
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.Screen == ScreenDashboard {
			return m, tea.Quit
		}
	}
	if m.Busy {
		return m, nil
	}

	switch m.Screen {
	case ScreenBucket:
		return m.handleBucketKey(msg)
	case ScreenReport:
		return m.handleReportKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "1", "2", "3", "4":
		bucket := types.Buckets[int(key[0]-'1')]
		return m.startOpenBucket(bucket)
	case "r":
		m.Status = "Refreshing stats..."
		return m, refreshStats(m.board)
	}
	return m, nil
}

func (m Model) startOpenBucket(bucket types.Status) (tea.Model, tea.Cmd) {
	m.Screen = ScreenBucket
	m.Session = m.Session.Open(bucket)
	m.Cursor = 0
	m.Err = nil
	m.Status = "Loading " + bucket.Title() + "..."
	return m, openBucket(m.buckets, m.Session, bucket)
}

func (m Model) handleBucketKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		return m.closeBucket(), nil
	case "1", "2", "3", "4":
		return m.handleDashboardKey(msg)
	}
	if m.Session.State != moderation.ModalOpen {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Session.Questions)-1 {
			m.Cursor++
		}
	case " ", "space":
		if q, ok := m.currentQuestion(); ok {
			m.Session = m.Session.Toggle(q.ID)
		}
	case "a":
		m.Session = m.Session.SelectAll()
	case "enter":
		if !m.Session.ActionEnabled() {
			return m, nil
		}
		m.Busy = true
		m.Err = nil
		m.Status = fmt.Sprintf("%s %d question(s)...", m.Session.Action().Verb, m.Session.SelectionSize())
		return m, submitSelection(m.buckets, m.board, m.Session)
	case "v":
		q, ok := m.currentQuestion()
		if !ok || m.Session.Bucket != types.StatusDuplicateFlagged {
			return m, nil
		}
		m.Busy = true
		m.Err = nil
		m.Status = fmt.Sprintf("Loading similarity report for #%d...", q.ID)
		return m, loadReport(m.reports, q.ID)
	case "x":
		m.Busy = true
		m.Status = "Exporting " + m.Session.Bucket.Title() + "..."
		return m, exportBucket(m.exportDir, m.Session.Bucket, m.Session.Questions)
	}
	return m, nil
}

func (m Model) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Report.Confirming {
		switch msg.String() {
		case "y":
			return m.resolve("Deleting", m.reports.Delete)
		case "n", "esc":
			m.Report = m.Report.CancelConfirm()
			m.Status = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "q":
		m.Report = moderation.Report{}
		m.Screen = ScreenBucket
		m.Status = ""
		m.Err = nil
	case "up", "k":
		if m.ReportCursor > 0 {
			m.ReportCursor--
		}
	case "down", "j":
		if m.ReportCursor < len(m.Report.Matches)-1 {
			m.ReportCursor++
		}
	case "c":
		return m.link(types.RelationChild)
	case "p":
		return m.link(types.RelationParent)
	case "l":
		return m.link(types.RelationParallel)
	case "u":
		return m.resolve("Marking as unique", m.reports.MarkUnique)
	case "d":
		m.Report = m.Report.Confirm()
		m.Status = fmt.Sprintf(TextConfirmDelete, m.Report.QuestionID)
	}
	return m, nil
}

func (m Model) link(relation types.RelationType) (tea.Model, tea.Cmd) {
	match, ok := m.currentMatch()
	if !ok {
		return m, nil
	}
	target := match.MatchQuestion.ID
	return m.resolve(fmt.Sprintf("Linking as %s of #%d", relation, target), func(ctx context.Context, r moderation.Report, s moderation.Session) (moderation.Report, moderation.Session, error) {
		return m.reports.Link(ctx, r, s, target, relation)
	})
}

func (m Model) resolve(status string, do resolution) (tea.Model, tea.Cmd) {
	m.Busy = true
	m.Err = nil
	m.Status = status + "..."
	return m, resolveReport(m.board, do, m.Report, m.Session)
}

func (m Model) closeBucket() Model {
	m.Session = m.Session.Close()
	m.Screen = ScreenDashboard
	m.Cursor = 0
	m.Status = ""
	m.Err = nil
	return m
}

func (m Model) handleStats(msg StatsMsg) Model {
	if msg.Err != nil {
		m.Connected = false
		return m
	}
	m.Connected = true
	m.Stats = msg.Stats
	m.LastUpdated = msg.Updated
	if m.Screen == ScreenDashboard && !m.Busy && m.Err == nil {
		m.Status = ""
	}
	return m
}

func (m Model) handleBucketLoaded(msg BucketLoadedMsg) Model {
	if m.Session.State != moderation.Loading || msg.Session.Bucket != m.Session.Bucket {
		return m
	}
	m.Session = msg.Session
	m.Err = msg.Session.Err
	m.Status = ""
	return m
}

func (m Model) handleSubmit(msg SubmitMsg) Model {
	m.Busy = false
	m.Session = msg.Session
	if msg.Err != nil {
		m.Err = msg.Err
		return m
	}
	m.Status = TextSubmitted
	m.Screen = ScreenDashboard
	m.Cursor = 0
	return m.handleStats(msg.Stats)
}

func (m Model) handleReportLoaded(msg ReportLoadedMsg) Model {
	m.Busy = false
	if msg.Err != nil {
		m.Err = msg.Err
		return m
	}
	if !msg.Report.Open {
		m.Status = fmt.Sprintf(TextNoMatches, msg.Report.QuestionID)
		return m
	}
	m.Report = msg.Report
	m.ReportCursor = 0
	m.Screen = ScreenReport
	m.Status = ""
	return m
}

func (m Model) handleResolved(msg ResolvedMsg) Model {
	m.Busy = false
	if msg.Err != nil {
		if errors.Is(msg.Err, moderation.ErrNotConfirmed) {
			m.Report = m.Report.CancelConfirm()
		}
		m.Err = msg.Err
		return m
	}
	m.Report = msg.Report
	m.Session = msg.Session
	m.Screen = ScreenDashboard
	m.Cursor = 0
	m.Status = TextResolved
	return m.handleStats(msg.Stats)
}

func (m Model) handleExported(msg ExportedMsg) Model {
	m.Busy = false
	if msg.Err != nil {
		m.Err = msg.Err
		return m
	}
	m.activity.Success("Exported %s", msg.Path)
	m.Status = "Exported to " + msg.Path
	return m
}
