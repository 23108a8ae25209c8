package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qbank/config"
	"qbank/moderation"
	"qbank/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(dashboardTitleStyle.Render(TextTitle))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")

	switch m.Screen {
	case ScreenBucket:
		b.WriteString(m.renderBucket())
	case ScreenReport:
		b.WriteString(m.renderReport())
	default:
		b.WriteString(m.renderActivity())
	}

	if line := m.getStateText(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.footer()))
	return b.String()
}

func (m Model) renderStats() string {
	cards := make([]string, 0, len(types.Buckets))
	for i, bucket := range types.Buckets {
		label := fmt.Sprintf("[%d] %s", i+1, bucket.Title())
		count := fmt.Sprintf("%d", m.Stats.Count(bucket))
		cards = append(cards, bucketCardStyle.Render(hintStyle.Render(label)+"\n"+bucketCountStyle(bucket).Render(count)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if !m.LastUpdated.IsZero() {
		row += "\n" + hintStyle.Render("Updated "+m.LastUpdated.Format("15:04:05"))
	}
	return row
}

func (m Model) renderActivity() string {
	entries := m.activity.Last(config.DashboardLogLines)
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(hintStyle.Render("📝 Recent Activity:"))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(hintStyle.Render("   " + e.String()))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderBucket() string {
	var b strings.Builder
	b.WriteString(modalHeadingStyle.Render(m.Session.Bucket.Title()))
	b.WriteString("\n\n")

	if m.Session.State == moderation.Loading || m.Session.State == moderation.Failed {
		return b.String()
	}

	if len(m.Session.Questions) == 0 {
		b.WriteString(hintStyle.Render(TextEmptyBucket))
		b.WriteString("\n")
		return b.String()
	}
	for i, q := range m.Session.Questions {
		b.WriteString(formatQuestion(q, m.Session.IsSelected(q.ID), i == m.Cursor))
		b.WriteString("\n")
	}
	if label := m.Session.ButtonLabel(); label != "" {
		b.WriteString("\n")
		if m.Session.ActionEnabled() {
			b.WriteString(selectedRowStyle.Render(label))
		} else {
			b.WriteString(hintStyle.Render(label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderReport() string {
	var b strings.Builder
	b.WriteString(modalHeadingStyle.Render(fmt.Sprintf("Similarity report for #%d", m.Report.QuestionID)))
	b.WriteString("\n\n")
	for i, match := range m.Report.Matches {
		b.WriteString(formatMatch(match, i == m.ReportCursor))
		b.WriteString("\n")
	}
	return reportModalStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) footer() string {
	switch m.Screen {
	case ScreenReport:
		if m.Report.Confirming {
			return TextFooterConfirm
		}
		return TextFooterReport
	case ScreenBucket:
		action := m.Session.Action()
		switch {
		case action.None():
			return TextFooterReadOnly
		case m.Session.Bucket == types.StatusDuplicateFlagged:
			return fmt.Sprintf(TextFooterFlagged, strings.ToLower(action.Verb))
		default:
			return fmt.Sprintf(TextFooterBucket, strings.ToLower(action.Verb))
		}
	default:
		return TextFooterDashboard
	}
}
