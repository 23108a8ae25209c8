package tui

import (
	"github.com/charmbracelet/lipgloss"

	"qbank/types"
)

const (
	colorBrand     = "#7D56F4"
	colorPending   = "#5DA9E9"
	colorApproved  = "#04B575"
	colorDuplicate = "#FF0000"
	colorParallel  = "#F5A623"
	colorMuted     = "#626262"
	colorSelected  = "#FAFAFA"
	colorFrame     = "#874BFD"
)

var (
	dashboardTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorBrand)).
		MarginTop(1).
		MarginBottom(1)

	progressLineStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorApproved))

	failureLineStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorDuplicate))

	hintStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted))

	reportModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorFrame)).
		Padding(1, 2)

	bucketCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorFrame)).
		Padding(0, 2).
		Width(26)

	modalHeadingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorSelected)).
		Background(lipgloss.Color(colorBrand)).
		Padding(0, 1)

	selectedRowStyle = modalHeadingStyle
)

// bucketColors gives each moderation bucket its own count colour
var bucketColors = map[types.Status]string{
	types.StatusDedupePending:    colorPending,
	types.StatusDedupeApproved:   colorBrand,
	types.StatusDuplicateFlagged: colorDuplicate,
	types.StatusApproved:         colorApproved,
}

// bucketCountStyle renders the big count on a bucket card
func bucketCountStyle(bucket types.Status) lipgloss.Style {
	color, ok := bucketColors[bucket]
	if !ok {
		color = colorSelected
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Padding(0, 1)
}

// verdictStyle colours a similarity match by verdict class
func verdictStyle(v types.Verdict) lipgloss.Style {
	switch v.Class() {
	case "danger":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorDuplicate))
	case "primary":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorBrand))
	case "secondary":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorParallel))
	default:
		return hintStyle
	}
}
