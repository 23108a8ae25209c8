package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"qbank/export"
	"qbank/moderation"
	"qbank/types"
)

// refreshStats polls the bucket counts
func refreshStats(board *moderation.StatsBoard) tea.Cmd {
	return func() tea.Msg {
		err := board.RefreshStats(context.Background())
		return latestStats(board, err)
	}
}

func latestStats(board *moderation.StatsBoard, err error) StatsMsg {
	stats, updated, _ := board.Latest()
	return StatsMsg{Stats: stats, Updated: updated, Err: err}
}

// tickCmd fires a TickMsg after interval
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func openBucket(c *moderation.Controller, s moderation.Session, bucket types.Status) tea.Cmd {
	return func() tea.Msg {
		return BucketLoadedMsg{Session: c.OpenBucket(context.Background(), s, bucket)}
	}
}

func submitSelection(c *moderation.Controller, board *moderation.StatsBoard, s moderation.Session) tea.Cmd {
	return func() tea.Msg {
		next, err := c.Submit(context.Background(), s)
		return SubmitMsg{Session: next, Stats: latestStats(board, nil), Err: err}
	}
}

func loadReport(v *moderation.ReportViewer, id int64) tea.Cmd {
	return func() tea.Msg {
		r, err := v.Load(context.Background(), id)
		return ReportLoadedMsg{Report: r, Err: err}
	}
}

type resolution func(ctx context.Context, r moderation.Report, s moderation.Session) (moderation.Report, moderation.Session, error)

func resolveReport(board *moderation.StatsBoard, do resolution, r moderation.Report, s moderation.Session) tea.Cmd {
	return func() tea.Msg {
		nr, ns, err := do(context.Background(), r, s)
		return ResolvedMsg{Report: nr, Session: ns, Stats: latestStats(board, nil), Err: err}
	}
}

func exportBucket(dir string, bucket types.Status, questions []types.Question) tea.Cmd {
	return func() tea.Msg {
		data, err := export.QuestionsWorkbook(bucket.Title(), questions)
		if err != nil {
			return ExportedMsg{Err: err}
		}
		name := fmt.Sprintf("qbank-%s-%s.xlsx", strings.ToLower(string(bucket)), time.Now().Format("20060102-150405"))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}
