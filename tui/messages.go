package tui

import (
	"time"

	"qbank/moderation"
	"qbank/types"
)

// Messages for the tea program

// StatsMsg carries a stats refresh result
type StatsMsg struct {
	Stats   types.Stats
	Updated time.Time
	Err     error
}

// TickMsg is sent on every poll interval
type TickMsg struct {
	Time time.Time
}

// BucketLoadedMsg carries the session after a bucket fetch
type BucketLoadedMsg struct {
	Session moderation.Session
}

// SubmitMsg carries the result of a bulk action
type SubmitMsg struct {
	Session moderation.Session
	Stats   StatsMsg
	Err     error
}

// ReportLoadedMsg carries a duplicate report
type ReportLoadedMsg struct {
	Report moderation.Report
	Err    error
}

// ResolvedMsg carries the result of a link, ignore or delete
type ResolvedMsg struct {
	Report  moderation.Report
	Session moderation.Session
	Stats   StatsMsg
	Err     error
}

// ExportedMsg reports a written workbook
type ExportedMsg struct {
	Path string
	Err  error
}
