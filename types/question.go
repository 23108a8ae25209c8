package types

import (
	"fmt"
	"strings"
)

// Status is a question lifecycle status. Each status is one moderation bucket.
type Status string

const (
	StatusDedupePending    Status = "DEDUPE_PENDING"
	StatusDedupeApproved   Status = "DEDUPE_APPROVED"
	StatusDuplicateFlagged Status = "DUPLICATE_FLAGGED"
	StatusApproved         Status = "APPROVED"
)

// Buckets lists every status in dashboard order.
var Buckets = []Status{
	StatusDedupePending,
	StatusDedupeApproved,
	StatusDuplicateFlagged,
	StatusApproved,
}

var statusTitles = map[Status]string{
	StatusDedupePending:    "Pending Deduplication Check",
	StatusDedupeApproved:   "Dedupe Approved - Pending Final Approval",
	StatusDuplicateFlagged: "Flagged Duplicates",
	StatusApproved:         "Approved Questions",
}

// ParseStatus resolves a bucket name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := statusTitles[candidate]; ok {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown question status %q", s)
}

// Title returns the human readable bucket heading.
func (s Status) Title() string {
	if t, ok := statusTitles[s]; ok {
		return t
	}
	return string(s)
}

// Metadata carries the generation parameters echoed back with every question.
type Metadata struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	BloomLevel string `json:"bloom_level"`
	Difficulty string `json:"difficulty"`
	Marks      int    `json:"marks"`
}

// Question is a single record in the question bank.
type Question struct {
	ID             int64           `json:"id"`
	QuestionText   string          `json:"question_text"`
	Metadata       Metadata        `json:"metadata"`
	CourseOutcomes []CourseOutcome `json:"course_outcomes,omitempty"`
	CreatedAt      Timestamp       `json:"created_at"`
	Status         Status          `json:"status,omitempty"`
}

// CourseOutcomeCodes returns the outcome codes in the order the backend sent them.
func (q Question) CourseOutcomeCodes() []string {
	codes := make([]string, 0, len(q.CourseOutcomes))
	for _, co := range q.CourseOutcomes {
		codes = append(codes, co.OutcomeCode)
	}
	return codes
}

// Stats holds the per-bucket question counts shown on the dashboard.
type Stats struct {
	DedupePending    int `json:"dedupe_pending"`
	DedupeApproved   int `json:"dedupe_approved"`
	DuplicateFlagged int `json:"duplicate_flagged"`
	Approved         int `json:"approved"`
}

// Count returns the count for one bucket.
func (s Stats) Count(status Status) int {
	switch status {
	case StatusDedupePending:
		return s.DedupePending
	case StatusDedupeApproved:
		return s.DedupeApproved
	case StatusDuplicateFlagged:
		return s.DuplicateFlagged
	case StatusApproved:
		return s.Approved
	default:
		return 0
	}
}
