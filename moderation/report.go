package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"qbank/audit"
	"qbank/client"
	"qbank/feedback"
	"qbank/types"
)

// ReportAPI is the part of the backend API the duplicate report needs
type ReportAPI interface {
	GetDuplicates(ctx context.Context, questionID int64) ([]types.DuplicateMatch, error)
	LinkQuestions(ctx context.Context, req client.LinkRequest) error
	DeleteQuestion(ctx context.Context, id int64) error
}

var (
	// ErrNotConfirmed is returned by Delete when the report was not confirmed first
	ErrNotConfirmed = errors.New("delete must be confirmed")
	// ErrUnknownTarget is returned when linking to a question that is not in the report
	ErrUnknownTarget = errors.New("question is not in this report")
)

// Report is the similarity report for one question. The zero value is a closed report.
type Report struct {
	QuestionID int64
	Matches    []types.DuplicateMatch
	Open       bool
	Confirming bool
}

// Confirm arms the destructive delete
func (r Report) Confirm() Report {
	if r.Open {
		r.Confirming = true
	}
	return r
}

// CancelConfirm disarms delete
func (r Report) CancelConfirm() Report {
	r.Confirming = false
	return r
}

// Match returns the match for target, if present
func (r Report) Match(target int64) (types.DuplicateMatch, bool) {
	for _, m := range r.Matches {
		if m.MatchQuestion.ID == target {
			return m, true
		}
	}
	return types.DuplicateMatch{}, false
}

// ReportViewer loads similarity reports and applies the operator's resolution.
// Every resolution closes the report and the bucket on success and leaves both
// untouched on failure.
type ReportViewer struct {
	api       ReportAPI
	refresher Refresher
	log       *feedback.Log
	audit     audit.Publisher
}

func NewReportViewer(api ReportAPI, refresher Refresher, activity *feedback.Log, publisher audit.Publisher) *ReportViewer {
	if publisher == nil {
		publisher = audit.LogPublisher{}
	}
	return &ReportViewer{api: api, refresher: refresher, log: activity, audit: publisher}
}

// Load fetches the matches for id. No matches is not an error: the returned report is closed.
func (v *ReportViewer) Load(ctx context.Context, id int64) (Report, error) {
	matches, err := v.api.GetDuplicates(ctx, id)
	if err != nil {
		v.log.Error("Failed to load report for #%d: %s", id, feedback.Message(err))
		return Report{QuestionID: id}, err
	}
	if len(matches) == 0 {
		v.log.Info("No similar questions found for #%d", id)
		return Report{QuestionID: id}, nil
	}
	return Report{QuestionID: id, Matches: matches, Open: true}, nil
}

func (v *ReportViewer) LinkChild(ctx context.Context, r Report, s Session, target int64) (Report, Session, error) {
	return v.Link(ctx, r, s, target, types.RelationChild)
}

func (v *ReportViewer) LinkParent(ctx context.Context, r Report, s Session, target int64) (Report, Session, error) {
	return v.Link(ctx, r, s, target, types.RelationParent)
}

func (v *ReportViewer) LinkParallel(ctx context.Context, r Report, s Session, target int64) (Report, Session, error) {
	return v.Link(ctx, r, s, target, types.RelationParallel)
}

// Link records relation between the report's question and target. IGNORE
// ignores target and behaves like MarkUnique.
func (v *ReportViewer) Link(ctx context.Context, r Report, s Session, target int64, relation types.RelationType) (Report, Session, error) {
	if relation == types.RelationIgnore {
		return v.MarkUnique(ctx, r, s)
	}
	if _, ok := r.Match(target); !ok {
		return r, s, fmt.Errorf("#%d: %w", target, ErrUnknownTarget)
	}

	req := client.LinkRequest{QuestionID: r.QuestionID, TargetID: &target, RelationType: relation}
	err := v.api.LinkQuestions(ctx, req)

	event := audit.NewEvent(audit.ActionLink, []int64{r.QuestionID}, err)
	event.TargetID = &target
	event.Relation = string(relation)
	return v.finish(ctx, r, s, event, err, fmt.Sprintf("Linked #%d as %s of #%d", r.QuestionID, relation, target))
}

// MarkUnique dismisses every match: the question is not a duplicate
func (v *ReportViewer) MarkUnique(ctx context.Context, r Report, s Session) (Report, Session, error) {
	req := client.LinkRequest{QuestionID: r.QuestionID, RelationType: types.RelationIgnore}
	err := v.api.LinkQuestions(ctx, req)

	event := audit.NewEvent(audit.ActionIgnore, []int64{r.QuestionID}, err)
	event.Relation = string(types.RelationIgnore)
	return v.finish(ctx, r, s, event, err, fmt.Sprintf("Marked #%d as unique", r.QuestionID))
}

// Delete removes the report's question. The report must be confirmed first.
func (v *ReportViewer) Delete(ctx context.Context, r Report, s Session) (Report, Session, error) {
	if !r.Confirming {
		return r, s, ErrNotConfirmed
	}
	err := v.api.DeleteQuestion(ctx, r.QuestionID)
	event := audit.NewEvent(audit.ActionDelete, []int64{r.QuestionID}, err)
	return v.finish(ctx, r, s, event, err, fmt.Sprintf("Deleted #%d", r.QuestionID))
}

func (v *ReportViewer) finish(ctx context.Context, r Report, s Session, event audit.Event, err error, success string) (Report, Session, error) {
	if pubErr := v.audit.Publish(ctx, event); pubErr != nil {
		log.Printf("⚠️ audit publish failed: %v", pubErr)
	}
	if err != nil {
		v.log.Error("%s failed: %s", event.Action, feedback.Message(err))
		return r, s, err
	}

	v.log.Success("%s", success)
	if v.refresher != nil {
		_ = v.refresher.RefreshStats(ctx)
	}
	return Report{}, s.Close(), nil
}
