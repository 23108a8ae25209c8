package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Action names a moderation operation recorded in the audit trail.
type Action string

const (
	ActionSubmitForDedupe Action = "submit_for_dedupe"
	ActionApprove         Action = "approve"
	ActionLink            Action = "link"
	ActionIgnore          Action = "ignore"
	ActionDelete          Action = "delete"
	ActionGenerate        Action = "generate"
)

// Outcome of an audited action
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one audited moderation action. It is serialized as JSON onto the audit topic.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      Action    `json:"action"`
	QuestionIDs []int64   `json:"question_ids"`
	TargetID    *int64    `json:"target_id,omitempty"`
	Relation    string    `json:"relation_type,omitempty"`
	NewStatus   string    `json:"new_status,omitempty"`
	Outcome     Outcome   `json:"outcome"`
	Error       string    `json:"error,omitempty"`
}

// NewEvent stamps a fresh event id and time. err decides the outcome.
func NewEvent(action Action, questionIDs []int64, err error) Event {
	e := Event{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		Action:      action,
		QuestionIDs: append([]int64(nil), questionIDs...),
		Outcome:     OutcomeSuccess,
	}
	if err != nil {
		e.Outcome = OutcomeFailure
		e.Error = err.Error()
	}
	return e
}

// Publisher records audit events. Publishing never blocks a moderation action:
// callers log the returned error and carry on.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// LogPublisher writes events to the process log. Used when no brokers are configured.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	if e.Outcome == OutcomeFailure {
		log.Printf("📋 audit %s %v failed: %s", e.Action, e.QuestionIDs, e.Error)
		return nil
	}
	log.Printf("📋 audit %s %v", e.Action, e.QuestionIDs)
	return nil
}

func (LogPublisher) Close() error { return nil }
