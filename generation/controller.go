package generation

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"qbank/audit"
	"qbank/client"
	"qbank/config"
	"qbank/feedback"
	"qbank/storage"
	"qbank/types"
)

// API is the part of the backend the generation form submits to. *client.Client satisfies it.
type API interface {
	GenerateQuestion(ctx context.Context, req client.GenerateRequest) ([]types.Question, error)
	AddManualQuestion(ctx context.Context, req client.ManualRequest) ([]types.Question, error)
	GenerateFromNotes(ctx context.Context, req client.NotesRequest) ([]types.Question, error)
	CreateBatchPlan(ctx context.Context, req client.BatchPlanRequest) (*client.BatchPlan, error)
}

// Archiver keeps a copy of uploaded notes. *storage.NotesArchive satisfies it.
type Archiver interface {
	Archive(ctx context.Context, fileName string, content []byte, subject, topic string) (*storage.Archived, error)
}

// Controller submits generation forms
type Controller struct {
	api      API
	archive  Archiver
	log      *feedback.Log
	audit    audit.Publisher
	interval time.Duration
	messages []string
}

// Option configures a Controller
type Option func(*Controller)

// WithArchive archives notes uploads before they are submitted
func WithArchive(a Archiver) Option {
	return func(c *Controller) { c.archive = a }
}

func WithAudit(p audit.Publisher) Option {
	return func(c *Controller) { c.audit = p }
}

// WithProgress overrides the progress message rotation
func WithProgress(interval time.Duration, messages []string) Option {
	return func(c *Controller) {
		c.interval = interval
		c.messages = messages
	}
}

func NewController(api API, activity *feedback.Log, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		log:      activity,
		audit:    audit.LogPublisher{},
		interval: config.ProgressInterval,
		messages: config.ProgressMessages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLoader returns the idle submit button state for this controller's progress messages
func (c *Controller) NewLoader() feedback.Loader {
	return feedback.NewLoader("Generate", c.messages)
}

// ProgressInterval is how long each progress message is shown
func (c *Controller) ProgressInterval() time.Duration { return c.interval }

// Submit validates the form and sends it to the endpoint for its mode.
// The form is never modified; on failure the caller re-renders it as entered.
func (c *Controller) Submit(ctx context.Context, f Form) ([]types.Question, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	c.log.Process("Generating %s question: %s / %s (%s, %s, %d marks)", f.Mode, f.Subject, f.Topic, f.BloomLevel, f.Difficulty, f.Marks)

	var (
		questions []types.Question
		err       error
	)
	switch f.Mode {
	case ModeManual:
		questions, err = c.api.AddManualQuestion(ctx, client.ManualRequest{
			Subject:          f.Subject,
			Topic:            f.Topic,
			BloomLevel:       f.BloomLevel,
			Difficulty:       f.Difficulty,
			Marks:            f.Marks,
			QuestionText:     f.QuestionText,
			CourseOutcomeIDs: f.CourseOutcomeIDs,
		})
	case ModeNotes:
		c.archiveNotes(ctx, f)
		questions, err = c.api.GenerateFromNotes(ctx, client.NotesRequest{
			GenerateRequest: f.generateRequest(),
			FileName:        f.FileName,
			File:            bytes.NewReader(f.File),
			CustomPrompt:    f.CustomPrompt,
		})
	default:
		questions, err = c.api.GenerateQuestion(ctx, f.generateRequest())
	}

	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	if pubErr := c.audit.Publish(ctx, audit.NewEvent(audit.ActionGenerate, ids, err)); pubErr != nil {
		log.Printf("⚠️ audit publish failed: %v", pubErr)
	}

	if err != nil {
		c.log.Error("Generation failed: %s", feedback.Message(err))
		return nil, err
	}
	if len(questions) == 0 {
		err := fmt.Errorf("the server returned no questions")
		c.log.Error("Generation failed: %s", err)
		return nil, err
	}
	c.log.AI("Generated %d question(s): %v", len(questions), ids)
	return questions, nil
}

// SubmitWithProgress is Submit with show called for each progress message while
// the request is in flight. Progress stops before SubmitWithProgress returns.
func (c *Controller) SubmitWithProgress(ctx context.Context, f Form, show func(string)) ([]types.Question, error) {
	progressCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		feedback.Cycle(progressCtx, c.interval, c.messages, show)
	}()

	questions, err := c.Submit(ctx, f)
	stop()
	<-done
	return questions, err
}

func (c *Controller) archiveNotes(ctx context.Context, f Form) {
	if c.archive == nil {
		return
	}
	archived, err := c.archive.Archive(ctx, f.FileName, f.File, f.Subject, f.Topic)
	if err != nil {
		log.Printf("⚠️ notes archive failed for %s: %v", f.FileName, err)
		return
	}
	if !archived.Existed {
		c.log.Info("Archived %s", f.FileName)
	}
}

func (f Form) generateRequest() client.GenerateRequest {
	return client.GenerateRequest{
		Subject:          f.Subject,
		Topic:            f.Topic,
		BloomLevel:       f.BloomLevel,
		Difficulty:       f.Difficulty,
		Marks:            f.Marks,
		CourseOutcomeIDs: f.CourseOutcomeIDs,
	}
}
