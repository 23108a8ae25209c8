package moderation

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"qbank/audit"
	"qbank/client"
	"qbank/feedback"
	"qbank/types"
)

// Dashboard is the part of the backend API the bucket view needs. *client.Client satisfies it.
type Dashboard interface {
	GetStats(ctx context.Context) (*types.Stats, error)
	ListBucket(ctx context.Context, status types.Status) ([]types.Question, error)
	SubmitForDedupe(ctx context.Context, ids []int64) (*client.StatusUpdateResult, error)
	Approve(ctx context.Context, ids []int64) (*client.StatusUpdateResult, error)
}

// Refresher reloads the bucket counts after a successful action
type Refresher interface {
	RefreshStats(ctx context.Context) error
}

// ErrNoAction is returned when submitting a bucket that has no bulk action or an empty selection
var ErrNoAction = errors.New("nothing to submit")

// Controller runs bucket operations against the backend and records them
type Controller struct {
	api       Dashboard
	refresher Refresher
	log       *feedback.Log
	audit     audit.Publisher
}

func NewController(api Dashboard, refresher Refresher, activity *feedback.Log, publisher audit.Publisher) *Controller {
	if publisher == nil {
		publisher = audit.LogPublisher{}
	}
	return &Controller{api: api, refresher: refresher, log: activity, audit: publisher}
}

// OpenBucket opens bucket and loads its questions
func (c *Controller) OpenBucket(ctx context.Context, s Session, bucket types.Status) Session {
	s = s.Open(bucket)
	questions, err := c.api.ListBucket(ctx, bucket)
	if err != nil {
		c.log.Error("Failed to load %s: %s", bucket.Title(), feedback.Message(err))
	}
	return s.Loaded(bucket, questions, err)
}

// Submit sends the whole selection with the bucket's target status. On success the
// returned session is closed and stats are refreshed once; on failure the session
// stays open with the selection intact and Err set.
func (c *Controller) Submit(ctx context.Context, s Session) (Session, error) {
	if !s.ActionEnabled() {
		return s, ErrNoAction
	}
	action := s.Action()
	ids := s.SelectedIDs()

	var (
		result *client.StatusUpdateResult
		err    error
	)
	if action.Target == types.StatusDedupeApproved {
		result, err = c.api.SubmitForDedupe(ctx, ids)
	} else {
		result, err = c.api.Approve(ctx, ids)
	}

	event := audit.NewEvent(action.audit, ids, err)
	event.NewStatus = string(action.Target)
	c.publish(ctx, event)

	if err != nil {
		c.log.Error("%s failed: %s", action.Verb, feedback.Message(err))
		return s.Fail(err), err
	}

	msg := result.Message
	if msg == "" {
		msg = "Questions updated"
	}
	c.log.Success("%s (%d)", msg, len(ids))
	c.refresh(ctx)
	return s.Close(), nil
}

func (c *Controller) refresh(ctx context.Context) {
	if c.refresher == nil {
		return
	}
	if err := c.refresher.RefreshStats(ctx); err != nil {
		log.Printf("⚠️ stats refresh failed: %v", err)
	}
}

func (c *Controller) publish(ctx context.Context, e audit.Event) {
	if err := c.audit.Publish(ctx, e); err != nil {
		log.Printf("⚠️ audit publish failed: %v", err)
	}
}

// StatsBoard holds the most recent bucket counts. It is the Refresher used by
// the dashboards and by the periodic poll.
type StatsBoard struct {
	api interface {
		GetStats(ctx context.Context) (*types.Stats, error)
	}
	log *feedback.Log

	mu      sync.RWMutex
	latest  types.Stats
	updated time.Time
	err     error
}

func NewStatsBoard(api Dashboard, activity *feedback.Log) *StatsBoard {
	return &StatsBoard{api: api, log: activity}
}

// RefreshStats fetches the counts and logs a summary line
func (b *StatsBoard) RefreshStats(ctx context.Context) error {
	stats, err := b.api.GetStats(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.err = err
		b.log.Error("Stats refresh failed: %s", feedback.Message(err))
		return err
	}
	b.latest = *stats
	b.updated = time.Now()
	b.err = nil
	b.log.Info("Stats updated: %d pending, %d flagged.", stats.DedupePending, stats.DuplicateFlagged)
	return nil
}

// Latest returns the last fetched counts, when they were fetched, and the last refresh error
func (b *StatsBoard) Latest() (types.Stats, time.Time, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest, b.updated, b.err
}
