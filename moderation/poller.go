package moderation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Poller refreshes bucket counts on a cron schedule
type Poller struct {
	refresher Refresher
	timeout   time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	initial sync.WaitGroup
}

func NewPoller(refresher Refresher, timeout time.Duration) *Poller {
	return &Poller{refresher: refresher, timeout: timeout, cron: cron.New()}
}

// EverySchedule is the cron spec for a fixed interval
func EverySchedule(d time.Duration) string {
	return "@every " + d.String()
}

// Start schedules a refresh on every tick of schedule and fires one right
// away in the background. A tick that fires while the previous refresh is
// still running is skipped.
func (p *Poller) Start(schedule string) error {
	p.mu.Lock()
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(p.poll))
	id, err := p.cron.AddJob(schedule, job)
	if err != nil {
		p.mu.Unlock()
		return fmt.Errorf("failed to add stats poll: %w", err)
	}
	p.entryID = id
	p.cron.Start()
	p.initial.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.initial.Done()
		job.Run()
	}()
	log.Printf("Stats poll started with schedule: %s", schedule)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish
func (p *Poller) Stop() {
	p.mu.Lock()
	stopped := p.cron.Stop()
	p.mu.Unlock()
	<-stopped.Done()
	p.initial.Wait()
}

func (p *Poller) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	// Failures are already recorded on the activity log
	_ = p.refresher.RefreshStats(ctx)
}
