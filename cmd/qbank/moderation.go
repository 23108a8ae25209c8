package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"qbank/app"
	"qbank/audit"
	"qbank/config"
	"qbank/export"
	"qbank/feedback"
	"qbank/moderation"
	"qbank/types"
)

func runExport(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	bucket := fs.String("bucket", string(types.StatusApproved), "Bucket status to export")
	out := fs.String("o", "", "Output file (default qbank-<bucket>.xlsx)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	status, err := types.ParseStatus(*bucket)
	if err != nil {
		return err
	}
	questions, err := a.Client.ListBucket(ctx, status)
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("qbank-%s.xlsx", strings.ToLower(string(status)))
	}
	if err := writeWorkbook(path, status.Title(), questions); err != nil {
		return err
	}
	fmt.Printf("✅ Exported %d question(s) from %s to %s\n", len(questions), status.Title(), path)
	return nil
}

// writeWorkbook writes the questions to path. The file only counts as
// written once Close succeeds.
func writeWorkbook(path, title string, questions []types.Question) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteQuestions(f, title, questions); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func runStats(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.Stats.RefreshStats(ctx); err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}
	printStats(a.Stats)
	return nil
}

func printStats(board *moderation.StatsBoard) {
	stats, updated, _ := board.Latest()
	fmt.Printf("Bucket counts at %s\n", updated.Format("15:04:05"))
	for _, b := range types.Buckets {
		fmt.Printf("  %-45s %5d\n", b.Title(), stats.Count(b))
	}
}

func runWatch(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	interval := fs.Duration("interval", config.StatsPollInterval, "Poll interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	poller := moderation.NewPoller(a.Stats, a.Config.APITimeout)
	if err := poller.Start(moderation.EverySchedule(*interval)); err != nil {
		return err
	}
	defer poller.Stop()

	// Print new activity entries as they appear
	var seen time.Time
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		for _, e := range a.Activity.Entries() {
			if e.Timestamp.After(seen) {
				fmt.Println(e.String())
				seen = e.Timestamp
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func runAudit(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fromOldest := fs.Bool("from-oldest", false, "Replay the topic from the beginning")
	action := fs.String("action", "", "Only show this action, e.g. delete")
	failures := fs.Bool("failures", false, "Only show failed actions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(a.Config.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is not set")
	}

	handler := &audit.EventHandler{
		Filter: func(e *audit.Event) bool {
			if *action != "" && string(e.Action) != *action {
				return false
			}
			return !*failures || e.Outcome == audit.OutcomeFailure
		},
		Process: func(_ context.Context, e *audit.Event) error {
			fmt.Println(formatEvent(e))
			return nil
		},
	}
	consumer, err := audit.NewConsumer(audit.ConsumerConfig{
		Brokers:    a.Config.KafkaBrokers,
		Topic:      a.Config.AuditTopic,
		GroupID:    config.AuditGroupID,
		FromOldest: *fromOldest,
		Handler:    handler,
	})
	if err != nil {
		return fmt.Errorf("failed to create audit consumer: %w", err)
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	<-ctx.Done()
	return nil
}

func formatEvent(e *audit.Event) string {
	icon := feedback.LevelSuccess.Icon()
	if e.Outcome == audit.OutcomeFailure {
		icon = feedback.LevelError.Icon()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s %v", e.Timestamp.Local().Format("15:04:05"), icon, e.Action, e.QuestionIDs)
	if e.Relation != "" {
		fmt.Fprintf(&b, " %s", e.Relation)
	}
	if e.TargetID != nil {
		fmt.Fprintf(&b, " -> #%d", *e.TargetID)
	}
	if e.NewStatus != "" {
		fmt.Fprintf(&b, " => %s", e.NewStatus)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, " (%s)", e.Error)
	}
	return b.String()
}
