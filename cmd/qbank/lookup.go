package main

import (
	"context"
	"flag"
	"fmt"

	"qbank/app"
	"qbank/client"
	"qbank/feedback"
	"qbank/generation"
	"qbank/types"
)

func runShow(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	id := fs.Int64("id", 0, "Question id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("-id is required")
	}
	q, err := a.Client.GetQuestion(ctx, *id)
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}
	card := generation.Render([]types.Question{*q})[0]
	fmt.Println(card.Heading())
	if q.Status != "" {
		fmt.Printf("Status: %s\n", q.Status.Title())
	}
	fmt.Println(card.PlainText())
	return nil
}

func runList(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var f client.QuestionFilter
	fs.StringVar(&f.Subject, "subject", "", "Filter by subject name")
	fs.StringVar(&f.Topic, "topic", "", "Filter by topic name")
	fs.StringVar(&f.BloomLevel, "bloom", "", "Filter by Bloom's level")
	fs.IntVar(&f.Limit, "limit", 50, "Maximum number of questions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	questions, err := a.Client.ListQuestions(ctx, f)
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}
	for _, q := range questions {
		fmt.Println(formatListLine(q))
	}
	fmt.Printf("%d question(s)\n", len(questions))
	return nil
}

func runPlan(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	id := fs.Int64("id", 0, "Batch plan id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("-id is required")
	}
	plan, err := a.Client.GetBatchPlan(ctx, *id)
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}
	fmt.Printf("Batch plan %d (%s): %d question(s)\n", plan.ID, plan.PlanName, plan.TotalQuestions)
	for _, q := range plan.Questions {
		fmt.Println("  " + formatListLine(q))
	}
	return nil
}

func formatListLine(q types.Question) string {
	text := []rune(q.QuestionText)
	if len(text) > 60 {
		text = append(text[:57], []rune("...")...)
	}
	return fmt.Sprintf("#%-6d %-10s %-6s %3d  %s / %s  %s",
		q.ID, q.Metadata.Difficulty, q.Metadata.BloomLevel, q.Metadata.Marks,
		q.Metadata.Subject, q.Metadata.Topic, string(text))
}
