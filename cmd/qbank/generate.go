package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"qbank/app"
	"qbank/client"
	"qbank/config"
	"qbank/export"
	"qbank/feedback"
	"qbank/generation"
)

func runGenerate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	mode := fs.String("mode", string(generation.ModeStandard), "standard, manual or notes")
	subjectID := fs.Int64("subject-id", 0, "Subject id (resolves the subject name)")
	subject := fs.String("subject", "", "Subject name, when -subject-id is not given")
	topic := fs.String("topic", "", "Topic name")
	bloom := fs.String("bloom", "", "Bloom's level, e.g. RBT3")
	difficulty := fs.String("difficulty", "", "EASY, MEDIUM or HARD")
	marks := fs.Int("marks", config.DefaultMarks, "Marks (1-100)")
	outcomes := fs.String("co", "", "Comma separated course outcome ids")
	text := fs.String("text", "", "Question text (manual mode)")
	file := fs.String("file", "", "Notes PDF (notes mode)")
	prompt := fs.String("prompt", "", "Custom prompt (notes mode)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, ok := generation.ParseMode(*mode)
	if !ok {
		return fmt.Errorf("unknown mode %q", *mode)
	}
	form := generation.NewForm()
	form.Mode = m
	form.Subject = *subject
	form.BloomLevel = *bloom
	form.Difficulty = *difficulty
	form.Marks = *marks
	form.QuestionText = *text
	form.CustomPrompt = *prompt

	if *subjectID != 0 {
		var err error
		if form, _, err = a.Cascade.SelectSubject(ctx, form, *subjectID); err != nil {
			return err
		}
	}
	// Set after the subject so the cascade does not clear them
	form.Topic = *topic
	ids, err := parseIDList(*outcomes)
	if err != nil {
		return err
	}
	form.CourseOutcomeIDs = ids

	if *file != "" {
		content, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("failed to read notes: %w", err)
		}
		form.FileName = filepath.Base(*file)
		form.File = content
	}

	questions, err := a.Generate.SubmitWithProgress(ctx, form, func(msg string) {
		fmt.Fprintf(os.Stderr, "\r⏳ %-40s", msg)
	})
	fmt.Fprint(os.Stderr, "\r\033[K")
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}

	for i, card := range generation.Render(questions) {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(card.Heading())
		fmt.Println(card.PlainText())
	}
	return nil
}

func runBatch(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	plan := fs.String("plan", "", "Plan name")
	subject := fs.String("subject", "", "Subject name")
	sheet := fs.String("xlsx", "", "Read questions from this workbook instead of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	batch := generation.BatchForm{PlanName: *plan, Subject: *subject}
	if *sheet != "" {
		f, err := os.Open(*sheet)
		if err != nil {
			return err
		}
		items, rowErrs, err := export.ReadBatchSheet(f)
		f.Close()
		if err != nil {
			return err
		}
		for _, re := range rowErrs {
			fmt.Fprintf(os.Stderr, "⚠️ row %d: %s\n", re.Row, re.Message)
		}
		batch.Items = items
	} else {
		items, err := readBatchLines(os.Stdin)
		if err != nil {
			return err
		}
		batch.Items = items
	}

	result, err := a.Generate.SubmitBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("%s", feedback.Message(err))
	}
	fmt.Printf("✅ Batch plan %d (%s): %d question(s)\n", result.ID, result.PlanName, result.TotalQuestions)
	for _, card := range generation.Render(result.Questions) {
		fmt.Printf("  %s  %s\n", card.Heading(), card.Text)
	}
	return nil
}

// readBatchLines reads topic|bloom_level|difficulty|marks lines, skipping blanks and # comments
func readBatchLines(r io.Reader) ([]client.BatchQuestionSpec, error) {
	var items []client.BatchQuestionSpec
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		item, err := generation.ParseBatchLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	return items, scanner.Err()
}

func parseIDList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
