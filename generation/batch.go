package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"qbank/client"
	"qbank/config"
	"qbank/feedback"
)

// BatchForm describes several questions for one subject generated in one request
type BatchForm struct {
	PlanName string
	Subject  string
	Items    []client.BatchQuestionSpec
}

// ParseBatchLine reads "topic|bloom_level|difficulty|marks"
func ParseBatchLine(line string) (client.BatchQuestionSpec, error) {
	parts := strings.Split(line, "|")
	if len(parts) != 4 {
		return client.BatchQuestionSpec{}, fmt.Errorf("expected topic|bloom_level|difficulty|marks, got %q", line)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	marks, err := strconv.Atoi(parts[3])
	if err != nil {
		return client.BatchQuestionSpec{}, fmt.Errorf("invalid marks %q: %w", parts[3], err)
	}
	return client.BatchQuestionSpec{
		Topic:      parts[0],
		BloomLevel: parts[1],
		Difficulty: parts[2],
		Marks:      marks,
	}, nil
}

func (b BatchForm) Validate() error {
	var v ValidationError
	if strings.TrimSpace(b.PlanName) == "" {
		v.add("plan_name", "Plan name is required")
	}
	if strings.TrimSpace(b.Subject) == "" {
		v.add("subject", "Subject is required")
	}
	if len(b.Items) == 0 {
		v.add("questions", "At least one question is required")
	}
	for i, item := range b.Items {
		if item.Topic == "" || item.BloomLevel == "" || item.Difficulty == "" {
			v.add(fmt.Sprintf("questions[%d]", i), fmt.Sprintf("Question %d is missing topic, level or difficulty", i+1))
		}
		if item.Marks < config.MinMarks || item.Marks > config.MaxMarks {
			v.add(fmt.Sprintf("questions[%d].marks", i), fmt.Sprintf("Question %d marks must be between 1 and 100", i+1))
		}
	}
	if len(v.Fields) == 0 {
		return nil
	}
	return &v
}

// SubmitBatch validates and creates a batch plan
func (c *Controller) SubmitBatch(ctx context.Context, b BatchForm) (*client.BatchPlan, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	c.log.Process("Creating batch plan %q with %d question(s)", b.PlanName, len(b.Items))
	plan, err := c.api.CreateBatchPlan(ctx, client.BatchPlanRequest{
		PlanName:  b.PlanName,
		Subject:   b.Subject,
		Questions: b.Items,
	})
	if err != nil {
		c.log.Error("Batch plan failed: %s", feedback.Message(err))
		return nil, err
	}
	c.log.AI("Batch plan %d created with %d question(s)", plan.ID, plan.TotalQuestions)
	return plan, nil
}
