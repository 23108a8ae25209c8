package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"qbank/types"
)

// GenerateRequest asks the backend to generate one question.
type GenerateRequest struct {
	Subject          string  `json:"subject"`
	Topic            string  `json:"topic"`
	BloomLevel       string  `json:"bloom_level"`
	Difficulty       string  `json:"difficulty"`
	Marks            int     `json:"marks"`
	CourseOutcomeIDs []int64 `json:"course_outcome_ids,omitempty"`
}

// ManualRequest stores an operator-written question without generation.
type ManualRequest struct {
	Subject          string  `json:"subject"`
	Topic            string  `json:"topic"`
	BloomLevel       string  `json:"bloom_level"`
	Difficulty       string  `json:"difficulty"`
	Marks            int     `json:"marks"`
	QuestionText     string  `json:"question_text"`
	CourseOutcomeIDs []int64 `json:"course_outcome_ids,omitempty"`
}

// NotesRequest generates a question grounded in an uploaded notes file.
type NotesRequest struct {
	GenerateRequest
	FileName     string
	File         io.Reader
	CustomPrompt string
}

// QuestionFilter narrows ListQuestions. Zero values are omitted.
type QuestionFilter struct {
	Subject    string
	Topic      string
	BloomLevel string
	Limit      int
}

// BatchQuestionSpec is one line of a batch plan.
type BatchQuestionSpec struct {
	Topic      string `json:"topic"`
	BloomLevel string `json:"bloom_level"`
	Difficulty string `json:"difficulty"`
	Marks      int    `json:"marks"`
}

// BatchPlanRequest generates several questions for one subject in one call.
type BatchPlanRequest struct {
	PlanName  string              `json:"plan_name"`
	Subject   string              `json:"subject"`
	Questions []BatchQuestionSpec `json:"questions"`
}

// BatchPlan is the stored result of a batch generation.
type BatchPlan struct {
	ID             int64            `json:"id"`
	PlanName       string           `json:"plan_name"`
	TotalQuestions int              `json:"total_questions"`
	Questions      []types.Question `json:"questions"`
}

// GenerateQuestion runs standard generation
func (c *Client) GenerateQuestion(ctx context.Context, req GenerateRequest) ([]types.Question, error) {
	var raw json.RawMessage
	if err := c.doJSONRequest(ctx, http.MethodPost, "/questions/generate", req, &raw); err != nil {
		return nil, err
	}
	return decodeQuestions(raw)
}

// AddManualQuestion stores a hand-written question
func (c *Client) AddManualQuestion(ctx context.Context, req ManualRequest) ([]types.Question, error) {
	var raw json.RawMessage
	if err := c.doJSONRequest(ctx, http.MethodPost, "/questions/manual", req, &raw); err != nil {
		return nil, err
	}
	return decodeQuestions(raw)
}

// GenerateFromNotes uploads a notes file and generates from its content
func (c *Client) GenerateFromNotes(ctx context.Context, req NotesRequest) ([]types.Question, error) {
	if req.File == nil {
		return nil, fmt.Errorf("notes file is required")
	}
	fields := []FormField{
		{Name: "subject", Value: req.Subject},
		{Name: "topic", Value: req.Topic},
		{Name: "bloom_level", Value: req.BloomLevel},
		{Name: "difficulty", Value: req.Difficulty},
		{Name: "marks", Value: strconv.Itoa(req.Marks)},
		{Name: "custom_prompt", Value: req.CustomPrompt},
	}
	if len(req.CourseOutcomeIDs) > 0 {
		ids := make([]string, len(req.CourseOutcomeIDs))
		for i, id := range req.CourseOutcomeIDs {
			ids[i] = strconv.FormatInt(id, 10)
		}
		fields = append(fields, FormField{Name: "course_outcome_ids", Value: strings.Join(ids, ",")})
	}

	file := &FilePart{FieldName: "file", FileName: req.FileName, Content: req.File}
	var raw json.RawMessage
	if err := c.doMultipartRequest(ctx, "/generate-from-notes/", fields, file, &raw); err != nil {
		return nil, err
	}
	return decodeQuestions(raw)
}

// GetQuestion fetches one question by id
func (c *Client) GetQuestion(ctx context.Context, id int64) (*types.Question, error) {
	var q types.Question
	if err := c.doJSONRequest(ctx, http.MethodGet, fmt.Sprintf("/questions/%d", id), nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ListQuestions lists questions with optional filters
func (c *Client) ListQuestions(ctx context.Context, f QuestionFilter) ([]types.Question, error) {
	q := url.Values{}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	if f.Topic != "" {
		q.Set("topic", f.Topic)
	}
	if f.BloomLevel != "" {
		q.Set("bloom_level", f.BloomLevel)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	path := "/questions/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeQuestions(raw)
}

// DeleteQuestion removes a question permanently
func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.doJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("/questions/%d", id), nil, nil)
}

// CreateBatchPlan generates every question of a plan
func (c *Client) CreateBatchPlan(ctx context.Context, req BatchPlanRequest) (*BatchPlan, error) {
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("batch plan needs at least one question")
	}
	var plan BatchPlan
	if err := c.doJSONRequest(ctx, http.MethodPost, "/batch/plan", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetBatchPlan fetches a stored batch plan
func (c *Client) GetBatchPlan(ctx context.Context, id int64) (*BatchPlan, error) {
	var plan BatchPlan
	if err := c.doJSONRequest(ctx, http.MethodGet, fmt.Sprintf("/batch/plan/%d", id), nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// decodeQuestions accepts a single record, an array, or an object wrapping
// a "questions" array, since the generation endpoints are not consistent.
func decodeQuestions(raw json.RawMessage) ([]types.Question, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var list []types.Question
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode questions: %w", err)
		}
		return list, nil
	case '{':
		var wrapper struct {
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err == nil && len(wrapper.Questions) > 0 && wrapper.Questions[0] == '[' {
			return decodeQuestions(wrapper.Questions)
		}
		var q types.Question
		if err := json.Unmarshal(trimmed, &q); err != nil {
			return nil, fmt.Errorf("failed to decode question: %w", err)
		}
		return []types.Question{q}, nil
	default:
		return nil, fmt.Errorf("unexpected response body %q", string(trimmed[:min(len(trimmed), 32)]))
	}
}
