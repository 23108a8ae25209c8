package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"qbank/types"
)

// StatusUpdateRequest is the body of the bulk status transition endpoints.
type StatusUpdateRequest struct {
	QuestionIDs []int64      `json:"question_ids"`
	NewStatus   types.Status `json:"new_status"`
}

// StatusUpdateResult is returned by submit-for-dedupe and approve.
type StatusUpdateResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// LinkRequest records a relation between two questions, or an ignore verdict
// when RelationType is IGNORE and TargetID is nil.
type LinkRequest struct {
	QuestionID   int64              `json:"question_id"`
	TargetID     *int64             `json:"target_id"`
	RelationType types.RelationType `json:"relation_type"`
}

// GetStats fetches the per-bucket counts
func (c *Client) GetStats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	if err := c.doJSONRequest(ctx, http.MethodGet, "/dashboard/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListBucket lists the questions currently in one status bucket
func (c *Client) ListBucket(ctx context.Context, status types.Status) ([]types.Question, error) {
	return getList[types.Question](ctx, c, "/dashboard/questions/"+url.PathEscape(string(status)))
}

// SubmitForDedupe moves questions into the background deduplication pass
func (c *Client) SubmitForDedupe(ctx context.Context, ids []int64) (*StatusUpdateResult, error) {
	return c.updateStatus(ctx, "/dashboard/submit-for-dedupe", ids, types.StatusDedupeApproved)
}

// Approve gives final approval to questions that passed (or were cleared by) dedupe
func (c *Client) Approve(ctx context.Context, ids []int64) (*StatusUpdateResult, error) {
	return c.updateStatus(ctx, "/dashboard/approve", ids, types.StatusApproved)
}

func (c *Client) updateStatus(ctx context.Context, path string, ids []int64, status types.Status) (*StatusUpdateResult, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no questions selected")
	}
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var result StatusUpdateResult
	payload := StatusUpdateRequest{QuestionIDs: sorted, NewStatus: status}
	if err := c.doJSONRequest(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDuplicates fetches the similarity report for one question
func (c *Client) GetDuplicates(ctx context.Context, questionID int64) ([]types.DuplicateMatch, error) {
	return getList[types.DuplicateMatch](ctx, c, fmt.Sprintf("/dashboard/duplicates/%d", questionID))
}

// LinkQuestions records a relation or an ignore verdict
func (c *Client) LinkQuestions(ctx context.Context, req LinkRequest) error {
	if req.RelationType == types.RelationIgnore {
		req.TargetID = nil
	} else if req.TargetID == nil {
		return fmt.Errorf("relation %s needs a target question", req.RelationType)
	}
	return c.doJSONRequest(ctx, http.MethodPost, "/dashboard/link-questions", req, nil)
}
