package client

import (
	"context"
	"fmt"

	"qbank/types"
)

// GetSubjects lists the subjects available for generation
func (c *Client) GetSubjects(ctx context.Context) ([]types.Subject, error) {
	return getList[types.Subject](ctx, c, "/metadata/subjects")
}

// GetTopics lists the topics of one subject
func (c *Client) GetTopics(ctx context.Context, subjectID int64) ([]types.Topic, error) {
	return getList[types.Topic](ctx, c, fmt.Sprintf("/metadata/subjects/%d/topics", subjectID))
}

// GetCourseOutcomes lists the course outcomes of one subject
func (c *Client) GetCourseOutcomes(ctx context.Context, subjectID int64) ([]types.CourseOutcome, error) {
	return getList[types.CourseOutcome](ctx, c, fmt.Sprintf("/metadata/subjects/%d/course_outcomes", subjectID))
}
