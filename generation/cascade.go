package generation

import (
	"context"
	"fmt"

	"qbank/types"
)

// MetadataSource provides option lists. *metacache.Cache satisfies it.
type MetadataSource interface {
	Subjects(ctx context.Context) ([]types.Subject, error)
	Topics(ctx context.Context, subjectID int64) ([]types.Topic, error)
	CourseOutcomes(ctx context.Context, subjectID int64) ([]types.CourseOutcome, error)
}

// Options are the choices offered by the form's dependent selects
type Options struct {
	Subjects       []types.Subject
	Topics         []types.Topic
	CourseOutcomes []types.CourseOutcome
}

// Cascade keeps subject, topic and course outcome selects consistent
type Cascade struct {
	source MetadataSource
}

func NewCascade(source MetadataSource) *Cascade {
	return &Cascade{source: source}
}

// Load returns the options for the form's current subject. Topics and course
// outcomes are only loaded once a subject is chosen.
func (c *Cascade) Load(ctx context.Context, f Form) (Options, error) {
	var opts Options
	subjects, err := c.source.Subjects(ctx)
	if err != nil {
		return opts, fmt.Errorf("failed to load subjects: %w", err)
	}
	opts.Subjects = subjects
	if f.SubjectID == 0 {
		return opts, nil
	}

	if opts.Topics, err = c.source.Topics(ctx, f.SubjectID); err != nil {
		return opts, fmt.Errorf("failed to load topics: %w", err)
	}
	if opts.CourseOutcomes, err = c.source.CourseOutcomes(ctx, f.SubjectID); err != nil {
		return opts, fmt.Errorf("failed to load course outcomes: %w", err)
	}
	return opts, nil
}

// SelectSubject switches the form to subjectID, clearing dependent fields, and
// loads the new dependent options.
func (c *Cascade) SelectSubject(ctx context.Context, f Form, subjectID int64) (Form, Options, error) {
	subjects, err := c.source.Subjects(ctx)
	if err != nil {
		return f, Options{}, fmt.Errorf("failed to load subjects: %w", err)
	}
	for _, s := range subjects {
		if s.ID == subjectID {
			f = f.WithSubject(s.ID, s.SubjectName)
			opts, err := c.Load(ctx, f)
			return f, opts, err
		}
	}
	return f, Options{Subjects: subjects}, fmt.Errorf("unknown subject %d", subjectID)
}
