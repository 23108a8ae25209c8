package metacache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"qbank/types"
)

// DefaultTTL is how long subject, topic and course outcome lists are reused
const DefaultTTL = 10 * time.Minute

// Source loads metadata from the backend. *client.Client satisfies it.
type Source interface {
	GetSubjects(ctx context.Context) ([]types.Subject, error)
	GetTopics(ctx context.Context, subjectID int64) ([]types.Topic, error)
	GetCourseOutcomes(ctx context.Context, subjectID int64) ([]types.CourseOutcome, error)
}

// Cache is a cache-aside layer over Source for the generation form's option lists.
// Store failures degrade to a direct Source call; they never fail the lookup.
type Cache struct {
	source Source
	store  Store
	ttl    time.Duration
}

func New(source Source, store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{source: source, store: store, ttl: ttl}
}

func (c *Cache) Subjects(ctx context.Context) ([]types.Subject, error) {
	return getOrLoad(ctx, c, "subjects", c.source.GetSubjects)
}

func (c *Cache) Topics(ctx context.Context, subjectID int64) ([]types.Topic, error) {
	return getOrLoad(ctx, c, fmt.Sprintf("subjects:%d:topics", subjectID), func(ctx context.Context) ([]types.Topic, error) {
		return c.source.GetTopics(ctx, subjectID)
	})
}

func (c *Cache) CourseOutcomes(ctx context.Context, subjectID int64) ([]types.CourseOutcome, error) {
	return getOrLoad(ctx, c, fmt.Sprintf("subjects:%d:course_outcomes", subjectID), func(ctx context.Context) ([]types.CourseOutcome, error) {
		return c.source.GetCourseOutcomes(ctx, subjectID)
	})
}

// Invalidate drops every cached list for a subject, plus the subject list itself
func (c *Cache) Invalidate(ctx context.Context, subjectID int64) error {
	return c.store.Delete(ctx,
		"subjects",
		fmt.Sprintf("subjects:%d:topics", subjectID),
		fmt.Sprintf("subjects:%d:course_outcomes", subjectID),
	)
}

func getOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		log.Printf("⚠️ metadata cache read %s failed: %v", key, err)
	} else if ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		log.Printf("⚠️ metadata cache entry %s is corrupt, reloading", key)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	// Empty lists are not cached; a subject with no topics yet is usually being set up.
	if len(items) == 0 {
		return items, nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return items, nil
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		log.Printf("⚠️ metadata cache write %s failed: %v", key, err)
	}
	return items, nil
}
