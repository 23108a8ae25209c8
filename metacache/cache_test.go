package metacache

import (
	"context"
	"errors"
	"testing"
	"time"

	"qbank/types"
)

type fakeSource struct {
	subjects      []types.Subject
	topics        map[int64][]types.Topic
	subjectCalls  int
	topicCalls    int
	outcomeCalls  int
	failNextTopic bool
}

func (f *fakeSource) GetSubjects(context.Context) ([]types.Subject, error) {
	f.subjectCalls++
	return f.subjects, nil
}

func (f *fakeSource) GetTopics(_ context.Context, subjectID int64) ([]types.Topic, error) {
	f.topicCalls++
	if f.failNextTopic {
		f.failNextTopic = false
		return nil, errors.New("backend down")
	}
	return f.topics[subjectID], nil
}

func (f *fakeSource) GetCourseOutcomes(context.Context, int64) ([]types.CourseOutcome, error) {
	f.outcomeCalls++
	return nil, nil
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestCacheServesRepeatLookupsFromStore(t *testing.T) {
	src := &fakeSource{
		subjects: []types.Subject{{ID: 1, CourseCode: "PHY101", SubjectName: "Physics"}},
		topics:   map[int64][]types.Topic{1: {{ID: 10, TopicName: "Kinematics"}}},
	}
	c := New(src, NewMemoryStore(), time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		subjects, err := c.Subjects(ctx)
		if err != nil || len(subjects) != 1 || subjects[0].SubjectName != "Physics" {
			t.Fatalf("Subjects() = %v, %v", subjects, err)
		}
		topics, err := c.Topics(ctx, 1)
		if err != nil || len(topics) != 1 || topics[0].TopicName != "Kinematics" {
			t.Fatalf("Topics(1) = %v, %v", topics, err)
		}
	}
	if src.subjectCalls != 1 || src.topicCalls != 1 {
		t.Fatalf("source calls: subjects=%d topics=%d; want 1 each", src.subjectCalls, src.topicCalls)
	}

	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := c.Topics(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if src.topicCalls != 2 {
		t.Fatalf("topic calls after invalidate = %d; want 2", src.topicCalls)
	}
}

func TestCacheDoesNotStoreEmptyOrFailedLoads(t *testing.T) {
	src := &fakeSource{topics: map[int64][]types.Topic{}}
	c := New(src, NewMemoryStore(), time.Minute)
	ctx := context.Background()

	_, _ = c.CourseOutcomes(ctx, 3)
	_, _ = c.CourseOutcomes(ctx, 3)
	if src.outcomeCalls != 2 {
		t.Fatalf("outcome calls = %d; empty lists must not be cached", src.outcomeCalls)
	}

	src.failNextTopic = true
	if _, err := c.Topics(ctx, 2); err == nil {
		t.Fatal("expected the source error")
	}
}

func TestCacheFallsBackWhenStoreFails(t *testing.T) {
	src := &fakeSource{subjects: []types.Subject{{ID: 1}}}
	c := New(src, brokenStore{NewMemoryStore()}, time.Minute)

	subjects, err := c.Subjects(context.Background())
	if err != nil || len(subjects) != 1 {
		t.Fatalf("Subjects() = %v, %v", subjects, err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_ = m.Set(ctx, "short", []byte("v"), 20*time.Millisecond)
	_ = m.Set(ctx, "forever", []byte("w"), 0)
	if v, ok, _ := m.Get(ctx, "short"); !ok || string(v) != "v" {
		t.Fatalf("Get before expiry = %q, %v", v, ok)
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Fatal("entry should have expired")
	}
	if v, ok, _ := m.Get(ctx, "forever"); !ok || string(v) != "w" {
		t.Fatalf("zero ttl entry = %q, %v; want it kept", v, ok)
	}

	_ = m.Delete(ctx, "forever")
	if _, ok, _ := m.Get(ctx, "forever"); ok {
		t.Fatal("entry should be gone after Delete")
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	buf := []byte("physics")
	_ = m.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'P'

	got, _, _ := m.Get(ctx, "k")
	got[1] = 'H'
	again, _, _ := m.Get(ctx, "k")
	if string(again) != "physics" {
		t.Fatalf("stored value = %q; caller mutations must not leak in", again)
	}
}
