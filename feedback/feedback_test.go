package feedback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"qbank/client"
)

func TestLogKeepsNewestEntries(t *testing.T) {
	l := NewLog(3)
	for i := 1; i <= 5; i++ {
		l.Info("entry %d", i)
	}

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d; want 3", len(entries))
	}
	if entries[0].Message != "entry 3" || entries[2].Message != "entry 5" {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	last := l.Last(2)
	if len(last) != 2 || last[1].Message != "entry 5" {
		t.Fatalf("Last(2) = %+v", last)
	}

	l.Clear()
	if len(l.Entries()) != 0 {
		t.Fatal("expected empty log after Clear")
	}
}

func TestEntryString(t *testing.T) {
	e := Entry{Timestamp: time.Date(2024, 1, 2, 9, 5, 7, 0, time.UTC), Level: LevelSuccess, Message: "done"}
	if got := e.String(); got != "[09:05:07] ✅ done" {
		t.Fatalf("String() = %q", got)
	}
}

func TestLoaderCyclesAndStops(t *testing.T) {
	l := NewLoader("Generate", []string{"a", "b", "c"})
	if l.Active() || l.Text() != "Generate" {
		t.Fatalf("idle loader: active=%v text=%q", l.Active(), l.Text())
	}

	l = l.Start()
	var seen []string
	for i := 0; i < 4; i++ {
		seen = append(seen, l.Text())
		l = l.Advance()
	}
	if fmt.Sprint(seen) != "[a b c a]" {
		t.Fatalf("sequence = %v", seen)
	}

	l = l.Stop()
	if l.Active() || l.Text() != "Generate" {
		t.Fatalf("stopped loader: active=%v text=%q", l.Active(), l.Text())
	}
	if l.Advance().Text() != "Generate" {
		t.Fatal("Advance on inactive loader must be a no-op")
	}
}

func TestCycleShowsMessagesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var shown []string
	done := make(chan struct{})
	go func() {
		Cycle(ctx, 5*time.Millisecond, []string{"x", "y"}, func(s string) {
			mu.Lock()
			shown = append(shown, s)
			mu.Unlock()
		})
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(shown) < 2 || shown[0] != "x" || shown[1] != "y" {
		t.Fatalf("shown = %v", shown)
	}
}

func TestMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&client.RequestError{Status: 400, Detail: "Only PDF files are allowed"}, "Only PDF files are allowed"},
		{fmt.Errorf("wrap: %w", &client.TimeoutError{Endpoint: "/x", After: 30 * time.Second}), "The server did not answer within 30s. Please try again."},
		{errors.New("connection refused"), "connection refused"},
	}
	for _, c := range cases {
		if got := Message(c.err); got != c.want {
			t.Errorf("Message(%v) = %q; want %q", c.err, got, c.want)
		}
	}

	if b := ShowError(nil); b.Visible {
		t.Error("nil error must hide the banner")
	}
	if b := ShowError(errors.New("x")); !b.Visible || b.Message != "x" {
		t.Errorf("banner = %+v", b)
	}
}
