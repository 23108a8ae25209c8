package feedback

import (
	"context"
	"time"
)

// Loader is the loading state of a submit control: while active the control is
// disabled and its label cycles through reassurance messages. It is a value;
// every transition returns a new Loader.
type Loader struct {
	idle     string
	messages []string
	idx      int
	active   bool
}

// NewLoader creates an inactive loader showing idle text
func NewLoader(idle string, messages []string) Loader {
	return Loader{idle: idle, messages: append([]string(nil), messages...)}
}

// Start disables the control and shows the first message
func (l Loader) Start() Loader {
	l.active = true
	l.idx = 0
	return l
}

// Advance moves to the next message, wrapping around. No-op when inactive.
func (l Loader) Advance() Loader {
	if !l.active || len(l.messages) == 0 {
		return l
	}
	l.idx = (l.idx + 1) % len(l.messages)
	return l
}

// Stop re-enables the control and restores the idle label
func (l Loader) Stop() Loader {
	l.active = false
	l.idx = 0
	return l
}

// Active reports whether a request is in flight; the control is disabled while true.
func (l Loader) Active() bool { return l.active }

// Text returns the label to show right now
func (l Loader) Text() string {
	if !l.active || len(l.messages) == 0 {
		return l.idle
	}
	return l.messages[l.idx]
}

// Cycle calls show with each message in turn, one per interval, until ctx is done.
// The first message is shown immediately.
func Cycle(ctx context.Context, interval time.Duration, messages []string, show func(string)) {
	if len(messages) == 0 {
		<-ctx.Done()
		return
	}
	l := NewLoader("", messages).Start()
	show(l.Text())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l = l.Advance()
			show(l.Text())
		}
	}
}
