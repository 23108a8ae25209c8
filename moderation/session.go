package moderation

import (
	"fmt"
	"sort"

	"qbank/audit"
	"qbank/types"
)

// State of the bucket view
type State int

const (
	Idle State = iota
	Loading
	ModalOpen
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case ModalOpen:
		return "open"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Action is the bulk transition offered for a bucket
type Action struct {
	Verb   string
	Target types.Status
	audit  audit.Action
}

// None reports that the bucket has no bulk action
func (a Action) None() bool { return a.Target == "" }

var (
	actionNone    = Action{}
	actionSubmit  = Action{Verb: "Submit", Target: types.StatusDedupeApproved, audit: audit.ActionSubmitForDedupe}
	actionApprove = Action{Verb: "Approve", Target: types.StatusApproved, audit: audit.ActionApprove}
)

// ActionFor maps a bucket to its bulk action. Approved questions have none.
func ActionFor(bucket types.Status) Action {
	switch bucket {
	case types.StatusDedupePending:
		return actionSubmit
	case types.StatusDedupeApproved, types.StatusDuplicateFlagged:
		return actionApprove
	default:
		return actionNone
	}
}

// Session is one operator's view of a bucket. It is a value: every transition
// returns a new Session and never mutates the receiver.
type Session struct {
	State     State
	Bucket    types.Status
	Questions []types.Question
	Err       error

	selected map[int64]struct{}
}

// Open starts loading a bucket. Any previous selection is dropped.
func (s Session) Open(bucket types.Status) Session {
	return Session{State: Loading, Bucket: bucket}
}

// Loaded applies a bucket fetch result. Results for a bucket other than the one
// being loaded are stale and ignored.
func (s Session) Loaded(bucket types.Status, questions []types.Question, err error) Session {
	if s.State != Loading || s.Bucket != bucket {
		return s
	}
	if err != nil {
		return Session{State: Failed, Bucket: bucket, Err: err}
	}
	return Session{State: ModalOpen, Bucket: bucket, Questions: questions}
}

// Close hides the bucket and always empties the selection
func (s Session) Close() Session {
	return Session{State: Idle}
}

// Toggle flips membership of id. Only ids in the loaded list can be selected.
func (s Session) Toggle(id int64) Session {
	if s.State != ModalOpen || !s.contains(id) {
		return s
	}
	next := s.withSelection()
	if _, ok := next.selected[id]; ok {
		delete(next.selected, id)
	} else {
		next.selected[id] = struct{}{}
	}
	return next
}

// Select replaces the selection with the given ids, dropping any not in the loaded list
func (s Session) Select(ids ...int64) Session {
	if s.State != ModalOpen {
		return s
	}
	next := s
	next.selected = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if s.contains(id) {
			next.selected[id] = struct{}{}
		}
	}
	return next
}

// SelectAll selects every loaded question, or clears the selection if all are already selected
func (s Session) SelectAll() Session {
	if s.State != ModalOpen {
		return s
	}
	if len(s.selected) == len(s.Questions) {
		return s.Select()
	}
	ids := make([]int64, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return s.Select(ids...)
}

// Fail records an action error while keeping the bucket open and the selection intact
func (s Session) Fail(err error) Session {
	next := s.withSelection()
	next.Err = err
	return next
}

// IsSelected reports whether id is in the selection
func (s Session) IsSelected(id int64) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selection in ascending order
func (s Session) SelectedIDs() []int64 {
	ids := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SelectionSize is the number of selected questions
func (s Session) SelectionSize() int { return len(s.selected) }

// Action returns the bucket's bulk action
func (s Session) Action() Action { return ActionFor(s.Bucket) }

// ActionEnabled is true iff the bucket is open, has an action and something is selected
func (s Session) ActionEnabled() bool {
	return s.State == ModalOpen && !s.Action().None() && len(s.selected) > 0
}

// ButtonLabel is the action button text with the live selection count, e.g. "Approve selected (3)"
func (s Session) ButtonLabel() string {
	a := s.Action()
	if a.None() {
		return ""
	}
	return fmt.Sprintf("%s selected (%d)", a.Verb, len(s.selected))
}

func (s Session) contains(id int64) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

func (s Session) withSelection() Session {
	next := s
	next.selected = make(map[int64]struct{}, len(s.selected)+1)
	for id := range s.selected {
		next.selected[id] = struct{}{}
	}
	return next
}
