package task

import "fmt"

// Status is the lifecycle state of a task. The same three values double as
// the checked/unchecked flag for checklist items (Done = checked).
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "wip"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts an external status string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Transition checks a status change against the lifecycle policy. The policy
// is permissive: any change between valid states is allowed, including
// re-opening a Done task and idempotent self-transitions. Invalid target
// values fail with ErrInvalidStatus.
func Transition(from, to Status) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(from))
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(to))
	}
	return nil
}

// Filter selects tasks by status for listing operations.
type Filter string

const (
	FilterAll  Filter = "all"
	FilterWIP  Filter = "wip"
	FilterDone Filter = "done"
)

// ParseFilter converts an external filter string into a Filter.
// An empty string means "all".
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, "":
		return FilterAll, nil
	case FilterWIP:
		return FilterWIP, nil
	case FilterDone:
		return FilterDone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// Matches reports whether a task with the given status passes the filter.
// Todo tasks only appear under "all"; they are reachable individually
// through the next-available query.
func (f Filter) Matches(s Status) bool {
	switch f {
	case FilterWIP:
		return s == StatusInProgress
	case FilterDone:
		return s == StatusDone
	default:
		return true
	}
}
