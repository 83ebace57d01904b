// Package task defines the task domain model: the Task value, its status
// lifecycle, and the pure selection queries over task snapshots. It performs
// no I/O; trackers and services operate on this shared vocabulary.
package task

import (
	"fmt"
	"strings"
	"time"
)

// Task is a unit of trackable work. A Task with a non-empty Parent is a
// checklist item of that parent; checklist items share the same lifecycle
// and status vocabulary as top-level tasks.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Parent      string    `json:"parent,omitempty"`
	Rank        int64     `json:"rank"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// New constructs an unsaved Task value. The id and rank are assigned by the
// tracker at creation time.
func New(title, description string) (Task, error) {
	if strings.TrimSpace(title) == "" {
		return Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	return Task{
		Title:       title,
		Description: description,
		Status:      StatusTodo,
	}, nil
}

// WithStatus returns a copy of the task with the status replaced. It is a
// structural update only; transition legality is the policy's concern.
func (t Task) WithStatus(s Status) Task {
	t.Status = s
	return t
}

// IsChecklistItem reports whether the task is a child of another task.
func (t Task) IsChecklistItem() bool {
	return t.Parent != ""
}

// Checked reports the derived checklist flag: a Done item is checked,
// anything else is unchecked.
func (t Task) Checked() bool {
	return t.Status == StatusDone
}
