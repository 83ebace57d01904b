// Package service implements the task-tracking operations exposed through
// the tool surfaces. It holds no state of its own: every operation is a
// short-lived request against the configured tracker, with validation and
// selection done in the task domain package.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

// Manager wires the task operations onto a tracker backend.
type Manager struct {
	tr      tracker.Tracker
	project string
}

// NewManager creates a Manager over the given tracker. The project name is
// only used in result messages.
func NewManager(tr tracker.Tracker, project string) *Manager {
	if project == "" {
		project = "default"
	}
	return &Manager{tr: tr, project: project}
}

// AddTask creates a new top-level task in Todo status.
func (m *Manager) AddTask(ctx context.Context, title, description string) (task.Task, error) {
	if _, err := task.New(title, description); err != nil {
		return task.Task{}, err
	}
	return m.tr.CreateIssue(ctx, tracker.CreateFields{Title: title, Description: description})
}

// UpdateDescription appends to a task's description with a timestamp
// separator, preserving the previous text as an audit trail.
func (m *Manager) UpdateDescription(ctx context.Context, id, description string) (task.Task, error) {
	t, err := m.tr.GetIssue(ctx, id)
	if err != nil {
		return task.Task{}, err
	}

	updated := appendDescription(t.Description, description, time.Now())
	if err := m.tr.UpdateIssue(ctx, id, tracker.Update{Description: &updated}); err != nil {
		return task.Task{}, err
	}

	t.Description = updated
	return t, nil
}

// NextTask returns the next available top-level task: the earliest-created
// task still in Todo. The boolean is false when nothing is available; that
// is a defined empty result, not an error.
func (m *Manager) NextTask(ctx context.Context) (task.Task, bool, error) {
	snapshot, err := m.tr.ListIssues(ctx, "")
	if err != nil {
		return task.Task{}, false, err
	}
	next, ok := task.NextAvailable(snapshot)
	return next, ok, nil
}

// GetTasks lists tasks matching the filter ("all", "wip", "done"), ordered
// by creation. The returned message summarizes the result for a human or
// LLM reader.
func (m *Manager) GetTasks(ctx context.Context, filter string) ([]task.Task, string, error) {
	f, err := task.ParseFilter(filter)
	if err != nil {
		return nil, "", err
	}

	snapshot, err := m.tr.ListIssues(ctx, "")
	if err != nil {
		return nil, "", err
	}

	var result []task.Task
	for _, t := range snapshot {
		if f.Matches(t.Status) {
			result = append(result, t)
		}
	}
	task.SortByRank(result)

	return result, listMessage(f, len(result), m.project), nil
}

// MarkInProgress transitions a task to InProgress.
func (m *Manager) MarkInProgress(ctx context.Context, id string) (task.Task, error) {
	return m.SetStatus(ctx, id, task.StatusInProgress)
}

// MarkCompleted transitions a task to Done.
func (m *Manager) MarkCompleted(ctx context.Context, id string) (task.Task, error) {
	return m.SetStatus(ctx, id, task.StatusDone)
}

// SetStatus transitions a task to an explicit status. Any valid status is
// reachable from any other, which covers re-opening completed tasks.
func (m *Manager) SetStatus(ctx context.Context, id string, target task.Status) (task.Task, error) {
	if !target.Valid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(target))
	}

	t, err := m.tr.GetIssue(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	if err := task.Transition(t.Status, target); err != nil {
		return task.Task{}, err
	}
	if err := m.tr.TransitionIssue(ctx, id, target); err != nil {
		return task.Task{}, err
	}

	return t.WithStatus(target), nil
}

// TaskStatus fetches a task with its current status.
func (m *Manager) TaskStatus(ctx context.Context, id string) (task.Task, error) {
	return m.tr.GetIssue(ctx, id)
}

// Project returns the configured project name.
func (m *Manager) Project() string {
	return m.project
}

func appendDescription(current, addition string, now time.Time) string {
	ts := now.Format("2006-01-02 15:04:05")
	if current == "" {
		return fmt.Sprintf("--- Created on %s ---\n%s", ts, addition)
	}
	return fmt.Sprintf("%s\n\n--- Updated on %s ---\n%s", current, ts, addition)
}
