package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

// SyncResult reports the outcome of a checklist synchronization: the full
// current child set (pre-existing and newly created) and how many items
// the call added.
type SyncResult struct {
	Parent  task.Task   `json:"parent"`
	Items   []task.Task `json:"items"`
	Created int         `json:"created"`
}

// SyncChecklist reconciles a desired checklist against a task's current
// children. Items are matched by exact title: descriptions already present
// are left untouched, missing ones are created in caller order as Todo
// children. Existing children absent from the desired list are never
// deleted; the sync is additive only.
func (m *Manager) SyncChecklist(ctx context.Context, parentID string, items []string) (SyncResult, error) {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return SyncResult{}, fmt.Errorf("%w: checklist item must not be empty", task.ErrValidation)
		}
	}

	parent, err := m.tr.GetIssue(ctx, parentID)
	if err != nil {
		return SyncResult{}, err
	}

	existing, err := m.tr.ListIssues(ctx, parentID)
	if err != nil {
		return SyncResult{}, err
	}

	present := make(map[string]bool, len(existing))
	for _, child := range existing {
		present[child.Title] = true
	}

	created := 0
	children := existing
	for _, item := range items {
		if present[item] {
			continue
		}
		child, err := m.tr.CreateIssue(ctx, tracker.CreateFields{
			Title:  item,
			Parent: parentID,
		})
		if err != nil {
			return SyncResult{}, err
		}
		present[item] = true
		children = append(children, child)
		created++
	}

	task.SortByRank(children)
	return SyncResult{Parent: parent, Items: children, Created: created}, nil
}

// CompleteChecklistItem marks a checklist item as Done. Checklist items and
// tasks share one lifecycle, so the transition also works on a top-level
// task id.
func (m *Manager) CompleteChecklistItem(ctx context.Context, itemID string) (task.Task, error) {
	return m.SetStatus(ctx, itemID, task.StatusDone)
}

// NextUncheckedItem returns the earliest-created child of the given task
// whose status is not Done. The boolean is false when the task has no
// children or all are checked. Fails with NotFound when the parent id does
// not resolve.
func (m *Manager) NextUncheckedItem(ctx context.Context, parentID string) (task.Task, bool, error) {
	if _, err := m.tr.GetIssue(ctx, parentID); err != nil {
		return task.Task{}, false, err
	}

	children, err := m.tr.ListIssues(ctx, parentID)
	if err != nil {
		return task.Task{}, false, err
	}

	next, ok := task.NextUnchecked(children)
	return next, ok, nil
}
