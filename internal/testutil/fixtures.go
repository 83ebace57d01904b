package testutil

import (
	"context"
	"testing"

	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

// SeedTasks creates top-level tasks with the given titles, in order, and
// returns them. Creation order determines rank, so titles[0] is the
// earliest task.
func SeedTasks(t *testing.T, tr tracker.Tracker, titles ...string) []task.Task {
	t.Helper()

	tasks := make([]task.Task, 0, len(titles))
	for _, title := range titles {
		created, err := tr.CreateIssue(context.Background(), tracker.CreateFields{Title: title})
		if err != nil {
			t.Fatalf("Failed to seed task %q: %v", title, err)
		}
		tasks = append(tasks, created)
	}
	return tasks
}

// SeedChecklist creates checklist items under the given parent, in order.
func SeedChecklist(t *testing.T, tr tracker.Tracker, parentID string, titles ...string) []task.Task {
	t.Helper()

	items := make([]task.Task, 0, len(titles))
	for _, title := range titles {
		created, err := tr.CreateIssue(context.Background(), tracker.CreateFields{
			Title:  title,
			Parent: parentID,
		})
		if err != nil {
			t.Fatalf("Failed to seed checklist item %q: %v", title, err)
		}
		items = append(items, created)
	}
	return items
}
