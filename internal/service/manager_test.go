package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

func newManager(t *testing.T) (*Manager, tracker.Tracker) {
	t.Helper()
	tr := tracker.NewMemory("TD")
	return NewManager(tr, "Test Project"), tr
}

func TestAddTask(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newManager(t)

	created, err := m.AddTask(ctx, "Ship the release", "cut and tag")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if created.Status != task.StatusTodo {
		t.Errorf("Expected todo, got %s", created.Status)
	}

	second, err := m.AddTask(ctx, "Ship the release", "same title, new task")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if second.ID == created.ID {
		t.Errorf("Expected a fresh id, got duplicate %s", second.ID)
	}
}

func TestAddTaskEmptyTitle(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	if _, err := m.AddTask(context.Background(), "", "body"); !errors.Is(err, task.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestNextTaskOrderAndIdempotence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	seeded := testutil.SeedTasks(t, tr, "first", "second")

	next, ok, err := m.NextTask(ctx)
	if err != nil || !ok {
		t.Fatalf("NextTask failed: %v (ok=%v)", err, ok)
	}
	if next.ID != seeded[0].ID {
		t.Errorf("Expected earliest task %s, got %s", seeded[0].ID, next.ID)
	}

	// No intervening transition: same answer.
	again, ok, _ := m.NextTask(ctx)
	if !ok || again.ID != next.ID {
		t.Errorf("NextTask not idempotent: %s then %s", next.ID, again.ID)
	}

	// Claiming the task moves selection to the next one.
	if _, err := m.MarkInProgress(ctx, next.ID); err != nil {
		t.Fatalf("MarkInProgress failed: %v", err)
	}
	after, ok, _ := m.NextTask(ctx)
	if !ok || after.ID != seeded[1].ID {
		t.Errorf("Expected %s after claim, got %s", seeded[1].ID, after.ID)
	}
}

func TestNextTaskNeverReturnsClaimedOrDone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	seeded := testutil.SeedTasks(t, tr, "a", "b")
	if _, err := m.MarkInProgress(ctx, seeded[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MarkCompleted(ctx, seeded[1].ID); err != nil {
		t.Fatal(err)
	}

	if _, ok, _ := m.NextTask(ctx); ok {
		t.Error("Expected no available task")
	}
}

func TestGetTasksFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	seeded := testutil.SeedTasks(t, tr, "todo task", "wip task", "done task")
	if _, err := m.MarkInProgress(ctx, seeded[1].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := m.MarkCompleted(ctx, seeded[2].ID); err != nil {
		t.Fatal(err)
	}

	all, msg, err := m.GetTasks(ctx, "all")
	if err != nil {
		t.Fatalf("GetTasks(all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(all))
	}
	if !strings.Contains(msg, "3 task(s)") {
		t.Errorf("Unexpected message: %q", msg)
	}

	wip, _, err := m.GetTasks(ctx, "wip")
	if err != nil {
		t.Fatalf("GetTasks(wip) failed: %v", err)
	}
	if len(wip) != 1 || wip[0].ID != seeded[1].ID {
		t.Errorf("Unexpected wip tasks: %+v", wip)
	}

	done, _, err := m.GetTasks(ctx, "done")
	if err != nil {
		t.Fatalf("GetTasks(done) failed: %v", err)
	}
	if len(done) != 1 || done[0].ID != seeded[2].ID {
		t.Errorf("Unexpected done tasks: %+v", done)
	}

	// A completed task shows under done and never under wip.
	for _, tk := range wip {
		if tk.ID == seeded[2].ID {
			t.Error("Done task leaked into wip filter")
		}
	}

	if _, _, err := m.GetTasks(ctx, "open"); !errors.Is(err, task.ErrInvalidFilter) {
		t.Errorf("Expected ErrInvalidFilter, got %v", err)
	}
}

func TestSetStatusReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	seeded := testutil.SeedTasks(t, tr, "task")
	if _, err := m.MarkCompleted(ctx, seeded[0].ID); err != nil {
		t.Fatal(err)
	}

	reopened, err := m.SetStatus(ctx, seeded[0].ID, task.StatusTodo)
	if err != nil {
		t.Fatalf("SetStatus reopen failed: %v", err)
	}
	if reopened.Status != task.StatusTodo {
		t.Errorf("Expected todo after reopen, got %s", reopened.Status)
	}

	// The reopened task is selectable again.
	next, ok, _ := m.NextTask(ctx)
	if !ok || next.ID != seeded[0].ID {
		t.Errorf("Reopened task not selectable: %+v (ok=%v)", next, ok)
	}
}

func TestSetStatusInvalid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	seeded := testutil.SeedTasks(t, tr, "task")
	if _, err := m.SetStatus(ctx, seeded[0].ID, task.Status("blocked")); !errors.Is(err, task.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestOperationsOnUnknownID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newManager(t)

	// Unknown ids must surface NotFound, never a silent default.
	if _, err := m.UpdateDescription(ctx, "TD-404", "text"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("UpdateDescription: expected ErrNotFound, got %v", err)
	}
	if _, err := m.MarkInProgress(ctx, "TD-404"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("MarkInProgress: expected ErrNotFound, got %v", err)
	}
	if _, err := m.TaskStatus(ctx, "TD-404"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("TaskStatus: expected ErrNotFound, got %v", err)
	}
	if _, _, err := m.NextUncheckedItem(ctx, "TD-404"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("NextUncheckedItem: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDescriptionAppends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, tr := newManager(t)

	created, err := tr.CreateIssue(ctx, tracker.CreateFields{Title: "task"})
	if err != nil {
		t.Fatal(err)
	}

	first, err := m.UpdateDescription(ctx, created.ID, "initial notes")
	if err != nil {
		t.Fatalf("UpdateDescription failed: %v", err)
	}
	if !strings.HasPrefix(first.Description, "--- Created on ") {
		t.Errorf("Expected created marker, got %q", first.Description)
	}
	if !strings.Contains(first.Description, "initial notes") {
		t.Errorf("Missing appended text: %q", first.Description)
	}

	second, err := m.UpdateDescription(ctx, created.ID, "more notes")
	if err != nil {
		t.Fatalf("UpdateDescription failed: %v", err)
	}
	if !strings.Contains(second.Description, "initial notes") {
		t.Errorf("Earlier text lost: %q", second.Description)
	}
	if !strings.Contains(second.Description, "--- Updated on ") {
		t.Errorf("Expected updated marker, got %q", second.Description)
	}
	if !strings.Contains(second.Description, "more notes") {
		t.Errorf("Missing appended text: %q", second.Description)
	}
}

func TestAppendDescriptionFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 9, 14, 30, 0, 0, time.UTC)

	created := appendDescription("", "hello", now)
	if created != "--- Created on 2025-03-09 14:30:00 ---\nhello" {
		t.Errorf("Unexpected created format: %q", created)
	}

	updated := appendDescription("old", "new", now)
	if updated != "old\n\n--- Updated on 2025-03-09 14:30:00 ---\nnew" {
		t.Errorf("Unexpected updated format: %q", updated)
	}
}
