package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/taskdeck/taskdeck/internal/task"
)

// The memory and sqlite backends must be interchangeable behind the
// Tracker interface, so both run the same conformance suite.

func newBackends(t *testing.T) map[string]Tracker {
	t.Helper()

	sq, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), "TD")
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Tracker{
		"memory": NewMemory("TD"),
		"sqlite": sq,
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			created, err := tr.CreateIssue(ctx, CreateFields{Title: "First", Description: "body"})
			if err != nil {
				t.Fatalf("CreateIssue failed: %v", err)
			}
			if created.ID == "" {
				t.Fatal("Expected an assigned id")
			}
			if created.Status != task.StatusTodo {
				t.Errorf("Expected todo, got %s", created.Status)
			}

			got, err := tr.GetIssue(ctx, created.ID)
			if err != nil {
				t.Fatalf("GetIssue failed: %v", err)
			}
			if got.Title != "First" || got.Description != "body" {
				t.Errorf("Round-trip mismatch: %+v", got)
			}
		})
	}
}

func TestCreateEmptyTitle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := tr.CreateIssue(ctx, CreateFields{Title: "  "}); !errors.Is(err, task.ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
			// A failed create must not leave a partial issue behind.
			issues, err := tr.ListIssues(ctx, "")
			if err != nil {
				t.Fatalf("ListIssues failed: %v", err)
			}
			if len(issues) != 0 {
				t.Errorf("Expected no issues after failed create, got %d", len(issues))
			}
		})
	}
}

func TestRankMonotonic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			var prev int64
			for _, title := range []string{"one", "two", "three"} {
				created, err := tr.CreateIssue(ctx, CreateFields{Title: title})
				if err != nil {
					t.Fatalf("CreateIssue failed: %v", err)
				}
				if created.Rank <= prev {
					t.Errorf("Rank not monotonic: %d after %d", created.Rank, prev)
				}
				prev = created.Rank
			}
		})
	}
}

func TestParentNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := tr.CreateIssue(ctx, CreateFields{Title: "orphan", Parent: "TD-999"})
			if !errors.Is(err, task.ErrNotFound) {
				t.Errorf("Expected ErrNotFound for dangling parent, got %v", err)
			}

			if _, err := tr.ListIssues(ctx, "TD-999"); !errors.Is(err, task.ErrNotFound) {
				t.Errorf("Expected ErrNotFound listing unknown parent, got %v", err)
			}
		})
	}
}

func TestListChildren(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			parent, err := tr.CreateIssue(ctx, CreateFields{Title: "parent"})
			if err != nil {
				t.Fatalf("CreateIssue failed: %v", err)
			}
			for _, title := range []string{"a", "b"} {
				if _, err := tr.CreateIssue(ctx, CreateFields{Title: title, Parent: parent.ID}); err != nil {
					t.Fatalf("CreateIssue child failed: %v", err)
				}
			}
			// Unrelated top-level task must not show up as a child.
			if _, err := tr.CreateIssue(ctx, CreateFields{Title: "other"}); err != nil {
				t.Fatalf("CreateIssue failed: %v", err)
			}

			children, err := tr.ListIssues(ctx, parent.ID)
			if err != nil {
				t.Fatalf("ListIssues failed: %v", err)
			}
			if len(children) != 2 {
				t.Fatalf("Expected 2 children, got %d", len(children))
			}
			if children[0].Title != "a" || children[1].Title != "b" {
				t.Errorf("Children out of order: %+v", children)
			}

			all, err := tr.ListIssues(ctx, "")
			if err != nil {
				t.Fatalf("ListIssues(all) failed: %v", err)
			}
			if len(all) != 4 {
				t.Errorf("Expected 4 issues total, got %d", len(all))
			}
		})
	}
}

func TestUpdateIssue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			created, err := tr.CreateIssue(ctx, CreateFields{Title: "task", Description: "old"})
			if err != nil {
				t.Fatalf("CreateIssue failed: %v", err)
			}

			desc := "new"
			if err := tr.UpdateIssue(ctx, created.ID, Update{Description: &desc}); err != nil {
				t.Fatalf("UpdateIssue failed: %v", err)
			}

			got, err := tr.GetIssue(ctx, created.ID)
			if err != nil {
				t.Fatalf("GetIssue failed: %v", err)
			}
			if got.Description != "new" {
				t.Errorf("Expected description 'new', got %q", got.Description)
			}
			if got.Title != "task" {
				t.Errorf("Title changed unexpectedly: %q", got.Title)
			}

			if err := tr.UpdateIssue(ctx, "TD-999", Update{Description: &desc}); !errors.Is(err, task.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestTransitionIssue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			created, err := tr.CreateIssue(ctx, CreateFields{Title: "task"})
			if err != nil {
				t.Fatalf("CreateIssue failed: %v", err)
			}

			// Forward, then re-open.
			steps := []task.Status{task.StatusInProgress, task.StatusDone, task.StatusTodo}
			for _, target := range steps {
				if err := tr.TransitionIssue(ctx, created.ID, target); err != nil {
					t.Fatalf("TransitionIssue to %s failed: %v", target, err)
				}
				got, _ := tr.GetIssue(ctx, created.ID)
				if got.Status != target {
					t.Errorf("Expected %s, got %s", target, got.Status)
				}
			}

			if err := tr.TransitionIssue(ctx, created.ID, task.Status("archived")); !errors.Is(err, task.ErrInvalidStatus) {
				t.Errorf("Expected ErrInvalidStatus, got %v", err)
			}
			if err := tr.TransitionIssue(ctx, "TD-999", task.StatusDone); !errors.Is(err, task.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestGetIssueNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for name, tr := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := tr.GetIssue(ctx, "TD-404"); !errors.Is(err, task.ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}
