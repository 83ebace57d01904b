package task

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tk, err := New("Write release notes", "Cover the tracker changes")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tk.Status != StatusTodo {
		t.Errorf("Expected status todo, got %s", tk.Status)
	}
	if tk.ID != "" {
		t.Errorf("Expected no id before creation, got %q", tk.ID)
	}
}

func TestNewEmptyTitle(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := New(title, "body"); !errors.Is(err, ErrValidation) {
			t.Errorf("New(%q) = %v, want ErrValidation", title, err)
		}
	}
}

func TestWithStatus(t *testing.T) {
	t.Parallel()

	tk, _ := New("A task", "")
	done := tk.WithStatus(StatusDone)

	if done.Status != StatusDone {
		t.Errorf("Expected done, got %s", done.Status)
	}
	if tk.Status != StatusTodo {
		t.Errorf("WithStatus mutated the receiver: %s", tk.Status)
	}
}

func TestChecked(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status  Status
		checked bool
	}{
		{StatusTodo, false},
		{StatusInProgress, false},
		{StatusDone, true},
	}

	for _, tc := range cases {
		item := Task{ID: "T-1", Parent: "T-0", Status: tc.status}
		if item.Checked() != tc.checked {
			t.Errorf("Checked() with status %s = %v, want %v", tc.status, item.Checked(), tc.checked)
		}
	}
}

func TestIsChecklistItem(t *testing.T) {
	t.Parallel()

	top := Task{ID: "T-1"}
	child := Task{ID: "T-2", Parent: "T-1"}

	if top.IsChecklistItem() {
		t.Error("top-level task reported as checklist item")
	}
	if !child.IsChecklistItem() {
		t.Error("child task not reported as checklist item")
	}
}
