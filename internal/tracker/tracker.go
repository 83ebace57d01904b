// Package tracker defines the issue tracker boundary the core depends on,
// plus the embedded backends. Any store offering these five primitives can
// sit behind the service layer unchanged; the Jira adapter, the SQLite
// backend, and the in-memory backend all implement the same contract.
package tracker

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/task"
)

// CreateFields carries the caller-supplied fields for a new issue. A
// non-empty Parent creates the issue as a checklist item of that task.
type CreateFields struct {
	Title       string
	Description string
	Parent      string
}

// Update carries field changes for an existing issue. Nil pointers leave
// the field untouched.
type Update struct {
	Title       *string
	Description *string
}

// Tracker is the adapter boundary to the backing issue store.
//
// CreateIssue must be effectively atomic: on error no partial issue may be
// observable through subsequent reads. GetIssue and ListIssues are
// snapshot reads with no side effects. Implementations return errors
// wrapping task.ErrNotFound and task.ErrBackendUnavailable so the service
// layer can classify failures without knowing the backend.
type Tracker interface {
	// CreateIssue stores a new issue with status Todo and a freshly
	// assigned id and rank, and returns the stored task.
	CreateIssue(ctx context.Context, fields CreateFields) (task.Task, error)

	// GetIssue fetches a single issue by id.
	GetIssue(ctx context.Context, id string) (task.Task, error)

	// UpdateIssue applies field changes to an existing issue.
	UpdateIssue(ctx context.Context, id string, upd Update) error

	// ListIssues returns issues as a snapshot. With a non-empty parent it
	// returns that task's children; with an empty parent it returns every
	// issue, children included.
	ListIssues(ctx context.Context, parent string) ([]task.Task, error)

	// TransitionIssue moves an issue to the target lifecycle status.
	TransitionIssue(ctx context.Context, id string, target task.Status) error

	// Close releases backend resources.
	Close() error
}
