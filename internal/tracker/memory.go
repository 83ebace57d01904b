package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskdeck/taskdeck/internal/task"
)

// Memory is an ephemeral in-process tracker. It backs tests and demo runs;
// issue keys follow the tracker convention of "<PROJECT>-<seq>" so rank
// derivation behaves the same as against a real tracker.
type Memory struct {
	mu     sync.Mutex
	prefix string
	seq    int64
	issues map[string]task.Task
}

// NewMemory creates an empty in-memory tracker using the given project key
// as the issue key prefix.
func NewMemory(projectKey string) *Memory {
	if projectKey == "" {
		projectKey = "TASK"
	}
	return &Memory{
		prefix: projectKey,
		issues: make(map[string]task.Task),
	}
}

func (m *Memory) CreateIssue(ctx context.Context, fields CreateFields) (task.Task, error) {
	t, err := task.New(fields.Title, fields.Description)
	if err != nil {
		return task.Task{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if fields.Parent != "" {
		if _, ok := m.issues[fields.Parent]; !ok {
			return task.Task{}, fmt.Errorf("parent %q: %w", fields.Parent, task.ErrNotFound)
		}
	}

	m.seq++
	now := time.Now()
	t.ID = fmt.Sprintf("%s-%d", m.prefix, m.seq)
	t.Parent = fields.Parent
	t.Rank = m.seq
	t.CreatedAt = now
	t.UpdatedAt = now

	m.issues[t.ID] = t
	return t, nil
}

func (m *Memory) GetIssue(ctx context.Context, id string) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.issues[id]
	if !ok {
		return task.Task{}, fmt.Errorf("issue %q: %w", id, task.ErrNotFound)
	}
	return t, nil
}

func (m *Memory) UpdateIssue(ctx context.Context, id string, upd Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.issues[id]
	if !ok {
		return fmt.Errorf("issue %q: %w", id, task.ErrNotFound)
	}

	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	t.UpdatedAt = time.Now()

	m.issues[id] = t
	return nil
}

func (m *Memory) ListIssues(ctx context.Context, parent string) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if parent != "" {
		if _, ok := m.issues[parent]; !ok {
			return nil, fmt.Errorf("parent %q: %w", parent, task.ErrNotFound)
		}
	}

	var result []task.Task
	for _, t := range m.issues {
		if parent != "" && t.Parent != parent {
			continue
		}
		result = append(result, t)
	}

	task.SortByRank(result)
	return result, nil
}

func (m *Memory) TransitionIssue(ctx context.Context, id string, target task.Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(target))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.issues[id]
	if !ok {
		return fmt.Errorf("issue %q: %w", id, task.ErrNotFound)
	}

	if err := task.Transition(t.Status, target); err != nil {
		return err
	}

	t.Status = target
	t.UpdatedAt = time.Now()
	m.issues[id] = t
	return nil
}

func (m *Memory) Close() error {
	return nil
}
