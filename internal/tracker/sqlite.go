package tracker

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taskdeck/taskdeck/internal/task"
)

//go:embed schema.sql
var schemaSQL string

// SQLite is a file-backed tracker. It gives the task tools a local backend
// with the same semantics as the remote tracker: sequential issue keys,
// rank assigned once at creation, status as a plain column.
type SQLite struct {
	db     *sql.DB
	prefix string
}

// NewSQLite opens (creating if needed) a tracker database at dbPath.
func NewSQLite(dbPath, projectKey string) (*SQLite, error) {
	if projectKey == "" {
		projectKey = "TASK"
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db, prefix: projectKey}, nil
}

func (s *SQLite) CreateIssue(ctx context.Context, fields CreateFields) (task.Task, error) {
	t, err := task.New(fields.Title, fields.Description)
	if err != nil {
		return task.Task{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	defer tx.Rollback()

	if fields.Parent != "" {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM issues WHERE id = ?`, fields.Parent).Scan(&exists)
		if err == sql.ErrNoRows {
			return task.Task{}, fmt.Errorf("parent %q: %w", fields.Parent, task.ErrNotFound)
		}
		if err != nil {
			return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
		}
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO issues (id, title, description, status, parent, created_at, updated_at)
		VALUES ('', ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, string(t.Status), fields.Parent, now, now)
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}

	rank, err := res.LastInsertId()
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}

	// Issue key carries the rank so the key is stable and human-readable.
	id := fmt.Sprintf("%s-%d", s.prefix, rank)
	if _, err := tx.ExecContext(ctx, `UPDATE issues SET id = ? WHERE rank = ?`, id, rank); err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}

	t.ID = id
	t.Parent = fields.Parent
	t.Rank = rank
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (s *SQLite) GetIssue(ctx context.Context, id string) (task.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT rank, id, title, description, status, parent, created_at, updated_at
		FROM issues WHERE id = ?`, id)

	t, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return task.Task{}, fmt.Errorf("issue %q: %w", id, task.ErrNotFound)
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	return t, nil
}

func (s *SQLite) UpdateIssue(ctx context.Context, id string, upd Update) error {
	cur, err := s.GetIssue(ctx, id)
	if err != nil {
		return err
	}

	title := cur.Title
	if upd.Title != nil {
		title = *upd.Title
	}
	description := cur.Description
	if upd.Description != nil {
		description = *upd.Description
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE issues SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		title, description, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *SQLite) ListIssues(ctx context.Context, parent string) ([]task.Task, error) {
	if parent != "" {
		if _, err := s.GetIssue(ctx, parent); err != nil {
			return nil, err
		}
	}

	query := `
		SELECT rank, id, title, description, status, parent, created_at, updated_at
		FROM issues`
	args := []interface{}{}
	if parent != "" {
		query += ` WHERE parent = ?`
		args = append(args, parent)
	}
	query += ` ORDER BY rank ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	defer rows.Close()

	var result []task.Task
	for rows.Next() {
		t, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	return result, nil
}

func (s *SQLite) TransitionIssue(ctx context.Context, id string, target task.Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(target))
	}

	cur, err := s.GetIssue(ctx, id)
	if err != nil {
		return err
	}
	if err := task.Transition(cur.Status, target); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE issues SET status = ?, updated_at = ? WHERE id = ?`,
		string(target), time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIssue(row rowScanner) (task.Task, error) {
	var t task.Task
	var status string
	err := row.Scan(&t.Rank, &t.ID, &t.Title, &t.Description, &status, &t.Parent, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return task.Task{}, err
	}
	t.Status = task.Status(status)
	return t, nil
}
