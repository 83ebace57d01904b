// Package jira adapts the tracker contract onto the Jira Cloud REST v3 API.
// Tasks map to Task issues, checklist items to Subtask issues under a
// parent, and the lifecycle statuses map to the default Jira workflow
// ("To Do", "In Progress", "Done").
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

const (
	apiPath = "/rest/api/3"

	issueTypeTask    = "Task"
	issueTypeSubtask = "Subtask"
)

// Client talks to a single Jira project using basic auth (account email +
// API token).
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	projectKey string
	httpClient *http.Client
}

var _ tracker.Tracker = (*Client)(nil)

// NewClient creates a Jira client. It performs no network I/O; call Verify
// to check connectivity and project access.
func NewClient(baseURL, email, apiToken, projectKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		email:      email,
		apiToken:   apiToken,
		projectKey: projectKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Verify checks that the server is reachable and the configured project
// exists.
func (c *Client) Verify(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodGet, "/project/"+c.projectKey, nil, nil); err != nil {
		return fmt.Errorf("failed to verify Jira connection: %w", err)
	}
	return nil
}

func (c *Client) CreateIssue(ctx context.Context, fields tracker.CreateFields) (task.Task, error) {
	t, err := task.New(fields.Title, fields.Description)
	if err != nil {
		return task.Task{}, err
	}

	issueType := issueTypeTask
	if fields.Parent != "" {
		// Dangling children are rejected up front so a failed create
		// leaves nothing behind.
		if _, err := c.GetIssue(ctx, fields.Parent); err != nil {
			return task.Task{}, err
		}
		issueType = issueTypeSubtask
	}

	req := createIssueRequest{}
	req.Fields.Project.Key = c.projectKey
	req.Fields.IssueType.Name = issueType
	req.Fields.Summary = fields.Title
	req.Fields.Description = adfFromText(fields.Description)
	if fields.Parent != "" {
		req.Fields.Parent = &keyRef{Key: fields.Parent}
	}

	var resp createIssueResponse
	if err := c.doRequest(ctx, http.MethodPost, "/issue", req, &resp); err != nil {
		return task.Task{}, fmt.Errorf("failed to create issue: %w", err)
	}

	now := time.Now()
	t.ID = resp.Key
	t.Parent = fields.Parent
	t.Rank = rankFromKey(resp.Key)
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (c *Client) GetIssue(ctx context.Context, id string) (task.Task, error) {
	var payload issuePayload
	path := fmt.Sprintf("/issue/%s?fields=%s", id, issueFieldList)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return task.Task{}, fmt.Errorf("issue %q: %w", id, err)
	}
	return payload.toTask(), nil
}

func (c *Client) UpdateIssue(ctx context.Context, id string, upd tracker.Update) error {
	if upd.Title == nil && upd.Description == nil {
		return nil
	}

	var req updateIssueRequest
	if upd.Title != nil {
		req.Fields.Summary = upd.Title
	}
	if upd.Description != nil {
		req.Fields.Description = adfFromText(*upd.Description)
	}

	if err := c.doRequest(ctx, http.MethodPut, "/issue/"+id, req, nil); err != nil {
		return fmt.Errorf("issue %q: %w", id, err)
	}
	return nil
}

func (c *Client) ListIssues(ctx context.Context, parent string) ([]task.Task, error) {
	jql := fmt.Sprintf("project = %s ORDER BY created ASC", c.projectKey)
	if parent != "" {
		if _, err := c.GetIssue(ctx, parent); err != nil {
			return nil, err
		}
		jql = fmt.Sprintf("parent = %s ORDER BY created ASC", parent)
	}

	req := searchRequest{
		JQL:        jql,
		MaxResults: maxSearchResults,
		Fields:     searchFields,
	}

	var resp searchResponse
	if err := c.doRequest(ctx, http.MethodPost, "/search", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to search issues: %w", err)
	}

	tasks := make([]task.Task, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		tasks = append(tasks, issue.toTask())
	}
	task.SortByRank(tasks)
	return tasks, nil
}

func (c *Client) TransitionIssue(ctx context.Context, id string, target task.Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %q", task.ErrInvalidStatus, string(target))
	}

	var resp transitionsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/issue/"+id+"/transitions", nil, &resp); err != nil {
		return fmt.Errorf("issue %q: %w", id, err)
	}

	wanted := statusName(target)
	transitionID := ""
	for _, tr := range resp.Transitions {
		if tr.To.Name == wanted {
			transitionID = tr.ID
			break
		}
	}
	if transitionID == "" {
		return fmt.Errorf("%w: workflow offers no transition to %q for issue %q",
			task.ErrInvalidTransition, wanted, id)
	}

	req := transitionRequest{}
	req.Transition.ID = transitionID
	if err := c.doRequest(ctx, http.MethodPost, "/issue/"+id+"/transitions", req, nil); err != nil {
		return fmt.Errorf("issue %q: %w", id, err)
	}
	return nil
}

func (c *Client) Close() error {
	return nil
}

// doRequest performs a JSON request against the Jira REST API. A 404 maps
// to task.ErrNotFound; every other failure, network errors included, maps
// to task.ErrBackendUnavailable.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + apiPath + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", task.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return task.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s %s returned %d: %s",
			task.ErrBackendUnavailable, method, path, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", task.ErrBackendUnavailable, err)
		}
	}
	return nil
}
