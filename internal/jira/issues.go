package jira

import (
	"strconv"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/internal/task"
)

const (
	issueFieldList = "summary,description,status,issuetype,parent,created,updated"

	// Single-page search cap. Listings over a project with more issues
	// than this are truncated; no pagination yet.
	// TODO: follow startAt/total in the search response for large projects.
	maxSearchResults = 200

	// Jira's timestamp format for created/updated fields.
	jiraTimeFormat = "2006-01-02T15:04:05.000-0700"
)

var searchFields = []string{"summary", "description", "status", "issuetype", "parent", "created", "updated"}

// Wire types for the Jira REST API.

type keyRef struct {
	Key string `json:"key"`
}

type nameRef struct {
	Name string `json:"name"`
}

type createIssueRequest struct {
	Fields struct {
		Project     keyRef  `json:"project"`
		IssueType   nameRef `json:"issuetype"`
		Summary     string  `json:"summary"`
		Description *adfDoc `json:"description,omitempty"`
		Parent      *keyRef `json:"parent,omitempty"`
	} `json:"fields"`
}

type createIssueResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type updateIssueRequest struct {
	Fields struct {
		Summary     *string `json:"summary,omitempty"`
		Description *adfDoc `json:"description,omitempty"`
	} `json:"fields"`
}

type searchRequest struct {
	JQL        string   `json:"jql"`
	MaxResults int      `json:"maxResults"`
	Fields     []string `json:"fields"`
}

type searchResponse struct {
	Issues []issuePayload `json:"issues"`
}

type issuePayload struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary     string   `json:"summary"`
		Description *adfDoc  `json:"description"`
		Status      *nameRef `json:"status"`
		IssueType   *nameRef `json:"issuetype"`
		Parent      *keyRef  `json:"parent"`
		Created     string   `json:"created"`
		Updated     string   `json:"updated"`
	} `json:"fields"`
}

type transitionsResponse struct {
	Transitions []struct {
		ID string  `json:"id"`
		To nameRef `json:"to"`
	} `json:"transitions"`
}

type transitionRequest struct {
	Transition struct {
		ID string `json:"id"`
	} `json:"transition"`
}

func (p issuePayload) toTask() task.Task {
	t := task.Task{
		ID:          p.Key,
		Title:       p.Fields.Summary,
		Description: p.Fields.Description.plainText(),
		Status:      task.StatusTodo,
		Rank:        rankFromKey(p.Key),
	}
	if p.Fields.Status != nil {
		t.Status = normalizeStatus(p.Fields.Status.Name)
	}
	if p.Fields.Parent != nil {
		t.Parent = p.Fields.Parent.Key
	}
	if ts, err := time.Parse(jiraTimeFormat, p.Fields.Created); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(jiraTimeFormat, p.Fields.Updated); err == nil {
		t.UpdatedAt = ts
	}
	return t
}

// statusName maps a lifecycle status onto the Jira workflow status name.
func statusName(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return "In Progress"
	case task.StatusDone:
		return "Done"
	default:
		return "To Do"
	}
}

// normalizeStatus maps a Jira workflow status name back onto the lifecycle.
// Unknown workflow states count as todo, matching the listing semantics of
// the tracker ("not started" is the default bucket).
func normalizeStatus(name string) task.Status {
	switch name {
	case "Done":
		return task.StatusDone
	case "In Progress":
		return task.StatusInProgress
	default:
		return task.StatusTodo
	}
}

// rankFromKey extracts the sequence number from an issue key such as
// "TD-42". Jira assigns these sequentially per project, which makes the
// suffix a stable creation-order rank.
func rankFromKey(key string) int64 {
	idx := strings.LastIndexByte(key, '-')
	if idx < 0 || idx+1 >= len(key) {
		return 0
	}
	n, err := strconv.ParseInt(key[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
