package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/internal/tracker"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	manager := service.NewManager(tracker.NewMemory("TD"), "Test Project")
	return NewServer(manager).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func TestCreateTask(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"Ship it","description":"body"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Task task.Task `json:"task"`
	}
	decode(t, rec, &resp)
	if resp.Task.ID == "" || resp.Task.Title != "Ship it" {
		t.Errorf("Unexpected task: %+v", resp.Task)
	}
	if resp.Task.Status != task.StatusTodo {
		t.Errorf("Expected todo, got %s", resp.Task.Status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty title, got %d", rec.Code)
	}
}

func TestListTasksFilter(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"a"}`)
	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"b"}`)
	doJSON(t, router, http.MethodPost, "/api/tasks/TD-2/status", `{"status":"done"}`)

	var resp struct {
		Tasks []task.Task `json:"tasks"`
		Count int         `json:"count"`
	}

	rec := doJSON(t, router, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Count != 2 {
		t.Errorf("Expected 2 tasks, got %d", resp.Count)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/tasks?filter=done", "")
	decode(t, rec, &resp)
	if resp.Count != 1 || resp.Tasks[0].ID != "TD-2" {
		t.Errorf("Unexpected done tasks: %+v", resp.Tasks)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/tasks?filter=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid filter, got %d", rec.Code)
	}
}

func TestNextTask(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	var resp struct {
		Available bool      `json:"available"`
		Task      task.Task `json:"task"`
		Message   string    `json:"message"`
	}

	rec := doJSON(t, router, http.MethodGet, "/api/tasks/next", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for empty board, got %d", rec.Code)
	}
	decode(t, rec, &resp)
	if resp.Available {
		t.Error("Expected no available task on empty board")
	}

	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"first"}`)
	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"second"}`)

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/next", "")
	decode(t, rec, &resp)
	if !resp.Available || resp.Task.Title != "first" {
		t.Errorf("Expected 'first' as next task, got %+v", resp)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/tasks/TD-404", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestUpdateDescription(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"task"}`)

	rec := doJSON(t, router, http.MethodPut, "/api/tasks/TD-1/description", `{"description":"notes"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Task task.Task `json:"task"`
	}
	decode(t, rec, &resp)
	if !strings.Contains(resp.Task.Description, "notes") {
		t.Errorf("Description not updated: %q", resp.Task.Description)
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"task"}`)

	rec := doJSON(t, router, http.MethodPost, "/api/tasks/TD-1/status", `{"status":"wip"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Task task.Task `json:"task"`
	}
	decode(t, rec, &resp)
	if resp.Task.Status != task.StatusInProgress {
		t.Errorf("Expected wip, got %s", resp.Task.Status)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/tasks/TD-1/status", `{"status":"archived"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid status, got %d", rec.Code)
	}
}

func TestChecklistEndpoints(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/tasks", `{"title":"release"}`)

	rec := doJSON(t, router, http.MethodPut, "/api/tasks/TD-1/checklist", `{"items":["tag","publish"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var syncResp struct {
		Items   []task.Task `json:"items"`
		Created int         `json:"created"`
	}
	decode(t, rec, &syncResp)
	if syncResp.Created != 2 || len(syncResp.Items) != 2 {
		t.Fatalf("Unexpected sync result: %+v", syncResp)
	}

	var nextResp struct {
		Available bool      `json:"available"`
		Item      task.Task `json:"item"`
	}
	rec = doJSON(t, router, http.MethodGet, "/api/tasks/TD-1/checklist/next", "")
	decode(t, rec, &nextResp)
	if !nextResp.Available || nextResp.Item.Title != "tag" {
		t.Errorf("Expected 'tag' first, got %+v", nextResp)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/checklist/"+nextResp.Item.ID+"/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/tasks/TD-1/checklist/next", "")
	decode(t, rec, &nextResp)
	if !nextResp.Available || nextResp.Item.Title != "publish" {
		t.Errorf("Expected 'publish' after completing 'tag', got %+v", nextResp)
	}
}
