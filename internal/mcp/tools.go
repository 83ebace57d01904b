package mcp

import (
	"context"
	"fmt"

	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/task"
)

// ToolHandler handles MCP tool calls
type ToolHandler struct {
	manager   *service.Manager
	sessionID string
}

// NewToolHandler creates a new tool handler
func NewToolHandler(manager *service.Manager, sessionID string) *ToolHandler {
	return &ToolHandler{manager: manager, sessionID: sessionID}
}

const maxTextSize = 32 << 10 // 32KB per text argument

// Handle dispatches a tool call to the appropriate handler. Every result
// carries the session id so multi-session clients can attribute responses.
func (h *ToolHandler) Handle(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	result, err := h.dispatch(ctx, name, args)
	if err != nil {
		return nil, err
	}
	if m, ok := result.(map[string]interface{}); ok {
		m["session_id"] = h.sessionID
	}
	return result, nil
}

func (h *ToolHandler) dispatch(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	switch name {
	case "add_task":
		return h.handleAddTask(ctx, args)
	case "update_task_description":
		return h.handleUpdateDescription(ctx, args)
	case "get_next_available_task":
		return h.handleNextTask(ctx)
	case "get_tasks":
		return h.handleGetTasks(ctx, args)
	case "mark_as_in_progress":
		return h.handleMarkInProgress(ctx, args)
	case "mark_as_completed":
		return h.handleMarkCompleted(ctx, args)
	case "get_task_status":
		return h.handleTaskStatus(ctx, args)
	case "set_task_status":
		return h.handleSetStatus(ctx, args)
	case "update_task_with_checklist":
		return h.handleSyncChecklist(ctx, args)
	case "complete_checklist_item":
		return h.handleCompleteItem(ctx, args)
	case "get_next_unchecked_checklist_item":
		return h.handleNextItem(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

func (h *ToolHandler) handleAddTask(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	title, _ := args["title"].(string)
	description, _ := args["description"].(string)
	if len(title) > maxTextSize || len(description) > maxTextSize {
		return nil, fmt.Errorf("argument exceeds maximum size of 32KB")
	}

	t, err := h.manager.AddTask(ctx, title, description)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"message": fmt.Sprintf("Added new task '%s' to %s (Key: %s)", t.Title, h.manager.Project(), t.ID),
	}, nil
}

func (h *ToolHandler) handleUpdateDescription(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	description, _ := args["description"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}
	if len(description) > maxTextSize {
		return nil, fmt.Errorf("description exceeds maximum size of 32KB")
	}

	t, err := h.manager.UpdateDescription(ctx, id, description)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"message": fmt.Sprintf("Description updated for task '%s'.", t.Title),
	}, nil
}

func (h *ToolHandler) handleNextTask(ctx context.Context) (interface{}, error) {
	t, ok, err := h.manager.NextTask(ctx)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"available": ok,
		"message":   service.NextTaskMessage(t, ok, h.manager.Project()),
	}
	if ok {
		result["task"] = t
	}
	return result, nil
}

func (h *ToolHandler) handleGetTasks(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	filter, _ := args["filter"].(string)

	tasks, message, err := h.manager.GetTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"tasks":   tasks,
		"count":   len(tasks),
		"message": message,
	}, nil
}

func (h *ToolHandler) handleMarkInProgress(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	t, err := h.manager.MarkInProgress(ctx, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"message": fmt.Sprintf("Task '%s' status set to %s.", t.Title, t.Status),
	}, nil
}

func (h *ToolHandler) handleMarkCompleted(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	t, err := h.manager.MarkCompleted(ctx, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"message": fmt.Sprintf("Task '%s' status set to %s.", t.Title, t.Status),
	}, nil
}

func (h *ToolHandler) handleTaskStatus(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	t, err := h.manager.TaskStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"status":  t.Status,
		"message": fmt.Sprintf("Task '%s' status: %s", t.Title, t.Status),
	}, nil
}

func (h *ToolHandler) handleSetStatus(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	statusArg, _ := args["status"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	status, err := task.ParseStatus(statusArg)
	if err != nil {
		return nil, err
	}

	t, err := h.manager.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"task":    t,
		"message": fmt.Sprintf("Task '%s' status set to %s.", t.Title, t.Status),
	}, nil
}

func (h *ToolHandler) handleSyncChecklist(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	raw, ok := args["items"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("items must be an array of strings")
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("items must be an array of strings, got %T", v)
		}
		items = append(items, str)
	}

	result, err := h.manager.SyncChecklist(ctx, id, items)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"parent":  result.Parent,
		"items":   result.Items,
		"created": result.Created,
		"message": fmt.Sprintf("Created %d checklist item(s) for task '%s'; %d item(s) total.",
			result.Created, result.Parent.Title, len(result.Items)),
	}, nil
}

func (h *ToolHandler) handleCompleteItem(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["item_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("item_id is required")
	}

	t, err := h.manager.CompleteChecklistItem(ctx, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"item":    t,
		"message": fmt.Sprintf("Checklist item '%s' completed.", t.Title),
	}, nil
}

func (h *ToolHandler) handleNextItem(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, _ := args["task_id"].(string)
	if id == "" {
		return nil, fmt.Errorf("task_id is required")
	}

	item, ok, err := h.manager.NextUncheckedItem(ctx, id)
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"available": ok,
		"message":   service.NextItemMessage(id, item, ok),
	}
	if ok {
		result["item"] = item
	}
	return result, nil
}

// getToolDefinitions returns the MCP tool definitions
func getToolDefinitions() []Tool {
	taskIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Task id (issue key)",
	}

	return []Tool{
		{
			Name:        "add_task",
			Description: "Create a new task with the given title and description",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"title": map[string]interface{}{
						"type":        "string",
						"description": "Short task summary (required, non-empty)",
					},
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Free-text task body",
					},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "update_task_description",
			Description: "Append to a task's description; previous text is kept with a timestamp separator",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
					"description": map[string]interface{}{
						"type":        "string",
						"description": "Text to append to the description",
					},
				},
				"required": []string{"task_id", "description"},
			},
		},
		{
			Name:        "get_next_available_task",
			Description: "Get the earliest-created task still in todo; transition it to wip before working on it",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "get_tasks",
			Description: "List tasks filtered by status",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"description": "Filter: all, wip, done (default: all)",
					},
				},
			},
		},
		{
			Name:        "mark_as_in_progress",
			Description: "Transition a task to in-progress (wip) status",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "mark_as_completed",
			Description: "Transition a task to done status",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "get_task_status",
			Description: "Get a task with its current status",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "set_task_status",
			Description: "Set a task to an explicit status; re-opening a done task is allowed",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
					"status": map[string]interface{}{
						"type":        "string",
						"description": "Target status: todo, wip, done",
					},
				},
				"required": []string{"task_id", "status"},
			},
		},
		{
			Name:        "update_task_with_checklist",
			Description: "Sync a checklist onto a task: missing items are created as children, existing ones are left untouched, nothing is deleted",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
					"items": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Ordered checklist item descriptions",
					},
				},
				"required": []string{"task_id", "items"},
			},
		},
		{
			Name:        "complete_checklist_item",
			Description: "Mark a checklist item as done (checked)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"item_id": map[string]interface{}{
						"type":        "string",
						"description": "Checklist item id (issue key)",
					},
				},
				"required": []string{"item_id"},
			},
		},
		{
			Name:        "get_next_unchecked_checklist_item",
			Description: "Get the earliest-created unchecked checklist item of a task",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"task_id": taskIDProp,
				},
				"required": []string{"task_id"},
			},
		},
	}
}
