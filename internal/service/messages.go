package service

import (
	"fmt"

	"github.com/taskdeck/taskdeck/internal/task"
)

// Result messages returned alongside query results. The MCP client is an
// LLM, so the text carries the interpretation the raw payload would
// otherwise leave implicit.

func listMessage(f task.Filter, count int, project string) string {
	if count == 0 {
		switch f {
		case task.FilterWIP:
			return fmt.Sprintf("No work in progress tasks found in project '%s'.", project)
		case task.FilterDone:
			return fmt.Sprintf("No completed tasks found in project '%s'.", project)
		default:
			return fmt.Sprintf("No tasks found in project '%s'.", project)
		}
	}

	switch f {
	case task.FilterWIP:
		return fmt.Sprintf("Found %d work in progress task(s) in project '%s'.", count, project)
	case task.FilterDone:
		return fmt.Sprintf("Found %d completed task(s) in project '%s'.", count, project)
	default:
		return fmt.Sprintf("Found %d task(s) in project '%s'.", count, project)
	}
}

// NextTaskMessage describes a next-available-task result.
func NextTaskMessage(t task.Task, ok bool, project string) string {
	if !ok {
		return fmt.Sprintf("No available tasks found in '%s'.", project)
	}
	return fmt.Sprintf("Next available task: %s - %s", t.Title, t.Description)
}

// NextItemMessage describes a next-unchecked-checklist-item result.
func NextItemMessage(parentID string, t task.Task, ok bool) string {
	if !ok {
		return fmt.Sprintf("No unchecked checklist items found for task '%s'.", parentID)
	}
	return fmt.Sprintf("Next unchecked checklist item for task '%s': %s", parentID, t.Title)
}
