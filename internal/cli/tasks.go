package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/service"
	"github.com/taskdeck/taskdeck/internal/task"
)

var addDescription string

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		t, err := manager.AddTask(cmd.Context(), strings.Join(args, " "), addDescription)
		if err != nil {
			return err
		}

		fmt.Printf("Added %s: %s\n", t.ID, t.Title)
		return nil
	},
}

var listFilter string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	manager, cleanup, err := loadManager(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	tasks, message, err := manager.GetTasks(cmd.Context(), listFilter)
	if err != nil {
		return err
	}

	for _, t := range tasks {
		marker := " "
		if t.IsChecklistItem() {
			marker = "  -"
		}
		fmt.Printf("%s%-10s [%s] %s\n", marker, t.ID, t.Status, t.Title)
	}
	fmt.Println(message)
	return nil
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next available task",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		t, ok, err := manager.NextTask(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(service.NextTaskMessage(t, ok, manager.Project()))
		if ok {
			fmt.Printf("%s [%s] %s\n", t.ID, t.Status, t.Title)
		}
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <task-id>",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		t, err := manager.MarkInProgress(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task '%s' status set to %s.\n", t.Title, t.Status)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		t, err := manager.MarkCompleted(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Task '%s' status set to %s.\n", t.Title, t.Status)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <task-id> [target-status]",
	Short: "Show or set a task's status",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			t, err := manager.TaskStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Task '%s' status: %s\n", t.Title, t.Status)
			return nil
		}

		target, err := task.ParseStatus(args[1])
		if err != nil {
			return err
		}
		t, err := manager.SetStatus(cmd.Context(), args[0], target)
		if err != nil {
			return err
		}
		fmt.Printf("Task '%s' status set to %s.\n", t.Title, t.Status)
		return nil
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist <task-id> [item]...",
	Short: "Show a task's checklist, or sync items onto it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, cleanup, err := loadManager(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		parentID := args[0]
		if len(args) > 1 {
			result, err := manager.SyncChecklist(cmd.Context(), parentID, args[1:])
			if err != nil {
				return err
			}
			fmt.Printf("Created %d item(s); checklist has %d item(s).\n", result.Created, len(result.Items))
			printChecklist(result.Items)
			return nil
		}

		items, _, err := manager.GetTasks(cmd.Context(), "all")
		if err != nil {
			return err
		}
		var children []task.Task
		for _, t := range items {
			if t.Parent == parentID {
				children = append(children, t)
			}
		}
		printChecklist(children)
		return nil
	},
}

func printChecklist(items []task.Task) {
	for _, item := range items {
		box := "[ ]"
		if item.Checked() {
			box = "[x]"
		}
		fmt.Printf("  %s %-10s %s\n", box, item.ID, item.Title)
	}
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Task description")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "all", "Filter: all, wip, done")
}
