package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
)

var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Toggle a task's completion",
	Long: `Toggle the completed flag of a task.

Completing a task stamps it with the current day and time, which feeds
the streak and star counters. Running done again on a completed task
reopens it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ToggleTaskHandler == nil {
			return errors.New("application not initialized")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q", args[0])
		}

		result, err := app.ToggleTaskHandler.Handle(cmd.Context(), commands.ToggleTaskCommand{
			UserID: app.CurrentUserID,
			TaskID: taskID,
		})
		if err != nil {
			if errors.Is(err, commands.ErrTaskNotFound) {
				return fmt.Errorf("no task with ID %s", args[0])
			}
			return fmt.Errorf("failed to toggle task: %w", err)
		}

		if result.Completed {
			fmt.Printf("Done! Completed on %s at %s.\n", result.Day.Format("Mon, Jan 2"), result.StartTime)
		} else {
			fmt.Println("Task reopened.")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
