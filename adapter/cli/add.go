package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
	"github.com/taskflow-app/taskflow/internal/planning/application/services"
	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task and let the engine place it",
	Long: `Add a task described in plain language.

The engine estimates effort and duration, picks the least loaded day
under your burnout threshold, and books the first free slot. Mention a
day or a clock time to pin the task:

  taskflow add "write the quarterly report"
  taskflow add "dentist appointment friday 14:30"
  taskflow add "review PR, 30 min"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.PlaceTaskHandler == nil {
			return errors.New("application not initialized")
		}

		text := strings.Join(args, " ")

		result, err := app.PlaceTaskHandler.Handle(cmd.Context(), commands.PlaceTaskCommand{
			UserID: app.CurrentUserID,
			Text:   text,
		})
		if err != nil {
			var estErr *services.EstimationError
			switch {
			case errors.As(err, &estErr):
				return fmt.Errorf("could not estimate the task (%s), nothing was scheduled", estErr.Kind)
			case errors.Is(err, domain.ErrNoSlotAvailable):
				return errors.New("no free slot this week, try adjusting your schedule or clearing completed tasks")
			default:
				return fmt.Errorf("failed to place task: %w", err)
			}
		}

		fmt.Println("Task scheduled!")
		fmt.Printf("  Text: %s\n", result.Text)
		fmt.Printf("  ID: %s\n", result.TaskID.String()[:8])
		fmt.Printf("  Day: %s\n", result.Day.Format("Mon, Jan 2 2006"))
		if result.StartTime != "" {
			fmt.Printf("  Time: %s-%s\n", result.StartTime, result.EndTime)
		}
		fmt.Printf("  Effort: %d\n", result.Effort)
		if result.Reasoning != "" {
			fmt.Printf("  Why: %s\n", result.Reasoning)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
