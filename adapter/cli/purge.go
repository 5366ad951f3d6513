package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all completed tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.PurgeCompletedHandler == nil {
			return errors.New("application not initialized")
		}

		result, err := app.PurgeCompletedHandler.Handle(cmd.Context(), commands.PurgeCompletedCommand{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to purge completed tasks: %w", err)
		}

		switch result.Deleted {
		case 0:
			fmt.Println("Nothing to purge.")
		case 1:
			fmt.Println("Purged 1 completed task.")
		default:
			fmt.Printf("Purged %d completed tasks.\n", result.Deleted)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
