package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/queries"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show completion streak and monthly stars",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ProgressHandler == nil {
			return errors.New("application not initialized")
		}

		result, err := app.ProgressHandler.Handle(cmd.Context(), queries.ProgressQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		fmt.Printf("Streak: %d day(s)\n", result.StreakDays)
		fmt.Printf("Completed this month: %d\n", result.CompletedThisMonth)
		fmt.Printf("Stars: %d\n", result.Stars)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(progressCmd)
}
