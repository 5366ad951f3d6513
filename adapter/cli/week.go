package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/queries"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the seven-day schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.WeekViewHandler == nil {
			return errors.New("application not initialized")
		}

		result, err := app.WeekViewHandler.Handle(cmd.Context(), queries.WeekViewQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load week view: %w", err)
		}

		for _, day := range result.Days {
			marker := " "
			if day.IsToday {
				marker = "*"
			}
			window := "closed"
			if day.Open {
				window = fmt.Sprintf("%s-%s", day.WindowStart, day.WindowEnd)
			}
			fmt.Printf("%s %s %s  [%s]  effort %d\n",
				marker, day.DayName, day.Date.Format("Jan 2"), window, day.AccumulatedEffort)

			for _, task := range day.Tasks {
				check := " "
				if task.Completed {
					check = "x"
				}
				when := "        "
				if task.Time != "" {
					when = fmt.Sprintf("%s-%s", task.Time, task.EndTime)
				}
				fmt.Printf("    [%s] %s  %s (%d)\n", check, when, task.Text, task.Effort)
			}
		}

		fmt.Printf("\nToday: %d effort used, %d available (threshold %d)\n",
			result.AccumulatedEffortToday, result.AvailableEffortToday, result.BurnoutThreshold)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(weekCmd)
}
