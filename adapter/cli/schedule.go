package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
	"github.com/taskflow-app/taskflow/internal/planning/application/queries"
	"github.com/taskflow-app/taskflow/internal/planning/domain"
)

var scheduleDayFlags = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var (
	scheduleWindows   [7]string
	scheduleThreshold string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show or change the weekly availability",
}

var scheduleShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the availability windows and burnout threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.WeekViewHandler == nil {
			return errors.New("application not initialized")
		}

		result, err := app.WeekViewHandler.Handle(cmd.Context(), queries.WeekViewQuery{
			UserID: app.CurrentUserID,
		})
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		// The seven-day horizon touches every weekday exactly once.
		byName := make(map[string]queries.DayView, len(result.Days))
		for _, day := range result.Days {
			byName[day.DayName] = day
		}
		for _, name := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
			day := byName[name]
			if day.Open {
				fmt.Printf("%-10s %s-%s\n", name, day.WindowStart, day.WindowEnd)
			} else {
				fmt.Printf("%-10s closed\n", name)
			}
		}
		fmt.Printf("\nBurnout threshold: %d\n", result.BurnoutThreshold)

		return nil
	},
}

var scheduleSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the availability windows",
	Long: `Replace the weekly availability windows and, optionally, the
burnout threshold.

Each day takes a "HH:MM-HH:MM" window; pass "closed" (or an empty
window) to block the day. Days not given are closed.

  taskflow schedule set --mon 09:00-17:00 --tue 09:00-17:00 --sat closed
  taskflow schedule set --mon 08:00-16:00 --threshold 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.UpdateScheduleHandler == nil {
			return errors.New("application not initialized")
		}

		var windows [7]domain.WindowInput
		for i, raw := range scheduleWindows {
			windows[i] = parseWindowFlag(raw)
		}

		err := app.UpdateScheduleHandler.Handle(cmd.Context(), commands.UpdateScheduleCommand{
			UserID:    app.CurrentUserID,
			Windows:   windows,
			Threshold: scheduleThreshold,
		})
		if err != nil {
			return fmt.Errorf("failed to update schedule: %w", err)
		}

		fmt.Println("Schedule updated.")
		return nil
	},
}

// parseWindowFlag splits a "HH:MM-HH:MM" flag value. Anything else, "closed"
// included, yields an empty pair, which the domain treats as a closed day.
func parseWindowFlag(raw string) domain.WindowInput {
	start, end, ok := strings.Cut(raw, "-")
	if !ok {
		return domain.WindowInput{}
	}
	return domain.WindowInput{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
}

func init() {
	for i, name := range scheduleDayFlags {
		scheduleSetCmd.Flags().StringVar(&scheduleWindows[i], name, "", fmt.Sprintf("window for %s (HH:MM-HH:MM or closed)", name))
	}
	scheduleSetCmd.Flags().StringVar(&scheduleThreshold, "threshold", "", "daily burnout threshold")

	scheduleCmd.AddCommand(scheduleShowCmd)
	scheduleCmd.AddCommand(scheduleSetCmd)
	rootCmd.AddCommand(scheduleCmd)
}
