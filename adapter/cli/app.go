package cli

import (
	"github.com/google/uuid"

	"github.com/taskflow-app/taskflow/internal/planning/application/commands"
	"github.com/taskflow-app/taskflow/internal/planning/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	PlaceTaskHandler      *commands.PlaceTaskHandler
	ToggleTaskHandler     *commands.ToggleTaskHandler
	PurgeCompletedHandler *commands.PurgeCompletedHandler
	UpdateScheduleHandler *commands.UpdateScheduleHandler

	// Query Handlers
	WeekViewHandler *queries.WeekViewHandler
	ProgressHandler *queries.ProgressHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
