package session

// Prompter asks the user to confirm destructive operations and to enter
// names. Prompt returns false when the user cancels.
type Prompter interface {
	Confirm(message string) bool
	Prompt(message string) (string, bool)
}

// Messages shown to the user by session operations.
const (
	msgRemoveTrip  = "Are you sure you want to remove this trip AND all of its associated routes and log entries?"
	msgRemoveRoute = "Are you sure you want to remove this route AND all of its associated log entries?"
	msgRemoveEntry = "Are you sure you want to remove this log entry?"
	msgClearAll    = "Are you sure you want to remove ALL data from Route Timer?"
	msgImport      = "Importing replaces ALL existing data. Continue?"
	msgAddTrip     = "Add a new trip name (e.g. 'Home to Work'):"
	msgAddRoute    = "New route name (e.g. 'Route 71'):"
)
