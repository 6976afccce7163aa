package tui

import (
	"github.com/sadopc/planr/internal/cal"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewRoles
	viewStats
	viewSettings
)

var viewNames = []string{"Calendar", "Roles", "Stats", "Settings"}

// --- Messages ---

type calendarDataMsg struct {
	events   []cal.Event
	roles    map[string]cal.Role
	roleList []cal.Role
	bad      int // events with unparseable timestamps, kept out of the views
}

type rolesDataMsg struct {
	roles []cal.Role
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
