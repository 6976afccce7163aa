// Package cal computes calendar grid geometry and event placement for
// the day, week and month views. Everything in this package is a pure
// function over the caller's event and role collections; rendering and
// persistence live elsewhere.
package cal

import "time"

// Event is a single calendar entry. The core only reads events; create,
// edit and delete happen at the storage boundary.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Notes    string
	RoleID   string // empty means no role
}

// Role is a user-defined category with a display color.
type Role struct {
	ID    string
	Name  string
	Color string // #RRGGBB
}

// RoleAll is the filter selector that matches every event.
const RoleAll = "all"

// Colors applied to events with no role or a role that no longer exists.
const (
	DefaultEventColor = "#4285f4"
	DefaultEventText  = "#ffffff"
)

// ViewMode selects the calendar geometry.
type ViewMode int

const (
	ModeMonth ViewMode = iota
	ModeWeek
	ModeDay
)

func (m ViewMode) String() string {
	switch m {
	case ModeWeek:
		return "week"
	case ModeDay:
		return "day"
	default:
		return "month"
	}
}

// ParseMode maps a mode name to a ViewMode. Unknown names fall back to
// the month view.
func ParseMode(s string) ViewMode {
	switch s {
	case "day":
		return ModeDay
	case "week":
		return ModeWeek
	default:
		return ModeMonth
	}
}

// ViewState is the caller-owned view selection: what to show, for which
// reference date, filtered by which role.
type ViewState struct {
	Reference  time.Time
	Mode       ViewMode
	RoleFilter string // RoleAll or a role ID
}
