package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/planr/internal/cal"
)

func ToCSV(events []cal.Event, roles map[string]cal.Role, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Start", "End", "All Day", "Role", "Location", "Notes"}); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			e.ID,
			e.Title,
			e.Start.Format(time.RFC3339),
			e.End.Format(time.RFC3339),
			fmt.Sprintf("%t", cal.IsAllDay(e)),
			roleName(e, roles),
			e.Location,
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// roleName resolves the display name of an event's role. A dangling
// reference exports as "Unknown" so the column is never silently empty
// for events that had a role.
func roleName(e cal.Event, roles map[string]cal.Role) string {
	if e.RoleID == "" {
		return ""
	}
	if r, ok := roles[e.RoleID]; ok {
		return r.Name
	}
	return "Unknown"
}
