package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/planr/internal/cal"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	AllDay   bool   `json:"all_day"`
	Role     string `json:"role,omitempty"`
	RoleID   string `json:"role_id,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func ToJSON(events []cal.Event, roles map[string]cal.Role, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(events),
	}

	for _, e := range events {
		export.Events = append(export.Events, jsonEvent{
			ID:       e.ID,
			Title:    e.Title,
			Start:    e.Start.Format(time.RFC3339),
			End:      e.End.Format(time.RFC3339),
			AllDay:   cal.IsAllDay(e),
			Role:     roleName(e, roles),
			RoleID:   e.RoleID,
			Location: e.Location,
			Notes:    e.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
