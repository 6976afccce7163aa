package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/planr/internal/cal"
)

// CreateEvent inserts e and returns the stored row. A missing ID gets a
// fresh UUID. Times are stored as RFC 3339 text with their offset
// preserved, so wall-clock times round-trip.
func (s *Store) CreateEvent(e cal.Event) (*cal.Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO events (id, title, start_time, end_time, location, notes, role_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339),
		e.Location, e.Notes, e.RoleID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return s.GetEvent(e.ID)
}

func (s *Store) GetEvent(id string) (*cal.Event, error) {
	var e cal.Event
	var start, end string
	err := s.db.QueryRow(
		`SELECT id, title, start_time, end_time, location, notes, role_id FROM events WHERE id = ?`, id,
	).Scan(&e.ID, &e.Title, &start, &end, &e.Location, &e.Notes, &e.RoleID)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	e.Start, e.End = parseEventTimes(start, end)
	return &e, nil
}

// ListEvents returns every event ordered by start time. Rows whose
// timestamps fail to parse come back with zero times; callers divert
// those instead of dropping the whole list.
func (s *Store) ListEvents() ([]cal.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, title, start_time, end_time, location, notes, role_id FROM events ORDER BY start_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []cal.Event
	for rows.Next() {
		var e cal.Event
		var start, end string
		if err := rows.Scan(&e.ID, &e.Title, &start, &end, &e.Location, &e.Notes, &e.RoleID); err != nil {
			return nil, err
		}
		e.Start, e.End = parseEventTimes(start, end)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(e cal.Event) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE events SET title = ?, start_time = ?, end_time = ?, location = ?, notes = ?, role_id = ?, updated_at = ?
		 WHERE id = ?`,
		e.Title,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339),
		e.Location, e.Notes, e.RoleID, now, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) DeleteEvent(id string) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

func parseEventTimes(start, end string) (time.Time, time.Time) {
	st, _ := time.Parse(time.RFC3339, start)
	en, _ := time.Parse(time.RFC3339, end)
	return st, en
}
