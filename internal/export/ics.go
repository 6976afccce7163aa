package export

import (
	"fmt"
	"io"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sadopc/planr/internal/cal"
)

// ToICS writes the events to path as an iCalendar file. All-day events
// are emitted as VALUE=DATE so other calendar apps render them in their
// all-day row.
func ToICS(events []cal.Event, path string) error {
	c := ical.NewCalendar()
	c.SetMethod(ical.MethodPublish)

	for _, e := range events {
		ve := c.AddEvent(e.ID)
		ve.SetDtStampTime(time.Now())
		ve.SetSummary(e.Title)
		if cal.IsAllDay(e) {
			ve.SetAllDayStartAt(e.Start)
			ve.SetAllDayEndAt(e.End)
		} else {
			ve.SetStartAt(e.Start)
			ve.SetEndAt(e.End)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if e.Notes != "" {
			ve.SetDescription(e.Notes)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ics file: %w", err)
	}
	defer f.Close()

	if err := c.SerializeTo(f); err != nil {
		return fmt.Errorf("serialize ics: %w", err)
	}
	return nil
}

// FromICS parses an iCalendar payload into events. VEVENTs missing a
// parseable start are skipped rather than failing the whole import; the
// skipped count comes back so the caller can report it.
func FromICS(r io.Reader) (events []cal.Event, skipped int, err error) {
	c, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse ics: %w", err)
	}

	for _, ve := range c.Events() {
		e, ok := fromVEvent(ve)
		if !ok {
			skipped++
			continue
		}
		events = append(events, e)
	}
	return events, skipped, nil
}

func fromVEvent(ve *ical.VEvent) (cal.Event, bool) {
	var e cal.Event
	e.ID = ve.Id()

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		e.Notes = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		e.Location = p.Value
	}

	// golang-ical hands back UTC (or fabricated-offset) times; the views
	// key everything on local midnights, so convert at the boundary.
	start, err := ve.GetStartAt()
	if err != nil {
		// VALUE=DATE events fail timed parsing; treat them as all-day.
		start, err = ve.GetAllDayStartAt()
		if err != nil {
			return e, false
		}
		// DATE-valued DTEND is exclusive; back off to 23:59 of the
		// last covered day so the all-day heuristic holds.
		end, eerr := ve.GetAllDayEndAt()
		if eerr != nil {
			end = start.AddDate(0, 0, 1)
		}
		e.Start = localMidnight(start)
		e.End = localMidnight(end).Add(-time.Minute)
		if e.End.Before(e.Start) {
			e.End = e.Start.Add(23*time.Hour + 59*time.Minute)
		}
		return e, true
	}
	e.Start = start.In(time.Local)

	end, err := ve.GetEndAt()
	if err != nil {
		end = start.Add(time.Hour)
	}
	e.End = end.In(time.Local)
	return e, true
}

// localMidnight keeps the calendar date the DATE value names and pins it
// to local midnight, so an all-day import lands on the same day the
// sending calendar meant regardless of the parser's zone.
func localMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
