package cal

import (
	"sort"
	"time"
)

// Layout constants for timed events in the day view. The renderer owns
// the actual unit mapping; the placer guarantees the ratio contract:
// offset and height proportional to minutes over SlotHeightUnit, with
// the floor applied after scaling.
const (
	SlotHeightUnit = 60.0
	MinEventHeight = 20.0
)

// MaxVisiblePerDay caps the placements emitted per month-view cell;
// anything beyond it is reported as an overflow count.
const MaxVisiblePerDay = 3

// Placement is one render instruction for an event inside a cell or
// slot.
type Placement struct {
	EventID    string
	Title      string
	TimeLabel  string
	Background string
	Foreground string

	// Offset and Height are set only for timed events in the day view.
	Offset float64
	Height float64
}

// DayEvents is the month-view content of one day cell.
type DayEvents struct {
	Visible  []Placement
	Overflow int // hidden event count, 0 when everything fits
}

// SlotKey addresses one hour slot of one day column.
type SlotKey struct {
	Day  time.Time // midnight-normalized
	Slot HourSlot
}

// WeekPlan holds the placements for one week: timed events keyed by day
// and slot, all-day events listed per day.
type WeekPlan struct {
	Timed  map[SlotKey][]Placement
	AllDay map[time.Time][]Placement
}

// DayPlan is the single-day layout: the all-day bucket plus timed
// placements with vertical offsets applied.
type DayPlan struct {
	AllDay []Placement
	Timed  map[HourSlot][]Placement
}

// IsAllDay reports whether an event should be treated as covering the
// whole day: it starts exactly at midnight and ends at 23:59 or 00:00 of
// any day, or it lasts at least 23 hours. An inverted interval has a
// negative duration and never qualifies on the duration clause.
func IsAllDay(e Event) bool {
	startsMidnight := e.Start.Hour() == 0 && e.Start.Minute() == 0
	endsFull := (e.End.Hour() == 23 && e.End.Minute() == 59) ||
		(e.End.Hour() == 0 && e.End.Minute() == 0)
	if startsMidnight && endsFull {
		return true
	}
	return e.End.Sub(e.Start) >= 23*time.Hour
}

// TimeLabel formats the display time of an event.
func TimeLabel(e Event) string {
	if IsAllDay(e) {
		return "All day"
	}
	return e.Start.Format("3:04 PM") + " - " + e.End.Format("3:04 PM")
}

// EventColors resolves the background/foreground pair for an event. A
// missing or dangling role reference falls back to the default pair.
func EventColors(e Event, roles map[string]Role) (bg, fg string) {
	if e.RoleID != "" {
		if r, ok := roles[e.RoleID]; ok {
			return r.Color, ForegroundFor(r.Color)
		}
	}
	return DefaultEventColor, DefaultEventText
}

// MonthPlacements groups events by their start day and emits at most
// MaxVisiblePerDay placements per day, sorted ascending by start time,
// plus the overflow count for days with more.
func MonthPlacements(events []Event, roles map[string]Role) map[time.Time]DayEvents {
	out := make(map[time.Time]DayEvents)
	for day, evs := range GroupByDay(events) {
		sortByStart(evs)
		var de DayEvents
		for i, e := range evs {
			if i == MaxVisiblePerDay {
				break
			}
			de.Visible = append(de.Visible, newPlacement(e, roles))
		}
		if n := len(evs) - MaxVisiblePerDay; n > 0 {
			de.Overflow = n
		}
		out[day] = de
	}
	return out
}

// WeekPlacements places events into the week starting at weekStart
// (assumed Monday-aligned). An event is included when its interval
// overlaps the week inclusively, but it is rendered only in the column
// of its start day; multi-day events are not split across columns. Timed
// events land in the slot of their start hour under the 6 AM rotation;
// all-day events go to the column's all-day list instead.
func WeekPlacements(events []Event, roles map[string]Role, weekStart time.Time) WeekPlan {
	start := Midnight(weekStart)
	lastDay := start.AddDate(0, 0, 6)
	end := start.AddDate(0, 0, 7).Add(-time.Millisecond)

	var week []Event
	for _, e := range events {
		if !e.Start.After(end) && !e.End.Before(start) {
			week = append(week, e)
		}
	}
	sortByStart(week)

	plan := WeekPlan{
		Timed:  make(map[SlotKey][]Placement),
		AllDay: make(map[time.Time][]Placement),
	}
	for _, e := range week {
		day := Midnight(e.Start)
		// Events that started before the week have no column here.
		if day.Before(start) || day.After(lastDay) {
			continue
		}
		if IsAllDay(e) {
			plan.AllDay[day] = append(plan.AllDay[day], newPlacement(e, roles))
			continue
		}
		key := SlotKey{Day: day, Slot: SlotFor(e.Start.Hour())}
		plan.Timed[key] = append(plan.Timed[key], newPlacement(e, roles))
	}
	return plan
}

// DayPlacements places the events starting on date into the day view:
// all-day events into the bucket, timed events into their start-hour
// slot with the vertical layout applied.
func DayPlacements(events []Event, roles map[string]Role, date time.Time) DayPlan {
	day := Midnight(date)
	var dayEvents []Event
	for _, e := range events {
		if Midnight(e.Start).Equal(day) {
			dayEvents = append(dayEvents, e)
		}
	}
	sortByStart(dayEvents)

	plan := DayPlan{Timed: make(map[HourSlot][]Placement)}
	for _, e := range dayEvents {
		if IsAllDay(e) {
			plan.AllDay = append(plan.AllDay, newPlacement(e, roles))
			continue
		}
		p := newPlacement(e, roles)
		p.Offset, p.Height = timedLayout(e)
		slot := SlotFor(e.Start.Hour())
		plan.Timed[slot] = append(plan.Timed[slot], p)
	}
	return plan
}

func newPlacement(e Event, roles map[string]Role) Placement {
	bg, fg := EventColors(e, roles)
	return Placement{
		EventID:    e.ID,
		Title:      e.Title,
		TimeLabel:  TimeLabel(e),
		Background: bg,
		Foreground: fg,
	}
}

// timedLayout computes the vertical offset within the start slot and the
// total height, in the same unit space as SlotHeightUnit. Height never
// drops below the floor, so zero-length and inverted intervals stay
// visible.
func timedLayout(e Event) (offset, height float64) {
	offset = float64(e.Start.Minute()) / 60 * SlotHeightUnit
	height = e.End.Sub(e.Start).Minutes() / 60 * SlotHeightUnit
	if height < MinEventHeight {
		height = MinEventHeight
	}
	return offset, height
}

// sortByStart sorts ascending by start instant; equal starts keep their
// input order.
func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
