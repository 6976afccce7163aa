package cal

import (
	"fmt"
	"time"
)

// The day is displayed starting at 6 AM; the 00:00-05:00 rows sit at the
// bottom of the column and carry the early-morning flag so slot lookups
// stay unambiguous under the wrapped ordering.
const dayStartHour = 6

// MonthGridSize is the fixed cell count of the month grid: 6 rows of 7.
const MonthGridSize = 42

// MonthCell describes one cell of the month grid.
type MonthCell struct {
	Date    time.Time
	InMonth bool
	Today   bool
}

// HourSlot identifies one row of a day column.
type HourSlot struct {
	Hour         int
	EarlyMorning bool
}

// DayColumn is one day of the week grid, or the single day-view column.
type DayColumn struct {
	Date  time.Time
	Today bool
	Slots []HourSlot
}

// MonthGrid computes the 42-cell grid for the month containing ref.
// Leading cells hold the trailing days of the previous month and
// trailing cells the first days of the next one, rolling across year
// boundaries in both directions. today determines the Today flags.
func MonthGrid(ref, today time.Time) []MonthCell {
	year, month := ref.Year(), ref.Month()
	lead := int(FirstWeekday(year, month))
	days := DaysInMonth(year, month)

	// Day 0 of this month is the last day of the previous one.
	prevDays := time.Date(year, month, 0, 0, 0, 0, 0, ref.Location()).Day()

	cells := make([]MonthCell, 0, MonthGridSize)
	for i := 0; i < lead; i++ {
		day := prevDays - lead + i + 1
		date := time.Date(year, month-1, day, 0, 0, 0, 0, ref.Location())
		cells = append(cells, MonthCell{Date: date, Today: SameDay(date, today)})
	}
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, ref.Location())
		cells = append(cells, MonthCell{Date: date, InMonth: true, Today: SameDay(date, today)})
	}
	for day := 1; len(cells) < MonthGridSize; day++ {
		date := time.Date(year, month+1, day, 0, 0, 0, 0, ref.Location())
		cells = append(cells, MonthCell{Date: date, Today: SameDay(date, today)})
	}
	return cells
}

// WeekGrid computes the 7 day columns of the week containing ref,
// starting on Monday.
func WeekGrid(ref, today time.Time) []DayColumn {
	start := Midnight(StartOfWeek(ref))
	cols := make([]DayColumn, 0, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i)
		cols = append(cols, DayColumn{
			Date:  date,
			Today: SameDay(date, today),
			Slots: HourSlots(),
		})
	}
	return cols
}

// DayGrid computes the single column for ref's day.
func DayGrid(ref, today time.Time) DayColumn {
	date := Midnight(ref)
	return DayColumn{Date: date, Today: SameDay(date, today), Slots: HourSlots()}
}

// HourSlots returns the 24 slots of a day column in display order:
// 06:00 through 23:00, then 00:00 through 05:00 flagged early-morning.
func HourSlots() []HourSlot {
	slots := make([]HourSlot, 0, 24)
	for h := dayStartHour; h < 24; h++ {
		slots = append(slots, HourSlot{Hour: h})
	}
	for h := 0; h < dayStartHour; h++ {
		slots = append(slots, HourSlot{Hour: h, EarlyMorning: true})
	}
	return slots
}

// SlotFor returns the slot an hour of day maps to under the same
// rotation HourSlots uses.
func SlotFor(hour int) HourSlot {
	return HourSlot{Hour: hour, EarlyMorning: hour < dayStartHour}
}

// HourLabel formats an hour of day as a 12-hour clock label.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// HeaderLabel formats the view header for the given mode and reference
// date.
func HeaderLabel(mode ViewMode, ref time.Time) string {
	switch mode {
	case ModeDay:
		return ref.Format("Monday, January 2, 2006")
	case ModeWeek:
		first := Midnight(StartOfWeek(ref))
		last := first.AddDate(0, 0, 6)
		return first.Format("Jan 2") + " - " + last.Format("Jan 2, 2006")
	default:
		return ref.Format("January 2006")
	}
}
