package cal

import "time"

// FilterByRole returns the events matching the filter selector. RoleAll
// returns the input slice itself; any other value selects the events
// whose RoleID equals it, preserving input order.
func FilterByRole(events []Event, filter string) []Event {
	if filter == RoleAll {
		return events
	}
	var out []Event
	for _, e := range events {
		if e.RoleID == filter {
			out = append(out, e)
		}
	}
	return out
}

// GroupByDay buckets events by their start day, normalized to midnight.
// Order within a bucket is unspecified; placement sorts downstream.
func GroupByDay(events []Event) map[time.Time][]Event {
	byDay := make(map[time.Time][]Event)
	for _, e := range events {
		day := Midnight(e.Start)
		byDay[day] = append(byDay[day], e)
	}
	return byDay
}

// Partition splits events into the schedulable ones and those with an
// unparseable (zero) start or end. Bad events are reported back so the
// caller can surface a diagnostic instead of failing the whole pass.
func Partition(events []Event) (ok, bad []Event) {
	for _, e := range events {
		if e.Start.IsZero() || e.End.IsZero() {
			bad = append(bad, e)
			continue
		}
		ok = append(ok, e)
	}
	return ok, bad
}
