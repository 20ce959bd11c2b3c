// Package reporting holds the pure building blocks of the report engine:
// time windows, record filters, aggregations and display formatting.
// Nothing here performs I/O or reads the clock.
package reporting

import (
	"fmt"
	"time"
)

// DefaultMaxWindows caps chart series when no explicit cap is configured
const DefaultMaxWindows = 6

// Window is an inclusive time bucket [Start, End]
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Contains reports whether t falls inside the window, bounds included
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// StartOfDay returns 00:00:00 of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's day in t's location
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayRange normalizes two dates to a full-day inclusive range, swapping
// reversed input
func DayRange(start, end time.Time) (time.Time, time.Time) {
	from, to := StartOfDay(start), EndOfDay(end)
	if from.After(to) {
		from, to = StartOfDay(end), EndOfDay(start)
	}
	return from, to
}

// BuildWindows partitions [start 00:00, end 23:59:59] into consecutive
// seven-day windows starting at start. The last window is truncated at end
// and only the most recent maxWindows are kept. It never returns an empty
// slice.
func BuildWindows(start, end time.Time, maxWindows int) []Window {
	if maxWindows <= 0 {
		maxWindows = DefaultMaxWindows
	}
	from, to := DayRange(start, end)

	var windows []Window
	for cursor := from; !cursor.After(to); {
		windowEnd := cursor.AddDate(0, 0, 7).Add(-time.Nanosecond)
		if windowEnd.After(to) {
			windowEnd = to
		}
		windows = append(windows, newWindow(cursor, windowEnd))
		cursor = windowEnd.Add(time.Nanosecond)
	}
	if len(windows) == 0 {
		windows = []Window{newWindow(from, to)}
	}
	if len(windows) > maxWindows {
		windows = windows[len(windows)-maxWindows:]
	}
	return windows
}

// Labels returns the labels of windows in order
func Labels(windows []Window) []string {
	labels := make([]string, len(windows))
	for i, w := range windows {
		labels[i] = w.Label
	}
	return labels
}

func newWindow(start, end time.Time) Window {
	return Window{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s - %s", start.Format("02/01"), end.Format("02/01")),
	}
}
