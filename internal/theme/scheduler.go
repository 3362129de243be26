package theme

import (
	"time"
)

// Cycle describes the currently active theme and its calendar window.
// Start and End are inclusive whole days at midnight UTC.
type Cycle struct {
	Theme Theme     `json:"theme"`
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Slot is an upcoming theme and the day it becomes active.
type Slot struct {
	Theme Theme     `json:"theme"`
	Start time.Time `json:"start_date"`
}

// civilDay truncates t to its calendar day in UTC. All schedule arithmetic
// happens on whole days so the active theme cannot flicker around midnight.
func civilDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Current returns the active theme for the given instant.
func Current(now time.Time) Cycle {
	cycleLen := CycleLength()

	daysSinceAnchor := int(civilDay(now).Sub(anchorDate).Hours() / 24)

	// Euclidean remainder keeps instants before the anchor well defined.
	position := ((daysSinceAnchor % cycleLen) + cycleLen) % cycleLen
	cycles := (daysSinceAnchor - position) / cycleLen

	offset := 0
	idx := 0
	for i, t := range Themes {
		if position < offset+t.DurationDays {
			idx = i
			break
		}
		offset += t.DurationDays
	}

	current := Themes[idx]
	start := anchorDate.AddDate(0, 0, cycles*cycleLen+offset)
	end := start.AddDate(0, 0, current.DurationDays-1)

	return Cycle{Theme: current, Start: start, End: end}
}

// Upcoming returns the next count themes after the current cycle, with
// strictly increasing start dates, wrapping past the end of the rotation.
func Upcoming(now time.Time, count int) []Slot {
	current := Current(now)

	idx := 0
	for i, t := range Themes {
		if t.ID == current.Theme.ID {
			idx = i
			break
		}
	}

	slots := make([]Slot, 0, count)
	start := current.End.AddDate(0, 0, 1)
	for i := 1; i <= count; i++ {
		next := Themes[(idx+i)%len(Themes)]
		slots = append(slots, Slot{Theme: next, Start: start})
		start = start.AddDate(0, 0, next.DurationDays)
	}

	return slots
}
