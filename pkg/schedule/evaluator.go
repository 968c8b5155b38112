package schedule

import (
	"sort"
	"time"
)

// Evaluation is the externally observable outcome of one cycle.
type Evaluation struct {
	// Enabled reports whether now lies inside the evaluation window.
	Enabled bool
	// Active reports whether now lies inside a selected interval.
	Active bool
}

// Evaluate projects a selection result onto the current instant.
func Evaluate(res Result, w Window, now time.Time) Evaluation {
	ev := Evaluation{Enabled: w.Contains(now)}
	for _, iv := range res.Intervals {
		if iv.Contains(now) {
			ev.Active = true
			break
		}
	}
	return ev
}

// Chronological returns a copy of the intervals sorted by start time for
// display. Rank stays untouched; it records selection priority, not
// chronology.
func Chronological(ivs []Interval) []Interval {
	out := make([]Interval, len(ivs))
	copy(out, ivs)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}
