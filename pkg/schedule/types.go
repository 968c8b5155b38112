package schedule

import (
	"fmt"
	"time"
)

// PriceMode selects whether the cheapest or the most expensive slots win.
type PriceMode int

const (
	PriceModeCheapest PriceMode = iota
	PriceModeMostExpensive
	priceModeCount
)

func (m PriceMode) String() string {
	switch m {
	case PriceModeCheapest:
		return "cheapest"
	case PriceModeMostExpensive:
		return "most_expensive"
	default:
		return "unknown"
	}
}

func ParsePriceMode(s string) (PriceMode, error) {
	for m := PriceModeCheapest; m < priceModeCount; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid price mode: %q", s)
}

// IntervalMode selects whether the required duration must be one
// uninterrupted run or may be split over disjoint slots.
type IntervalMode int

const (
	IntervalModeContiguous IntervalMode = iota
	IntervalModeIntermittent
	intervalModeCount
)

func (m IntervalMode) String() string {
	switch m {
	case IntervalModeContiguous:
		return "contiguous"
	case IntervalModeIntermittent:
		return "intermittent"
	default:
		return "unknown"
	}
}

func ParseIntervalMode(s string) (IntervalMode, error) {
	for m := IntervalModeContiguous; m < intervalModeCount; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid interval mode: %q", s)
}

// TimeOfDay is a wall clock time without a date, as configured by the user.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On places the time of day on the calendar day of ref, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// Window is a half-open [Start, End) evaluation range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Interval is one selected block of time. Rank is the 1-based selection
// priority in intermittent mode and 0 in contiguous mode. Price is the
// energy-weighted mean slot price over the block.
type Interval struct {
	Start time.Time
	End   time.Time
	Rank  int
	Price float64
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Result is the outcome of one selection. Intervals are in selection
// order. Incomplete is set when the available slots could not supply the
// full required duration and the selection is best-effort only.
type Result struct {
	Intervals  []Interval
	Incomplete bool
}

// Selected returns the total duration covered by the selection.
func (r Result) Selected() time.Duration {
	var d time.Duration
	for _, iv := range r.Intervals {
		d += iv.Duration()
	}
	return d
}
