package schedule

import "time"

// ResolveWindow turns the configured earliest start and latest end times
// of day into concrete instants around now.
//
// earliest always refers to now's calendar day. When latest is at or
// before earliest the window spans midnight: if now is still before
// today's end instant the window started yesterday, otherwise it runs
// until tomorrow. Equal times yield a full 24h window.
func ResolveWindow(earliest, latest TimeOfDay, now time.Time) Window {
	start := earliest.On(now)
	end := latest.On(now)

	if !end.After(start) {
		if now.Before(end) {
			start = start.AddDate(0, 0, -1)
		} else {
			end = end.AddDate(0, 0, 1)
		}
	}

	return Window{Start: start, End: end}
}
