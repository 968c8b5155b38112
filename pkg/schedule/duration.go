package schedule

import "time"

// SignalSnapshot is an immutable view of the external remaining-duration
// signal at evaluation time. Valid is false while no usable value has
// been observed yet.
type SignalSnapshot struct {
	Value       time.Duration
	LastChanged time.Time
	Valid       bool
}

// ResolveDuration determines the duration to schedule and the instant the
// selection window effectively starts at.
//
// Without a signal the static configured duration applies and the window
// start is left alone. With a signal, its current value wins, and if the
// signal changed strictly inside the window the change instant supersedes
// the window start (the appliance was reconfigured mid-window, so the
// remaining run re-anchors there). An invalid signal falls back to the
// static duration; fellBack reports that case so the caller can surface
// it.
func ResolveDuration(static time.Duration, sig *SignalSnapshot, w Window) (d time.Duration, effectiveStart time.Time, fellBack bool) {
	effectiveStart = w.Start

	if sig == nil {
		return static, effectiveStart, false
	}
	if !sig.Valid {
		return static, effectiveStart, true
	}

	if sig.LastChanged.After(w.Start) && sig.LastChanged.Before(w.End) {
		effectiveStart = sig.LastChanged
	}
	return sig.Value, effectiveStart, false
}
