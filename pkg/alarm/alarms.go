package alarm

import "sync"

// ActiveAlarms is a deduplicated list of currently active problems,
// surfaced in the published sensor attributes.
type ActiveAlarms struct {
	activeAlarms []string
	sync.RWMutex
}

// Add adds the alarm and returns true if it was not active already.
func (a *ActiveAlarms) Add(alarm string) bool {
	a.Lock()
	defer a.Unlock()
	for _, activeAlarm := range a.activeAlarms {
		if activeAlarm == alarm {
			return false
		}
	}

	a.activeAlarms = append(a.activeAlarms, alarm)
	return true
}

// Active returns a copy of the active alarm list.
func (a *ActiveAlarms) Active() []string {
	a.RLock()
	defer a.RUnlock()
	if len(a.activeAlarms) == 0 {
		return nil
	}
	out := make([]string, len(a.activeAlarms))
	copy(out, a.activeAlarms)
	return out
}

// Clear drops all active alarms and returns true if any were active.
func (a *ActiveAlarms) Clear() bool {
	hasActive := false
	a.Lock()
	if len(a.activeAlarms) > 0 {
		hasActive = true
		a.activeAlarms = nil
	}
	a.Unlock()
	return hasActive
}
