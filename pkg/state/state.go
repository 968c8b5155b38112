package state

import (
	"time"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/meter"
)

// State is the sensor payload published after every evaluation. It is
// replaced wholesale each cycle, never mutated in place.
type State struct {
	Available bool  `json:"available"`
	On        *bool `json:"on,omitempty"`

	EarliestStartTime string     `json:"earliest_start_time"`
	LatestEndTime     string     `json:"latest_end_time"`
	Duration          string     `json:"duration"`
	IntervalStartTime *time.Time `json:"interval_start_time,omitempty"`
	PriceMode         string     `json:"price_mode"`
	IntervalMode      string     `json:"interval_mode"`

	Enabled    bool     `json:"enabled"`
	Incomplete bool     `json:"incomplete"`
	Alarms     []string `json:"alarms,omitempty"`

	Meter *meter.Data `json:"meter,omitempty"`

	Data []Interval `json:"data"`
}

// Interval is one selected block as published. Rank is omitted in
// contiguous mode.
type Interval struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Rank        *int      `json:"rank,omitempty"`
	PricePerKWh *float64  `json:"price_per_kwh,omitempty"`
}

// Map flattens the state for metric/diagnostic export.
func (s State) Map() map[string]interface{} {
	m := make(map[string]interface{})
	m["available"] = boolToInt(s.Available)
	if s.On != nil {
		m["on"] = boolToInt(*s.On)
	}
	m["enabled"] = boolToInt(s.Enabled)
	m["incomplete"] = boolToInt(s.Incomplete)
	m["intervals"] = int64(len(s.Data))
	if s.IntervalStartTime != nil {
		m["intervalStart"] = s.IntervalStartTime.Unix()
	}
	if s.Meter != nil {
		m["meterW"] = s.Meter.Current_W
	}
	return m
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
