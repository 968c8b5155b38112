package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	assert.NoError(t, err)
	return ts
}

func TestResolveWindowSameDay(t *testing.T) {
	now := mustParse(t, "2025-09-30T10:00:00+02:00")

	w := ResolveWindow(TimeOfDay{Hour: 8}, TimeOfDay{Hour: 20}, now)

	assert.Equal(t, mustParse(t, "2025-09-30T08:00:00+02:00"), w.Start)
	assert.Equal(t, mustParse(t, "2025-09-30T20:00:00+02:00"), w.End)
	assert.True(t, w.Contains(now))
}

func TestResolveWindowWrapStartedYesterday(t *testing.T) {
	now := mustParse(t, "2025-09-30T01:00:00+02:00")

	w := ResolveWindow(TimeOfDay{Hour: 22}, TimeOfDay{Hour: 6}, now)

	assert.Equal(t, mustParse(t, "2025-09-29T22:00:00+02:00"), w.Start)
	assert.Equal(t, mustParse(t, "2025-09-30T06:00:00+02:00"), w.End)
	assert.True(t, w.Contains(now))
}

func TestResolveWindowWrapEndsTomorrow(t *testing.T) {
	now := mustParse(t, "2025-09-30T23:00:00+02:00")

	w := ResolveWindow(TimeOfDay{Hour: 22}, TimeOfDay{Hour: 6}, now)

	assert.Equal(t, mustParse(t, "2025-09-30T22:00:00+02:00"), w.Start)
	assert.Equal(t, mustParse(t, "2025-10-01T06:00:00+02:00"), w.End)
	assert.True(t, w.Contains(now))
}

func TestResolveWindowWrapBeforeStart(t *testing.T) {
	// between end and start of the wrap window: the window is upcoming
	now := mustParse(t, "2025-09-30T12:00:00+02:00")

	w := ResolveWindow(TimeOfDay{Hour: 22}, TimeOfDay{Hour: 6}, now)

	assert.Equal(t, mustParse(t, "2025-09-30T22:00:00+02:00"), w.Start)
	assert.Equal(t, mustParse(t, "2025-10-01T06:00:00+02:00"), w.End)
	assert.False(t, w.Contains(now))
}

func TestResolveWindowEqualTimesIs24h(t *testing.T) {
	now := mustParse(t, "2025-09-30T12:00:00+02:00")

	w := ResolveWindow(TimeOfDay{Hour: 6}, TimeOfDay{Hour: 6}, now)

	assert.Equal(t, mustParse(t, "2025-09-30T06:00:00+02:00"), w.Start)
	assert.Equal(t, mustParse(t, "2025-10-01T06:00:00+02:00"), w.End)
	assert.Equal(t, 24*time.Hour, w.Duration())
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	assert.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 6, Minute: 30}, tod)
	assert.Equal(t, "06:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("noon")
	assert.Error(t, err)
}
