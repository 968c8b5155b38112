package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateActiveInsideInterval(t *testing.T) {
	w := day(t)
	res := Result{Intervals: []Interval{
		{Start: mustParse(t, "2025-09-30T06:00:00+02:00"), End: mustParse(t, "2025-09-30T12:00:00+02:00")},
	}}

	ev := Evaluate(res, w, mustParse(t, "2025-09-30T08:00:00+02:00"))
	assert.True(t, ev.Enabled)
	assert.True(t, ev.Active)

	// interval end is exclusive
	ev = Evaluate(res, w, mustParse(t, "2025-09-30T12:00:00+02:00"))
	assert.True(t, ev.Enabled)
	assert.False(t, ev.Active)

	// interval start is inclusive
	ev = Evaluate(res, w, mustParse(t, "2025-09-30T06:00:00+02:00"))
	assert.True(t, ev.Active)
}

func TestEvaluateOutsideWindow(t *testing.T) {
	w := Window{
		Start: mustParse(t, "2025-09-30T08:00:00+02:00"),
		End:   mustParse(t, "2025-09-30T20:00:00+02:00"),
	}

	ev := Evaluate(Result{}, w, mustParse(t, "2025-09-30T06:00:00+02:00"))
	assert.False(t, ev.Enabled)
	assert.False(t, ev.Active)
}

func TestChronologicalKeepsRanks(t *testing.T) {
	ivs := []Interval{
		{Start: mustParse(t, "2025-09-30T18:00:00+02:00"), Rank: 1},
		{Start: mustParse(t, "2025-09-30T02:00:00+02:00"), Rank: 2},
		{Start: mustParse(t, "2025-09-30T10:00:00+02:00"), Rank: 3},
	}

	sorted := Chronological(ivs)

	assert.Equal(t, 2, sorted[0].Rank)
	assert.Equal(t, 3, sorted[1].Rank)
	assert.Equal(t, 1, sorted[2].Rank)
	// input untouched
	assert.Equal(t, 1, ivs[0].Rank)
}
