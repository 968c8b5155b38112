package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/schedule"
)

func TestOptions(t *testing.T) {
	c := &CliConfig{
		EarliestStartTime: "22:00",
		LatestEndTime:     "06:00",
		Duration:          "2h30m",
		PriceMode:         "cheapest",
		IntervalMode:      "intermittent",
	}

	o, err := c.Options()
	assert.NoError(t, err)
	assert.Equal(t, schedule.TimeOfDay{Hour: 22}, o.EarliestStart)
	assert.Equal(t, schedule.TimeOfDay{Hour: 6}, o.LatestEnd)
	assert.Equal(t, 2*time.Hour+30*time.Minute, o.Duration)
	assert.Equal(t, schedule.PriceModeCheapest, o.PriceMode)
	assert.Equal(t, schedule.IntervalModeIntermittent, o.IntervalMode)
}

func TestOptionsInvalid(t *testing.T) {
	var tests = []struct {
		name   string
		mutate func(*CliConfig)
	}{
		{name: "bad earliest", mutate: func(c *CliConfig) { c.EarliestStartTime = "later" }},
		{name: "bad latest", mutate: func(c *CliConfig) { c.LatestEndTime = "24:30" }},
		{name: "bad duration", mutate: func(c *CliConfig) { c.Duration = "2 hours" }},
		{name: "negative duration", mutate: func(c *CliConfig) { c.Duration = "-1h" }},
		{name: "bad price mode", mutate: func(c *CliConfig) { c.PriceMode = "cheap" }},
		{name: "bad interval mode", mutate: func(c *CliConfig) { c.IntervalMode = "sometimes" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := &CliConfig{
				EarliestStartTime: "00:00",
				LatestEndTime:     "00:00",
				Duration:          "1h",
				PriceMode:         "cheapest",
				IntervalMode:      "contiguous",
			}
			tt.mutate(c)
			_, err := c.Options()
			assert.Error(t, err)
		})
	}
}
