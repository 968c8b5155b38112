package app

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/marketdata"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/meter"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/config"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/device/dummy"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/metrics"
)

func testConfig() *config.CliConfig {
	return &config.CliConfig{
		EarliestStartTime: "00:00",
		LatestEndTime:     "00:00",
		Duration:          "1h",
		PriceMode:         "cheapest",
		IntervalMode:      "contiguous",
		DeviceType:        "dummy",
	}
}

func mustParse(t *testing.T, value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return ts
}

// 24 hourly slots for the day containing start, all at 5.0 except the
// given cheap hour
func dayPrices(t *testing.T, start string, cheapHour int) []marketdata.Marketprice {
	base := mustParse(t, start)
	out := []marketdata.Marketprice{}
	for i := 0; i < 24; i++ {
		price := 5.0
		if i == cheapHour {
			price = 0.1
		}
		out = append(out, marketdata.Marketprice{
			StartTime: base.Add(time.Duration(i) * time.Hour),
			EndTime:   base.Add(time.Duration(i+1) * time.Hour),
			Price:     price,
		})
	}
	return out
}

func TestEvaluateSwitchesDummyDevice(t *testing.T) {
	a, err := New(testConfig())
	assert.NoError(t, err)

	now := mustParse(t, "2025-09-30T12:30:00+02:00")
	a.cache.Update(dayPrices(t, "2025-09-30T00:00:00+02:00", 12), now)

	st := a.evaluate(now)

	assert.True(t, st.Available)
	assert.NotNil(t, st.On)
	assert.True(t, *st.On)
	assert.True(t, a.device.(*dummy.Dummy).Active())

	// the gauge follows the slot covering now
	assert.Equal(t, 0.1, testutil.ToFloat64(metrics.CurrentPrice))

	// outside the cheap hour the device is switched off again
	later := mustParse(t, "2025-09-30T14:30:00+02:00")
	st = a.evaluate(later)
	assert.False(t, *st.On)
	assert.False(t, a.device.(*dummy.Dummy).Active())
}

func TestEvaluateSurfacesMeterReading(t *testing.T) {
	a, err := New(testConfig())
	assert.NoError(t, err)

	now := mustParse(t, "2025-09-30T12:30:00+02:00")
	a.cache.Update(dayPrices(t, "2025-09-30T00:00:00+02:00", 12), now)
	a.meterCache.Set(&meter.Data{
		Id:        "1",
		Model:     "garo-GNM3D-MBUS",
		Time:      now,
		Current_W: 1500,
	})

	st := a.evaluate(now)

	assert.NotNil(t, st.Meter)
	assert.Equal(t, 1500.0, st.Meter.Current_W)
	assert.Equal(t, 1500.0, testutil.ToFloat64(metrics.MeterW))
	assert.Equal(t, 1500.0, st.Map()["meterW"])
}

func TestEvaluateNoCoverageResetsPrice(t *testing.T) {
	a, err := New(testConfig())
	assert.NoError(t, err)

	// only yesterday's slots left in the cache, nothing covers now
	now := mustParse(t, "2025-09-30T12:30:00+02:00")
	a.cache.Update([]marketdata.Marketprice{
		{
			StartTime: mustParse(t, "2025-09-29T14:00:00+02:00"),
			EndTime:   mustParse(t, "2025-09-29T15:00:00+02:00"),
			Price:     1,
		},
	}, now)

	st := a.evaluate(now)

	assert.True(t, st.Incomplete)
	assert.False(t, *st.On)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.CurrentPrice))
}

func TestNewValidatesRelaySettings(t *testing.T) {
	conf := testConfig()
	conf.DeviceType = "modbusrelay"
	conf.DeviceAddress = "127.0.0.1:502"

	conf.DeviceSlaveID = 300
	_, err := New(conf)
	assert.ErrorContains(t, err, "slave id out of range")

	conf.DeviceSlaveID = 1
	conf.DeviceCoil = 70000
	_, err = New(conf)
	assert.ErrorContains(t, err, "coil out of range")

	conf.DeviceCoil = 5
	_, err = New(conf)
	assert.NoError(t, err)
}
