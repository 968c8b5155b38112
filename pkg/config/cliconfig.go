package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/schedule"
)

// CliConfig is loaded with multiconfig from env/flags.
type CliConfig struct {
	// price provider API
	Server    string `default:"http://localhost:8080"`
	PricePath string `default:"/api/marketdata-v1"`
	APIToken  string
	TokenFile string

	// interval selection options
	EarliestStartTime string `default:"00:00"`
	LatestEndTime     string `default:"00:00"`
	Duration          string `default:"1h"`
	PriceMode         string `default:"cheapest"`
	IntervalMode      string `default:"contiguous"`

	// mqtt
	MQTTAddress   string `default:":1883"`
	StateTopic    string `default:"epexsensor/state"`
	MeterTopic    string `default:"epexsensor/meter"`
	DurationTopic string // remaining-duration signal, empty disables it

	// appliance switch
	DeviceType    string `default:"dummy"` // dummy or modbusrelay
	DeviceAddress string
	DeviceSlaveID int `default:"1"`
	DeviceCoil    int `default:"0"`

	// optional M-Bus meter on the appliance circuit
	MbusDevice     string
	MeterModel     string `default:"garo-GNM3D-MBUS"`
	MeterPrimaryID string

	MetricsAddress string `default:":8888"`
	LogLevel       string `default:"info"`

	mutex sync.RWMutex
}

// Options is the parsed, validated form of the selection settings.
type Options struct {
	EarliestStart schedule.TimeOfDay
	LatestEnd     schedule.TimeOfDay
	Duration      time.Duration
	PriceMode     schedule.PriceMode
	IntervalMode  schedule.IntervalMode
}

// Options validates and parses the configured selection settings.
func (c *CliConfig) Options() (*Options, error) {
	o := &Options{}
	var err error

	o.EarliestStart, err = schedule.ParseTimeOfDay(c.EarliestStartTime)
	if err != nil {
		return nil, fmt.Errorf("earliest start time: %w", err)
	}
	o.LatestEnd, err = schedule.ParseTimeOfDay(c.LatestEndTime)
	if err != nil {
		return nil, fmt.Errorf("latest end time: %w", err)
	}
	o.Duration, err = time.ParseDuration(c.Duration)
	if err != nil {
		return nil, fmt.Errorf("duration: %w", err)
	}
	if o.Duration < 0 {
		return nil, fmt.Errorf("duration must not be negative: %s", c.Duration)
	}
	o.PriceMode, err = schedule.ParsePriceMode(c.PriceMode)
	if err != nil {
		return nil, err
	}
	o.IntervalMode, err = schedule.ParseIntervalMode(c.IntervalMode)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (c *CliConfig) Token() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.APIToken
}

func (c *CliConfig) SetToken(t string) {
	c.mutex.Lock()
	c.APIToken = strings.TrimSpace(t)
	c.mutex.Unlock()
}

func (c *CliConfig) LoadToken() error {
	if c.TokenFile == "" {
		return nil
	}
	if _, err := os.Stat(c.TokenFile); err == nil {
		b, err := os.ReadFile(c.TokenFile)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return nil // dont load empty token
		}

		c.SetToken(string(b))
	}
	return nil
}
