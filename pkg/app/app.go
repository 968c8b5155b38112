package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/sirupsen/logrus"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/alarm"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/marketdata"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/api/v1/meter"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/config"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/device"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/device/dummy"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/device/modbusrelay"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/mbus"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/metrics"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/mqtt"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/provider"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/schedule"
	"github.com/mampfes/ha-epex-spot-sensor/pkg/state"
)

const (
	alarmNoMarketdata      = "no marketdata available"
	alarmIncomplete        = "marketdata does not cover the required duration"
	alarmSignalUnavailable = "duration signal unavailable, using configured duration"
	alarmDeviceWrite       = "device write failed"
	alarmMeterRead         = "meter read failed"
)

type App struct {
	wg        *sync.WaitGroup
	evalMutex sync.Mutex
	config    *config.CliConfig
	options   *config.Options

	provider *provider.Client
	cache    *marketdata.Cache

	server *mqttv2.Server
	signal *mqtt.DurationSignal

	device     device.Device
	alarms     *alarm.ActiveAlarms
	mbus       *mbus.Mbus
	meterCache *meter.Cache
}

func New(config *config.CliConfig) (*App, error) {
	options, err := config.Options()
	if err != nil {
		return nil, err
	}

	a := &App{
		wg:         &sync.WaitGroup{},
		config:     config,
		options:    options,
		provider:   provider.New(config),
		cache:      &marketdata.Cache{},
		alarms:     &alarm.ActiveAlarms{},
		meterCache: &meter.Cache{},
	}

	switch config.DeviceType {
	case "modbusrelay":
		if config.DeviceSlaveID < 0 || config.DeviceSlaveID > 255 {
			return nil, fmt.Errorf("device slave id out of range: %d", config.DeviceSlaveID)
		}
		if config.DeviceCoil < 0 || config.DeviceCoil > 65535 {
			return nil, fmt.Errorf("device coil out of range: %d", config.DeviceCoil)
		}
		a.device = modbusrelay.New(config.DeviceAddress, byte(config.DeviceSlaveID), uint16(config.DeviceCoil))
	case "", "dummy":
		a.device = dummy.New()
	default:
		return nil, fmt.Errorf("invalid device type: %s", config.DeviceType)
	}

	if config.MbusDevice != "" && config.MeterPrimaryID != "" {
		a.mbus = mbus.New(config.MbusDevice)
	}

	return a, nil
}

func (a *App) Start(ctx context.Context) error {
	err := a.config.LoadToken()
	if err != nil {
		return err
	}

	server, err := mqtt.Start(ctx, a.wg, a.config.MQTTAddress)
	if err != nil {
		return err
	}
	a.server = server

	if a.config.DurationTopic != "" {
		a.signal = mqtt.NewDurationSignal()
		err = a.signal.Subscribe(server, a.config.DurationTopic)
		if err != nil {
			return err
		}
	}

	if a.config.MetricsAddress != "" {
		go metrics.Serve(ctx, a.config.MetricsAddress)
	}

	a.fetchPrices(ctx)
	a.DoEvaluate()

	a.wg.Add(1)
	go a.evaluationLoop(ctx)
	return nil
}

func (a *App) Wait() {
	a.wg.Wait()
}

// MQTT exposes the embedded broker, used by tests to publish signals and
// inspect retained state.
func (a *App) MQTT() *mqttv2.Server {
	return a.server
}

func (a *App) evaluationLoop(ctx context.Context) {
	defer a.wg.Done()
	evalDelay := nextMinuteDelay()
	evalTimer := time.NewTimer(evalDelay)
	fetchTimer := time.NewTimer(nextQuarterDelay())
	logrus.Debug("scheduling first evaluation in ", evalDelay)

	var notify <-chan struct{}
	if a.signal != nil {
		notify = a.signal.Notify()
	}

	for {
		select {
		case <-evalTimer.C:
			evalTimer.Reset(nextMinuteDelay())
			a.DoEvaluate()
		case <-fetchTimer.C:
			fetchTimer.Reset(nextQuarterDelay())
			a.fetchPrices(ctx)
			a.DoEvaluate()
		case <-notify:
			a.DoEvaluate()
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) fetchPrices(ctx context.Context) {
	slots, err := a.provider.Fetch(ctx)
	if err != nil {
		metrics.FetchErrorsTotal.Inc()
		logrus.Errorf("error fetching marketdata: %v", err)
		return
	}
	merged := a.cache.Update(slots, time.Now())
	logrus.Debugf("fetched %d slots, %d in cache", len(slots), len(merged))
}

// DoEvaluate runs one evaluation cycle against the current wall clock.
func (a *App) DoEvaluate() {
	a.evaluate(time.Now())
}

func (a *App) evaluate(now time.Time) *state.State {
	// evaluations are atomic from the observer's perspective
	a.evalMutex.Lock()
	defer a.evalMutex.Unlock()

	metrics.EvaluationsTotal.Inc()
	a.alarms.Clear()

	o := a.options
	slots := a.cache.Get()

	st := &state.State{
		EarliestStartTime: o.EarliestStart.String(),
		LatestEndTime:     o.LatestEnd.String(),
		Duration:          o.Duration.String(),
		PriceMode:         o.PriceMode.String(),
		IntervalMode:      o.IntervalMode.String(),
		Data:              []state.Interval{},
	}

	if len(slots) == 0 {
		a.alarms.Add(alarmNoMarketdata)
		a.switchDevice(false)
		st.Alarms = a.alarms.Active()
		metrics.SensorOn.Set(0)
		metrics.CurrentPrice.Set(0)
		a.publish(st)
		return st
	}

	w := schedule.ResolveWindow(o.EarliestStart, o.LatestEnd, now)

	var snap *schedule.SignalSnapshot
	if a.signal != nil {
		snap = a.signal.Snapshot()
	}
	duration, effectiveStart, fellBack := schedule.ResolveDuration(o.Duration, snap, w)
	if fellBack {
		a.alarms.Add(alarmSignalUnavailable)
	}

	res := schedule.Select(schedule.Window{Start: effectiveStart, End: w.End}, slots, duration, o.PriceMode, o.IntervalMode)
	ev := schedule.Evaluate(res, w, now)

	if res.Incomplete {
		a.alarms.Add(alarmIncomplete)
	}

	st.Available = true
	on := ev.Active
	st.On = &on
	st.Enabled = ev.Enabled
	st.Incomplete = res.Incomplete
	st.Duration = duration.String()
	st.IntervalStartTime = &effectiveStart
	for _, iv := range schedule.Chronological(res.Intervals) {
		entry := state.Interval{StartTime: iv.Start, EndTime: iv.End}
		if o.IntervalMode == schedule.IntervalModeIntermittent {
			rank := iv.Rank
			price := iv.Price
			entry.Rank = &rank
			entry.PricePerKWh = &price
		}
		st.Data = append(st.Data, entry)
	}

	metrics.SensorOn.Set(metrics.BoolValue(ev.Active))
	metrics.SensorEnabled.Set(metrics.BoolValue(ev.Enabled))
	metrics.SelectedIntervals.Set(float64(len(res.Intervals)))
	if price, ok := currentPrice(slots, now); ok {
		metrics.CurrentPrice.Set(price)
	} else {
		// coverage ran out, don't keep exporting the last known price
		metrics.CurrentPrice.Set(0)
	}

	a.readMeter()
	if d := a.meterCache.Get(); d != nil {
		st.Meter = d
		metrics.MeterW.Set(d.Current_W)
	}
	a.switchDevice(ev.Active)

	st.Alarms = a.alarms.Active()
	a.publish(st)
	return st
}

func (a *App) publish(st *state.State) {
	if a.server == nil {
		return
	}
	err := mqtt.PublishState(a.server, a.config.StateTopic, st)
	if err != nil {
		logrus.Errorf("error publishing state: %v", err)
		return
	}
	logrus.Debug("published state: ", st.Map())
}

func (a *App) switchDevice(active bool) {
	err := a.device.SetActive(active)
	if err != nil {
		logrus.Errorf("error switching device: %v", err)
		a.alarms.Add(alarmDeviceWrite)
	}
}

func (a *App) readMeter() {
	if a.mbus == nil {
		return
	}
	data, err := a.mbus.ReadValues(a.config.MeterModel, a.config.MeterPrimaryID)
	if err != nil {
		logrus.Errorf("error reading meter: %v", err)
		a.alarms.Add(alarmMeterRead)
		return
	}
	a.meterCache.Set(data)

	b, err := json.Marshal(data)
	if err != nil {
		logrus.Error(err)
		return
	}
	err = a.server.Publish(a.config.MeterTopic, b, false, 0)
	if err != nil {
		logrus.Errorf("error publishing meter data: %v", err)
	}
}

func currentPrice(slots []marketdata.Marketprice, now time.Time) (float64, bool) {
	for _, s := range slots {
		if !now.Before(s.StartTime) && now.Before(s.EndTime) {
			return s.Price, true
		}
	}
	return 0, false
}
