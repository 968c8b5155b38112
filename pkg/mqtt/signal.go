package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/sirupsen/logrus"

	"github.com/mampfes/ha-epex-spot-sensor/pkg/schedule"
)

var durationUnits = map[string]time.Duration{
	"d":            24 * time.Hour,
	"days":         24 * time.Hour,
	"h":            time.Hour,
	"hours":        time.Hour,
	"min":          time.Minute,
	"minutes":      time.Minute,
	"s":            time.Second,
	"sec":          time.Second,
	"seconds":      time.Second,
	"ms":           time.Millisecond,
	"msec":         time.Millisecond,
	"milliseconds": time.Millisecond,
}

// DurationSignal tracks the external remaining-duration signal published
// on an MQTT topic. The last observed value is the one piece of
// process-lifetime mutable state in the system: the change instant only
// moves when the decoded value actually differs from the previous one.
// The broker callback is the single writer.
type DurationSignal struct {
	mutex       sync.RWMutex
	value       time.Duration
	lastChanged time.Time
	valid       bool
	notify      chan struct{}
}

type signalPayload struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
}

func NewDurationSignal() *DurationSignal {
	return &DurationSignal{
		notify: make(chan struct{}, 1),
	}
}

// Subscribe attaches the signal to topic on the embedded broker.
func (s *DurationSignal) Subscribe(server *mqttv2.Server, topic string) error {
	return server.Subscribe(topic, 1, func(cl *mqttv2.Client, sub packets.Subscription, pk packets.Packet) {
		err := s.handle(pk.Payload, time.Now())
		if err != nil {
			logrus.Warnf("invalid duration signal on %s: %v", pk.TopicName, err)
		}
	})
}

func (s *DurationSignal) handle(payload []byte, now time.Time) error {
	p := signalPayload{}
	err := json.Unmarshal(payload, &p)
	if err != nil {
		s.invalidate()
		return err
	}
	if p.Value == nil {
		s.invalidate()
		return fmt.Errorf("'value' missing in signal payload")
	}
	unit, ok := durationUnits[p.Unit]
	if !ok {
		s.invalidate()
		return fmt.Errorf("invalid unit of measurement %q, valid units: d, h, min, s, ms", p.Unit)
	}

	d := time.Duration(*p.Value * float64(unit))

	s.mutex.Lock()
	changed := !s.valid || d != s.value
	if changed {
		s.value = d
		s.lastChanged = now
		s.valid = true
	}
	s.mutex.Unlock()

	if changed {
		select {
		case s.notify <- struct{}{}:
		default:
		}
	}
	return nil
}

func (s *DurationSignal) invalidate() {
	s.mutex.Lock()
	s.valid = false
	s.mutex.Unlock()
}

// Snapshot returns the signal view the scheduling core consumes.
func (s *DurationSignal) Snapshot() *schedule.SignalSnapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return &schedule.SignalSnapshot{
		Value:       s.value,
		LastChanged: s.lastChanged,
		Valid:       s.valid,
	}
}

// Notify wakes the evaluation loop when the signal value changes.
func (s *DurationSignal) Notify() <-chan struct{} {
	return s.notify
}
