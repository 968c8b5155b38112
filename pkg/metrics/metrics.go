package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epexsensor_evaluations_total",
		Help: "Number of evaluation cycles run.",
	})
	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epexsensor_fetch_errors_total",
		Help: "Number of failed marketdata fetches.",
	})
	SensorOn = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epexsensor_on",
		Help: "Whether the binary sensor is currently on.",
	})
	SensorEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epexsensor_enabled",
		Help: "Whether the current instant is inside the evaluation window.",
	})
	SelectedIntervals = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epexsensor_selected_intervals",
		Help: "Number of intervals in the current selection.",
	})
	CurrentPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epexsensor_current_price",
		Help: "Spot price of the slot covering the current instant.",
	})
	MeterW = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epexsensor_meter_w",
		Help: "Active power of the appliance circuit meter.",
	})
)

// Serve exposes /metrics until ctx is done.
func Serve(ctx context.Context, address string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: address, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logrus.Error(err)
	}
}

func BoolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
