package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "station_"

// Threshold upsert results.
const (
	ResultCreated  = "created"
	ResultUpdated  = "updated"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	registerOnce sync.Once
	registry     = prometheus.NewRegistry()

	alarmsFired       *prometheus.CounterVec
	alarmLogFailures  prometheus.Counter
	boardPollFailures *prometheus.CounterVec
	thresholdUpserts  *prometheus.CounterVec
	publishFailures   prometheus.Counter
	runningTimers     prometheus.Gauge
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		alarmsFired = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarms_fired_total",
				Help: "Alarm crossings written to the station log, by status",
			},
			[]string{"status"},
		)
		alarmLogFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_log_failures_total",
				Help: "Alarm crossings that could not be written",
			},
		)
		boardPollFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "board_poll_failures_total",
				Help: "Board status lookups that fell back to the default card",
			},
			[]string{"station"},
		)
		thresholdUpserts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "threshold_upserts_total",
				Help: "Threshold upserts by result",
			},
			[]string{"result"},
		)
		publishFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_publish_failures_total",
				Help: "Alarm events that could not be published",
			},
		)
		runningTimers = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "running_timers",
				Help: "Station timers currently ticking",
			},
		)

		registry.MustRegister(
			alarmsFired,
			alarmLogFailures,
			boardPollFailures,
			thresholdUpserts,
			publishFailures,
			runningTimers,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func IncAlarmFired(status string) {
	if status == "" {
		status = "unknown"
	}
	if alarmsFired != nil {
		alarmsFired.WithLabelValues(status).Inc()
	}
}

func IncAlarmLogFailure() {
	if alarmLogFailures != nil {
		alarmLogFailures.Inc()
	}
}

func IncBoardPollFailure(station string) {
	if boardPollFailures != nil {
		boardPollFailures.WithLabelValues(station).Inc()
	}
}

func IncThresholdUpsert(result string) {
	if result == "" {
		result = ResultError
	}
	if thresholdUpserts != nil {
		thresholdUpserts.WithLabelValues(result).Inc()
	}
}

func IncPublishFailure() {
	if publishFailures != nil {
		publishFailures.Inc()
	}
}

func SetRunningTimers(n int) {
	if runningTimers != nil {
		runningTimers.Set(float64(n))
	}
}
