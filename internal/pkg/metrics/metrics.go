// Package metrics reports seed job metrics to a Prometheus Pushgateway.
// The seeder is a one-shot process, so metrics are pushed on completion
// rather than scraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "seedling"

// Push sends the outcome and duration of a seed run to the Pushgateway at
// url. The grouping key is the job name, so repeated runs overwrite each
// other rather than accumulate.
func Push(url, job string, duration time.Duration, succeeded bool) error {
	durationGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last seed run in seconds",
	})
	durationGauge.Set(duration.Seconds())

	successGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_success",
		Help:      "1 if the last seed run succeeded, 0 otherwise",
	})
	if succeeded {
		successGauge.Set(1)
	}

	completedGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_completed_timestamp_seconds",
		Help:      "Unix timestamp of the last seed run completion",
	})
	completedGauge.SetToCurrentTime()

	return push.New(url, job).
		Collector(durationGauge).
		Collector(successGauge).
		Collector(completedGauge).
		Push()
}
