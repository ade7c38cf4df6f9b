// Package metrics holds the Prometheus collectors for the API and workers.
// Every constructor accepts a nil registerer and returns a no-op recorder.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "homeservices"

func counterVec(subsystem, name, help, label string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, []string{label})
}

// CronJobMetrics records run duration and outcome per job.
type CronJobMetrics struct {
	duration  *prometheus.HistogramVec
	success   *prometheus.CounterVec
	failure   *prometheus.CounterVec
	processed *prometheus.CounterVec
}

func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cron",
			Name:      "job_duration_seconds",
			Help:      "Duration of cron jobs in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
		success:   counterVec("cron", "job_success_total", "Successful cron job executions.", "job"),
		failure:   counterVec("cron", "job_failure_total", "Failed cron job executions.", "job"),
		processed: counterVec("cron", "rows_processed_total", "Rows a cron job changed, e.g. checkouts expired.", "job"),
	}
	reg.MustRegister(m.duration, m.success, m.failure, m.processed)
	return m
}

func (c *CronJobMetrics) ObserveDuration(job string, d time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(d.Seconds())
}

func (c *CronJobMetrics) IncSuccess(job string) { c.add(c.success, job, 1) }

func (c *CronJobMetrics) IncFailure(job string) { c.add(c.failure, job, 1) }

// AddProcessed ignores zero so idle runs do not create empty series.
func (c *CronJobMetrics) AddProcessed(job string, n int) { c.add(c.processed, job, n) }

func (c *CronJobMetrics) add(vec *prometheus.CounterVec, job string, n int) {
	if c == nil || vec == nil || n <= 0 {
		return
	}
	vec.WithLabelValues(normalizeLabel(job)).Add(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
