package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronJobMetricsRecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	const job = "expire-checkouts"

	m.ObserveDuration(job, 250*time.Millisecond)
	m.IncSuccess(job)
	m.IncFailure(job)
	m.AddProcessed(job, 3)
	m.AddProcessed(job, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.success.WithLabelValues(job)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failure.WithLabelValues(job)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.processed.WithLabelValues(job)))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	sum, err := fetchHistogramSum(mfs, "homeservices_cron_job_duration_seconds", "job", job)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, sum, 0.0001)
}

func TestCronJobMetricsSkipsIdleRuns(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.AddProcessed("outbox-retention", 0)

	assert.Equal(t, 0, testutil.CollectAndCount(m.processed))
}

func TestCronJobMetricsNilRegistererIsNoop(t *testing.T) {
	m := NewCronJobMetrics(nil)
	m.IncSuccess("x")
	m.ObserveDuration("x", time.Second)

	var unset *CronJobMetrics
	unset.IncFailure("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	metric, err := findSeries(mfs, name, label, value)
	if err != nil {
		return 0, err
	}
	return metric.GetCounter().GetValue(), nil
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	metric, err := findSeries(mfs, name, label, value)
	if err != nil {
		return 0, err
	}
	return metric.GetHistogram().GetSampleSum(), nil
}

func findSeries(mfs []*dto.MetricFamily, name, label, value string) (*dto.Metric, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric, nil
				}
			}
		}
		return nil, fmt.Errorf("%s has no series %s=%s", name, label, value)
	}
	return nil, fmt.Errorf("metric %q not found", name)
}
