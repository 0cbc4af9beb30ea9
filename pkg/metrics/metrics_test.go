package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("signup-service").(*Metrics)
	m.RegisterCounter("check_id_requests_total", "Total number of identifier checks")
	m.RegisterCounterVec("check_id_results_total", "Identifier checks by verdict", []string{"result"})

	m.IncCounter("check_id_requests_total")
	m.AddCounter("check_id_requests_total", 2)
	m.IncCounter("unknown_total")
	m.IncCounterVec("check_id_results_total", "available")
	m.IncCounterVec("check_id_results_total", "taken")
	m.IncCounterVec("check_id_results_total", "taken")

	assert.Equal(t, float64(3), testutil.ToFloat64(m.counters["check_id_requests_total"]))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.counterVecs["check_id_results_total"].WithLabelValues("taken")))

	expected := `
# HELP signup_service_check_id_requests_total Total number of identifier checks
# TYPE signup_service_check_id_requests_total counter
signup_service_check_id_requests_total 3
`
	err := testutil.GatherAndCompare(m.GetRegistry(), strings.NewReader(expected), "signup_service_check_id_requests_total")
	require.NoError(t, err)
}

func TestMetrics_HistogramsAndGauges(t *testing.T) {
	m := NewMetrics("signup").(*Metrics)
	m.RegisterHistogram("signup_duration_seconds", "Duration of signup requests", []float64{0.1, 1})
	m.RegisterHistogramVec("route_duration_seconds", "Duration by route", []float64{0.1, 1}, []string{"route"})
	m.RegisterGauge("checks_in_flight", "Identifier checks in flight")

	m.ObserveHistogram("signup_duration_seconds", 0.05)
	m.ObserveHistogramVec("route_duration_seconds", 0.5, "/check_id")
	m.IncGauge("checks_in_flight")
	m.IncGauge("checks_in_flight")
	m.DecGauge("checks_in_flight")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.gauges["checks_in_flight"]))

	m.SetGauge("checks_in_flight", 5)
	assert.Equal(t, float64(5), testutil.ToFloat64(m.gauges["checks_in_flight"]))

	count, err := testutil.GatherAndCount(m.GetRegistry(), "signup_signup_duration_seconds", "signup_route_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
