package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// family returns the gathered metric family with the given name.
func family(t *testing.T, g prometheus.Gatherer, name string) *dto.MetricFamily {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

// counterValue returns the value of the counter in f whose labels match.
func counterValue(t *testing.T, f *dto.MetricFamily, labels map[string]string) float64 {
	t.Helper()
	for _, m := range f.GetMetric() {
		matched := 0
		for _, lp := range m.GetLabel() {
			if labels[lp.GetName()] == lp.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("no series in %s with labels %v", f.GetName(), labels)
	return 0
}

func TestObserverCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, reg)

	m.CallAttempted(storyboard.CallAnalyze)
	m.CallAttempted(storyboard.CallAnalyze)
	m.CallAttempted(storyboard.CallImage)
	m.CallRetried(storyboard.CallAnalyze, 1, 5*time.Second)
	m.GenerationFinished(storyboard.OutcomeSuccess, 3*time.Second)
	m.GenerationFinished(storyboard.OutcomeFailure, time.Second)
	m.GenerationFinished(storyboard.OutcomeSuccess, 2*time.Second)

	attempts := family(t, reg, "storyboard_call_attempts_total")
	assert.Equal(t, 2.0, counterValue(t, attempts, map[string]string{"call": "analyze"}))
	assert.Equal(t, 1.0, counterValue(t, attempts, map[string]string{"call": "image"}))

	retries := family(t, reg, "storyboard_call_retries_total")
	assert.Equal(t, 1.0, counterValue(t, retries, map[string]string{"call": "analyze"}))

	generations := family(t, reg, "storyboard_generations_total")
	assert.Equal(t, 2.0, counterValue(t, generations, map[string]string{"outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, generations, map[string]string{"outcome": "failure"}))

	hist := family(t, reg, "storyboard_generation_seconds").GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(3), hist.GetSampleCount())
	assert.InDelta(t, 6.0, hist.GetSampleSum(), 0.0001)
}

func TestHTTPRequestCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, reg)

	m.HTTPRequest("/v1/storyboard", http.StatusOK)
	m.HTTPRequest("/v1/storyboard", http.StatusBadGateway)
	m.HTTPRequest("/v1/storyboard", http.StatusOK)

	f := family(t, reg, "storyboard_http_requests_total")
	assert.Equal(t, 2.0, counterValue(t, f, map[string]string{"route": "/v1/storyboard", "code": "200"}))
	assert.Equal(t, 1.0, counterValue(t, f, map[string]string{"route": "/v1/storyboard", "code": "502"}))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.CallAttempted(storyboard.CallImage)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `storyboard_call_attempts_total{call="image"} 1`)
}

func TestNewRegistriesAreIndependent(t *testing.T) {
	// Two instances must not collide on registration.
	a := New()
	b := New()
	a.CallAttempted(storyboard.CallAnalyze)
	b.CallAttempted(storyboard.CallAnalyze)
	b.CallAttempted(storyboard.CallAnalyze)

	assert.Equal(t, 1.0, counterValue(t, family(t, a.gatherer, "storyboard_call_attempts_total"), map[string]string{"call": "analyze"}))
	assert.Equal(t, 2.0, counterValue(t, family(t, b.gatherer, "storyboard_call_attempts_total"), map[string]string{"call": "analyze"}))
}
