package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/payment-bridge/internal/metrics"
	"github.com/DanielPopoola/payment-bridge/internal/reconcile"
	"github.com/DanielPopoola/payment-bridge/internal/resolver"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, m *metrics.Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func counterWith(f *dto.MetricFamily, labels map[string]string) float64 {
	for _, metric := range f.GetMetric() {
		matched := 0
		for _, lp := range metric.GetLabel() {
			if labels[lp.GetName()] == lp.GetValue() {
				matched++
			}
		}
		if matched == len(labels) {
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.ObserveResolution(resolver.KindAccount, resolver.OutcomeResolved, 5*time.Millisecond)
	m.ObserveResolution(resolver.KindAccount, resolver.OutcomeResolved, 5*time.Millisecond)
	m.ObserveResolution(resolver.KindPayment, resolver.OutcomeUnresolved, time.Millisecond)
	m.ObserveOperation("AUTHORIZE", time.Millisecond, nil)
	m.ObserveOperation("AUTHORIZE", time.Millisecond, errors.New("boom"))
	m.ObserveReconcile(5, reconcile.Report{Reused: 1, Skipped: 2})
	m.ObserveJanitorRun(3, nil)

	resolutions := family(t, m, "payment_bridge_resolver_resolutions_total")
	assert.Len(t, resolutions.GetMetric(), 2)
	assert.Equal(t, 2.0, counterWith(resolutions, map[string]string{"kind": string(resolver.KindAccount), "outcome": "resolved"}))
	assert.Equal(t, 1.0, counterWith(resolutions, map[string]string{"kind": string(resolver.KindPayment), "outcome": "unresolved"}))

	ops := family(t, m, "payment_bridge_bridge_operations_total")
	assert.Equal(t, 1.0, counterWith(ops, map[string]string{"operation": "AUTHORIZE", "result": "error"}))

	reconciled := family(t, m, "payment_bridge_reconcile_transactions_total")
	assert.Equal(t, 2.0, counterWith(reconciled, map[string]string{"result": "matched"}))
	assert.Equal(t, 1.0, counterWith(reconciled, map[string]string{"result": "reused"}))
	assert.Equal(t, 2.0, counterWith(reconciled, map[string]string{"result": "skipped"}))

	settled := family(t, m, "payment_bridge_janitor_settled_transactions_total")
	assert.Equal(t, 3.0, settled.GetMetric()[0].GetCounter().GetValue())
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveJanitorRun(2, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "payment_bridge_janitor_settled_transactions_total 2")
	assert.Contains(t, string(body), `payment_bridge_janitor_runs_total{result="success"} 1`)
}
