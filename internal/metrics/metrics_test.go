package metrics_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/toastkit/internal/metrics"
	"github.com/dmitrymomot/toastkit/pkg/logger"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func counterFor(f *dto.MetricFamily, label string) float64 {
	for _, m := range f.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetValue() == label {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestCollector_Observe(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))
	ctx := context.Background()

	c.Observe(ctx, toast.Event{Kind: toast.EventContainerCreated})
	c.Observe(ctx, toast.Event{Kind: toast.EventAppended, Toast: toast.Toast{Severity: toast.SeveritySuccess}})
	c.Observe(ctx, toast.Event{Kind: toast.EventAppended, Toast: toast.Toast{Severity: toast.SeverityError}})
	c.Observe(ctx, toast.Event{Kind: toast.EventAppended, Toast: toast.Toast{Severity: toast.SeverityError}})
	c.Observe(ctx, toast.Event{Kind: toast.EventDisappearing, Dismissed: true})
	c.Observe(ctx, toast.Event{Kind: toast.EventDisappearing})
	c.Observe(ctx, toast.Event{Kind: toast.EventRemoved})

	fams := gather(t, reg)
	require.Contains(t, fams, "test_toasts_created_total")
	assert.Equal(t, 1.0, counterFor(fams["test_toasts_created_total"], "success"))
	assert.Equal(t, 2.0, counterFor(fams["test_toasts_created_total"], "error"))
	assert.Equal(t, 1.0, fams["test_toasts_dismissed_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 1.0, fams["test_toasts_removed_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 2.0, fams["test_toasts_live"].GetMetric()[0].GetGauge().GetValue())
}

func TestCollector_WithManager(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	clock := clockwork.NewFakeClock()
	m := toast.NewManager(
		toast.WithClock(clock),
		toast.WithLogger(logger.Nop()),
		toast.WithObserver(metrics.New(metrics.WithRegistry(reg))),
	)
	t.Cleanup(func() { _ = m.Close() })

	ctx := context.Background()
	tt := m.Notify(ctx, "Upload failed", toast.SeverityError)
	require.True(t, m.Dismiss(ctx, tt.ID))
	clock.Advance(toast.ExitDuration)

	require.Eventually(t, func() bool {
		f, ok := gather(t, reg)["toastkit_toasts_removed_total"]
		return ok && f.GetMetric()[0].GetCounter().GetValue() == 1
	}, time.Second, time.Millisecond)

	fams := gather(t, reg)
	assert.Equal(t, 1.0, counterFor(fams["toastkit_toasts_created_total"], "error"))
	assert.Equal(t, 1.0, fams["toastkit_toasts_dismissed_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 0.0, fams["toastkit_toasts_live"].GetMetric()[0].GetGauge().GetValue())
}
