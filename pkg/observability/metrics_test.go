package observability_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/observability"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loop struct {
	Self *loop
	Fn   func()
}

func TestMetrics_Outcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	flag := gate.NewFlag(false)
	failing := transport.Func(func(context.Context, string, domain.Node) error { return errors.New("down") })
	ctx := context.Background()

	quiet := peek.New(peek.WithGate(flag), peek.WithTransport(transport.Discard), peek.WithHooks(m.Hooks()))
	broken := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(failing), peek.WithHooks(m.Hooks()))

	quiet.MaybeConsoleLog(ctx, "a", 1)
	flag.Set(true)
	quiet.MaybeConsoleLog(ctx, "b", 2)
	quiet.MaybeConsoleLog(ctx, "c", 3)
	broken.MaybeConsoleLog(ctx, "d", 4)

	expected := `
# HELP peek_logs_total Total number of debug log calls by outcome
# TYPE peek_logs_total counter
peek_logs_total{outcome="emitted"} 2
peek_logs_total{outcome="skipped"} 1
peek_logs_total{outcome="transport_error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "peek_logs_total"))
	assert.Equal(t, 3, testutil.CollectAndCount(m.Collectors()[0], "peek_logs_total"))
}

func TestMetrics_Markers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	l := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(transport.Discard), peek.WithHooks(m.Hooks()))

	v := &loop{Fn: func() {}}
	v.Self = v
	l.MaybeConsoleLog(context.Background(), "loop", v)

	expected := `
# HELP peek_markers_total Total number of markers produced while flattening
# TYPE peek_markers_total counter
peek_markers_total{kind="circular_reference"} 1
peek_markers_total{kind="closure"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "peek_markers_total"))
}

func TestMetrics_Duration(t *testing.T) {
	m := observability.NewMetrics(nil)
	l := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(transport.Discard), peek.WithHooks(m.Hooks()))

	l.MaybeConsoleLog(context.Background(), "x", []int{1, 2, 3})
	l.MaybeConsoleLog(context.Background(), "y", "z")

	reg := prometheus.NewRegistry()
	reg.MustRegister(m.Collectors()...)
	families, err := reg.Gather()
	require.NoError(t, err)

	var count uint64
	for _, f := range families {
		if f.GetName() == "peek_flatten_duration_seconds" {
			count = f.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.EqualValues(t, 2, count)
}
