package peek_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counted records how often the flattener asks for its fields.
type counted struct {
	calls *atomic.Int32
}

func (p counted) DebugFields() []flatten.Field {
	p.calls.Add(1)
	return []flatten.Field{{Name: "ok", Value: true}}
}

type recorder struct {
	labels []string
	nodes  []domain.Node
	err    error
}

func (r *recorder) Emit(ctx context.Context, label string, node domain.Node) error {
	r.labels = append(r.labels, label)
	r.nodes = append(r.nodes, node)
	return r.err
}

func TestMaybeConsoleLog_DisabledDoesNoWork(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{}
	var skipped int
	l := peek.New(
		peek.WithGate(gate.Never()),
		peek.WithTransport(rec),
		peek.WithHooks(peek.Hooks{
			OnSkip: func(ctx context.Context, ev *domain.LogEvent) {
				skipped++
				assert.Equal(t, domain.OutcomeSkipped, ev.Outcome)
			},
		}),
	)

	l.MaybeConsoleLog(context.Background(), "counted", counted{calls: &calls})

	assert.Zero(t, calls.Load(), "closed gate must not flatten")
	assert.Empty(t, rec.labels, "closed gate must not reach the transport")
	assert.Equal(t, 1, skipped)
}

func TestMaybeConsoleLog_Enabled(t *testing.T) {
	var calls atomic.Int32
	rec := &recorder{}
	l := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(rec))

	l.MaybeConsoleLog(context.Background(), "counted", counted{calls: &calls})

	assert.EqualValues(t, 1, calls.Load())
	require.Len(t, rec.nodes, 1)
	assert.Equal(t, []string{"counted"}, rec.labels)

	m, ok := rec.nodes[0].(*domain.Map)
	require.True(t, ok)
	v, _ := m.Get("ok")
	assert.Equal(t, true, v)
}

func TestMaybeConsoleLog_NonFiniteFloatsStillEmit(t *testing.T) {
	var buf bytes.Buffer
	l := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(transport.NewScript(&buf)))

	l.MaybeConsoleLog(context.Background(), "sensor", struct{ Value float64 }{Value: math.NaN()})
	l.MaybeConsoleLog(context.Background(), "sensor", math.Inf(-1))

	assert.Equal(t, 2, strings.Count(buf.String(), "<script"))
	assert.Contains(t, buf.String(), `"Value": "NaN"`)
	assert.Contains(t, buf.String(), `"-Inf"`)
}

func TestMaybeConsoleLog_GateIsConsultedPerCall(t *testing.T) {
	flag := gate.NewFlag(false)
	rec := &recorder{}
	l := peek.New(peek.WithGate(flag), peek.WithTransport(rec))
	ctx := context.Background()

	l.MaybeConsoleLog(ctx, "a", 1)
	flag.Set(true)
	l.MaybeConsoleLog(ctx, "b", 2)
	flag.Set(false)
	l.MaybeConsoleLog(ctx, "c", 3)

	assert.Equal(t, []string{"b"}, rec.labels)
	assert.Equal(t, []domain.Node{2}, rec.nodes)
}

func TestMaybeConsoleLog_TransportErrorIsSwallowed(t *testing.T) {
	var logs bytes.Buffer
	rec := &recorder{err: errors.New("pipe closed")}
	var outcome domain.Outcome
	l := peek.New(
		peek.WithGate(gate.Always()),
		peek.WithTransport(rec),
		peek.WithLogger(logging.NewWithWriter(&logs, logging.ParseLevel("debug"))),
		peek.WithHooks(peek.Hooks{
			OnEmit: func(ctx context.Context, ev *domain.LogEvent) {
				outcome = ev.Outcome
				assert.EqualError(t, ev.Err, "pipe closed")
			},
		}),
	)

	assert.NotPanics(t, func() {
		l.MaybeConsoleLog(context.Background(), "x", "y")
	})
	assert.Equal(t, domain.OutcomeTransportError, outcome)
	assert.Contains(t, logs.String(), "pipe closed")
}

func TestMaybeConsoleLog_StateIsolation(t *testing.T) {
	type node struct {
		Name string
	}
	shared := &node{Name: "shared"}
	rec := &recorder{}
	l := peek.New(peek.WithGate(gate.Always()), peek.WithTransport(rec))

	l.MaybeConsoleLog(context.Background(), "first", shared)
	l.MaybeConsoleLog(context.Background(), "second", shared)

	require.Len(t, rec.nodes, 2)
	first, err := transport.EncodeCompact(rec.nodes[0])
	require.NoError(t, err)
	second, err := transport.EncodeCompact(rec.nodes[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"shared"}`, string(first))
	assert.Equal(t, string(first), string(second), "a second call must not see the first call's visited set")
	_, isMarker := domain.MarkerOf(rec.nodes[1])
	assert.False(t, isMarker)
}

func TestWithFlattener(t *testing.T) {
	rec := &recorder{}
	l := peek.New(
		peek.WithGate(gate.Always()),
		peek.WithTransport(rec),
		peek.WithFlattener(flatten.New(flatten.WithMaxItems(2))),
	)

	l.MaybeConsoleLog(context.Background(), "list", []int{1, 2, 3})

	require.Len(t, rec.nodes, 1)
	list, ok := rec.nodes[0].([]domain.Node)
	require.True(t, ok)
	assert.Len(t, list, 3)
	kind, _ := domain.MarkerOf(list[2])
	assert.Equal(t, domain.MarkerMaxItems, kind)
}

func TestWithHooks_Accumulate(t *testing.T) {
	var order []string
	l := peek.New(
		peek.WithGate(gate.Always()),
		peek.WithTransport(transport.Discard),
		peek.WithHooks(peek.Hooks{OnEmit: func(context.Context, *domain.LogEvent) { order = append(order, "first") }}),
		peek.WithHooks(peek.Hooks{OnEmit: func(context.Context, *domain.LogEvent) { order = append(order, "second") }}),
	)

	l.MaybeConsoleLog(context.Background(), "x", nil)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDefaultLogger(t *testing.T) {
	prev := peek.Default()
	t.Cleanup(func() { peek.SetDefault(prev) })

	var out bytes.Buffer
	peek.SetDefault(peek.New(
		peek.WithGate(gate.Always()),
		peek.WithTransport(transport.NewScript(&out)),
	))
	peek.SetDefault(nil)

	peek.MaybeConsoleLog(context.Background(), "greeting", "hello")
	assert.True(t, strings.HasPrefix(out.String(), "<script data-peek-log='greeting'>"))
	assert.Contains(t, out.String(), `"hello"`)
}

func TestDefaultGate_ReadsEnvironment(t *testing.T) {
	var out bytes.Buffer
	t.Setenv(domain.EnvEnabled, "")
	l := peek.New(peek.WithTransport(transport.NewScript(&out)))
	assert.False(t, l.Enabled(context.Background()))

	t.Setenv(domain.EnvEnabled, "true")
	assert.True(t, l.Enabled(context.Background()))
	l.MaybeConsoleLog(context.Background(), "env", 1)
	assert.NotEmpty(t, out.String())
}
