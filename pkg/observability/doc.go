/*
Package observability exposes Prometheus metrics for a peek Logger.

Metrics plugs into the Logger through its hooks and records how many calls were
emitted, skipped or lost to a transport error, how many markers the flattener
produced, and how long flattening took.

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	logger := peek.New(peek.WithHooks(m.Hooks()))
*/
package observability
