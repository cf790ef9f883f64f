/*
Package peek dumps arbitrary Go values to a debug console without risking the
host program.

A value is first flattened into a bounded tree of maps, slices and scalars
(see pkg/flatten): cycles become circular_reference markers, deep nesting stops
at max_depth_reached, wide collections end with max_items_reached, and things
that cannot be shown (functions, channels, open files) are described instead of
traversed. The tree is then handed to a Transport: a browser console script,
a terminal, a structured log record, or anything implementing ports.Transport.

Nothing happens unless the Gate says so. When the gate is closed MaybeConsoleLog
returns before any flattening work is done, so instrumentation can stay in
production code.

# Usage

	logger := peek.New(
		peek.WithGate(gate.NewFlag(true)),
		peek.WithTransport(transport.NewConsole(os.Stderr)),
	)
	logger.MaybeConsoleLog(ctx, "order", order)

Inside an HTTP handler wrapped by pkg/adapters/http.Middleware, the Request
transport buffers the scripts and the middleware injects them into the page:

	logger := peek.New(
		peek.WithGate(gate.All(gate.NewSetting(store, nil), gate.QueryParam(""))),
		peek.WithTransport(transport.Request{}),
	)
*/
package peek
