package peek_test

import (
	"context"
	"os"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/muesli/termenv"
)

type customer struct {
	Name  string
	Tags  []string
	Next  *customer
	Notes map[string]string
}

// ExampleLogger_MaybeConsoleLog shows a self-referential value printed to a terminal.
func ExampleLogger_MaybeConsoleLog() {
	c := &customer{Name: "Ada", Tags: []string{"vip"}}
	c.Next = c

	logger := peek.New(
		peek.WithGate(gate.NewFlag(true)),
		peek.WithTransport(transport.NewConsole(os.Stdout,
			transport.WithProfile(termenv.Ascii),
			transport.WithFormat(transport.FormatYAML),
		)),
	)
	logger.MaybeConsoleLog(context.Background(), "customer", c)

	// Output:
	// customer:
	// Name: Ada
	// Tags:
	//   - vip
	// Next:
	//   circular_reference: peek_test.customer
	// Notes: null
}

// ExampleLogger_MaybeConsoleLog_disabled shows that a closed gate prints nothing.
func ExampleLogger_MaybeConsoleLog_disabled() {
	logger := peek.New(
		peek.WithGate(gate.NewFlag(false)),
		peek.WithTransport(transport.NewConsole(os.Stdout)),
	)
	logger.MaybeConsoleLog(context.Background(), "hidden", "secret")

	// Output:
}
