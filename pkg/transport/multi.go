package transport

import (
	"context"
	"errors"

	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
)

// Func adapts a plain function to ports.Transport.
type Func func(ctx context.Context, label string, node domain.Node) error

// Emit calls f.
func (f Func) Emit(ctx context.Context, label string, node domain.Node) error {
	return f(ctx, label, node)
}

// Multi fans out to every transport. All transports are called even when one
// fails; the errors are joined.
func Multi(transports ...ports.Transport) ports.Transport {
	return Func(func(ctx context.Context, label string, node domain.Node) error {
		var errs []error
		for _, t := range transports {
			if err := t.Emit(ctx, label, node); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Discard drops everything.
var Discard ports.Transport = Func(func(context.Context, string, domain.Node) error { return nil })
