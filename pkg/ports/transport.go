package ports

import (
	"context"

	"github.com/aretw0/peek/pkg/domain"
)

// Transport turns a flattened tree into a textual notation and delivers it.
// Implementations escape the label for their own output medium.
type Transport interface {
	Emit(ctx context.Context, label string, node domain.Node) error
}
