package transport

import (
	"context"
	"log/slog"

	"github.com/aretw0/peek/pkg/domain"
)

// Slog emits one structured record per call: the label as message and the
// compact JSON tree under the "value" key.
type Slog struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlog creates a transport logging at the given level.
func NewSlog(logger *slog.Logger, level slog.Level) *Slog {
	return &Slog{logger: logger, level: level}
}

// Emit logs the record.
func (s *Slog) Emit(ctx context.Context, label string, node domain.Node) error {
	payload, err := EncodeCompact(node)
	if err != nil {
		return err
	}
	s.logger.LogAttrs(ctx, s.level, SanitizeLabel(label), slog.String("value", string(payload)))
	return nil
}
