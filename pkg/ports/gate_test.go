package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/peek/pkg/ports"
)

func TestGateFunc(t *testing.T) {
	var calls int
	var g ports.Gate = ports.GateFunc(func(ctx context.Context) bool {
		calls++
		return true
	})

	if !g.ShouldLog(context.Background()) {
		t.Error("expected GateFunc to return the function result")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
