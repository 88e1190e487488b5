package metrics

import (
	"context"
	"testing"
)

func TestInstrumentsUsableBeforeInit(t *testing.T) {
	ctx := context.Background()
	GenerationRequestsTotal.Add(ctx, 1)
	ProviderCallDuration.Record(ctx, 0.25)
}

func TestInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if ProviderFallbackTotal == nil || DraftOperationsTotal == nil {
		t.Fatal("expected instruments to be initialized")
	}
}
