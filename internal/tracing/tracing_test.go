package tracing

import (
	"context"
	"testing"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	provider, shutdown, err := Setup(context.Background(), Options{})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if provider != nil {
		t.Fatalf("expected nil provider when endpoint is empty")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetup_WithEndpoint(t *testing.T) {
	provider, shutdown, err := Setup(context.Background(), Options{
		Endpoint:    "localhost:4318",
		ServiceName: "quicksetup-test",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if provider == nil {
		t.Fatalf("expected provider")
	}
	if got := provider.Tracer("test"); got == nil {
		t.Fatalf("expected tracer")
	}
	// Nothing was recorded, so shutdown has nothing to flush.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
