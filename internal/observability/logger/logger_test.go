package logger

import (
	"context"
	"testing"

	obscontext "github.com/smallbiznis/gareline/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContextAddsOnlyKnownCorrelationFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("anonymous")

	ctx := obscontext.WithRequestID(context.Background(), "req-9")
	ctx = obscontext.WithActor(ctx, "17", "zone_admin")
	WithContext(ctx, base).Info("authenticated")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if n := len(entries[0].Context); n != 0 {
		t.Fatalf("expected no correlation fields without context values, got %d", n)
	}
	fields := entries[1].ContextMap()
	if fields["request_id"] != "req-9" || fields["actor_id"] != "17" || fields["actor_role"] != "zone_admin" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["trace_id"]; ok {
		t.Fatalf("trace_id should be omitted without an active span")
	}
}
