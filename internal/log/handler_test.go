package log

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/trace"
)

type captureHandler struct {
	records []slog.Record
}

func (c *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (c *captureHandler) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}
func (c *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return c }
func (c *captureHandler) WithGroup(name string) slog.Handler      { return c }

func newTestHandler(t *testing.T, teeToLog bool) (*handler, *captureHandler) {
	t.Helper()
	captured := &captureHandler{}
	h := New(captured, global.Meter("internal/log_test"), trace.NewNoopTracerProvider().Tracer("test"), teeToLog)
	hh, ok := h.(*handler)
	if !ok {
		t.Fatalf("New returned unexpected concrete type %T", h)
	}
	return hh, captured
}

func traceRecord(op string) slog.Record {
	r := slog.NewRecord(time.Time{}, LevelTrace, "op", 0)
	r.AddAttrs(slog.String("type", op))
	return r
}

// TestSpanLifecycle drives handleTrace directly (rather than through the
// global slog logger, which this test never installs h into) across a
// full start/event/end cycle sharing one span holder.
func TestSpanLifecycle(t *testing.T) {
	h, _ := newTestHandler(t, false)

	holder := map[string]any{}
	ctx := storeSpanHolder(context.Background(), &holder)

	if err := h.Handle(ctx, traceRecord(traceStart)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.Handle(ctx, traceRecord(traceEvent)); err != nil {
		t.Fatalf("event: %v", err)
	}
	if err := h.Handle(ctx, traceRecord(traceEnd)); err != nil {
		t.Fatalf("end: %v", err)
	}
	if _, ok := holder["span"]; ok {
		t.Fatal("expected traceEnd to clear the span holder")
	}
}

func TestSpanEventWithoutStartErrors(t *testing.T) {
	h, _ := newTestHandler(t, false)
	holder := map[string]any{}
	ctx := storeSpanHolder(context.Background(), &holder)

	if err := h.Handle(ctx, traceRecord(traceEvent)); err == nil {
		t.Fatal("expected an error recording an event with no active span")
	}
}

func TestMetricRecordForwardsWithTeeToLog(t *testing.T) {
	h, captured := newTestHandler(t, true)

	r := slog.NewRecord(time.Time{}, LevelMetric, "requests", 0)
	r.AddAttrs(slog.String("type", metricInt64Counter), slog.Int64("value", 1))

	if err := h.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(captured.records) != 1 {
		t.Fatalf("expected 1 forwarded record, got %d", len(captured.records))
	}
}

func TestMetricRecordUnknownTypeErrors(t *testing.T) {
	h, _ := newTestHandler(t, false)

	r := slog.NewRecord(time.Time{}, LevelMetric, "requests", 0)
	r.AddAttrs(slog.String("type", "not_a_real_kind"), slog.Int64("value", 1))

	if err := h.Handle(context.Background(), r); err == nil {
		t.Fatal("expected an error for an unknown metric type")
	}
}

func TestEnabledPassesThroughOtherLevels(t *testing.T) {
	h, _ := newTestHandler(t, false)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected non-reserved levels to pass through to the underlying handler")
	}
}
