// Package log provides a slog.Handler that bridges structured log
// records into OpenTelemetry spans and metrics, so every package in
// this module (flow/, lower/, network/, deploy/*) can emit ordinary
// slog calls for span/metric events instead of holding its own
// Tracer/Meter plumbing at every call site. Adapted from the teacher's
// telemetry/handler.go, with its sibling common/ package folded in here.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Reserved slog levels carrying span/metric events rather than plain
// log lines (spec silent; ambient concern carried regardless).
const (
	LevelTrace  slog.Level = -16
	LevelMetric slog.Level = -8

	traceStart = "start"
	traceEvent = "event"
	traceEnd   = "end"

	metricFloat64Counter   = "float64counter"
	metricInt64Counter     = "int64counter"
	metricFloat64Histogram = "float64histogram"
	metricInt64Histogram   = "int64histogram"
)

type spanHolderKey struct{}

func storeSpanHolder(ctx context.Context, m *map[string]any) context.Context {
	return context.WithValue(ctx, spanHolderKey{}, m)
}

func loadSpanHolder(ctx context.Context) (*map[string]any, bool) {
	m, ok := ctx.Value(spanHolderKey{}).(*map[string]any)
	return m, ok
}

// recorder applies one measurement with the record's attributes, using
// whichever pre-1.0 instrument (metric.Must(meter).NewXCounter/NewXValueRecorder,
// the API flow/telemetry.go and lower/emit.go already instantiate instruments
// with) backs this metric name.
type recorder func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue)

var providerMap = map[string]func(m metric.Meter) func(name string) recorder{
	metricFloat64Counter: func(m metric.Meter) func(string) recorder {
		return func(name string) recorder {
			x := metric.Must(m).NewFloat64Counter(name)
			return func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
				x.Add(ctx, val.Value.AsFloat64(), attrs...)
			}
		}
	},
	metricInt64Counter: func(m metric.Meter) func(string) recorder {
		return func(name string) recorder {
			x := metric.Must(m).NewInt64Counter(name)
			return func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
				x.Add(ctx, val.Value.AsInt64(), attrs...)
			}
		}
	},
	metricFloat64Histogram: func(m metric.Meter) func(string) recorder {
		return func(name string) recorder {
			x := metric.Must(m).NewFloat64ValueRecorder(name)
			return func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
				x.Record(ctx, val.Value.AsFloat64(), attrs...)
			}
		}
	},
	metricInt64Histogram: func(m metric.Meter) func(string) recorder {
		return func(name string) recorder {
			x := metric.Must(m).NewInt64ValueRecorder(name)
			return func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
				x.Record(ctx, val.Value.AsInt64(), attrs...)
			}
		}
	},
}

// Handler is a slog.Handler that also accepts pre-built otel instruments.
type Handler interface {
	slog.Handler
	WithFloat64Counter(name string, x metric.Float64Counter)
	WithInt64Counter(name string, x metric.Int64Counter)
	WithFloat64Histogram(name string, x metric.Float64ValueRecorder)
	WithInt64Histogram(name string, x metric.Int64ValueRecorder)
}

type handler struct {
	passthrough slog.Handler
	meter       metric.Meter
	tracer      trace.Tracer
	teeToLog    bool
	m           sync.Mutex
	metrics     map[string]recorder
	attributes  []attribute.KeyValue
}

// New wraps logHandler (or a stdout text handler if nil) so that
// LevelTrace/LevelMetric records are routed to tracer/meter instead of
// (or, if teeToLog, in addition to) the passthrough handler.
func New(logHandler slog.Handler, meter metric.Meter, tracer trace.Tracer, teeToLog bool, attributes ...attribute.KeyValue) Handler {
	if logHandler == nil {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: LevelTrace})
	}
	return &handler{
		passthrough: logHandler,
		meter:       meter,
		tracer:      tracer,
		teeToLog:    teeToLog,
		metrics:     make(map[string]recorder),
		attributes:  attributes,
	}
}

// SpanStart starts a span named name and returns a context carrying it.
func SpanStart(ctx context.Context, name string, attrs ...slog.Attr) context.Context {
	holder := map[string]any{}
	c := storeSpanHolder(ctx, &holder)
	slog.LogAttrs(c, LevelTrace, name, append(attrs, slog.String("type", traceStart))...)
	return c
}

// SpanEvent records an event on the span started by SpanStart.
func SpanEvent(ctx context.Context, name string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelTrace, name, append(attrs, slog.String("type", traceEvent))...)
}

// SpanEnd ends the span started by SpanStart.
func SpanEnd(ctx context.Context, name string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelTrace, name, append(attrs, slog.String("type", traceEnd))...)
}

// Int64Counter logs an int64 counter increment to be recorded by the Handler.
func Int64Counter(ctx context.Context, name string, value int64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name,
		append(attrs, slog.String("type", metricInt64Counter), slog.Int64("value", value))...)
}

// Float64Counter logs a float64 counter increment to be recorded by the Handler.
func Float64Counter(ctx context.Context, name string, value float64, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, LevelMetric, name,
		append(attrs, slog.String("type", metricFloat64Counter), slog.Float64("value", value))...)
}

func (h *handler) WithFloat64Counter(name string, x metric.Float64Counter) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
		x.Add(ctx, val.Value.AsFloat64(), attrs...)
	})
}

func (h *handler) WithInt64Counter(name string, x metric.Int64Counter) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
		x.Add(ctx, val.Value.AsInt64(), attrs...)
	})
}

func (h *handler) WithFloat64Histogram(name string, x metric.Float64ValueRecorder) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
		x.Record(ctx, val.Value.AsFloat64(), attrs...)
	})
}

func (h *handler) WithInt64Histogram(name string, x metric.Int64ValueRecorder) {
	h.addMetric(name, func(ctx context.Context, val attribute.KeyValue, attrs ...attribute.KeyValue) {
		x.Record(ctx, val.Value.AsInt64(), attrs...)
	})
}

func (h *handler) addMetric(name string, x recorder) {
	h.m.Lock()
	defer h.m.Unlock()
	h.metrics[name] = x
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level == LevelTrace || level == LevelMetric || h.passthrough.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	defer recoverHandle()

	var err error
	switch r.Level {
	case LevelTrace:
		err = h.handleTrace(ctx, r)
	case LevelMetric:
		err = h.handleMetric(ctx, r)
	default:
		err = h.passthrough.Handle(ctx, r)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "internal/log: handle:", err, r.Message)
	}
	return err
}

func recoverHandle() {
	if r := recover(); r != nil {
		fmt.Fprintln(os.Stderr, "internal/log: recovered panic:", r)
	}
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for _, a := range attrs {
		h.attributes = append(h.attributes, convertAttr(a))
	}
	h.passthrough = h.passthrough.WithAttrs(attrs)
	return h
}

func (h *handler) WithGroup(name string) slog.Handler {
	h.passthrough = h.passthrough.WithGroup(name)
	return h
}

func (h *handler) handleTrace(ctx context.Context, r slog.Record) error {
	attrs, flags := attrsFromRecord(r)
	typ, ok := flags["type"]
	if !ok {
		return fmt.Errorf("internal/log: trace record missing type attr")
	}
	operation := typ.Value.AsString()
	attributes := append(h.attributes, attrs...)

	c, span, holder := ctxAndSpan(ctx)
	if holder == nil {
		return fmt.Errorf("internal/log: no span holder in context for %s", operation)
	}
	if span == nil && operation != traceStart {
		return fmt.Errorf("internal/log: no active span in context for %s", operation)
	}

	switch operation {
	case traceStart:
		(*holder)["ctx"], (*holder)["span"] = h.tracer.Start(c, r.Message,
			trace.WithTimestamp(r.Time), trace.WithAttributes(attributes...))
	case traceEvent:
		span.AddEvent(r.Message, trace.WithTimestamp(r.Time), trace.WithAttributes(attributes...))
	case traceEnd:
		span.End(trace.WithTimestamp(r.Time))
		delete(*holder, "ctx")
		delete(*holder, "span")
	default:
		return fmt.Errorf("internal/log: unknown trace operation %q", operation)
	}

	if h.teeToLog {
		return h.passthrough.Handle(ctx, r)
	}
	return nil
}

func (h *handler) handleMetric(ctx context.Context, r slog.Record) error {
	attrs, flags := attrsFromRecord(r)
	typ, ok := flags["type"]
	if !ok {
		return fmt.Errorf("internal/log: metric record missing type attr")
	}
	value, ok := flags["value"]
	if !ok {
		return fmt.Errorf("internal/log: metric record missing value attr")
	}

	provider, ok := providerMap[typ.Value.AsString()]
	if !ok {
		return fmt.Errorf("internal/log: unknown metric type %q", typ.Value.AsString())
	}
	rr, err := h.getRecorder(r.Message, provider)
	if err != nil {
		return err
	}
	rr(ctx, value, append(h.attributes, attrs...)...)

	if h.teeToLog {
		return h.passthrough.Handle(ctx, r)
	}
	return nil
}

func ctxAndSpan(ctx context.Context) (context.Context, trace.Span, *map[string]any) {
	holder, ok := loadSpanHolder(ctx)
	if !ok {
		return ctx, nil, nil
	}
	cVal, ok := (*holder)["ctx"]
	if !ok {
		return ctx, nil, holder
	}
	c, ok := cVal.(context.Context)
	if !ok {
		return ctx, nil, holder
	}
	spanVal, ok := (*holder)["span"]
	if !ok {
		return c, nil, holder
	}
	span, ok := spanVal.(trace.Span)
	if !ok {
		return c, nil, holder
	}
	return c, span, holder
}

func (h *handler) getRecorder(name string, provider func(metric.Meter) func(string) recorder) (recorder, error) {
	h.m.Lock()
	defer h.m.Unlock()
	if _, ok := h.metrics[name]; !ok {
		h.metrics[name] = provider(h.meter)(name)
	}
	return h.metrics[name], nil
}

func attrsFromRecord(r slog.Record) ([]attribute.KeyValue, map[string]attribute.KeyValue) {
	attrs := make([]attribute.KeyValue, 0, r.NumAttrs())
	flags := make(map[string]attribute.KeyValue)
	r.Attrs(func(a slog.Attr) bool {
		attr := convertAttr(a)
		attrs = append(attrs, attr)
		if a.Key == "type" || a.Key == "value" {
			flags[a.Key] = attr
		}
		return true
	})
	return attrs, flags
}

func convertAttr(a slog.Attr) attribute.KeyValue {
	switch a.Value.Kind() {
	case slog.KindString:
		return attribute.String(a.Key, a.Value.String())
	case slog.KindTime:
		return attribute.String(a.Key, a.Value.Time().Format(time.RFC3339Nano))
	case slog.KindBool:
		return attribute.Bool(a.Key, a.Value.Bool())
	case slog.KindInt64:
		return attribute.Int64(a.Key, a.Value.Int64())
	case slog.KindFloat64:
		return attribute.Float64(a.Key, a.Value.Float64())
	default:
		return attribute.String(a.Key, a.Value.String())
	}
}
