package flow

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	"go.opentelemetry.io/otel/trace"
)

// Builder-time instrumentation, the same tracer/meter wiring the teacher
// uses around its per-vertex execution (vertex.go span/metrics), applied
// here at the point a pipeline reaches a terminal (ForEach/DestSink/
// SendExternal) rather than per low-level combinator — build
// time has no natural per-element loop to wrap, so the boundary that
// matters is "a root was added to the graph".
var (
	meter        = global.Meter("hydro/flow")
	tracer       = otel.GetTracerProvider().Tracer("hydro/flow")
	rootsBuilt   = metric.Must(meter).NewInt64Counter("hydro_flow_roots_built")
)

func recordRootBuilt(ctx context.Context, kind string, loc string) {
	_, span := tracer.Start(ctx, "flow.add_root", trace.WithAttributes(
		attribute.String("root_kind", kind),
		attribute.String("location", loc),
	))
	defer span.End()
	rootsBuilt.Add(ctx, 1, attribute.String("root_kind", kind), attribute.String("location", loc))
}
