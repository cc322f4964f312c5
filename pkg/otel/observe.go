package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type observer struct {
	tracer trace.Tracer

	duration metric.Float64Histogram
	items    metric.Int64Counter

	attrs []attribute.KeyValue
}

func newObserver(op, typ, id string) *observer {
	meter := otel.Meter(instrumentationName)

	// instrument creation only fails on invalid names; the returned noop is usable
	duration, _ := meter.Float64Histogram("scanslate."+op+".duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of "+op+" calls"),
	)

	items, _ := meter.Int64Counter("scanslate."+op+".items",
		metric.WithDescription("Number of items produced by "+op+" calls"),
	)

	return &observer{
		tracer: otel.Tracer(instrumentationName),

		duration: duration,
		items:    items,

		attrs: []attribute.KeyValue{
			attribute.String("provider.type", typ),
			attribute.String("provider.id", id),
		},
	}
}

func (o *observer) start(ctx context.Context, name string) (context.Context, trace.Span, time.Time) {
	ctx, span := o.tracer.Start(ctx, name, trace.WithAttributes(o.attrs...))
	return ctx, span, time.Now()
}

func (o *observer) end(ctx context.Context, span trace.Span, started time.Time, items int, err error) {
	defer span.End()

	attrs := metric.WithAttributes(o.attrs...)

	o.duration.Record(ctx, time.Since(started).Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(attribute.Int("items", items))
	o.items.Add(ctx, int64(items), attrs)
}
