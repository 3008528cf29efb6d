package tracinginit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type dispatchKeyStruct struct{}

var dispatchKey = dispatchKeyStruct{} //nolint:gochecknoglobals

// NewContext returns a copy of parent carrying d.
func NewContext(parent context.Context, d *Dispatch) context.Context {
	return context.WithValue(parent, dispatchKey, d)
}

// FromContext resolves the Dispatch to use for ctx: the Dispatch attached
// using NewContext, otherwise the Dispatch that started the span in ctx,
// otherwise Current().
func FromContext(ctx context.Context) *Dispatch {
	if d, ok := ctx.Value(dispatchKey).(*Dispatch); ok && d != nil {
		return d
	}
	if s := SpanFromContext(ctx); s != nil {
		return s.d
	}
	return Current()
}

// SpanFromContext returns the Span carried by ctx, or nil if ctx carries
// no span, or a span not started by a Dispatch.
func SpanFromContext(ctx context.Context) *Span {
	s, _ := trace.SpanFromContext(ctx).(*Span)
	return s
}

// L returns the logger of FromContext(ctx). Its records are attributed to
// the span carried by ctx, if any.
func L(ctx context.Context) *zap.Logger {
	log := FromContext(ctx).Logger()
	if s := SpanFromContext(ctx); s != nil {
		return log.With(spanMarker(s))
	}
	return log
}

// StartSpan starts a span using FromContext(ctx). See Dispatch.StartSpan.
func StartSpan(ctx context.Context, level Level, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	d := FromContext(ctx)
	return d.start(ctx, d.tracer, level, "", name, 0, trace.WithAttributes(attrs...))
}
