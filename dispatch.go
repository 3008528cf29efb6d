package tracinginit

import (
	"context"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Dispatch is an assembled logging pipeline: the cores of all its layers
// teed together, plus a TracerProvider whose spans are logged through it.
//
// A Dispatch is safe for concurrent use. It is either passed around
// explicitly, attached to a context using NewContext, or installed as a
// default using SetDefault, Init or TryInit.
type Dispatch struct {
	logger   *zap.Logger
	events   *zap.Logger
	upstream trace.TracerProvider
	tracer   trace.Tracer
	tp       *tracerProvider
}

// New tees the cores of the given layers into a new Dispatch. Call sites
// are recorded for every record. Spans are started in a no-op upstream
// TracerProvider; see WithTracerProvider.
func New(layers ...Layer) *Dispatch {
	cores := make([]zapcore.Core, 0, len(layers))
	for _, layer := range layers {
		if layer != nil {
			cores = append(cores, layer.Core())
		}
	}
	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	)
	return newDispatch(logger, noop.NewTracerProvider())
}

func newDispatch(logger *zap.Logger, upstream trace.TracerProvider) *Dispatch {
	d := &Dispatch{
		logger: logger,
		// Lifecycle records skip the emitting frames, see Span.emit.
		events:   logger.WithOptions(zap.AddCallerSkip(2)),
		upstream: upstream,
		tracer:   upstream.Tracer(instrumentationName),
	}
	d.tp = &tracerProvider{d: d}
	return d
}

// WithTracerProvider returns a copy of d starting its spans in tp, for
// example a provider built using Provider(), such that spans are both
// logged and exported.
func (d *Dispatch) WithTracerProvider(tp trace.TracerProvider) *Dispatch {
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return newDispatch(d.logger, tp)
}

// Logger returns the zap.Logger writing to all layers.
func (d *Dispatch) Logger() *zap.Logger { return d.logger }

// Sugar is a shorthand for Logger().Sugar().
func (d *Dispatch) Sugar() *zap.SugaredLogger { return d.logger.Sugar() }

// Logr returns a logr.Logger writing to all layers. logr verbosity n
// corresponds to zap level -n, hence V(1) is debug and V(2) is trace.
func (d *Dispatch) Logr() logr.Logger { return zapr.NewLogger(d.logger) }

// TracerProvider returns a trace.TracerProvider whose spans are started in
// the upstream TracerProvider, and logged by d with the tracer name as
// target.
func (d *Dispatch) TracerProvider() trace.TracerProvider { return d.tp }

// StartSpan starts a span at the given level as a child of the span in
// ctx, if any. The returned context carries the span.
func (d *Dispatch) StartSpan(ctx context.Context, level Level, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	return d.start(ctx, d.tracer, level, "", name, 0, trace.WithAttributes(attrs...))
}

// Sync flushes the buffered records of all layers, and spans buffered
// by the upstream TracerProvider, if it supports flushing.
func (d *Dispatch) Sync(ctx context.Context) error {
	err := d.logger.Sync()
	if f, ok := d.upstream.(interface {
		ForceFlush(ctx context.Context) error
	}); ok {
		err = multierr.Append(err, f.ForceFlush(ctx))
	}
	return err
}
