package tracinginit

import (
	"context"
	"io"
	"math/rand"
	"sync"

	"github.com/luxas/deklarative/tracinginit/filetest"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

// serviceName is the default "service.name" resource attribute.
const serviceName = "tracinginit"

// Provider returns a builder for an OpenTelemetry SDK TracerProvider, to
// be used as the upstream of a Dispatch.
//
//	d, err := tracinginit.Provider().WithStdoutExporter().Dispatch(layers...)
func Provider() *TracerProviderBuilder {
	return &TracerProviderBuilder{}
}

// TracerProviderBuilder configures the exporters, resource and ID
// generation of an SDK TracerProvider. Errors from exporter construction
// are collected and returned by Build.
type TracerProviderBuilder struct {
	exporters []tracesdk.SpanExporter
	opts      []tracesdk.TracerProviderOption
	attrs     []attribute.KeyValue
	sync      bool
	err       error
}

// WithStdoutExporter exports indented span data to os.Stdout, or to w if
// stdouttrace.WithWriter(w) is given.
func (b *TracerProviderBuilder) WithStdoutExporter(opts ...stdouttrace.Option) *TracerProviderBuilder {
	return b.withStdout(append([]stdouttrace.Option{stdouttrace.WithPrettyPrint()}, opts...)...)
}

func (b *TracerProviderBuilder) withStdout(opts ...stdouttrace.Option) *TracerProviderBuilder {
	exp, err := stdouttrace.New(opts...)
	if err != nil {
		b.err = multierr.Append(b.err, err)
		return b
	}
	return b.WithExporter(exp)
}

// WithExporter registers an arbitrary exporter.
func (b *TracerProviderBuilder) WithExporter(exp tracesdk.SpanExporter) *TracerProviderBuilder {
	b.exporters = append(b.exporters, exp)
	return b
}

// WithOptions appends SDK options, for example tracesdk.WithSampler.
// They are applied after the ones the builder derives itself.
func (b *TracerProviderBuilder) WithOptions(opts ...tracesdk.TracerProviderOption) *TracerProviderBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithAttributes adds resource attributes. The resource uses the v1.26.0
// semantic conventions, with "service.name" set to "tracinginit" unless
// overridden here.
func (b *TracerProviderBuilder) WithAttributes(attrs ...attribute.KeyValue) *TracerProviderBuilder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// Synchronous exports every span as it ends instead of batching. Only
// meant for tests.
func (b *TracerProviderBuilder) Synchronous() *TracerProviderBuilder {
	b.sync = true
	return b
}

// DeterministicIDs derives trace and span IDs from seed. Only meant for
// tests.
func (b *TracerProviderBuilder) DeterministicIDs(seed int64) *TracerProviderBuilder {
	return b.WithOptions(tracesdk.WithIDGenerator(newSeededIDs(seed)))
}

// Test exports spans as one JSON object per line, without timestamps, to
// the golden file name of g. Export is synchronous and IDs are derived
// from seed 0, so the output is stable across runs.
func (b *TracerProviderBuilder) Test(g *filetest.Tester, name string) *TracerProviderBuilder {
	return b.
		withStdout(stdouttrace.WithWriter(g.Add(name).Writer()), stdouttrace.WithoutTimestamps()).
		Synchronous().
		DeterministicIDs(0)
}

// Build returns the configured TracerProvider. Without any exporter, the
// spans are exported nowhere.
func (b *TracerProviderBuilder) Build() (*tracesdk.TracerProvider, error) {
	if b.err != nil {
		return nil, b.err
	}
	exporters := b.exporters
	if len(exporters) == 0 {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		exporters = []tracesdk.SpanExporter{exp}
	}

	opts := []tracesdk.TracerProviderOption{tracesdk.WithResource(b.resource())}
	for _, exp := range exporters {
		opts = append(opts, b.processor(exp))
	}
	return tracesdk.NewTracerProvider(append(opts, b.opts...)...), nil
}

// Dispatch builds the TracerProvider and returns New(layers...) using it
// as upstream.
func (b *TracerProviderBuilder) Dispatch(layers ...Layer) (*Dispatch, error) {
	tp, err := b.Build()
	if err != nil {
		return nil, err
	}
	return New(layers...).WithTracerProvider(tp), nil
}

func (b *TracerProviderBuilder) resource() *resource.Resource {
	attrs := append([]attribute.KeyValue{semconv.ServiceName(serviceName)}, b.attrs...)
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

func (b *TracerProviderBuilder) processor(exp tracesdk.SpanExporter) tracesdk.TracerProviderOption {
	if b.sync {
		return tracesdk.WithSyncer(exp)
	}
	return tracesdk.WithBatcher(exp)
}

// seededIDs is a tracesdk.IDGenerator reading IDs from a seeded
// math/rand source.
type seededIDs struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newSeededIDs(seed int64) *seededIDs {
	return &seededIDs{rnd: rand.New(rand.NewSource(seed))} //nolint:gosec
}

func (g *seededIDs) NewIDs(context.Context) (tid trace.TraceID, sid trace.SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, _ = g.rnd.Read(tid[:])
	_, _ = g.rnd.Read(sid[:])
	return tid, sid
}

func (g *seededIDs) NewSpanID(context.Context, trace.TraceID) (sid trace.SpanID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, _ = g.rnd.Read(sid[:])
	return sid
}
