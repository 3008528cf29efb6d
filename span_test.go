package tracinginit

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(t *testing.T) (*Dispatch, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(TraceLevel.ZapLevel())
	return New(CoreLayer(core)), logs
}

func TestSpanLifecycle(t *testing.T) {
	d, logs := observed(t)

	ctx, span := d.StartSpan(context.Background(), DebugLevel, "work", attribute.String("k", "v"))
	assert.Same(t, span, SpanFromContext(ctx))
	assert.Equal(t, "work", span.Name())
	assert.Equal(t, "", span.Target())
	assert.Equal(t, DebugLevel, span.Level())
	assert.Nil(t, span.Parent())
	assert.Equal(t, []attribute.KeyValue{attribute.String("k", "v")}, span.Attributes())

	exit := span.Enter()
	time.Sleep(time.Millisecond)
	exit()
	exit() // no-op
	span.End()
	span.End() // no-op

	entries := logs.AllUntimed()
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e.Message)
		assert.Equal(t, zapcore.DebugLevel, e.Level)
		assert.Equal(t, "span_test.go", filepath.Base(e.Caller.File), e.Message)
	}
	assert.Equal(t, []string{"new", "enter", "exit", "close"}, msgs)

	closeFields := entries[3].ContextMap()
	busy, ok := closeFields[TimeBusyKey].(time.Duration)
	require.True(t, ok, closeFields)
	assert.GreaterOrEqual(t, busy, time.Millisecond)
	assert.Contains(t, closeFields, TimeIdleKey)
}

func TestSpanNestedEnter(t *testing.T) {
	d, logs := observed(t)
	_, span := d.StartSpan(context.Background(), InfoLevel, "concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			exit := span.Enter()
			defer exit()
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()
	span.End()

	assert.Equal(t, 4, logs.FilterMessage(SpanEnterMessage).Len())
	assert.Equal(t, 4, logs.FilterMessage(SpanExitMessage).Len())
	assert.Equal(t, 1, logs.FilterMessage(SpanCloseMessage).Len())

	span.mu.Lock()
	defer span.mu.Unlock()
	assert.Equal(t, 0, span.entered)
	assert.True(t, span.closed)
}

func TestSpanEndWhileEntered(t *testing.T) {
	d, logs := observed(t)
	_, span := d.StartSpan(context.Background(), InfoLevel, "open")
	exit := span.Enter()
	time.Sleep(time.Millisecond)
	span.End()
	exit()

	closeEntry := logs.FilterMessage(SpanCloseMessage).All()
	require.Len(t, closeEntry, 1)
	busy := closeEntry[0].ContextMap()[TimeBusyKey].(time.Duration)
	assert.GreaterOrEqual(t, busy, time.Millisecond)
}

func TestSpanParents(t *testing.T) {
	d, _ := observed(t)

	ctx, root := d.StartSpan(context.Background(), InfoLevel, "root")
	ctx, child := d.StartSpan(ctx, InfoLevel, "child")
	_, grandchild := d.StartSpan(ctx, InfoLevel, "grandchild")
	_, orphan := d.TracerProvider().Tracer("app").Start(ctx, "orphan", trace.WithNewRoot())

	assert.Same(t, root, child.Parent())
	assert.Same(t, child, grandchild.Parent())
	assert.Equal(t, "root:child:grandchild", grandchild.path())
	assert.Equal(t, []*Span{root, child, grandchild}, grandchild.chain())
	assert.Nil(t, orphan.(*Span).Parent())
	assert.Equal(t, "app", orphan.(*Span).Target())
}

func TestSpanLoggerAttribution(t *testing.T) {
	d, logs := observed(t)
	_, span := d.StartSpan(context.Background(), InfoLevel, "scope")
	span.Logger().Info("inside")

	entries := logs.FilterMessage("inside").All()
	require.Len(t, entries, 1)
	m, _ := splitMarkers(entries[0].Context)
	assert.Same(t, span, m.span)
	assert.Equal(t, SpanNone, m.event)
}

func TestSpanExportsUpstream(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp, err := Provider().WithExporter(exp).Synchronous().Build()
	require.NoError(t, err)
	d, logs := observed(t)
	d = d.WithTracerProvider(tp)

	ctx, parent := d.StartSpan(context.Background(), InfoLevel, "parent")
	_, child := d.TracerProvider().Tracer("lib").Start(ctx, "child")
	child.End()
	parent.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name)
	assert.Equal(t, "lib", spans[0].InstrumentationLibrary.Name)
	assert.Equal(t, "parent", spans[1].Name)
	assert.Equal(t, instrumentationName, spans[1].InstrumentationLibrary.Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
	assert.True(t, parent.SpanContext().IsValid())

	assert.Equal(t, 2, logs.FilterMessage(SpanCloseMessage).Len())
	assert.Equal(t, "lib", logs.FilterMessage(SpanNewMessage).All()[1].LoggerName)
	require.NoError(t, tp.Shutdown(context.Background()))
}

func TestSpanTracerProviderIsLogging(t *testing.T) {
	d, logs := observed(t)
	_, span := d.StartSpan(context.Background(), InfoLevel, "a")
	_, child := span.TracerProvider().Tracer("b").Start(context.Background(), "c")
	child.End()
	assert.Equal(t, 1, logs.FilterMessage(SpanCloseMessage).Len())
}
