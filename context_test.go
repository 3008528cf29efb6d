package tracinginit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestFromContext(t *testing.T) {
	withCleanDefaults(t)

	ctx := context.Background()
	assert.Same(t, nopDispatch, FromContext(ctx))
	assert.Nil(t, SpanFromContext(ctx))

	d, _ := observed(t)
	assert.Same(t, d, FromContext(NewContext(ctx, d)))

	guard := d.SetDefault()
	defer guard.Close()
	assert.Same(t, d, FromContext(ctx))
}

func TestContextStartSpan(t *testing.T) {
	withCleanDefaults(t)

	d, logs := observed(t)
	ctx := NewContext(context.Background(), d)

	ctx, span := StartSpan(ctx, WarnLevel, "ctx-span")
	require.Same(t, span, SpanFromContext(ctx))
	L(ctx).Info("attributed")
	span.End()

	assert.Equal(t, 1, logs.FilterMessage(SpanNewMessage).Len())
	entries := logs.FilterMessage("attributed").All()
	require.Len(t, entries, 1)
	m, _ := splitMarkers(entries[0].Context)
	assert.Same(t, span, m.span)

	// The lifecycle records are attributed to the caller of StartSpan.
	newEntry := logs.FilterMessage(SpanNewMessage).All()[0]
	assert.Contains(t, newEntry.Caller.File, "context_test.go")
}

func TestSpanContextResolvesItsDispatch(t *testing.T) {
	withCleanDefaults(t)

	d, logs := observed(t)
	other, otherLogs := observed(t)

	ctx, span := d.StartSpan(context.Background(), InfoLevel, "work")
	assert.Same(t, d, FromContext(ctx))
	L(ctx).Info("inside span")

	_, viaTracer := d.TracerProvider().Tracer("app").Start(context.Background(), "traced")
	tctx := trace.ContextWithSpan(context.Background(), viaTracer)
	L(tctx).Info("inside traced span")

	// A Dispatch attached explicitly takes precedence over the span's.
	L(NewContext(ctx, other)).Info("redirected")

	// Children started through the package-level helper stay with d.
	_, child := StartSpan(ctx, InfoLevel, "child")
	child.End()
	viaTracer.End()
	span.End()

	assert.Equal(t, 1, logs.FilterMessage("inside span").Len())
	assert.Equal(t, 1, logs.FilterMessage("inside traced span").Len())
	assert.Equal(t, 0, logs.FilterMessage("redirected").Len())
	assert.Equal(t, 1, otherLogs.FilterMessage("redirected").Len())
	assert.Equal(t, 3, logs.FilterMessage(SpanCloseMessage).Len())
	assert.Equal(t, 0, otherLogs.FilterMessage(SpanCloseMessage).Len())
}
