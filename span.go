package tracinginit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages of the synthesized span lifecycle records.
const (
	SpanNewMessage   = "new"
	SpanEnterMessage = "enter"
	SpanExitMessage  = "exit"
	SpanCloseMessage = "close"

	// TimeBusyKey is the time the span was entered, logged on close.
	TimeBusyKey = "time.busy"
	// TimeIdleKey is the time the span was alive but not entered, logged on close.
	TimeIdleKey = "time.idle"
)

// Span is a named interval of execution. It is a composite trace.Span:
// everything is forwarded to the upstream OpenTelemetry span, while the
// lifecycle of the span is logged through the Dispatch that started it.
//
// Records logged using Logger, or using L with a context carrying the
// span, are attributed to the span.
type Span struct {
	// embedding is important; this automatically exposes all inherited functionality from the
	// underlying resource.
	trace.Span

	d      *Dispatch
	parent *Span
	target string
	level  zapcore.Level
	start  time.Time
	log    *zap.Logger
	events *zap.Logger

	mu        sync.Mutex
	name      string
	attrs     []attribute.KeyValue
	entered   int
	enteredAt time.Time
	busy      time.Duration
	closed    bool
}

var (
	_ trace.Span              = &Span{}
	_ zapcore.ObjectMarshaler = &Span{}
)

// instrumentationName is the name of the upstream tracer used by StartSpan.
const instrumentationName = "github.com/luxas/deklarative/tracinginit"

// start starts a span as a child of the span in ctx, if any. start must be
// called directly by the exported function; skip adds frames on top.
func (d *Dispatch) start(ctx context.Context, upstream trace.Tracer, level Level, target, name string, skip int, opts ...trace.SpanStartOption) (context.Context, *Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	parent := SpanFromContext(ctx)
	if cfg.NewRoot() {
		parent = nil
	}

	ctx, span := upstream.Start(ctx, name, opts...)
	s := &Span{
		Span:   span,
		d:      d,
		parent: parent,
		target: target,
		level:  level.ZapLevel(),
		start:  time.Now(),
		name:   name,
		attrs:  append([]attribute.KeyValue(nil), cfg.Attributes()...),
	}
	s.log = d.logger.With(spanMarker(s))
	s.events = d.events
	if target != "" {
		s.events = s.events.Named(target)
	}

	s.emit(SpanNew, skip+1, SpanNewMessage)
	return trace.ContextWithSpan(ctx, s), s
}

// emit writes a lifecycle record for ev. The events logger skips emit and
// the exported method calling it; skip adds more frames on top.
func (s *Span) emit(ev SpanEvents, skip int, msg string, fields ...zapcore.Field) {
	log := s.events
	if skip != 0 {
		log = log.WithOptions(zap.AddCallerSkip(skip))
	}
	if ce := log.Check(s.level, msg); ce != nil {
		ce.Write(append(fields, lifecycleMarker(ev, s))...)
	}
}

// Name returns the current name of the span.
func (s *Span) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Target returns the target (tracer name) of the span.
func (s *Span) Target() string { return s.target }

// Level returns the level of the span's lifecycle records.
func (s *Span) Level() Level { return Level(s.level) }

// Parent returns the parent span, or nil for a root span.
func (s *Span) Parent() *Span { return s.parent }

// Logger returns a logger whose records are attributed to the span.
func (s *Span) Logger() *zap.Logger { return s.log }

// Enter marks the start of a region of execution inside the span, until
// the returned function is called. Spans can be entered multiple times,
// also concurrently; the span is busy while entered at least once.
//
// The returned function can only exit once, further calls are no-ops.
func (s *Span) Enter() (exit func()) {
	s.mu.Lock()
	if s.entered == 0 {
		s.enteredAt = time.Now()
	}
	s.entered++
	s.mu.Unlock()

	s.emit(SpanEnter, 0, SpanEnterMessage)

	var done atomic.Bool
	return func() {
		if !done.CompareAndSwap(false, true) {
			return
		}
		s.mu.Lock()
		s.entered--
		if s.entered == 0 {
			s.busy += time.Since(s.enteredAt)
		}
		s.mu.Unlock()

		s.emit(SpanExit, 0, SpanExitMessage)
	}
}

// End ends the span, and logs how long it was busy and idle. Only the
// first call has an effect.
func (s *Span) End(options ...trace.SpanEndOption) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	now := time.Now()
	busy := s.busy
	if s.entered > 0 {
		busy += now.Sub(s.enteredAt)
	}
	idle := now.Sub(s.start) - busy
	s.mu.Unlock()

	s.emit(SpanClose, 0, SpanCloseMessage,
		zap.Duration(TimeBusyKey, busy),
		zap.Duration(TimeIdleKey, idle))
	s.Span.End(options...)
}

// SetName renames the span.
func (s *Span) SetName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	s.Span.SetName(name)
}

// SetAttributes records attributes with the span; later values of a key
// replace earlier ones.
func (s *Span) SetAttributes(kv ...attribute.KeyValue) {
	s.mu.Lock()
	for _, item := range kv {
		s.attrs = setAttr(s.attrs, item)
	}
	s.mu.Unlock()
	s.Span.SetAttributes(kv...)
}

func setAttr(attrs []attribute.KeyValue, kv attribute.KeyValue) []attribute.KeyValue {
	for i := range attrs {
		if attrs[i].Key == kv.Key {
			attrs[i] = kv
			return attrs
		}
	}
	return append(attrs, kv)
}

// Attributes returns a copy of the attributes of the span.
func (s *Span) Attributes() []attribute.KeyValue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attribute.KeyValue(nil), s.attrs...)
}

// TracerProvider returns the TracerProvider of the Dispatch that started
// the span, such that child spans are logged too.
func (s *Span) TracerProvider() trace.TracerProvider { return s.d.TracerProvider() }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s *Span) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("name", s.Name())
	for _, kv := range s.Attributes() {
		zap.Any(string(kv.Key), kv.Value.AsInterface()).AddTo(enc)
	}
	return nil
}

// path joins the names of all spans from the root, e.g. "outer:inner".
func (s *Span) path() string {
	names := s.chain()
	out := ""
	for i, span := range names {
		if i != 0 {
			out += ":"
		}
		out += span.Name()
	}
	return out
}

// chain returns the spans from the root down to s.
func (s *Span) chain() []*Span {
	var out []*Span
	for span := s; span != nil; span = span.parent {
		out = append(out, span)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

type spanList struct{ leaf *Span }

func (l spanList) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, s := range l.leaf.chain() {
		if err := enc.AppendObject(s); err != nil {
			return err
		}
	}
	return nil
}

// tracerProvider is the trace.TracerProvider of a Dispatch. Its spans are
// started in the upstream TracerProvider, and logged by the Dispatch.
type tracerProvider struct {
	embedded.TracerProvider

	d *Dispatch
}

func (p *tracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return &tracer{d: p.d, name: name, upstream: p.d.upstream.Tracer(name, opts...)}
}

type tracer struct {
	embedded.Tracer

	d        *Dispatch
	name     string
	upstream trace.Tracer
}

// Start starts an info level span, with the tracer name as target.
func (t *tracer) Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.d.start(ctx, t.upstream, InfoLevel, t.name, spanName, 0, opts...)
}
