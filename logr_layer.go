package tracinginit

import (
	"sort"

	"github.com/go-logr/logr"
	"github.com/luxas/deklarative/tracinginit/zaplog"
	"go.uber.org/zap/zapcore"
)

// LogrLayer forwards records into a logr.Logger, for example one backed
// by stdr or klog, such that a Dispatch can feed libraries that already
// own their logging sink.
//
// Levels map onto logr verbosity: error and above are logged using
// Logger.Error, info and warn at V(0), debug at V(1) and trace at V(2).
// Record fields become key-value pairs sorted by key. Records attributed
// to a span carry the span path under SpanKey.
type LogrLayer struct {
	sink       logr.Logger
	spanEvents SpanEvents
}

var _ Layer = &LogrLayer{}

// NewLogrLayer returns a layer writing to sink.
func NewLogrLayer(sink logr.Logger) *LogrLayer {
	return &LogrLayer{sink: sink}
}

// WithSpanEvents selects the span lifecycle events to write records for.
func (l *LogrLayer) WithSpanEvents(ev SpanEvents) *LogrLayer { l.spanEvents = ev; return l }

// WithFilter is a shorthand for WithFilter(l, filter).
func (l *LogrLayer) WithFilter(filter zapcore.LevelEnabler) *Filtered { return WithFilter(l, filter) }

// Core implements Layer.
func (l *LogrLayer) Core() zapcore.Core {
	return &logrCore{sink: l.sink, spanEvents: l.spanEvents}
}

type logrCore struct {
	sink       logr.Logger
	spanEvents SpanEvents
	span       *Span
	fields     []zapcore.Field
}

// logrVerbosity maps lvl onto a logr V-level.
func logrVerbosity(lvl zapcore.Level) int {
	if lvl >= zapcore.InfoLevel {
		return 0
	}
	return -int(lvl)
}

func (c *logrCore) Enabled(lvl zapcore.Level) bool {
	if lvl >= zapcore.ErrorLevel {
		return true
	}
	return c.sink.V(logrVerbosity(lvl)).Enabled()
}

// Level returns the most verbose level the sink accepts.
func (c *logrCore) Level() zapcore.Level {
	for lvl := zaplog.TraceLevel; lvl < zapcore.ErrorLevel; lvl++ {
		if c.Enabled(lvl) {
			return lvl
		}
	}
	return zapcore.ErrorLevel
}

func (c *logrCore) With(fields []zapcore.Field) zapcore.Core {
	m, rest := splitMarkers(fields)
	clone := *c
	if m.span != nil {
		clone.span = m.span
	}
	clone.fields = append(append(make([]zapcore.Field, 0, len(c.fields)+len(rest)), c.fields...), rest...)
	return &clone
}

func (c *logrCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *logrCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	m, fields := splitMarkers(fields)
	if m.event != SpanNone && !c.spanEvents.Has(m.event) {
		return nil
	}
	span := m.span
	if span == nil {
		span = c.span
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys)+2)
	if span != nil {
		kv = append(kv, SpanKey, span.path())
	}
	for _, k := range keys {
		kv = append(kv, k, enc.Fields[k])
	}

	log := c.sink
	if ent.LoggerName != "" {
		log = log.WithName(ent.LoggerName)
	}
	if ent.Level >= zapcore.ErrorLevel {
		log.Error(nil, ent.Message, kv...)
		return nil
	}
	log.V(logrVerbosity(ent.Level)).Info(ent.Message, kv...)
	return nil
}

func (c *logrCore) Sync() error { return nil }
