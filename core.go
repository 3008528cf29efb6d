package tracinginit

import (
	"io"
	"os"
	"strconv"

	"github.com/luxas/deklarative/tracinginit/zaplog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Keys of the annotations added by the layers.
const (
	FilenameKey   = "filename"
	LineNumberKey = "line_number"
	ThreadIDKey   = "threadId"
	ThreadNameKey = "threadName"
	SpanKey       = "span"
	SpanListKey   = "spans"
	PrettyAtKey   = "at"
	PrettyInKey   = "in"
)

const (
	spanMarkerKey      = "tracinginit.span"
	lifecycleMarkerKey = "tracinginit.lifecycle"
)

// spanMarker attaches s to a logger or record. zapcore.SkipType fields are
// never encoded, so cores that don't know about spans ignore it.
func spanMarker(s *Span) zapcore.Field {
	return zapcore.Field{Key: spanMarkerKey, Type: zapcore.SkipType, Interface: s}
}

// lifecycleMarker flags a record as the synthesized ev event of s.
func lifecycleMarker(ev SpanEvents, s *Span) zapcore.Field {
	return zapcore.Field{Key: lifecycleMarkerKey, Type: zapcore.SkipType, Integer: int64(ev), Interface: s}
}

type markers struct {
	span  *Span
	event SpanEvents
}

func isMarker(f zapcore.Field) bool {
	return f.Type == zapcore.SkipType && (f.Key == spanMarkerKey || f.Key == lifecycleMarkerKey)
}

// splitMarkers returns the span markers in fields, and fields without
// them. fields is not modified.
func splitMarkers(fields []zapcore.Field) (markers, []zapcore.Field) {
	var m markers
	n := 0
	for _, f := range fields {
		if isMarker(f) {
			n++
		}
	}
	if n == 0 {
		return m, fields
	}
	rest := make([]zapcore.Field, 0, len(fields)-n)
	for _, f := range fields {
		if !isMarker(f) {
			rest = append(rest, f)
			continue
		}
		if s, ok := f.Interface.(*Span); ok && s != nil {
			m.span = s
		}
		if f.Key == lifecycleMarkerKey {
			m.event = SpanEvents(f.Integer)
		}
	}
	return m, rest
}

// layerOptions are the option values of a layer. They are copied into
// every core built, so a core never changes after construction.
type layerOptions struct {
	format      Format
	ansi        bool
	file        bool
	level       bool
	target      bool
	threadIDs   bool
	threadNames bool
	lineNumber  bool
	currentSpan bool
	spanList    bool
	spanEvents  SpanEvents

	writer  io.Writer
	timeEnc zapcore.TimeEncoder
	noTime  bool
}

func defaultLayerOptions(format Format) layerOptions {
	return layerOptions{
		format: format,
		ansi:   true,
		level:  true,
		writer: os.Stdout,
	}
}

func (o layerOptions) encoderConfig() zaplog.EncoderConfig {
	switch o.format {
	case CompactFormat:
		return zaplog.CompactEncoderConfig()
	case PrettyFormat:
		return zaplog.PrettyEncoderConfig()
	case JSONFormat:
		return zaplog.JSONEncoderConfig()
	default:
		return zaplog.FullEncoderConfig()
	}
}

func (o layerOptions) core() zapcore.Core {
	b := zaplog.NewCore().
		LogTo(o.writer).
		WithEncoderConfig(o.encoderConfig())

	if o.format == JSONFormat {
		b.WithEncoderCreator(zaplog.JSONEncoderCreator())
	} else if o.ansi {
		b.WithEncoderConfigOption(zaplog.WithLevelEncoder(zaplog.CapitalColorLevelEncoder()))
	}
	if !o.level {
		b.WithEncoderConfigOption(zaplog.NoLevel())
	}
	if !o.target {
		b.WithEncoderConfigOption(zaplog.NoName())
	}
	// The JSON and pretty formats write the call site as fields, see annotate.
	if (o.file || o.lineNumber) && (o.format == FullFormat || o.format == CompactFormat) {
		b.WithEncoderConfigOption(zaplog.WithCaller(zaplog.FileLineCallerEncoder(o.file, o.lineNumber)))
	}
	switch {
	case o.noTime:
		b.WithEncoderConfigOption(zaplog.NoTimestamps())
	case o.timeEnc != nil:
		b.WithEncoderConfigOption(zaplog.WithTimeEncoder(o.timeEnc))
	}
	return &layerCore{Core: b.Build(), opts: o}
}

// layerCore decorates an encoding core with the span and thread
// annotations of its layer, and drops the lifecycle records the layer
// didn't ask for.
type layerCore struct {
	zapcore.Core
	opts layerOptions
	span *Span
}

// Level is TraceLevel: the encoding core accepts every level.
func (c *layerCore) Level() zapcore.Level { return zaplog.TraceLevel }

func (c *layerCore) With(fields []zapcore.Field) zapcore.Core {
	m, rest := splitMarkers(fields)
	clone := *c
	if m.span != nil {
		clone.span = m.span
	}
	clone.Core = c.Core.With(rest)
	return &clone
}

func (c *layerCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *layerCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	m, fields := splitMarkers(fields)
	if m.event != SpanNone && !c.opts.spanEvents.Has(m.event) {
		return nil
	}
	span := m.span
	if span == nil {
		span = c.span
	}
	return c.Core.Write(ent, c.annotate(ent, span, fields))
}

func (c *layerCore) annotate(ent zapcore.Entry, span *Span, fields []zapcore.Field) []zapcore.Field {
	o := c.opts
	out := make([]zapcore.Field, 0, len(fields)+6)
	out = append(out, fields...)

	caller := ent.Caller.Defined && (o.file || o.lineNumber)
	switch o.format {
	case JSONFormat:
		if caller && o.file {
			out = append(out, zap.String(FilenameKey, zaplog.TrimmedFile(ent.Caller)))
		}
		if caller && o.lineNumber {
			out = append(out, zap.Int(LineNumberKey, ent.Caller.Line))
		}
		if span != nil && o.currentSpan {
			out = append(out, zap.Object(SpanKey, span))
		}
		if span != nil && o.spanList {
			out = append(out, zap.Array(SpanListKey, spanList{span}))
		}
	case PrettyFormat:
		if caller {
			out = append(out, zap.String(PrettyAtKey, callerString(ent.Caller, o.file, o.lineNumber)))
		}
		if span != nil {
			out = append(out, zap.String(PrettyInKey, span.path()))
		}
	default:
		if span != nil {
			out = append(out, zap.String(SpanKey, span.path()))
		}
	}

	if o.threadIDs || o.threadNames {
		id := goroutineID()
		if o.threadIDs {
			out = append(out, zap.Uint64(ThreadIDKey, id))
		}
		if o.threadNames {
			out = append(out, zap.String(ThreadNameKey, goroutineName(id)))
		}
	}
	return out
}

func callerString(c zapcore.EntryCaller, file, line bool) string {
	switch {
	case file && line:
		return c.TrimmedPath()
	case file:
		return zaplog.TrimmedFile(c)
	default:
		return strconv.Itoa(c.Line)
	}
}
