package tracinginit

import (
	"io"
	"time"

	"github.com/luxas/deklarative/tracinginit/zaplog"
	"go.uber.org/zap/zapcore"
)

// JSONLayer is a builder for a layer writing newline-delimited JSON.
//
// Every setter overwrites any previous value, and affects only cores built
// after the call.
type JSONLayer struct {
	opts layerOptions
}

var _ Layer = &JSONLayer{}

// NewJSONLayer returns a JSON layer with the default options.
func NewJSONLayer() *JSONLayer {
	return &JSONLayer{opts: defaultLayerOptions(JSONFormat)}
}

// WithANSI is accepted for symmetry with FmtLayer; JSON is never colored.
func (l *JSONLayer) WithANSI(ansi bool) *JSONLayer { l.opts.ansi = ansi; return l }

// WithFile toggles the filename key.
func (l *JSONLayer) WithFile(file bool) *JSONLayer { l.opts.file = file; return l }

// WithLevel toggles the level key.
func (l *JSONLayer) WithLevel(level bool) *JSONLayer { l.opts.level = level; return l }

// WithTarget toggles the target key, holding the logger name.
func (l *JSONLayer) WithTarget(target bool) *JSONLayer { l.opts.target = target; return l }

// WithThreadIDs toggles the threadId key.
func (l *JSONLayer) WithThreadIDs(ids bool) *JSONLayer { l.opts.threadIDs = ids; return l }

// WithThreadNames toggles the threadName key.
func (l *JSONLayer) WithThreadNames(names bool) *JSONLayer { l.opts.threadNames = names; return l }

// WithLineNumber toggles the line_number key.
func (l *JSONLayer) WithLineNumber(line bool) *JSONLayer { l.opts.lineNumber = line; return l }

// WithCurrentSpan toggles the span key, holding the innermost span.
func (l *JSONLayer) WithCurrentSpan(current bool) *JSONLayer { l.opts.currentSpan = current; return l }

// WithSpanList toggles the spans key, holding all spans from the root.
func (l *JSONLayer) WithSpanList(list bool) *JSONLayer { l.opts.spanList = list; return l }

// WithSpanEvents selects the span lifecycle events to write records for.
func (l *JSONLayer) WithSpanEvents(ev SpanEvents) *JSONLayer { l.opts.spanEvents = ev; return l }

// WithWriter specifies where to write records. Defaults to os.Stdout.
func (l *JSONLayer) WithWriter(w io.Writer) *JSONLayer { l.opts.writer = w; return l }

// WithTimeEncoder customizes how timestamps are written.
func (l *JSONLayer) WithTimeEncoder(enc zapcore.TimeEncoder) *JSONLayer {
	l.opts.timeEnc = enc
	l.opts.noTime = false
	return l
}

// WithUTCTime writes timestamps in UTC, formatted as RFC3339 with
// nanoseconds.
func (l *JSONLayer) WithUTCTime() *JSONLayer {
	return l.WithTimeEncoder(zaplog.UTCTimeEncoder(time.RFC3339Nano))
}

// WithoutTime omits the timestamp key.
func (l *JSONLayer) WithoutTime() *JSONLayer { l.opts.noTime = true; return l }

// WithFilter is a shorthand for WithFilter(l, filter).
func (l *JSONLayer) WithFilter(filter zapcore.LevelEnabler) *Filtered { return WithFilter(l, filter) }

// Core implements Layer.
func (l *JSONLayer) Core() zapcore.Core { return l.opts.core() }

// JSON creates a JSON layer configured from cfg, and the level filter
// resolved from its quiet and verbose counters.
func JSON(cfg JSONConfig) (*JSONLayer, Level) {
	l := NewJSONLayer().
		WithANSI(cfg.WithANSI()).
		WithFile(cfg.WithFile()).
		WithLevel(cfg.WithLevel()).
		WithTarget(cfg.WithTarget()).
		WithThreadIDs(cfg.WithThreadIDs()).
		WithThreadNames(cfg.WithThreadNames()).
		WithLineNumber(cfg.WithLineNumber()).
		WithCurrentSpan(cfg.WithCurrentSpan()).
		WithSpanList(cfg.WithSpanList())
	if ev := cfg.WithSpanEvents(); ev != SpanNone {
		l.WithSpanEvents(ev)
	}
	return l, EffectiveLevel(cfg.Quiet(), cfg.Verbose())
}

// JSONFiltered creates a JSON layer configured from cfg, filtered by the
// level resolved from its quiet and verbose counters.
func JSONFiltered(cfg JSONConfig) *Filtered {
	layer, level := JSON(cfg)
	return layer.WithFilter(level)
}
