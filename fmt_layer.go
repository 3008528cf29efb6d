package tracinginit

import (
	"io"
	"time"

	"github.com/luxas/deklarative/tracinginit/zaplog"
	"go.uber.org/zap/zapcore"
)

// FmtLayer is a builder for a human-readable layer in the full, compact or
// pretty format. The zero value is not usable; use Full, Compact, Pretty or
// NewFmtLayer.
//
// Every setter overwrites any previous value, and affects only cores built
// after the call.
type FmtLayer struct {
	opts layerOptions
}

var _ Layer = &FmtLayer{}

// NewFmtLayer returns a layer of the given human-readable format with the
// default options. JSONFormat is not accepted here; it is treated as
// FullFormat, use NewJSONLayer instead.
func NewFmtLayer(format Format) *FmtLayer {
	if format == JSONFormat {
		format = FullFormat
	}
	return &FmtLayer{opts: defaultLayerOptions(format)}
}

// Format returns the output format of the layer.
func (l *FmtLayer) Format() Format { return l.opts.format }

// WithANSI toggles ANSI colors for the level.
func (l *FmtLayer) WithANSI(ansi bool) *FmtLayer { l.opts.ansi = ansi; return l }

// WithFile toggles the source file of the call site.
func (l *FmtLayer) WithFile(file bool) *FmtLayer { l.opts.file = file; return l }

// WithLevel toggles the level.
func (l *FmtLayer) WithLevel(level bool) *FmtLayer { l.opts.level = level; return l }

// WithTarget toggles the logger name.
func (l *FmtLayer) WithTarget(target bool) *FmtLayer { l.opts.target = target; return l }

// WithThreadIDs toggles the id of the logging goroutine.
func (l *FmtLayer) WithThreadIDs(ids bool) *FmtLayer { l.opts.threadIDs = ids; return l }

// WithThreadNames toggles the name of the logging goroutine.
func (l *FmtLayer) WithThreadNames(names bool) *FmtLayer { l.opts.threadNames = names; return l }

// WithLineNumber toggles the source line of the call site.
func (l *FmtLayer) WithLineNumber(line bool) *FmtLayer { l.opts.lineNumber = line; return l }

// WithSpanEvents selects the span lifecycle events to write records for.
func (l *FmtLayer) WithSpanEvents(ev SpanEvents) *FmtLayer { l.opts.spanEvents = ev; return l }

// WithWriter specifies where to write records. Defaults to os.Stdout.
func (l *FmtLayer) WithWriter(w io.Writer) *FmtLayer { l.opts.writer = w; return l }

// WithTimeEncoder customizes how timestamps are written.
func (l *FmtLayer) WithTimeEncoder(enc zapcore.TimeEncoder) *FmtLayer {
	l.opts.timeEnc = enc
	l.opts.noTime = false
	return l
}

// WithUTCTime writes timestamps in UTC, formatted as RFC3339 with
// nanoseconds.
func (l *FmtLayer) WithUTCTime() *FmtLayer {
	return l.WithTimeEncoder(zaplog.UTCTimeEncoder(time.RFC3339Nano))
}

// WithoutTime omits timestamps. It's useful for deterministic output in
// examples and tests.
func (l *FmtLayer) WithoutTime() *FmtLayer { l.opts.noTime = true; return l }

// WithFilter is a shorthand for WithFilter(l, filter).
func (l *FmtLayer) WithFilter(filter zapcore.LevelEnabler) *Filtered { return WithFilter(l, filter) }

// Core implements Layer.
func (l *FmtLayer) Core() zapcore.Core { return l.opts.core() }

// assemble applies the options of cfg to l in the conventional order, and
// resolves the effective level.
func (l *FmtLayer) assemble(cfg Config) (*FmtLayer, Level) {
	l.WithANSI(cfg.WithANSI()).
		WithFile(cfg.WithFile()).
		WithLevel(cfg.WithLevel()).
		WithTarget(cfg.WithTarget()).
		WithThreadIDs(cfg.WithThreadIDs()).
		WithThreadNames(cfg.WithThreadNames()).
		WithLineNumber(cfg.WithLineNumber())
	if ev := cfg.WithSpanEvents(); ev != SpanNone {
		l.WithSpanEvents(ev)
	}
	return l, EffectiveLevel(cfg.Quiet(), cfg.Verbose())
}

// Full creates a full format layer configured from cfg, and the level
// filter resolved from its quiet and verbose counters. Use this instead
// of FullFiltered to customize e.g. the writer before filtering.
func Full(cfg Config) (*FmtLayer, Level) { return NewFmtLayer(FullFormat).assemble(cfg) }

// FullFiltered creates a full format layer configured from cfg, filtered
// by the level resolved from its quiet and verbose counters.
func FullFiltered(cfg Config) *Filtered {
	layer, level := Full(cfg)
	return layer.WithFilter(level)
}

// Compact creates a compact format layer configured from cfg, and the
// level filter resolved from its quiet and verbose counters.
func Compact(cfg Config) (*FmtLayer, Level) { return NewFmtLayer(CompactFormat).assemble(cfg) }

// CompactFiltered creates a compact format layer configured from cfg,
// filtered by the level resolved from its quiet and verbose counters.
func CompactFiltered(cfg Config) *Filtered {
	layer, level := Compact(cfg)
	return layer.WithFilter(level)
}

// Pretty creates a pretty format layer configured from cfg, and the level
// filter resolved from its quiet and verbose counters.
func Pretty(cfg Config) (*FmtLayer, Level) { return NewFmtLayer(PrettyFormat).assemble(cfg) }

// PrettyFiltered creates a pretty format layer configured from cfg,
// filtered by the level resolved from its quiet and verbose counters.
func PrettyFiltered(cfg Config) *Filtered {
	layer, level := Pretty(cfg)
	return layer.WithFilter(level)
}
