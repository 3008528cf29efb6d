package tracinginit

import (
	"strconv"

	"github.com/luxas/deklarative/tracinginit/zaplog"
	"go.uber.org/zap/zapcore"
)

// Layer is a single stage of a logging pipeline. Every Layer builds an
// independent zapcore.Core; a Dispatch tees the cores of all its layers.
type Layer interface {
	Core() zapcore.Core
}

// CoreLayer adapts an existing zapcore.Core, for example one from
// zaptest/observer, into a Layer. The core receives every span lifecycle
// record, whatever SpanEvents other layers use.
func CoreLayer(core zapcore.Core) Layer { return coreLayer{core} }

type coreLayer struct{ core zapcore.Core }

func (l coreLayer) Core() zapcore.Core { return l.core }

// Format is the output shape of a layer.
type Format uint8

const (
	// FullFormat is the verbose human-readable default.
	FullFormat Format = iota
	// CompactFormat is a shorter human-readable rendering.
	CompactFormat
	// PrettyFormat is a spacious human-readable rendering.
	PrettyFormat
	// JSONFormat is newline-delimited JSON.
	JSONFormat
)

// String returns the lowercase name of f.
func (f Format) String() string {
	switch f {
	case FullFormat:
		return "full"
	case CompactFormat:
		return "compact"
	case PrettyFormat:
		return "pretty"
	case JSONFormat:
		return "json"
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Filtered is a Layer that drops every record the filter doesn't enable,
// before it reaches the wrapped Layer.
type Filtered struct {
	layer  Layer
	filter zapcore.LevelEnabler
}

var _ Layer = &Filtered{}

// WithFilter wraps layer such that only records enabled by filter pass.
// A Level, zap.AtomicLevel or zapcore.Level can be used as filter.
func WithFilter(layer Layer, filter zapcore.LevelEnabler) *Filtered {
	return &Filtered{layer: layer, filter: filter}
}

// Layer returns the wrapped Layer.
func (f *Filtered) Layer() Layer { return f.layer }

// Filter returns the level filter.
func (f *Filtered) Filter() zapcore.LevelEnabler { return f.filter }

// Core implements Layer.
func (f *Filtered) Core() zapcore.Core {
	return &filterCore{Core: f.layer.Core(), filter: f.filter}
}

type filterCore struct {
	zapcore.Core
	filter zapcore.LevelEnabler
}

func (c *filterCore) Enabled(lvl zapcore.Level) bool {
	return c.filter.Enabled(lvl) && c.Core.Enabled(lvl)
}

// Level reports the most verbose level passing both the filter and the
// wrapped core, so that zap.Logger.Level sees trace and off filters.
func (c *filterCore) Level() zapcore.Level {
	f, l := levelOf(c.filter), levelOf(c.Core)
	if f > l {
		return f
	}
	return l
}

func (c *filterCore) With(fields []zapcore.Field) zapcore.Core {
	return &filterCore{Core: c.Core.With(fields), filter: c.filter}
}

func (c *filterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.filter.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

// levelOf is zapcore.LevelOf, except that it also reports TraceLevel and
// levels above zapcore.FatalLevel.
func levelOf(e zapcore.LevelEnabler) zapcore.Level {
	switch l := e.(type) {
	case Level:
		return l.ZapLevel()
	case zapcore.Level:
		return l
	case interface{ Level() zapcore.Level }:
		return l.Level()
	}
	if e.Enabled(zaplog.TraceLevel) {
		return zaplog.TraceLevel
	}
	return zapcore.LevelOf(e)
}
