package tracinginit

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a filter lets through. The values are
// chosen such that they convert losslessly into zapcore.Level; TraceLevel
// is one step more verbose than zap's debug level, and OffLevel is above
// every level zap can emit.
type Level int8

const (
	// TraceLevel is the most verbose level.
	TraceLevel Level = Level(zapcore.DebugLevel) - 1
	// DebugLevel corresponds to zapcore.DebugLevel.
	DebugLevel Level = Level(zapcore.DebugLevel)
	// InfoLevel corresponds to zapcore.InfoLevel.
	InfoLevel Level = Level(zapcore.InfoLevel)
	// WarnLevel corresponds to zapcore.WarnLevel.
	WarnLevel Level = Level(zapcore.WarnLevel)
	// ErrorLevel corresponds to zapcore.ErrorLevel.
	ErrorLevel Level = Level(zapcore.ErrorLevel)
	// OffLevel disables all records.
	OffLevel Level = Level(zapcore.FatalLevel) + 1
)

var _ zapcore.LevelEnabler = InfoLevel

// ZapLevel returns the zapcore.Level equivalent of l.
func (l Level) ZapLevel() zapcore.Level { return zapcore.Level(l) }

// Enabled implements zapcore.LevelEnabler; records at lvl or above l pass.
func (l Level) Enabled(lvl zapcore.Level) bool { return lvl >= zapcore.Level(l) }

// String returns the lowercase name of l, as accepted by UnmarshalText.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "trace"
	case OffLevel:
		return "off"
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return zapcore.Level(l).String()
	}
	return fmt.Sprintf("Level(%d)", l)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. Names are
// case-insensitive.
func (l *Level) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "trace":
		*l = TraceLevel
	case "debug":
		*l = DebugLevel
	case "info", "":
		*l = InfoLevel
	case "warn", "warning":
		*l = WarnLevel
	case "error":
		*l = ErrorLevel
	case "off", "none":
		*l = OffLevel
	default:
		return fmt.Errorf("unrecognized level %q", text)
	}
	return nil
}

// LevelPolicy maps the quiet and verbose counters to a minimum Level.
type LevelPolicy func(quiet, verbose uint8) Level

// DebugPolicy is the level policy of default (non-release) builds.
// Verbose takes precedence over quiet, and the base level is info:
//
//	verbose >= 2        trace
//	verbose == 1        debug
//	quiet == 1          warn
//	quiet >= 2          error
//	otherwise           info
func DebugPolicy(quiet, verbose uint8) Level {
	switch {
	case verbose >= 2:
		return TraceLevel
	case verbose == 1:
		return DebugLevel
	case quiet >= 2:
		return ErrorLevel
	case quiet == 1:
		return WarnLevel
	default:
		return InfoLevel
	}
}

// releaseLadder is indexed by the (clamped) verbose counter.
//
//nolint:gochecknoglobals
var releaseLadder = [...]Level{ErrorLevel, WarnLevel, InfoLevel, DebugLevel, TraceLevel}

// ReleasePolicy is the level policy of release builds. The quiet counter
// is ignored, and verbose is an absolute index into the ladder
// error, warn, info, debug, trace. Values above 4 clamp to trace.
func ReleasePolicy(_, verbose uint8) Level {
	i := int(verbose)
	if i >= len(releaseLadder) {
		i = len(releaseLadder) - 1
	}
	return releaseLadder[i]
}

// EffectiveLevel resolves the minimum Level for the given counters using
// the policy active for this build, see ActivePolicy.
func EffectiveLevel(quiet, verbose uint8) Level { return activePolicy(quiet, verbose) }

// ActivePolicy returns the name of the level policy compiled into this
// build; "debug" by default, or "release" when built with -tags release.
func ActivePolicy() string { return activePolicyName }
