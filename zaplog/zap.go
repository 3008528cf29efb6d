// Package zaplog provides the zap building blocks of the tracinginit
// layers: encoder configurations per output family, TRACE-aware level
// encoders, caller encoders and a builder-pattern constructor for
// zapcore.Cores with some commonly-good defaults.
package zaplog

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type (
	// Encoder is a symbolic link to zapcore.Encoder.
	Encoder = zapcore.Encoder
	// EncoderConfig is a symbolic link to zapcore.EncoderConfig.
	EncoderConfig = zapcore.EncoderConfig
	// LevelEncoder is a symbolic link to zapcore.LevelEncoder.
	LevelEncoder = zapcore.LevelEncoder
	// CallerEncoder is a symbolic link to zapcore.CallerEncoder.
	CallerEncoder = zapcore.CallerEncoder

	// EncoderConfigOption represents a function that applies an option to the EncoderConfig.
	EncoderConfigOption func(*EncoderConfig)
	// EncoderCreator represents an Encoder constructor given a populated EncoderConfig.
	EncoderCreator func(EncoderConfig) Encoder
)

// TraceLevel is the zap level used for trace records. zap has no trace
// level of its own, so it is one step below zapcore.DebugLevel.
const TraceLevel = zapcore.DebugLevel - 1

// Keys used by all encoder configurations in this package.
const (
	TimeKey       = "timestamp"
	LevelKey      = "level"
	NameKey       = "target"
	CallerKey     = "caller"
	MessageKey    = "message"
	StacktraceKey = "stacktrace"
)

// JSONEncoderCreator is a symbolic link to zapcore.NewJSONEncoder.
func JSONEncoderCreator() EncoderCreator { return zapcore.NewJSONEncoder }

// ConsoleEncoderCreator is a symbolic link to zapcore.NewConsoleEncoder.
func ConsoleEncoderCreator() EncoderCreator { return zapcore.NewConsoleEncoder }

func baseEncoderConfig() EncoderConfig {
	return EncoderConfig{
		TimeKey:        TimeKey,
		LevelKey:       LevelKey,
		NameKey:        NameKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     MessageKey,
		StacktraceKey:  StacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    CapitalLevelEncoder(),
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

// FullEncoderConfig is the configuration of the full human-readable
// format: RFC3339 timestamps with nanoseconds and elements separated by
// two spaces.
func FullEncoderConfig() EncoderConfig {
	cfg := baseEncoderConfig()
	cfg.ConsoleSeparator = "  "
	return cfg
}

// CompactEncoderConfig is the configuration of the compact human-readable
// format: time-of-day timestamps and single-space separated elements.
func CompactEncoderConfig() EncoderConfig {
	cfg := baseEncoderConfig()
	cfg.ConsoleSeparator = " "
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000")
	return cfg
}

// PrettyEncoderConfig is the configuration of the pretty human-readable
// format. Records are separated by a blank line.
func PrettyEncoderConfig() EncoderConfig {
	cfg := baseEncoderConfig()
	cfg.ConsoleSeparator = "  "
	cfg.LineEnding = "\n\n"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// JSONEncoderConfig is the configuration of the JSON format. The caller
// is omitted, as the JSON layer writes file and line as separate keys.
func JSONEncoderConfig() EncoderConfig {
	cfg := baseEncoderConfig()
	cfg.EncodeLevel = LowercaseLevelEncoder()
	return cfg
}

// NoLevel omits the level.
func NoLevel() EncoderConfigOption {
	return func(ec *EncoderConfig) { ec.LevelKey = zapcore.OmitKey }
}

// NoName omits the logger name.
func NoName() EncoderConfigOption {
	return func(ec *EncoderConfig) { ec.NameKey = zapcore.OmitKey }
}

// NoTimestamps omits timestamps in the logs. It's useful for deterministic
// output in examples and tests.
func NoTimestamps() EncoderConfigOption {
	return func(ec *EncoderConfig) { ec.TimeKey = zapcore.OmitKey }
}

// WithTimeEncoder overrides how timestamps are encoded.
func WithTimeEncoder(enc zapcore.TimeEncoder) EncoderConfigOption {
	return func(ec *EncoderConfig) { ec.EncodeTime = enc }
}

// UTCTimeEncoder serializes a time.Time in UTC with the given layout.
func UTCTimeEncoder(layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format(layout))
	}
}

// WithLevelEncoder customizes how the log level is encoded.
func WithLevelEncoder(levelEnc LevelEncoder) EncoderConfigOption {
	return func(ec *EncoderConfig) { ec.EncodeLevel = levelEnc }
}

// WithCaller records the call site under CallerKey, encoded by enc.
func WithCaller(enc CallerEncoder) EncoderConfigOption {
	return func(ec *EncoderConfig) {
		ec.CallerKey = CallerKey
		ec.EncodeCaller = enc
	}
}

// ANSI color codes per level.
const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorBlue    = 34
	colorMagenta = 35
)

func levelColor(l zapcore.Level) int {
	switch {
	case l <= TraceLevel:
		return colorMagenta
	case l == zapcore.DebugLevel:
		return colorBlue
	case l == zapcore.InfoLevel:
		return colorGreen
	case l == zapcore.WarnLevel:
		return colorYellow
	default:
		return colorRed
	}
}

// LevelName returns the lowercase name of l, including the trace level.
func LevelName(l zapcore.Level) string {
	if l <= TraceLevel {
		return "trace"
	}
	return l.String()
}

func colorize(s string, color int) string {
	return "\x1b[" + strconv.Itoa(color) + "m" + s + "\x1b[0m"
}

// LowercaseLevelEncoder extends zapcore.LowercaseLevelEncoder with a
// "trace" name for TraceLevel and anything below it.
func LowercaseLevelEncoder() LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(LevelName(l))
	}
}

// CapitalLevelEncoder extends zapcore.CapitalLevelEncoder with a
// "TRACE" name for TraceLevel and anything below it.
func CapitalLevelEncoder() LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(strings.ToUpper(LevelName(l)))
	}
}

// CapitalColorLevelEncoder is CapitalLevelEncoder with ANSI colors;
// trace is magenta, debug blue, info green, warn yellow and the rest red.
func CapitalColorLevelEncoder() LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(colorize(strings.ToUpper(LevelName(l)), levelColor(l)))
	}
}

// TrimmedFile is zapcore.EntryCaller.TrimmedPath without the line number.
func TrimmedFile(c zapcore.EntryCaller) string {
	p := c.TrimmedPath()
	if i := strings.LastIndexByte(p, ':'); i >= 0 {
		return p[:i]
	}
	return p
}

// FileLineCallerEncoder encodes the call site as "dir/file.go:line",
// "dir/file.go" or "line" depending on what is requested.
func FileLineCallerEncoder(file, line bool) CallerEncoder {
	return func(c zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		switch {
		case file && line:
			enc.AppendString(c.TrimmedPath())
		case file:
			enc.AppendString(TrimmedFile(c))
		default:
			enc.AppendString(strconv.Itoa(c.Line))
		}
	}
}

// NewCore returns a new *Builder writing console output to os.Stdout.
func NewCore() *Builder {
	return &Builder{
		outW:           os.Stdout,
		encoderCfg:     FullEncoderConfig(),
		encoderCreator: ConsoleEncoderCreator(),
		level:          zapcore.Level(-128),
	}
}

// Builder is a builder-pattern struct for building a zapcore.Core.
type Builder struct {
	outW              io.Writer
	encoderCfg        EncoderConfig
	encoderCfgOptions []EncoderConfigOption
	encoderCreator    EncoderCreator
	level             zapcore.LevelEnabler
}

// LogTo specifies where to write logs. If you want to write to multiple
// destinations, use io.MultiWriter or preferably, zapcore.NewMultiWriteSyncer.
//
// A zapcore.WriteSyncer shall be passed in if possible, otherwise a no-op Sync
// method will be used internally. The resulting WriteSyncer is automatically
// locked using zapcore.Lock, so it can be used in a thread-safe manner.
//
// Defaults to os.Stdout.
//
// A call to this function overwrites any previous value.
func (b *Builder) LogTo(w io.Writer) *Builder {
	b.outW = w
	return b
}

// WithEncoderConfig lets the user fine-tune how to encode/format logs.
//
// Defaults to FullEncoderConfig().
//
// A call to this function overwrites any previous value.
func (b *Builder) WithEncoderConfig(cfg EncoderConfig) *Builder {
	b.encoderCfg = cfg
	return b
}

// WithEncoderConfigOption registers a function that mutates the registered
// EncoderConfig from WithEncoderConfig at Build() time. This is useful
// for "patching" an individual part of the EncoderConfig, instead of
// overwriting everything.
//
// A call to this function appends to the list of previous values.
func (b *Builder) WithEncoderConfigOption(opts ...EncoderConfigOption) *Builder {
	b.encoderCfgOptions = append(b.encoderCfgOptions, opts...)
	return b
}

// WithEncoderCreator uses a specific EncoderCreator to create the encoder.
//
// Defaults to ConsoleEncoderCreator().
//
// A call to this function overwrites any previous value.
func (b *Builder) WithEncoderCreator(encoderCreator EncoderCreator) *Builder {
	b.encoderCreator = encoderCreator
	return b
}

// Enable specifies which levels the core accepts. By default every level
// is accepted, filtering is expected to happen in a wrapping core.
//
// A call to this function overwrites any previous value.
func (b *Builder) Enable(lvl zapcore.LevelEnabler) *Builder {
	b.level = lvl
	return b
}

// Build builds the core with the configured options.
func (b *Builder) Build() zapcore.Core {
	// Convert the io.Writer to a zapcore.WriteSyncer, if a zapcore.WriteSyncer wasn't already
	// provided, and lock the resulting zapcore.WriteSyncer to make it thread-safe. Locking is
	// needed, e.g. for *os.Files.
	sink := zapcore.Lock(zapcore.AddSync(b.outW))

	encCfg := b.encoderCfg
	for _, mutFn := range b.encoderCfgOptions {
		mutFn(&encCfg)
	}
	return zapcore.NewCore(b.encoderCreator(encCfg), sink, b.level)
}
