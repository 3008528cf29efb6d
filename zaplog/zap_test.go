package zaplog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func ExampleBuilder_json() {
	core := NewCore().
		WithEncoderConfig(JSONEncoderConfig()).
		WithEncoderConfigOption(NoTimestamps()).
		WithEncoderCreator(JSONEncoderCreator()).
		Build()
	log := zap.New(core).Named("bar")

	log.Info("some message", zap.Bool("foo", true))
	log.With(zap.Int("bar", 1)).Debug("hello")
	log.Log(TraceLevel, "tiny details")

	err := errors.New("unexpected error") //nolint:goerr113
	log.Error("I don't know what happened here", zap.Duration("duration", time.Minute), zap.Error(err))

	// Output:
	// {"level":"info","target":"bar","message":"some message","foo":true}
	// {"level":"debug","target":"bar","message":"hello","bar":1}
	// {"level":"trace","target":"bar","message":"tiny details"}
	// {"level":"error","target":"bar","message":"I don't know what happened here","duration":"1m0s","error":"unexpected error"}
}

func ExampleBuilder_console() {
	core := NewCore().
		WithEncoderConfigOption(NoTimestamps(), NoName()).
		Enable(zapcore.InfoLevel).
		Build()
	log := zap.New(core).Named("bar")

	log.Info("some message", zap.Bool("foo", true))
	log.Debug("discarded")
	log.Warn("careful")

	// Output:
	// INFO  some message  {"foo": true}
	// WARN  careful
}

func ExampleBuilder_logTo() {
	var buf bytes.Buffer
	core := NewCore().
		WithEncoderConfig(CompactEncoderConfig()).
		WithEncoderConfigOption(NoTimestamps(), WithLevelEncoder(LowercaseLevelEncoder())).
		LogTo(&buf).
		Build()
	log := zap.New(core).Named("bar")

	log.Info("hello", zap.String("k", "v"))
	log.Log(TraceLevel, "deep")

	fmt.Fprint(os.Stdout, buf.String())
	// Output:
	// info bar hello {"k": "v"}
	// trace bar deep
}

func TestLevelEncoders(t *testing.T) {
	tests := []struct {
		enc   LevelEncoder
		level zapcore.Level
		want  string
	}{
		// Capital case
		{CapitalLevelEncoder(), zapcore.FatalLevel, "FATAL"},
		{CapitalLevelEncoder(), zapcore.ErrorLevel, "ERROR"},
		{CapitalLevelEncoder(), zapcore.WarnLevel, "WARN"},
		{CapitalLevelEncoder(), zapcore.InfoLevel, "INFO"},
		{CapitalLevelEncoder(), zapcore.DebugLevel, "DEBUG"},
		{CapitalLevelEncoder(), TraceLevel, "TRACE"},
		{CapitalLevelEncoder(), -44, "TRACE"},
		// Lowercase
		{LowercaseLevelEncoder(), zapcore.FatalLevel, "fatal"},
		{LowercaseLevelEncoder(), zapcore.ErrorLevel, "error"},
		{LowercaseLevelEncoder(), zapcore.WarnLevel, "warn"},
		{LowercaseLevelEncoder(), zapcore.InfoLevel, "info"},
		{LowercaseLevelEncoder(), zapcore.DebugLevel, "debug"},
		{LowercaseLevelEncoder(), TraceLevel, "trace"},
		// Colors
		{CapitalColorLevelEncoder(), zapcore.ErrorLevel, "\x1b[31mERROR\x1b[0m"},
		{CapitalColorLevelEncoder(), zapcore.WarnLevel, "\x1b[33mWARN\x1b[0m"},
		{CapitalColorLevelEncoder(), zapcore.InfoLevel, "\x1b[32mINFO\x1b[0m"},
		{CapitalColorLevelEncoder(), zapcore.DebugLevel, "\x1b[34mDEBUG\x1b[0m"},
		{CapitalColorLevelEncoder(), TraceLevel, "\x1b[35mTRACE\x1b[0m"},
	}
	for i, tt := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			fpe := &fakePrimitiveEncoder{}
			tt.enc(tt.level, fpe)
			assert.Equal(t, tt.want, fpe.str)
		})
	}
}

func TestFileLineCallerEncoder(t *testing.T) {
	caller := zapcore.NewEntryCaller(0, "/home/user/src/project/pkg/file.go", 42, true)
	tests := []struct {
		name       string
		file, line bool
		want       string
	}{
		{"file and line", true, true, "pkg/file.go:42"},
		{"file only", true, false, "pkg/file.go"},
		{"line only", false, true, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fpe := &fakePrimitiveEncoder{}
			FileLineCallerEncoder(tt.file, tt.line)(caller, fpe)
			assert.Equal(t, tt.want, fpe.str)
		})
	}
	assert.Equal(t, "pkg/file.go", TrimmedFile(caller))
}

func TestUTCTimeEncoder(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	fpe := &fakePrimitiveEncoder{}
	UTCTimeEncoder(time.RFC3339)(time.Date(2021, 1, 1, 2, 0, 0, 0, loc), fpe)
	assert.Equal(t, "2021-01-01T00:00:00Z", fpe.str)
}

type fakePrimitiveEncoder struct{ str string }

func (*fakePrimitiveEncoder) AppendBool(bool)             {}
func (*fakePrimitiveEncoder) AppendByteString([]byte)     {}
func (*fakePrimitiveEncoder) AppendComplex128(complex128) {}
func (*fakePrimitiveEncoder) AppendComplex64(complex64)   {}
func (*fakePrimitiveEncoder) AppendFloat64(float64)       {}
func (*fakePrimitiveEncoder) AppendFloat32(float32)       {}
func (*fakePrimitiveEncoder) AppendInt(int)               {}
func (*fakePrimitiveEncoder) AppendInt64(int64)           {}
func (*fakePrimitiveEncoder) AppendInt32(int32)           {}
func (*fakePrimitiveEncoder) AppendInt16(int16)           {}
func (*fakePrimitiveEncoder) AppendInt8(int8)             {}
func (e *fakePrimitiveEncoder) AppendString(in string)    { e.str += in }
func (*fakePrimitiveEncoder) AppendUint(uint)             {}
func (*fakePrimitiveEncoder) AppendUint64(uint64)         {}
func (*fakePrimitiveEncoder) AppendUint32(uint32)         {}
func (*fakePrimitiveEncoder) AppendUint16(uint16)         {}
func (*fakePrimitiveEncoder) AppendUint8(uint8)           {}
func (*fakePrimitiveEncoder) AppendUintptr(uintptr)       {}
