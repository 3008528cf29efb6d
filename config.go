package tracinginit

// Config groups the options used to assemble a human-readable layer.
//
// Quiet and Verbose are normally counted from command line flags (for
// example prog -qq or prog -vv), while the other options often come from a
// configuration file. Embed Defaults to only implement the options that
// differ from the defaults.
type Config interface {
	// Quiet is the number of quiet flags given.
	Quiet() uint8
	// Verbose is the number of verbose flags given.
	Verbose() uint8

	// WithANSI colors the level of each record. Default: true.
	WithANSI() bool
	// WithFile includes the source file of the call site. Default: false.
	WithFile() bool
	// WithLineNumber includes the source line of the call site. Default: false.
	WithLineNumber() bool
	// WithLevel includes the level of each record. Default: true.
	WithLevel() bool
	// WithTarget includes the logger name. Default: false.
	WithTarget() bool
	// WithThreadIDs includes the id of the logging goroutine. Default: false.
	WithThreadIDs() bool
	// WithThreadNames includes the name of the logging goroutine. Default: false.
	WithThreadNames() bool
	// WithSpanEvents selects the synthesized span lifecycle records.
	// Default: SpanNone.
	WithSpanEvents() SpanEvents
}

// JSONConfig groups the options used to assemble a JSON layer. The span
// options are only meaningful for the machine-readable family, hence they
// are not part of Config.
type JSONConfig interface {
	Config

	// WithCurrentSpan includes the innermost span of each record. Default: false.
	WithCurrentSpan() bool
	// WithSpanList includes all spans of each record, root first. Default: false.
	WithSpanList() bool
}

// Defaults implements every Config option except Quiet and Verbose with
// its default value. It is meant to be embedded.
type Defaults struct{}

// WithANSI is true.
func (Defaults) WithANSI() bool { return true }

// WithFile is false.
func (Defaults) WithFile() bool { return false }

// WithLineNumber is false.
func (Defaults) WithLineNumber() bool { return false }

// WithLevel is true.
func (Defaults) WithLevel() bool { return true }

// WithTarget is false.
func (Defaults) WithTarget() bool { return false }

// WithThreadIDs is false.
func (Defaults) WithThreadIDs() bool { return false }

// WithThreadNames is false.
func (Defaults) WithThreadNames() bool { return false }

// WithSpanEvents is SpanNone.
func (Defaults) WithSpanEvents() SpanEvents { return SpanNone }

// JSONDefaults is Defaults extended with the JSON-only options.
type JSONDefaults struct{ Defaults }

// WithCurrentSpan is false.
func (JSONDefaults) WithCurrentSpan() bool { return false }

// WithSpanList is false.
func (JSONDefaults) WithSpanList() bool { return false }

// TestAll is a JSONConfig with every option enabled, a verbosity of 3 and
// all span lifecycle events. Useful in tests and examples.
type TestAll struct{}

var _ JSONConfig = TestAll{}

// Quiet is 0.
func (TestAll) Quiet() uint8 { return 0 }

// Verbose is 3.
func (TestAll) Verbose() uint8 { return 3 }

// WithANSI is true.
func (TestAll) WithANSI() bool { return true }

// WithFile is true.
func (TestAll) WithFile() bool { return true }

// WithLineNumber is true.
func (TestAll) WithLineNumber() bool { return true }

// WithLevel is true.
func (TestAll) WithLevel() bool { return true }

// WithTarget is true.
func (TestAll) WithTarget() bool { return true }

// WithThreadIDs is true.
func (TestAll) WithThreadIDs() bool { return true }

// WithThreadNames is true.
func (TestAll) WithThreadNames() bool { return true }

// WithSpanEvents is SpanFull.
func (TestAll) WithSpanEvents() SpanEvents { return SpanFull }

// WithCurrentSpan is true.
func (TestAll) WithCurrentSpan() bool { return true }

// WithSpanList is true.
func (TestAll) WithSpanList() bool { return true }
