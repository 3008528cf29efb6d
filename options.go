package tracinginit

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"
)

// Options is a Config and JSONConfig read from a file or command line
// flags. Unset options resolve to the documented defaults.
//
// Options are decoded from YAML or JSON, for example:
//
//	verbose: 2
//	target: true
//	spanEvents: active
//	spanList: true
type Options struct {
	QuietCount   Counter `json:"quiet,omitempty"`
	VerboseCount Counter `json:"verbose,omitempty"`

	ANSI        *bool      `json:"ansi,omitempty"`
	File        *bool      `json:"file,omitempty"`
	LineNumber  *bool      `json:"lineNumber,omitempty"`
	Level       *bool      `json:"level,omitempty"`
	Target      *bool      `json:"target,omitempty"`
	ThreadIDs   *bool      `json:"threadIds,omitempty"`
	ThreadNames *bool      `json:"threadNames,omitempty"`
	SpanEvents  SpanEvents `json:"spanEvents,omitempty"`
	CurrentSpan *bool      `json:"currentSpan,omitempty"`
	SpanList    *bool      `json:"spanList,omitempty"`
}

var _ JSONConfig = &Options{}

// DefaultOptions returns Options with every option unset.
func DefaultOptions() *Options { return &Options{} }

// ParseOptions decodes YAML or JSON into Options. Unknown fields are an
// error.
func ParseOptions(data []byte) (*Options, error) {
	o := DefaultOptions()
	if err := yaml.UnmarshalStrict(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse logging options: %w", err)
	}
	return o, nil
}

// LoadOptions reads and decodes the YAML or JSON file at path.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	o, err := ParseOptions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}

// BindFlags registers the counting -q/-quiet and -v/-verbose flags of o
// in fs. Every occurrence increments the counter, e.g. "-v -v" is 2.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.Var(&o.QuietCount, "q", "decrease verbosity; may be repeated")
	fs.Var(&o.QuietCount, "quiet", "decrease verbosity; may be repeated")
	fs.Var(&o.VerboseCount, "v", "increase verbosity; may be repeated")
	fs.Var(&o.VerboseCount, "verbose", "increase verbosity; may be repeated")
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// Quiet returns how many times quiet was given.
func (o *Options) Quiet() uint8 { return uint8(o.QuietCount) }

// Verbose returns how many times verbose was given.
func (o *Options) Verbose() uint8 { return uint8(o.VerboseCount) }

// WithANSI returns ANSI, or the Defaults value if unset.
func (o *Options) WithANSI() bool { return boolOr(o.ANSI, Defaults{}.WithANSI()) }

// WithFile returns File, or the Defaults value if unset.
func (o *Options) WithFile() bool { return boolOr(o.File, Defaults{}.WithFile()) }

// WithLineNumber returns LineNumber, or the Defaults value if unset.
func (o *Options) WithLineNumber() bool { return boolOr(o.LineNumber, Defaults{}.WithLineNumber()) }

// WithLevel returns Level, or the Defaults value if unset.
func (o *Options) WithLevel() bool { return boolOr(o.Level, Defaults{}.WithLevel()) }

// WithTarget returns Target, or the Defaults value if unset.
func (o *Options) WithTarget() bool { return boolOr(o.Target, Defaults{}.WithTarget()) }

// WithThreadIDs returns ThreadIDs, or the Defaults value if unset.
func (o *Options) WithThreadIDs() bool { return boolOr(o.ThreadIDs, Defaults{}.WithThreadIDs()) }

// WithThreadNames returns ThreadNames, or the Defaults value if unset.
func (o *Options) WithThreadNames() bool { return boolOr(o.ThreadNames, Defaults{}.WithThreadNames()) }

// WithSpanEvents returns SpanEvents.
func (o *Options) WithSpanEvents() SpanEvents { return o.SpanEvents }

// WithCurrentSpan returns CurrentSpan, or the JSONDefaults value if unset.
func (o *Options) WithCurrentSpan() bool { return boolOr(o.CurrentSpan, JSONDefaults{}.WithCurrentSpan()) }

// WithSpanList returns SpanList, or the JSONDefaults value if unset.
func (o *Options) WithSpanList() bool { return boolOr(o.SpanList, JSONDefaults{}.WithSpanList()) }

// Counter is a flag.Value counting how many times a boolean-style flag
// is given. It saturates at 255.
type Counter uint8

var _ flag.Value = new(Counter)

// String returns the count in decimal.
func (c *Counter) String() string {
	if c == nil {
		return "0"
	}
	return strconv.Itoa(int(*c))
}

// Set increments the counter for "true" (a bare flag), sets it for a
// number, and resets it for "false".
func (c *Counter) Set(s string) error {
	switch s {
	case "true":
		if *c < 255 {
			*c++
		}
		return nil
	case "false":
		*c = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", s, err)
	}
	*c = Counter(n)
	return nil
}

// IsBoolFlag makes the flag package accept the flag without a value.
func (*Counter) IsBoolFlag() bool { return true }
