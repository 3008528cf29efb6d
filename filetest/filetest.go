// Package filetest verifies log output written to io.Writers against
// golden files under testdata/.
//
// See the test TestExample for an example of how to use this package.
package filetest

import (
	"bytes"
	"flag"
	"io"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

// New is a wrapper for goldie.New, but returns a *Tester goldie helper.
func New(t *testing.T, opts ...goldie.Option) *Tester { //nolint:thelper
	return &Tester{
		G:     goldie.New(t, opts...),
		T:     t,
		Files: make(map[string]*Target),
	}
}

// Tester registers golden files, and the writers whose output must
// match them.
type Tester struct {
	G *goldie.Goldie
	T *testing.T
	// Files map a golden file name (under testdata/, without the .golden
	// suffix) to a target buffer and set of filters.
	Files map[string]*Target
}

// Target buffers what is written to it. Before verifying that the
// written content is right, the filters are applied in order on the
// buffered content.
type Target struct {
	Buffer  *bytes.Buffer
	Filters []Filter
}

// Filter represents a byte filter; similar to an UNIX pipe.
type Filter func([]byte) []byte

// Add adds a new file target. If name already exists, it is overwritten.
func (g *Tester) Add(name string) *Target {
	b := &Target{
		Buffer: new(bytes.Buffer),
	}
	g.Files[name] = b
	return b
}

// Filter adds a new filter to the Target.
func (b *Target) Filter(filter Filter) *Target {
	b.Filters = append(b.Filters, filter)
	return b
}

// Writer returns the io.Writer which log layers can write to.
func (b *Target) Writer() io.Writer { return b.Buffer }

func (g *Tester) do(fn func(*testing.T, string, []byte)) {
	for name, a := range g.Files {
		content := a.Buffer.Bytes()
		for _, filter := range a.Filters {
			content = filter(content)
		}

		g.T.Run(name, func(t *testing.T) {
			fn(t, name, content)
		})
	}
}

// Assert verifies that all golden files are up-to-date, in separate
// sub-tests.
//
// If the "-update" flag is passed to "go test", for example as
// "go test . -update", the golden files are rewritten instead.
func (g *Tester) Assert() {
	if updating() {
		g.Update()
		return
	}
	g.do(g.G.Assert)
}

// Update updates all golden files to match what was written.
func (g *Tester) Update() {
	g.do(func(t *testing.T, name string, content []byte) { //nolint:thelper
		assert.Nil(t, g.G.Update(t, name, content))
	})
}

// updating reports whether the goldie -update flag is set.
func updating() bool {
	f := flag.Lookup("update")
	return f != nil && f.Value.String() == "true"
}

//nolint:gochecknoglobals
var newlineSep = []byte{'\n'}

// TrimTrailingSpace removes trailing whitespace from every line, and
// trailing empty lines.
func TrimTrailingSpace(in []byte) []byte {
	if len(in) == 0 {
		return in
	}
	lines := bytes.Split(bytes.TrimRight(in, "\n"), newlineSep)
	for i := range lines {
		lines[i] = bytes.TrimRight(lines[i], " \t\r")
	}
	return append(bytes.Join(lines, newlineSep), '\n')
}

// DropJSONKeys returns a filter for newline-delimited JSON, removing the
// given top-level keys from every object. Keys are written sorted, so the
// output is independent of the encoder's field order. Lines that are not
// JSON objects are kept as-is.
func DropJSONKeys(keys ...string) Filter {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	return func(in []byte) []byte {
		var out bytes.Buffer
		for _, line := range bytes.Split(bytes.TrimSpace(in), newlineSep) {
			if len(line) == 0 {
				continue
			}
			obj := map[string]interface{}{}
			if err := json.Unmarshal(line, &obj); err != nil {
				out.Write(line)
				out.WriteByte('\n')
				continue
			}
			for _, k := range keys {
				delete(obj, k)
			}
			b, err := json.Marshal(obj)
			if err != nil {
				out.Write(line)
			} else {
				out.Write(b)
			}
			out.WriteByte('\n')
		}
		return out.Bytes()
	}
}
