package filetest

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExample(t *testing.T) {
	// The idiomatic way to use this is to define g somewhere in the beginning,
	// and run g.Assert() as a deferred function, so that all writes registered
	// in the test have time to be applied.
	g := New(t)
	defer g.Assert()

	// Update runs before Assert; hence this will always succeed as a sample test.
	// In real life, g.Update() is not called unconditionally; Assert updates
	// the files when the "-update" flag is passed.
	defer g.Update()

	// Get a writer that will be compared with the contents of
	// testdata/records.golden, after the filters have been applied.
	w := g.Add("records").
		Filter(DropJSONKeys("timestamp")).
		Filter(TrimTrailingSpace).
		Writer()

	err := writeRecordsTo(w)
	assert.Nil(t, err)
}

func writeRecordsTo(w io.Writer) error {
	_, err := w.Write([]byte(`{"timestamp":"2021-01-01T00:00:00Z","message":"hello","level":"info"}
{"timestamp":"2021-01-01T00:00:01Z","level":"warn","message":"bye"}
`))
	return err
}

func TestDropJSONKeys(t *testing.T) {
	in := []byte(`{"b":1,"a":"x","drop":true}

not json
{"c":[1,2]}
`)
	out := DropJSONKeys("drop")(in)
	assert.Equal(t, `{"a":"x","b":1}
not json
{"c":[1,2]}
`, string(out))
}

func TestTrimTrailingSpace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", "INFO  hello  \n", "INFO  hello\n"},
		{"blank line separators", "a \n\n", "a\n"},
		{"inner lines", "a \t\nb  \nc\n", "a\nb\nc\n"},
	}
	for _, rt := range tests {
		t.Run(rt.name, func(t *testing.T) {
			assert.Equal(t, rt.want, string(TrimTrailingSpace([]byte(rt.in))))
		})
	}
}
