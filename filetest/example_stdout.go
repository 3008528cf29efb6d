package filetest

import (
	"io"
	"os"
)

// ExampleStdout is a wrapper around os.Stdout that removes trailing
// spaces from each line in each io.Writer.Write call. Console layers pad
// their elements with separators, but gofmt trims trailing spaces in the
// "// Output:" comments of examples, so they could never match otherwise.
const ExampleStdout = exampleWriter(0)

var _ io.Writer = ExampleStdout

type exampleWriter int

func (exampleWriter) Write(p []byte) (int, error) {
	if _, err := os.Stdout.Write(TrimTrailingSpace(p)); err != nil {
		return 0, err
	}
	// Report the input length, zapcore treats short writes as errors.
	return len(p), nil
}
