package tracinginit

import (
	"bytes"
	"runtime"
	"strconv"
)

const (
	mainGoroutineName    = "main"
	unnamedGoroutineName = "<unnamed>"
)

//nolint:gochecknoglobals
var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the id of the calling goroutine, as printed in the
// header of its stack trace, or 0 if it cannot be parsed.
func goroutineID() uint64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, goroutinePrefix)
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// goroutineName names the main goroutine "main"; goroutines carry no
// names otherwise.
func goroutineName(id uint64) string {
	if id == 1 {
		return mainGoroutineName
	}
	return unnamedGoroutineName
}
