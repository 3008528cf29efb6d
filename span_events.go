package tracinginit

import (
	"fmt"
	"strings"
)

// SpanEvents selects which span lifecycle events a layer synthesizes log
// records for. The zero value, SpanNone, emits none.
type SpanEvents uint8

const (
	// SpanNone emits no lifecycle records.
	SpanNone SpanEvents = 0
	// SpanNew emits a record when a span is started.
	SpanNew SpanEvents = 1 << (iota - 1)
	// SpanEnter emits a record when a span is entered.
	SpanEnter
	// SpanExit emits a record when a span is exited.
	SpanExit
	// SpanClose emits a record when a span ends, including the
	// time.busy and time.idle durations of the span.
	SpanClose

	// SpanActive emits a record when a span is entered and exited.
	SpanActive = SpanEnter | SpanExit
	// SpanFull emits records for every lifecycle event.
	SpanFull = SpanNew | SpanEnter | SpanExit | SpanClose
)

//nolint:gochecknoglobals
var spanEventNames = []struct {
	ev   SpanEvents
	name string
}{
	{SpanNew, "new"},
	{SpanEnter, "enter"},
	{SpanExit, "exit"},
	{SpanClose, "close"},
}

// Has reports whether every event in ev is selected.
func (s SpanEvents) Has(ev SpanEvents) bool { return ev != 0 && s&ev == ev }

// String returns the names of the events in s joined by "|", or one of
// none, active and full.
func (s SpanEvents) String() string {
	switch s {
	case SpanNone:
		return "none"
	case SpanFull:
		return "full"
	case SpanActive:
		return "active"
	}
	parts := make([]string, 0, len(spanEventNames))
	for _, n := range spanEventNames {
		if s.Has(n.ev) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MarshalText implements encoding.TextMarshaler.
func (s SpanEvents) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the names
// none, new, enter, exit, close, active and full, combined using "|" or ",".
func (s *SpanEvents) UnmarshalText(text []byte) error {
	var out SpanEvents
	for _, part := range strings.FieldsFunc(string(text), func(r rune) bool { return r == '|' || r == ',' }) {
		switch p := strings.ToLower(strings.TrimSpace(part)); p {
		case "none", "":
		case "new":
			out |= SpanNew
		case "enter":
			out |= SpanEnter
		case "exit":
			out |= SpanExit
		case "close":
			out |= SpanClose
		case "active":
			out |= SpanActive
		case "full":
			out |= SpanFull
		default:
			return fmt.Errorf("unrecognized span event %q", p)
		}
	}
	*s = out
	return nil
}
