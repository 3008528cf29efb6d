package tracinginit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanEventsHas(t *testing.T) {
	assert.True(t, SpanFull.Has(SpanNew))
	assert.True(t, SpanFull.Has(SpanActive))
	assert.True(t, SpanActive.Has(SpanEnter))
	assert.False(t, SpanActive.Has(SpanClose))
	assert.False(t, SpanActive.Has(SpanFull))
	assert.False(t, SpanFull.Has(SpanNone))
	assert.False(t, SpanNone.Has(SpanNew))
}

func TestSpanEventsText(t *testing.T) {
	tests := []struct {
		ev   SpanEvents
		text string
	}{
		{SpanNone, "none"},
		{SpanNew, "new"},
		{SpanClose, "close"},
		{SpanActive, "active"},
		{SpanFull, "full"},
		{SpanNew | SpanClose, "new|close"},
		{SpanNew | SpanEnter, "new|enter"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.ev.String())

			var got SpanEvents
			require.NoError(t, got.UnmarshalText([]byte(tt.text)))
			assert.Equal(t, tt.ev, got)
		})
	}

	var ev SpanEvents
	require.NoError(t, ev.UnmarshalText([]byte("New, Exit")))
	assert.Equal(t, SpanNew|SpanExit, ev)
	require.NoError(t, ev.UnmarshalText([]byte("enter|exit|close|new")))
	assert.Equal(t, SpanFull, ev)
	assert.Error(t, ev.UnmarshalText([]byte("start")))
}

func TestSpanEventsBits(t *testing.T) {
	assert.Equal(t, SpanEvents(1), SpanNew)
	assert.Equal(t, SpanEvents(2), SpanEnter)
	assert.Equal(t, SpanEvents(4), SpanExit)
	assert.Equal(t, SpanEvents(8), SpanClose)
	assert.Equal(t, SpanEvents(15), SpanFull)
	assert.Equal(t, "new", SpanEvents(1).String())
	assert.Equal(t, "enter|close", SpanEvents(10).String())
}
