package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeWindow(t *testing.T) {
	w, err := ParseTimeWindow("06:00-12:00")
	require.NoError(t, err)
	assert.Equal(t, 6, w.Earliest)
	assert.Equal(t, 12, w.Latest)
	assert.Equal(t, "06:00-12:00", w.String())

	w, err = ParseTimeWindow("00:00-24:00")
	require.NoError(t, err)
	assert.Equal(t, 0, w.Earliest)
	assert.Equal(t, 24, w.Latest)
}

func TestParseTimeWindowRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"06:00",
		"6am-noon",
		"06:30-12:00", // sub-hour precision
		"06:00-25:00", // hour out of range
		"12:00-06:00", // inverted
		"-1:00-06:00",
	}
	for _, in := range cases {
		_, err := ParseTimeWindow(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestNewTimeWindowBounds(t *testing.T) {
	_, err := NewTimeWindow(-1, 5)
	assert.Error(t, err)

	_, err = NewTimeWindow(5, 25)
	assert.Error(t, err)

	w, err := NewTimeWindow(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "00:00-00:00", w.String())
}
