package colorutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#FF0000", want: Red},
		{in: "008000", want: Green},
		{in: "#fff", want: White},
		{in: "#3399FF80", want: Color{R: 0x33, G: 0x99, B: 0xFF, A: 0x80}},
		{in: "#12345", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	for _, c := range []Color{LimeGreen, Blue.WithAlpha(128)} {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Color
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}
	assert.Equal(t, "#32CD32", LimeGreen.String())
}

func TestOptional(t *testing.T) {
	var unset Optional
	_, ok := unset.Get()
	assert.False(t, ok)
	assert.Equal(t, Gray, unset.Or(Gray))

	// Black is a legitimate override, not an "unset" marker.
	o := Some(Black)
	c, ok := o.Get()
	assert.True(t, ok)
	assert.Equal(t, Black, c)
	assert.Equal(t, Black, o.Or(Gray))
}
