package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	b, err := Encode(Frame{LX: 100, LY: -200, RX: 0, RY: 32767, K: 0b00000101})
	require.NoError(t, err)
	assert.Equal(t, `{"lx":100,"ly":-200,"rx":0,"ry":32767,"k":5}`, string(b))
}

func TestEncodeZeroFrameKeepsAllFields(t *testing.T) {
	b, err := Encode(Frame{})
	require.NoError(t, err)
	assert.Equal(t, `{"lx":0,"ly":0,"rx":0,"ry":0,"k":0}`, string(b))
}

func TestRoundTrip(t *testing.T) {
	f := Frame{LX: 100, LY: -200, RX: 0, RY: 32767, K: 0b00000101}
	b, err := Encode(f)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestEncodedSizeBudget(t *testing.T) {
	for _, f := range []Frame{
		{LX: math.MinInt16, LY: math.MinInt16, RX: math.MinInt16, RY: math.MinInt16, K: 255},
		{LX: math.MaxInt16, LY: math.MaxInt16, RX: math.MaxInt16, RY: math.MaxInt16, K: 255},
		{LX: -32767, LY: -32767, RX: -32767, RY: -32767, K: 128},
	} {
		b, err := Encode(f)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(b), MaxSize)
	}
}

func TestDecodeByName(t *testing.T) {
	f, err := Decode([]byte(`{"k":128,"ry":-1,"rx":2,"ly":3,"lx":-4,"extra":"ignored"}`))
	require.NoError(t, err)
	assert.Equal(t, Frame{LX: -4, LY: 3, RX: 2, RY: -1, K: 128}, f)
}

func TestDecodeErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		expected error
	}{
		{name: "missing k", in: `{"lx":0,"ly":0,"rx":0,"ry":0}`, expected: ErrMissingField},
		{name: "missing lx", in: `{"ly":0,"rx":0,"ry":0,"k":0}`, expected: ErrMissingField},
		{name: "axis overflow", in: `{"lx":40000,"ly":0,"rx":0,"ry":0,"k":0}`, expected: ErrOutOfRange},
		{name: "negative mask", in: `{"lx":0,"ly":0,"rx":0,"ry":0,"k":-1}`, expected: ErrOutOfRange},
		{name: "mask overflow", in: `{"lx":0,"ly":0,"rx":0,"ry":0,"k":256}`, expected: ErrOutOfRange},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.in))
			assert.ErrorIs(t, err, tc.expected)
		})
	}

	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)
}
