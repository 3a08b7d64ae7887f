package buttons

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// levels maps channel to electrical level, true = high (released).
type levels [Count]bool

func (l levels) ReadDigital(ch int) bool {
	return l[ch]
}

func released() levels {
	var l levels
	for i := range l {
		l[i] = true
	}
	return l
}

func TestSample(t *testing.T) {
	l := released()
	assert.Equal(t, Mask(0), Sample(l))

	l[Up] = false
	l[A] = false
	assert.Equal(t, Mask(0b00010001), Sample(l))

	assert.Equal(t, Mask(0xFF), Sample(levels{}))
}

func TestBitOrder(t *testing.T) {
	for _, tc := range []struct {
		button Button
		bit    Mask
	}{
		{Up, 1 << 0},
		{Down, 1 << 1},
		{Left, 1 << 2},
		{Right, 1 << 3},
		{A, 1 << 4},
		{B, 1 << 5},
		{X, 1 << 6},
		{Y, 1 << 7},
	} {
		l := released()
		l[tc.button] = false
		m := Sample(l)
		assert.Equal(t, tc.bit, m, tc.button.String())
		assert.True(t, m.Pressed(tc.button))
	}
}

func TestPack(t *testing.T) {
	var p [Count]bool
	p[Down] = true
	p[Y] = true
	assert.Equal(t, Mask(0b10000010), Pack(p))
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "-", Mask(0).String())
	assert.Equal(t, "UP+A", Mask(0b00010001).String())
	assert.Equal(t, "UP+DOWN+LEFT+RIGHT+A+B+X+Y", Mask(0xFF).String())
}
