package meadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedSourceCycles(t *testing.T) {
	f := NewFixedSource(0.1, 0.2)
	assert.Equal(t, 0.1, f.Float64())
	assert.Equal(t, 0.2, f.Float64())
	assert.Equal(t, 0.1, f.Float64())
}

func TestFixedSourceIntN(t *testing.T) {
	f := NewFixedSource(0.35, 0.999999, 0)
	assert.Equal(t, 3, f.IntN(10))
	assert.Equal(t, 9, f.IntN(10))
	assert.Equal(t, 0, f.IntN(10))
	assert.Panics(t, func() { f.IntN(0) })
}

func TestFixedSourceEmpty(t *testing.T) {
	var f FixedSource
	assert.Equal(t, 0.0, f.Float64())
	assert.Equal(t, 0, f.IntN(5))
}

func TestNewRandSourceReplays(t *testing.T) {
	a := NewRandSource(7, 3)
	b := NewRandSource(7, 3)
	c := NewRandSource(7, 4)
	same, differ := true, false
	for i := 0; i < 16; i++ {
		x, y, z := a.Float64(), b.Float64(), c.Float64()
		same = same && x == y
		differ = differ || x != z
	}
	assert.True(t, same, "same seed and stream replay")
	assert.True(t, differ, "streams differ")
}

func TestFloorDigitRange(t *testing.T) {
	src := NewRandSource(1, 1)
	for i := 0; i < 200; i++ {
		d := floorDigit(src)
		assert.GreaterOrEqual(t, d, 0)
		assert.Less(t, d, 10)
	}
}
