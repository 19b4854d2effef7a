package meadow

import "math/rand/v2"

// RandSource supplies the pseudo-random draws used when seeding cloud motion
// and when re-placing a cloud that drifted out of bounds. *rand.Rand from
// math/rand/v2 satisfies it.
type RandSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). Panics if n <= 0.
	IntN(n int) int
}

// NewRandSource returns a PCG-backed source. Sources built from the same
// seed and stream produce the same sequence.
func NewRandSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// FixedSource replays a fixed sequence of Float64 values, cycling when it
// runs out. IntN maps the next value onto [0, n). An empty FixedSource
// always returns 0.
type FixedSource struct {
	Values []float64
	next   int
}

// NewFixedSource returns a FixedSource over values.
func NewFixedSource(values ...float64) *FixedSource {
	return &FixedSource{Values: values}
}

// Float64 returns the next value in the sequence.
func (f *FixedSource) Float64() float64 {
	if len(f.Values) == 0 {
		return 0
	}
	v := f.Values[f.next%len(f.Values)]
	f.next++
	return v
}

// IntN returns int(next*n), kept inside [0, n).
func (f *FixedSource) IntN(n int) int {
	if n <= 0 {
		panic("meadow: invalid argument to IntN")
	}
	i := int(f.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// floorDigit returns floor(r*10) for r drawn from src, the 0..9 draw the cloud
// motion table is keyed on.
func floorDigit(src RandSource) int {
	return src.IntN(10)
}
