package vmath

import (
	"math"
	"time"
)

// Rand is a xorshift64 generator passed explicitly to every stochastic function
// Not safe for concurrent use; each card owns one
type Rand struct {
	state uint64
}

// NewRand creates a generator, zero seed is remapped since xorshift has a zero fixed point
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

// NewTimeSeededRand creates a non-reproducible generator from wall clock
func NewTimeSeededRand() *Rand {
	return NewRand(uint64(time.Now().UnixNano()) * 0x9E3779B97F4A7C15)
}

// Next returns the next raw 64-bit value
func (r *Rand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a value in [0, n), 0 for non-positive n
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// IntRange returns a value in [lo, hi], lo when range is empty
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Float64 returns a value in [0, 1) using the top 53 bits
func (r *Rand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi)
func (r *Rand) Range(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// Symmetric returns a value in [-mag, mag]
func (r *Rand) Symmetric(mag float64) float64 {
	if mag <= 0 {
		return 0
	}
	return (r.Float64()*2 - 1) * mag
}

// Chance reports true with probability p, never for p <= 0
func (r *Rand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Angle returns a uniform angle in [0, 2π)
func (r *Rand) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}
