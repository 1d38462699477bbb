// Package fixmath implements the integer arithmetic used on the
// control hot path. Governor factors are Q16 fixed point (65535
// represents 1.0) and every multiply goes through a 64-bit
// intermediate so two Q16 operands cannot overflow.
package fixmath

import "golang.org/x/exp/constraints"

// OneQ16 is 1.0 in Q16.
const OneQ16 uint32 = 65535

// Clamp limits v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// MulQ16 scales v by the Q16 factor f.
func MulQ16(v, f uint32) uint32 {
	return uint32(uint64(v) * uint64(f) / uint64(OneQ16))
}

// RatioQ16 returns num/den as a Q16 factor clamped to [0, 1.0].
// A zero denominator saturates to 1.0.
func RatioQ16(num, den uint32) uint32 {
	if den == 0 || num >= den {
		return OneQ16
	}
	return uint32(uint64(num) * uint64(OneQ16) / uint64(den))
}

// LerpQ16 interpolates from a to b by the Q16 fraction t.
func LerpQ16(a, b, t uint32) uint32 {
	if b >= a {
		return a + MulQ16(b-a, t)
	}
	return a - MulQ16(a-b, t)
}

// Div divides a by b. Division by zero returns the maximum quotient
// and a zero remainder instead of trapping.
func Div(a, b uint32) (q, r uint32) {
	if b == 0 {
		return ^uint32(0), 0
	}
	return a / b, a % b
}

// Sqrt returns the integer square root of v, the largest s with
// s*s <= v. Binary digit-by-digit method, no floating point.
func Sqrt(v uint32) uint32 {
	var res uint32
	bit := uint32(1) << 30
	for bit > v {
		bit >>= 2
	}
	for bit != 0 {
		if v >= res+bit {
			v -= res + bit
			res = res>>1 + bit
		} else {
			res >>= 1
		}
		bit >>= 2
	}
	return res
}
