package sim

import "math/bits"

// bitsMul64 and bitsDiv128 back mulDiv's overflow-safe a*b/c for u64
// operands, using the standard library's 128-bit multiply/divide
// primitives instead of promoting to math/big on every swap step.
func bitsMul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

func bitsDiv128(hi, lo, denom uint64) (quo, rem uint64) {
	if hi == 0 {
		return lo / denom, lo % denom
	}
	q, r := bits.Div64(hi, lo, denom)
	return q, r
}
