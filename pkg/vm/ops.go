package vm

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/agenthands/nscript/pkg/compiler/lexer"
)

type number interface {
	constraints.Integer | constraints.Float
}

// binary applies an arithmetic keyword to a and b. Integer results wrap.
func binary[T number](op lexer.Kind, a, b T) (T, bool) {
	switch op {
	case lexer.KindAdd, lexer.KindAddF:
		return a + b, true
	case lexer.KindSub, lexer.KindSubF:
		return a - b, true
	case lexer.KindMul, lexer.KindMulF:
		return a * b, true
	case lexer.KindDiv, lexer.KindDivF:
		// callers reject b == 0 first
		return a / b, true
	}
	return 0, false
}

// ipow raises base to a non-negative exp by squaring, wrapping on overflow.
func ipow[T constraints.Integer](base, exp T) T {
	result := T(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// isqrt truncates the single-precision square root of a non-negative x.
func isqrt(x int32) int32 {
	return int32(float32(math.Sqrt(float64(float32(x)))))
}
