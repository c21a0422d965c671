package expr

import (
	"fmt"
	"math"
)

// variadic marks a builtin without an upper argument bound.
const variadic = -1

type builtin struct {
	minArgs int
	maxArgs int
	fn      func(args []float64) float64
}

func (b builtin) checkArity(name string, n int) error {
	if n < b.minArgs || (b.maxArgs != variadic && n > b.maxArgs) {
		switch {
		case b.maxArgs == variadic:
			return fmt.Errorf("%w: %s expects at least %d args, got %d", ErrEval, name, b.minArgs, n)
		case b.minArgs == b.maxArgs:
			return fmt.Errorf("%w: %s expects %d args, got %d", ErrEval, name, b.minArgs, n)
		default:
			return fmt.Errorf("%w: %s expects %d..%d args, got %d", ErrEval, name, b.minArgs, b.maxArgs, n)
		}
	}
	return nil
}

func unary(f func(float64) float64) builtin {
	return builtin{minArgs: 1, maxArgs: 1, fn: func(a []float64) float64 { return f(a[0]) }}
}

func binary(f func(float64, float64) float64) builtin {
	return builtin{minArgs: 2, maxArgs: 2, fn: func(a []float64) float64 { return f(a[0], a[1]) }}
}

func fold(f func(float64, float64) float64) builtin {
	return builtin{minArgs: 1, maxArgs: variadic, fn: func(a []float64) float64 {
		acc := a[0]
		for _, v := range a[1:] {
			acc = f(acc, v)
		}
		return acc
	}}
}

// round follows the JavaScript rule: halves round towards +Inf.
func round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Floor(v + 0.5)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v
	}
}

func hypot(a []float64) float64 {
	var acc float64
	for _, v := range a {
		acc = math.Hypot(acc, v)
	}
	return acc
}

var functions = map[string]builtin{
	"abs":   unary(math.Abs),
	"acos":  unary(math.Acos),
	"acosh": unary(math.Acosh),
	"asin":  unary(math.Asin),
	"asinh": unary(math.Asinh),
	"atan":  unary(math.Atan),
	"atan2": binary(math.Atan2),
	"atanh": unary(math.Atanh),
	"cbrt":  unary(math.Cbrt),
	"ceil":  unary(math.Ceil),
	"cos":   unary(math.Cos),
	"cosh":  unary(math.Cosh),
	"exp":   unary(math.Exp),
	"expm1": unary(math.Expm1),
	"floor": unary(math.Floor),
	"hypot": {minArgs: 1, maxArgs: variadic, fn: hypot},
	"log":   unary(math.Log),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"log1p": unary(math.Log1p),
	"log2":  unary(math.Log2),
	"max":   fold(math.Max),
	"min":   fold(math.Min),
	"pow":   binary(math.Pow),
	"round": unary(round),
	"sign":  unary(sign),
	"sin":   unary(math.Sin),
	"sinh":  unary(math.Sinh),
	"sqrt":  unary(math.Sqrt),
	"tan":   unary(math.Tan),
	"tanh":  unary(math.Tanh),
	"trunc": unary(math.Trunc),
}

var constants = map[string]float64{
	"PI":      math.Pi,
	"pi":      math.Pi,
	"E":       math.E,
	"e":       math.E,
	"LN2":     math.Ln2,
	"LN10":    math.Ln10,
	"LOG2E":   math.Log2E,
	"LOG10E":  math.Log10E,
	"SQRT2":   math.Sqrt2,
	"SQRT1_2": 1 / math.Sqrt2,
}
