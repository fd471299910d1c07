package stdlib

import "math"

var functions = map[string]builtin{
	"sqrt":  {math.Sqrt, "square root"},
	"cbrt":  {math.Cbrt, "cube root"},
	"sin":   {math.Sin, "sine (radians)"},
	"cos":   {math.Cos, "cosine (radians)"},
	"tan":   {math.Tan, "tangent (radians)"},
	"asin":  {math.Asin, "arcsine, in radians"},
	"acos":  {math.Acos, "arccosine, in radians"},
	"atan":  {math.Atan, "arctangent, in radians"},
	"sinh":  {math.Sinh, "hyperbolic sine"},
	"cosh":  {math.Cosh, "hyperbolic cosine"},
	"tanh":  {math.Tanh, "hyperbolic tangent"},
	"abs":   {math.Abs, "absolute value"},
	"ln":    {math.Log, "natural logarithm"},
	"log":   {math.Log10, "base-10 logarithm"},
	"log2":  {math.Log2, "base-2 logarithm"},
	"exp":   {math.Exp, "e raised to x"},
	"floor": {math.Floor, "round down"},
	"ceil":  {math.Ceil, "round up"},
	"round": {roundHalfUp, "round to nearest integer, halves up"},
	"deg":   {degrees, "radians to degrees"},
	"rad":   {radians, "degrees to radians"},
}

// roundHalfUp rounds halves toward positive infinity: round(-2.5) == -2.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

func degrees(x float64) float64 {
	return x * (180 / math.Pi)
}

func radians(x float64) float64 {
	return x * (math.Pi / 180)
}
