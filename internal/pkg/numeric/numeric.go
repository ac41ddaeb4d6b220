package numeric

import (
	"math"
	"strconv"
)

// Tolerances used when a comparison does not name its own.
const (
	DefaultRtol = 1e-5
	DefaultAtol = 1e-8
)

// Round rounds x to the given number of decimals. The exact binary value of x
// is rounded, with ties going to the even digit.
func Round(x float64, decimals int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	if decimals < 0 {
		p := math.Pow(10, float64(-decimals))
		return math.RoundToEven(x/p) * p
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', decimals, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// RoundAll returns a rounded copy of xs.
func RoundAll(xs []float64, decimals int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Round(x, decimals)
	}
	return out
}

// IsClose reports whether |a-b| <= atol + rtol*|b|. The test is asymmetric: b
// is the reference value.
func IsClose(a, b, rtol, atol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if a == b {
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return false
	}
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}

// AllClose reports whether a and b have the same length and every pair of
// elements IsClose.
func AllClose(a, b []float64, rtol, atol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !IsClose(a[i], b[i], rtol, atol) {
			return false
		}
	}
	return true
}

// Equal reports exact element-wise equality.
func Equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualStrings reports exact element-wise equality of string slices.
func EqualStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
