package transform

import (
	"math"
	"math/cmplx"
)

// MinMagnitudeDB is the floor applied by MagnitudeDB to exact zeros.
const MinMagnitudeDB = -200.0

// fftFreq returns the DFT sample frequencies for n samples spaced d apart,
// in the order a DFT produces them: [0, 1, ..., ceil(n/2)-1, -floor(n/2), ..., -1] / (n*d).
func fftFreq(n int, d float64) []float64 {
	out := make([]float64, n)
	val := 1 / (float64(n) * d)
	pos := (n-1)/2 + 1
	for i := 0; i < pos; i++ {
		out[i] = float64(i) * val
	}
	for i := pos; i < n; i++ {
		out[i] = float64(-(n/2)+(i-pos)) * val
	}
	return out
}

// fftShift moves the zero-frequency (or zero-time) sample to index n/2.
func fftShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	for i, v := range x {
		out[(i+n/2)%n] = v
	}
	return out
}

// ifftShift undoes fftShift for both even and odd lengths.
func ifftShift[T any](x []T) []T {
	n := len(x)
	out := make([]T, n)
	for i := range out {
		out[i] = x[(i+n/2)%n]
	}
	return out
}

// Magnitude returns the complex modulus of each sample.
func Magnitude(values []complex128) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// MagnitudeDB returns 20*log10(|v|), floored at MinMagnitudeDB.
func MagnitudeDB(values []complex128) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		db := 20 * math.Log10(cmplx.Abs(v))
		if math.IsInf(db, -1) || db < MinMagnitudeDB {
			db = MinMagnitudeDB
		}
		out[i] = db
	}
	return out
}
