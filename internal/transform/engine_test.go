package transform

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/gatescope/internal/network"
)

var backends = []Backend{GoDSPBackend{}, GonumBackend{}}

// sweep returns n frequencies starting at f0 spaced df apart.
func sweep(n int, f0, df float64) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = f0 + float64(i)*df
	}
	return f
}

// echoes builds a response made of delayed reflections, delays in ns.
func echoes(freq []float64, amps, delays []float64) network.Response {
	values := make([]complex128, len(freq))
	for i, f := range freq {
		for k := range amps {
			values[i] += complex(amps[k], 0) * cmplx.Exp(complex(0, -2*math.Pi*f*delays[k]*1e-9))
		}
	}
	return network.Response{FileID: "synthetic", Parameter: network.S11, Frequency: freq, Values: values}
}

func assertComplexClose(t *testing.T, want, got []complex128, tol float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if d := cmplx.Abs(want[i] - got[i]); d > tol {
			t.Fatalf("sample %d: want %v, got %v (|diff|=%g)", i, want[i], got[i], d)
		}
	}
}

func TestFFTFreqAndShift(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, -0.5, -0.25}, fftFreq(4, 1))
	assert.Equal(t, []float64{0, 0.2, 0.4, -0.4, -0.2}, fftFreq(5, 1))

	assert.Equal(t, []int{2, 3, 0, 1}, fftShift([]int{0, 1, 2, 3}))
	assert.Equal(t, []int{2, 3, 0, 1}, ifftShift([]int{0, 1, 2, 3}))
	assert.Equal(t, []int{3, 4, 0, 1, 2}, fftShift([]int{0, 1, 2, 3, 4}))
	assert.Equal(t, []int{2, 3, 4, 0, 1}, ifftShift([]int{0, 1, 2, 3, 4}))

	odd := []int{7, 8, 9, 10, 11, 12, 13}
	assert.Equal(t, odd, ifftShift(fftShift(odd)))
}

func TestTimeDomain_AxisEvenAndOdd(t *testing.T) {
	e := NewEngine(nil)

	t.Run("even", func(t *testing.T) {
		imp, err := e.Impulse(network.Response{Frequency: sweep(4, 1, 1), Values: make([]complex128, 4)})
		require.NoError(t, err)
		assert.Equal(t, []float64{-0.5e9, -0.25e9, 0, 0.25e9}, imp.Time)

		td := imp.Causal()
		assert.Equal(t, []float64{0, 0.25e9}, td.Time)
	})

	t.Run("odd", func(t *testing.T) {
		imp, err := e.Impulse(network.Response{Frequency: sweep(5, 1, 1), Values: make([]complex128, 5)})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{-0.4e9, -0.2e9, 0, 0.2e9, 0.4e9}, imp.Time, 1e-3)

		td := imp.Causal()
		assert.Equal(t, 3, td.Len())
		assert.Equal(t, 0.0, td.Time[0])
	})

	t.Run("resolution", func(t *testing.T) {
		// 100 points at 10 MHz spacing -> 1 ns bins
		td, err := e.TimeDomain(network.Response{Frequency: sweep(100, 1e9, 10e6), Values: make([]complex128, 100)})
		require.NoError(t, err)
		assert.Equal(t, 50, td.Len())
		assert.InDelta(t, 1.0, td.Time[1]-td.Time[0], 1e-9)
		assert.InDelta(t, 49.0, td.Time[td.Len()-1], 1e-9)
	})
}

func TestTimeDomain_DCResponseIsImpulseAtZero(t *testing.T) {
	for _, b := range backends {
		for _, n := range []int{64, 101} {
			e := NewEngine(b)
			dc := complex(0.3, -0.1)
			values := make([]complex128, n)
			for i := range values {
				values[i] = dc
			}

			td, err := e.TimeDomain(network.Response{Frequency: sweep(n, 0, 1e7), Values: values})
			require.NoError(t, err, b.Name())

			assert.Equal(t, 0.0, td.Time[0])
			assert.InDelta(t, real(dc), real(td.Values[0]), 1e-12, b.Name())
			assert.InDelta(t, imag(dc), imag(td.Values[0]), 1e-12, b.Name())
			for k := 1; k < td.Len(); k++ {
				assert.Less(t, cmplx.Abs(td.Values[k]), 1e-12, "%s n=%d k=%d", b.Name(), n, k)
			}
		}
	}
}

func TestTimeDomain_RoundTrip(t *testing.T) {
	for _, b := range backends {
		for _, n := range []int{128, 201} {
			e := NewEngine(b)
			resp := echoes(sweep(n, 1e9, 10e6), []float64{0.5, 0.2}, []float64{7, 20})

			imp, err := e.Impulse(resp)
			require.NoError(t, err)

			assertComplexClose(t, resp.Values, e.Spectrum(imp), 1e-10)
		}
	}
}

func TestTimeDomain_EchoPeak(t *testing.T) {
	e := NewEngine(nil)
	// 1 ns bins, echo exactly on a bin
	resp := echoes(sweep(200, 1e9, 5e6), []float64{0.8}, []float64{12})

	td, err := e.TimeDomain(resp)
	require.NoError(t, err)

	mag := td.Magnitude()
	peak := 0
	for k := range mag {
		if mag[k] > mag[peak] {
			peak = k
		}
	}
	assert.InDelta(t, 12.0, td.Time[peak], 1e-9)
	assert.InDelta(t, 0.8, mag[peak], 1e-9)
}

func TestTimeDomain_Errors(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name string
		resp network.Response
		want error
	}{
		{
			name: "single sample",
			resp: network.Response{Frequency: []float64{1e9}, Values: []complex128{1}},
			want: ErrInsufficientSamples,
		},
		{
			name: "empty",
			resp: network.Response{},
			want: ErrInsufficientSamples,
		},
		{
			name: "length mismatch",
			resp: network.Response{Frequency: []float64{1, 2, 3}, Values: []complex128{1, 2}},
			want: ErrLengthMismatch,
		},
		{
			name: "descending sweep",
			resp: network.Response{Frequency: []float64{2, 1}, Values: []complex128{1, 2}},
			want: ErrInvalidSpacing,
		},
		{
			name: "repeated frequency",
			resp: network.Response{Frequency: []float64{1, 1}, Values: []complex128{1, 2}},
			want: ErrInvalidSpacing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td, err := e.TimeDomain(tt.resp)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, td)
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	for _, n := range []int{2, 12, 13, 64} {
		x := make([]complex128, n)
		for i := range x {
			x[i] = complex(math.Sin(float64(i)), math.Cos(3*float64(i)))
		}

		assertComplexClose(t, GoDSPBackend{}.Forward(x), GonumBackend{}.Forward(x), 1e-9)
		assertComplexClose(t, GoDSPBackend{}.Inverse(x), GonumBackend{}.Inverse(x), 1e-9)
		assertComplexClose(t, x, GonumBackend{}.Inverse(GonumBackend{}.Forward(x)), 1e-12)
	}
}

func TestNewBackend(t *testing.T) {
	b, err := NewBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendGoDSP, b.Name())

	b, err = NewBackend(BackendGonum)
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, b.Name())

	_, err = NewBackend("fftw")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestMagnitudeDB(t *testing.T) {
	db := MagnitudeDB([]complex128{1, 0.1, 0, 1e-20})
	assert.InDelta(t, 0.0, db[0], 1e-12)
	assert.InDelta(t, -20.0, db[1], 1e-12)
	assert.Equal(t, MinMagnitudeDB, db[2])
	assert.Equal(t, MinMagnitudeDB, db[3])
}
