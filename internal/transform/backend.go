package transform

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend computes complex DFTs of arbitrary length. Forward is unscaled and
// Inverse is scaled by 1/N, so Inverse(Forward(x)) == x.
type Backend interface {
	Forward(x []complex128) []complex128
	Inverse(x []complex128) []complex128
	Name() string
}

const (
	BackendGoDSP = "godsp"
	BackendGonum = "gonum"
)

// NewBackend returns the backend registered under name.
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendGoDSP:
		return GoDSPBackend{}, nil
	case BackendGonum:
		return GonumBackend{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// GoDSPBackend uses mjibson/go-dsp, which handles non power-of-two lengths
// with Bluestein's algorithm.
type GoDSPBackend struct{}

func (GoDSPBackend) Forward(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFT(x)
}

func (GoDSPBackend) Inverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.IFFT(x)
}

func (GoDSPBackend) Name() string { return BackendGoDSP }

// GonumBackend uses gonum's dsp/fourier. Plans hold scratch space, so one is
// built per call.
type GonumBackend struct{}

func (GonumBackend) Forward(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	plan := fourier.NewCmplxFFT(len(x))
	return plan.Coefficients(nil, x)
}

func (GonumBackend) Inverse(x []complex128) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	plan := fourier.NewCmplxFFT(len(x))
	seq := plan.Sequence(nil, x)

	// gonum leaves the inverse unnormalized
	scale := complex(1/float64(len(x)), 0)
	for i := range seq {
		seq[i] *= scale
	}
	return seq
}

func (GonumBackend) Name() string { return BackendGonum }
