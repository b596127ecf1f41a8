// Package transform converts uniformly sampled S-parameter data into a
// time-domain impulse response and applies rectangular time gates.
//
// Axis and shift conventions follow numpy: the time axis is
// fftshift(fftfreq(N, Δf)) and the response is fftshift(ifft(S)), so sample
// k of one always lines up with sample k of the other and t = 0 sits at
// index N/2 for both even and odd N.
package transform

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RMahshie/gatescope/internal/network"
)

// Errors returned by the transform and gate operations.
var (
	ErrInsufficientSamples = errors.New("transform: at least two frequency samples are required")
	ErrLengthMismatch      = errors.New("transform: frequency and value lengths differ")
	ErrInvalidSpacing      = errors.New("transform: frequency spacing must be positive and finite")
	ErrInvalidGateWindow   = errors.New("transform: gate span must be positive and finite")
	ErrUnknownBackend      = errors.New("transform: unknown FFT backend")
)

const secondsToNanoseconds = 1e9

// TimeDomainResponse is the causal (t >= 0) half of an impulse response.
type TimeDomainResponse struct {
	Time   []float64 // ns
	Values []complex128
}

// Len returns the number of retained samples.
func (r *TimeDomainResponse) Len() int {
	return len(r.Time)
}

// Magnitude returns |h(t)| for display.
func (r *TimeDomainResponse) Magnitude() []float64 {
	return Magnitude(r.Values)
}

// Impulse is the full, centered impulse response before causal truncation.
type Impulse struct {
	Time      []float64 // ns, ascending, zero at index N/2
	Values    []complex128
	Frequency []float64 // source sweep, Hz
}

// Causal returns the samples with t >= 0.
func (imp *Impulse) Causal() *TimeDomainResponse {
	start := sort.SearchFloat64s(imp.Time, 0)

	out := &TimeDomainResponse{
		Time:   make([]float64, len(imp.Time)-start),
		Values: make([]complex128, len(imp.Values)-start),
	}
	copy(out.Time, imp.Time[start:])
	copy(out.Values, imp.Values[start:])
	return out
}

// Engine runs the transform and gate pipeline on a single response. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	backend Backend
}

// NewEngine creates an engine on top of backend. A nil backend selects go-dsp.
func NewEngine(backend Backend) *Engine {
	if backend == nil {
		backend = GoDSPBackend{}
	}
	return &Engine{backend: backend}
}

// Backend returns the FFT backend in use.
func (e *Engine) Backend() Backend {
	return e.backend
}

// Impulse computes the full centered time response of resp.
// Only the first frequency interval is used to derive Δf.
func (e *Engine) Impulse(resp network.Response) (*Impulse, error) {
	n := len(resp.Values)
	if len(resp.Frequency) != n {
		return nil, ErrLengthMismatch
	}
	if n < 2 {
		return nil, ErrInsufficientSamples
	}

	df := resp.Frequency[1] - resp.Frequency[0]
	if !(df > 0) || math.IsInf(df, 0) {
		return nil, ErrInvalidSpacing
	}

	t := fftShift(fftFreq(n, df))
	floats.Scale(secondsToNanoseconds, t)

	return &Impulse{
		Time:      t,
		Values:    fftShift(e.backend.Inverse(resp.Values)),
		Frequency: resp.Frequency,
	}, nil
}

// TimeDomain computes the causal time-domain response of resp.
func (e *Engine) TimeDomain(resp network.Response) (*TimeDomainResponse, error) {
	imp, err := e.Impulse(resp)
	if err != nil {
		return nil, err
	}
	return imp.Causal(), nil
}

// Spectrum projects a centered impulse back onto its frequency sweep.
func (e *Engine) Spectrum(imp *Impulse) []complex128 {
	return e.backend.Forward(ifftShift(imp.Values))
}
