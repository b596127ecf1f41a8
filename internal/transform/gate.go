package transform

import (
	"fmt"
	"math"

	"github.com/RMahshie/gatescope/internal/network"
)

const (
	DefaultGateCenterNS = 7.0
	DefaultGateSpanNS   = 3.0
)

// GateParameters describes a rectangular window [center-span/2, center+span/2] in ns.
type GateParameters struct {
	CenterNS float64
	SpanNS   float64
}

// DefaultGateParameters returns the window used when a request omits center and span.
func DefaultGateParameters() GateParameters {
	return GateParameters{CenterNS: DefaultGateCenterNS, SpanNS: DefaultGateSpanNS}
}

// Validate rejects non-positive or non-finite spans and non-finite centers.
func (g GateParameters) Validate() error {
	if math.IsNaN(g.SpanNS) || math.IsInf(g.SpanNS, 0) || g.SpanNS <= 0 {
		return fmt.Errorf("%w: span=%v", ErrInvalidGateWindow, g.SpanNS)
	}
	if math.IsNaN(g.CenterNS) || math.IsInf(g.CenterNS, 0) {
		return fmt.Errorf("%w: center=%v", ErrInvalidGateWindow, g.CenterNS)
	}
	return nil
}

// Start returns the left edge of the window in ns.
func (g GateParameters) Start() float64 { return g.CenterNS - g.SpanNS/2 }

// Stop returns the right edge of the window in ns.
func (g GateParameters) Stop() float64 { return g.CenterNS + g.SpanNS/2 }

// Contains reports whether t (ns) falls inside the window, edges included.
func (g GateParameters) Contains(t float64) bool {
	return t >= g.Start() && t <= g.Stop()
}

// GatedResult holds both domains before and after gating.
type GatedResult struct {
	Gate      GateParameters
	Frequency []float64 // Hz

	OriginalFrequency []complex128
	GatedFrequency    []complex128

	OriginalTime *TimeDomainResponse
	GatedTime    *TimeDomainResponse
}

// OriginalMagnitudeDB returns the ungated frequency response in dB.
func (r *GatedResult) OriginalMagnitudeDB() []float64 {
	return MagnitudeDB(r.OriginalFrequency)
}

// GatedMagnitudeDB returns the gated frequency response in dB.
func (r *GatedResult) GatedMagnitudeDB() []float64 {
	return MagnitudeDB(r.GatedFrequency)
}

// Gate applies a rectangular time window to resp. The window is applied once,
// to the full centered impulse, and the result is projected back onto the
// original frequency sweep. The gated time response is then recomputed from
// that projection so both views come from the same data.
//
// A window lying entirely outside the data range is legal and yields an
// all-zero gated response.
func (e *Engine) Gate(resp network.Response, gate GateParameters) (*GatedResult, error) {
	if err := gate.Validate(); err != nil {
		return nil, err
	}

	imp, err := e.Impulse(resp)
	if err != nil {
		return nil, err
	}

	windowed := &Impulse{
		Time:      imp.Time,
		Values:    make([]complex128, len(imp.Values)),
		Frequency: imp.Frequency,
	}
	for k, t := range imp.Time {
		if gate.Contains(t) {
			windowed.Values[k] = imp.Values[k]
		}
	}

	gatedFreq := e.Spectrum(windowed)

	gatedTime, err := e.TimeDomain(resp.WithValues(gatedFreq))
	if err != nil {
		return nil, err
	}

	return &GatedResult{
		Gate:              gate,
		Frequency:         resp.Frequency,
		OriginalFrequency: resp.Values,
		GatedFrequency:    gatedFreq,
		OriginalTime:      imp.Causal(),
		GatedTime:         gatedTime,
	}, nil
}
