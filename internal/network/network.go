package network

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownParameter = errors.New("network: unknown scattering parameter")
	ErrParameterAbsent  = errors.New("network: parameter not present in measurement")
	ErrEmptyFrequency   = errors.New("network: frequency sweep is empty")
	ErrValueCount       = errors.New("network: parameter length does not match frequency sweep")
)

// Parameter names one directional scattering parameter of a 1- or 2-port.
type Parameter string

const (
	S11 Parameter = "s11" // port 1 reflection
	S21 Parameter = "s21" // forward transmission
	S12 Parameter = "s12" // reverse transmission
	S22 Parameter = "s22" // port 2 reflection
)

// AllParameters lists the supported parameters in canonical order.
var AllParameters = []Parameter{S11, S21, S12, S22}

// ParseParameter converts a user supplied name such as "S21" into a Parameter.
func ParseParameter(name string) (Parameter, error) {
	p := Parameter(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllParameters {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

// Label returns the display form, e.g. "S21".
func (p Parameter) Label() string {
	return strings.ToUpper(string(p))
}

// Network is a loaded measurement. It is never mutated after New returns.
type Network struct {
	Name      string
	Ports     int
	Z0        float64
	Frequency []float64 // Hz

	data       map[Parameter][]complex128
	parameters []Parameter
}

// New builds a Network from a frequency sweep and the parameters present in
// the source file. Every parameter slice must match the sweep length.
func New(name string, ports int, z0 float64, freq []float64, data map[Parameter][]complex128) (*Network, error) {
	if len(freq) == 0 {
		return nil, ErrEmptyFrequency
	}

	n := &Network{
		Name:      name,
		Ports:     ports,
		Z0:        z0,
		Frequency: freq,
		data:      make(map[Parameter][]complex128, len(data)),
	}

	for _, p := range AllParameters {
		values, ok := data[p]
		if !ok {
			continue
		}
		if len(values) != len(freq) {
			return nil, fmt.Errorf("%w: %s has %d values, sweep has %d", ErrValueCount, p.Label(), len(values), len(freq))
		}
		n.data[p] = values
		n.parameters = append(n.parameters, p)
	}

	return n, nil
}

// Parameters returns the parameters present on this measurement.
func (n *Network) Parameters() []Parameter {
	out := make([]Parameter, len(n.parameters))
	copy(out, n.parameters)
	return out
}

// Has reports whether p is present on this measurement.
func (n *Network) Has(p Parameter) bool {
	_, ok := n.data[p]
	return ok
}

// Points returns the number of frequency samples.
func (n *Network) Points() int {
	return len(n.Frequency)
}

// Response returns a read-only view of one parameter.
func (n *Network) Response(p Parameter) (Response, error) {
	values, ok := n.data[p]
	if !ok {
		return Response{}, fmt.Errorf("%w: %s in %s", ErrParameterAbsent, p.Label(), n.Name)
	}
	return Response{
		FileID:    n.Name,
		Parameter: p,
		Frequency: n.Frequency,
		Values:    values,
	}, nil
}

// Response is one scattering parameter aligned index-for-index with its
// frequency sweep. Callers must not modify the slices.
type Response struct {
	FileID    string
	Parameter Parameter
	Frequency []float64
	Values    []complex128
}

// Label identifies the response in plot legends.
func (r Response) Label() string {
	return fmt.Sprintf("%s %s", r.FileID, r.Parameter.Label())
}

// Len returns the number of samples.
func (r Response) Len() int {
	return len(r.Values)
}

// WithValues returns a copy of r on the same sweep carrying values instead.
func (r Response) WithValues(values []complex128) Response {
	r.Values = values
	return r
}
