// Package touchstone reads Touchstone v1 (.s1p/.s2p) files into a network.Network.
package touchstone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RMahshie/gatescope/internal/network"
)

var (
	ErrUnsupportedPorts = errors.New("touchstone: only 1- and 2-port files are supported")
	ErrNoData           = errors.New("touchstone: file contains no data lines")
	ErrFrequencyOrder   = errors.New("touchstone: frequencies must be strictly increasing")
	ErrNotScattering    = errors.New("touchstone: only S-parameter files are supported")
)

// SyntaxError reports a malformed line.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("touchstone: line %d: %s", e.Line, e.Msg)
}

// Format is the number pair encoding declared on the option line.
type Format string

const (
	FormatRI Format = "RI" // real, imaginary
	FormatMA Format = "MA" // magnitude, angle in degrees
	FormatDB Format = "DB" // dB magnitude, angle in degrees
)

// Options holds the values from the "#" option line.
type Options struct {
	FrequencyScale float64
	Format         Format
	Z0             float64
}

// DefaultOptions are the Touchstone defaults when the option line omits a field.
func DefaultOptions() Options {
	return Options{FrequencyScale: 1e9, Format: FormatMA, Z0: 50}
}

var frequencyUnits = map[string]float64{
	"HZ":  1,
	"KHZ": 1e3,
	"MHZ": 1e6,
	"GHZ": 1e9,
}

// two-port column order in Touchstone v1
// noiseColumns is the width of a two-port noise parameter row.
const noiseColumns = 5

var columnOrder = map[int][]network.Parameter{
	1: {network.S11},
	2: {network.S11, network.S21, network.S12, network.S22},
}

// PortsFromName infers the port count from a ".sNp" extension. It returns 0
// when the name carries no usable extension.
func PortsFromName(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 4 || ext[1] != 's' || ext[len(ext)-1] != 'p' {
		return 0
	}
	n, err := strconv.Atoi(ext[2 : len(ext)-1])
	if err != nil {
		return 0
	}
	return n
}

// Parse reads a Touchstone file. The port count comes from name when it has
// a .sNp extension, otherwise from the number of columns on the first data line.
func Parse(name string, r io.Reader) (*network.Network, error) {
	ports := PortsFromName(name)
	if ports > 2 {
		return nil, fmt.Errorf("%w: %d ports in %s", ErrUnsupportedPorts, ports, name)
	}

	opts := DefaultOptions()
	seenOptions := false

	var freq []float64
	data := make(map[network.Parameter][]complex128)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '!'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			// only the first option line counts
			if seenOptions {
				continue
			}
			seenOptions = true
			parsed, err := parseOptions(line, lineNo)
			if err != nil {
				return nil, err
			}
			opts = parsed
			continue
		}

		if strings.HasPrefix(line, "[") {
			return nil, &SyntaxError{Line: lineNo, Msg: "Touchstone v2 keywords are not supported"}
		}

		fields := strings.Fields(line)
		if ports == 0 {
			switch len(fields) {
			case 3:
				ports = 1
			case 9:
				ports = 2
			default:
				return nil, fmt.Errorf("%w: cannot infer port count from %d columns", ErrUnsupportedPorts, len(fields))
			}
		}

		// two-port noise parameters follow the S-data and are not read
		if ports == 2 && len(fields) == noiseColumns && len(freq) > 0 {
			break
		}

		params := columnOrder[ports]
		if len(fields) != 1+2*len(params) {
			return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("expected %d columns, got %d", 1+2*len(params), len(fields))}
		}

		nums := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("invalid number %q", f)}
			}
			nums[i] = v
		}

		f := nums[0] * opts.FrequencyScale
		if len(freq) > 0 && f <= freq[len(freq)-1] {
			return nil, fmt.Errorf("%w: line %d", ErrFrequencyOrder, lineNo)
		}
		freq = append(freq, f)

		for i, p := range params {
			data[p] = append(data[p], toComplex(opts.Format, nums[1+2*i], nums[2+2*i]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("touchstone: read %s: %w", name, err)
	}

	if len(freq) == 0 {
		return nil, ErrNoData
	}

	return network.New(name, ports, opts.Z0, freq, data)
}

func parseOptions(line string, lineNo int) (Options, error) {
	opts := DefaultOptions()
	fields := strings.Fields(strings.ToUpper(strings.TrimPrefix(line, "#")))

	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if scale, ok := frequencyUnits[tok]; ok {
			opts.FrequencyScale = scale
			continue
		}
		switch tok {
		case "S":
		case "Y", "Z", "H", "G":
			return opts, fmt.Errorf("%w: got %s-parameters", ErrNotScattering, tok)
		case "RI", "MA", "DB":
			opts.Format = Format(tok)
		case "R":
			if i+1 >= len(fields) {
				return opts, &SyntaxError{Line: lineNo, Msg: "missing reference impedance after R"}
			}
			z0, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil || z0 <= 0 {
				return opts, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("invalid reference impedance %q", fields[i+1])}
			}
			opts.Z0 = z0
			i++
		default:
			return opts, &SyntaxError{Line: lineNo, Msg: fmt.Sprintf("unknown option %q", tok)}
		}
	}

	return opts, nil
}

func toComplex(format Format, a, b float64) complex128 {
	switch format {
	case FormatRI:
		return complex(a, b)
	case FormatDB:
		return cmplx.Rect(math.Pow(10, a/20), b*math.Pi/180)
	default:
		return cmplx.Rect(a, b*math.Pi/180)
	}
}
