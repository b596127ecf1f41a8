package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/gatescope/internal/processing"
	"github.com/RMahshie/gatescope/internal/registry"
	"github.com/RMahshie/gatescope/internal/render"
	"github.com/RMahshie/gatescope/internal/transform"
)

// toHTTPError maps service errors onto huma status errors. Unknown errors
// are logged and reported as 500 with the given message.
func toHTTPError(err error, msg string) error {
	switch {
	case errors.Is(err, transform.ErrInvalidGateWindow):
		return huma.Error400BadRequest("Gate span must be a positive number of nanoseconds", err)
	case errors.Is(err, registry.ErrNoSelections):
		return huma.Error400BadRequest("At least one selection is required", err)
	// checked before ErrNotFound, which it also matches
	case errors.Is(err, registry.ErrUnsupportedParameter):
		return huma.Error400BadRequest("Parameter not available for the selected file", err)
	case errors.Is(err, registry.ErrNotFound):
		return huma.Error404NotFound("Selected file not loaded", err)
	case errors.Is(err, processing.ErrPlotNotFound):
		return huma.Error404NotFound("Plot not found", err)
	case errors.Is(err, processing.ErrInvalidMeasurement):
		return huma.Error400BadRequest("Invalid Touchstone file", err)
	case errors.Is(err, transform.ErrInsufficientSamples),
		errors.Is(err, transform.ErrInvalidSpacing),
		errors.Is(err, transform.ErrLengthMismatch):
		return huma.Error422UnprocessableEntity("Measurement cannot be transformed", err)
	case errors.Is(err, render.ErrNoPlottableCurve):
		return huma.Error422UnprocessableEntity("Measurement needs at least two frequency points to plot", err)
	}

	log.Error().Err(err).Msg(msg)
	return huma.Error500InternalServerError(msg, err)
}
