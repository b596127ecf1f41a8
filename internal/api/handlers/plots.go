package handlers

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/gatescope/internal/processing"
	"github.com/RMahshie/gatescope/internal/transform"
	"github.com/RMahshie/gatescope/pkg/models"
)

// PlotHandler handles plot rendering requests
type PlotHandler struct {
	service     processing.PlotService
	defaultGate transform.GateParameters
}

// NewPlotHandler creates a new plot handler. defaultGate fills in any
// center or span a gating request leaves out.
func NewPlotHandler(service processing.PlotService, defaultGate transform.GateParameters) *PlotHandler {
	return &PlotHandler{
		service:     service,
		defaultGate: defaultGate,
	}
}

// FrequencyPlot renders dB magnitude against frequency
func (h *PlotHandler) FrequencyPlot(ctx context.Context, req *models.PlotRequest) (*models.PlotResponse, error) {
	log.Info().Int("selections", len(req.Body.Selections)).Msg("Frequency plot requested")

	info, err := h.service.FrequencyPlot(ctx, req.Body.Selections)
	if err != nil {
		return nil, toHTTPError(err, "Failed to create frequency plot")
	}
	return &models.PlotResponse{Body: *info}, nil
}

// TimeDomainPlot renders the time-domain magnitude
func (h *PlotHandler) TimeDomainPlot(ctx context.Context, req *models.PlotRequest) (*models.PlotResponse, error) {
	log.Info().Int("selections", len(req.Body.Selections)).Msg("Time-domain plot requested")

	info, err := h.service.TimeDomainPlot(ctx, req.Body.Selections)
	if err != nil {
		return nil, toHTTPError(err, "Failed to create time-domain plot")
	}
	return &models.PlotResponse{Body: *info}, nil
}

// GatedPlot renders the original and gated responses in both domains
func (h *PlotHandler) GatedPlot(ctx context.Context, req *models.GatedPlotRequest) (*models.GatedPlotResponse, error) {
	gate := h.defaultGate
	if req.Body.Center != nil {
		gate.CenterNS = *req.Body.Center
	}
	if req.Body.Span != nil {
		gate.SpanNS = *req.Body.Span
	}

	log.Info().
		Int("selections", len(req.Body.Selections)).
		Float64("center_ns", gate.CenterNS).
		Float64("span_ns", gate.SpanNS).
		Msg("Gated plot requested")

	res, err := h.service.GatedPlot(ctx, req.Body.Selections, gate)
	if err != nil {
		return nil, toHTTPError(err, "Failed to create gated plot")
	}

	return &models.GatedPlotResponse{
		Body: models.GatedPlotResponseBody{
			Center:        res.Gate.CenterNS,
			Span:          res.Gate.SpanNS,
			TimePlot:      *res.TimePlot,
			FrequencyPlot: *res.FrequencyPlot,
		},
	}, nil
}

// GetPlot returns a stored plot with a fresh download URL
func (h *PlotHandler) GetPlot(ctx context.Context, req *models.GetPlotRequest) (*models.PlotResponse, error) {
	info, err := h.service.GetPlot(ctx, req.ID)
	if err != nil {
		return nil, toHTTPError(err, "Failed to get plot")
	}
	return &models.PlotResponse{Body: *info}, nil
}
