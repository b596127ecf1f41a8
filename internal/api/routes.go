package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/RMahshie/gatescope/internal/api/handlers"
	"github.com/RMahshie/gatescope/internal/metrics"
	"github.com/RMahshie/gatescope/internal/processing"
	"github.com/RMahshie/gatescope/internal/transform"
)

// Options carries request defaults and limits taken from configuration
type Options struct {
	DefaultGate    transform.GateParameters
	MaxUploadBytes int64
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(router chi.Router, api huma.API, plotSvc processing.PlotService, collector *metrics.Collector, opts Options) {
	// Initialize handlers
	fileHandler := handlers.NewFileHandler(plotSvc, opts.MaxUploadBytes)
	plotHandler := handlers.NewPlotHandler(plotSvc, opts.DefaultGate)

	router.Handle("/metrics", collector.Handler())

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, fileHandler.Health)

	// Register file routes
	huma.Register(api, huma.Operation{
		OperationID:  "uploadFile",
		Method:       http.MethodPost,
		Path:         "/api/files",
		Summary:      "Upload a measurement",
		Description:  "Parses a Touchstone .s1p or .s2p file from the multipart \"file\" field and loads it",
		Tags:         []string{"Files"},
		MaxBodyBytes: opts.MaxUploadBytes,
	}, fileHandler.UploadFile)

	huma.Register(api, huma.Operation{
		OperationID: "listFiles",
		Method:      http.MethodGet,
		Path:        "/api/files",
		Summary:     "List loaded measurements",
		Description: "Returns every loaded file with its available scattering parameters",
		Tags:        []string{"Files"},
	}, fileHandler.ListFiles)

	huma.Register(api, huma.Operation{
		OperationID: "reset",
		Method:      http.MethodPost,
		Path:        "/api/reset",
		Summary:     "Reset all data",
		Description: "Unloads every measurement and deletes stored files and plots",
		Tags:        []string{"Files"},
	}, fileHandler.Reset)

	// Register plot routes
	huma.Register(api, huma.Operation{
		OperationID: "frequencyPlot",
		Method:      http.MethodPost,
		Path:        "/api/plots/frequency",
		Summary:     "Plot frequency response",
		Description: "Renders |S| in dB against frequency for each selection",
		Tags:        []string{"Plots"},
	}, plotHandler.FrequencyPlot)

	huma.Register(api, huma.Operation{
		OperationID: "timeDomainPlot",
		Method:      http.MethodPost,
		Path:        "/api/plots/time-domain",
		Summary:     "Plot time-domain response",
		Description: "Renders the causal impulse magnitude against time in ns for each selection",
		Tags:        []string{"Plots"},
	}, plotHandler.TimeDomainPlot)

	huma.Register(api, huma.Operation{
		OperationID: "gatedPlot",
		Method:      http.MethodPost,
		Path:        "/api/plots/gated",
		Summary:     "Plot time-gated comparison",
		Description: "Applies a rectangular time gate and renders original vs gated responses in both domains",
		Tags:        []string{"Plots"},
	}, plotHandler.GatedPlot)

	huma.Register(api, huma.Operation{
		OperationID: "getPlot",
		Method:      http.MethodGet,
		Path:        "/api/plots/{id}",
		Summary:     "Get a stored plot",
		Description: "Returns a plot record with a fresh download URL",
		Tags:        []string{"Plots"},
	}, plotHandler.GetPlot)
}
