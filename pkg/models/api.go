package models

import (
	"mime/multipart"
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Files   int       `json:"files" doc:"Number of loaded measurement files"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// UploadFileRequest carries a multipart upload with a single "file" part
type UploadFileRequest struct {
	RawBody multipart.Form
}

// FileInfo describes a loaded measurement
type FileInfo struct {
	Filename   string    `json:"filename" doc:"File identifier used in selections"`
	Ports      int       `json:"ports" doc:"Number of ports"`
	Points     int       `json:"points" doc:"Number of frequency samples"`
	StartHz    float64   `json:"start_hz" doc:"First frequency in Hz"`
	StopHz     float64   `json:"stop_hz" doc:"Last frequency in Hz"`
	Parameters []string  `json:"parameters" doc:"Scattering parameters present in the file"`
	LoadedAt   time.Time `json:"loaded_at" doc:"When the file was loaded"`
}

// UploadFileResponse represents the response from uploading a file
type UploadFileResponse struct {
	Body FileInfo
}

// ListFilesResponse lists every loaded measurement
type ListFilesResponse struct {
	Body struct {
		Files []FileInfo `json:"files" doc:"Loaded measurement files"`
	}
}

// PlotRequestBody is the body shared by frequency and time-domain plot requests
type PlotRequestBody struct {
	Selections []Selection `json:"selections" required:"true" doc:"File and parameter pairs to plot"`
}

// PlotRequest represents a frequency or time-domain plot request
type PlotRequest struct {
	Body PlotRequestBody
}

// GatedPlotRequestBody adds optional gate overrides to a plot request
type GatedPlotRequestBody struct {
	Selections []Selection `json:"selections" required:"true" doc:"File and parameter pairs to gate"`
	Center     *float64    `json:"center,omitempty" doc:"Gate center in ns (default 7.0)"`
	Span       *float64    `json:"span,omitempty" doc:"Gate span in ns (default 3.0)"`
}

// GatedPlotRequest represents a time-gating comparison request
type GatedPlotRequest struct {
	Body GatedPlotRequestBody
}

// PlotInfo describes a rendered plot
type PlotInfo struct {
	ID         string      `json:"id" doc:"Plot identifier"`
	Kind       string      `json:"kind" enum:"frequency,time_domain,gated_time,gated_frequency" doc:"Plot kind"`
	Title      string      `json:"title" doc:"Plot title"`
	PlotURL    string      `json:"plot_url" doc:"Pre-signed URL of the rendered image"`
	Selections []Selection `json:"selections" doc:"Selections drawn in the plot"`
	CreatedAt  time.Time   `json:"created_at" doc:"When the plot was rendered"`
}

// PlotResponse returns a single rendered plot
type PlotResponse struct {
	Body PlotInfo
}

// GatedPlotResponseBody is the body of the gating response
type GatedPlotResponseBody struct {
	Center        float64  `json:"center" doc:"Gate center in ns"`
	Span          float64  `json:"span" doc:"Gate span in ns"`
	TimePlot      PlotInfo `json:"time_plot" doc:"Original vs gated time-domain magnitude"`
	FrequencyPlot PlotInfo `json:"frequency_plot" doc:"Original vs gated frequency-domain magnitude in dB"`
}

// GatedPlotResponse returns both comparison plots
type GatedPlotResponse struct {
	Body GatedPlotResponseBody
}

// GetPlotRequest represents a request for a stored plot
type GetPlotRequest struct {
	ID string `path:"id" doc:"Plot ID"`
}

// ResetResponse reports what a reset removed
type ResetResponse struct {
	Body struct {
		FilesCleared int    `json:"files_cleared" doc:"Number of measurement files unloaded"`
		PlotsDeleted int    `json:"plots_deleted" doc:"Number of stored plots deleted"`
		Message      string `json:"message" doc:"Confirmation message"`
	}
}
