package models

import (
	"time"
)

// Plot kinds stored with every rendered image
const (
	PlotKindFrequency      = "frequency"
	PlotKindTimeDomain     = "time_domain"
	PlotKindGatedTime      = "gated_time"
	PlotKindGatedFrequency = "gated_frequency"
)

// Selection identifies one parameter of one uploaded file
type Selection struct {
	Filename  string `json:"filename" minLength:"1" required:"true" doc:"Name of an uploaded measurement file"`
	Parameter string `json:"parameter" minLength:"1" required:"true" example:"s21" doc:"Scattering parameter (s11, s21, s12 or s22)"`
}

// Measurement is the stored record of an uploaded file (for internal use)
type Measurement struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	S3Key      string    `json:"s3_key"`
	Ports      int       `json:"ports"`
	Points     int       `json:"points"`
	StartHz    float64   `json:"start_hz"`
	StopHz     float64   `json:"stop_hz"`
	Parameters []string  `json:"parameters"`
	CreatedAt  time.Time `json:"created_at"`
}

// Plot is the stored record of a rendered image (for internal use)
type Plot struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	S3Key      string      `json:"s3_key"`
	Selections []Selection `json:"selections"`
	CenterNS   *float64    `json:"center_ns,omitempty"`
	SpanNS     *float64    `json:"span_ns,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
