package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/gatescope/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("repository: record not found")

// MeasurementRepository defines the interface for uploaded measurement records
type MeasurementRepository interface {
	Upsert(ctx context.Context, m *models.Measurement) error
	List(ctx context.Context) ([]*models.Measurement, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// PlotRepository defines the interface for rendered plot records
type PlotRepository interface {
	CreatePlot(ctx context.Context, plot *models.Plot) error
	GetPlot(ctx context.Context, id uuid.UUID) (*models.Plot, error)
	ListPlots(ctx context.Context) ([]*models.Plot, error)
	DeleteAllPlots(ctx context.Context) (int64, error)
}

// Repository combines both record stores
type Repository interface {
	MeasurementRepository
	PlotRepository
}
