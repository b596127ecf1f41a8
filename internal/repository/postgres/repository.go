package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/RMahshie/gatescope/internal/repository"
	"github.com/RMahshie/gatescope/pkg/models"
	"github.com/google/uuid"
)

// PostgresRepository implements repository.Repository for PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) repository.Repository {
	return &PostgresRepository{db: db}
}

// Upsert inserts a measurement record, replacing any record with the same
// filename. The stored ID is written back to m.
func (r *PostgresRepository) Upsert(ctx context.Context, m *models.Measurement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	params, err := json.Marshal(m.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	query := `
		INSERT INTO measurements (id, filename, s3_key, ports, points, start_hz, stop_hz, parameters, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (filename) DO UPDATE
		SET s3_key = EXCLUDED.s3_key,
		    ports = EXCLUDED.ports,
		    points = EXCLUDED.points,
		    start_hz = EXCLUDED.start_hz,
		    stop_hz = EXCLUDED.stop_hz,
		    parameters = EXCLUDED.parameters,
		    created_at = EXCLUDED.created_at
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		m.ID,
		m.Filename,
		m.S3Key,
		m.Ports,
		m.Points,
		m.StartHz,
		m.StopHz,
		string(params),
		m.CreatedAt).Scan(&m.ID)
}

// List returns every measurement record ordered by filename
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Measurement, error) {
	query := `
		SELECT id, filename, s3_key, ports, points, start_hz, stop_hz, parameters, created_at
		FROM measurements
		ORDER BY filename`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Measurement
	for rows.Next() {
		var m models.Measurement
		var params []byte

		err := rows.Scan(
			&m.ID,
			&m.Filename,
			&m.S3Key,
			&m.Ports,
			&m.Points,
			&m.StartHz,
			&m.StopHz,
			&params,
			&m.CreatedAt)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(params, &m.Parameters); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parameters: %w", err)
		}

		out = append(out, &m)
	}

	return out, rows.Err()
}

// DeleteAll removes every measurement record
func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM measurements`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CreatePlot inserts a plot record
func (r *PostgresRepository) CreatePlot(ctx context.Context, plot *models.Plot) error {
	selections, err := json.Marshal(plot.Selections)
	if err != nil {
		return fmt.Errorf("failed to marshal selections: %w", err)
	}

	query := `
		INSERT INTO plots (id, kind, title, s3_key, selections, center_ns, span_ns, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		plot.ID,
		plot.Kind,
		plot.Title,
		plot.S3Key,
		string(selections),
		plot.CenterNS,
		plot.SpanNS,
		plot.CreatedAt)

	return err
}

// GetPlot retrieves a plot record by ID
func (r *PostgresRepository) GetPlot(ctx context.Context, id uuid.UUID) (*models.Plot, error) {
	query := `
		SELECT id, kind, title, s3_key, selections, center_ns, span_ns, created_at
		FROM plots
		WHERE id = $1`

	plot, err := scanPlot(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return plot, err
}

// ListPlots returns every plot record, newest first
func (r *PostgresRepository) ListPlots(ctx context.Context) ([]*models.Plot, error) {
	query := `
		SELECT id, kind, title, s3_key, selections, center_ns, span_ns, created_at
		FROM plots
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Plot
	for rows.Next() {
		plot, err := scanPlot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, plot)
	}

	return out, rows.Err()
}

// DeleteAllPlots removes every plot record
func (r *PostgresRepository) DeleteAllPlots(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plots`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlot(row scanner) (*models.Plot, error) {
	var plot models.Plot
	var selections []byte
	var center, span sql.NullFloat64

	err := row.Scan(
		&plot.ID,
		&plot.Kind,
		&plot.Title,
		&plot.S3Key,
		&selections,
		&center,
		&span,
		&plot.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(selections, &plot.Selections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selections: %w", err)
	}
	if center.Valid {
		plot.CenterNS = &center.Float64
	}
	if span.Valid {
		plot.SpanNS = &span.Float64
	}

	return &plot, nil
}
