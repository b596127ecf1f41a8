package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/RMahshie/gatescope/internal/metrics"
	"github.com/RMahshie/gatescope/internal/network"
	"github.com/RMahshie/gatescope/internal/registry"
	"github.com/RMahshie/gatescope/internal/render"
	"github.com/RMahshie/gatescope/internal/repository"
	"github.com/RMahshie/gatescope/internal/storage"
	"github.com/RMahshie/gatescope/internal/touchstone"
	"github.com/RMahshie/gatescope/internal/transform"
	"github.com/RMahshie/gatescope/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidMeasurement = errors.New("processing: invalid measurement file")
	ErrPlotNotFound       = errors.New("processing: plot not found")
)

const (
	hzPerGHz = 1e9

	axisFrequency = "Frequency (GHz)"
	axisMagnitude = "Magnitude (dB)"
	axisTime      = "Time (ns)"
	axisAmplitude = "|h(t)|"
)

// GatedPlots is the result of a gating request: one comparison plot per domain.
type GatedPlots struct {
	Gate          transform.GateParameters
	TimePlot      *models.PlotInfo
	FrequencyPlot *models.PlotInfo
}

// ResetResult reports what a reset removed.
type ResetResult struct {
	FilesCleared int
	PlotsDeleted int
}

// PlotService loads measurements and turns selections into stored plots.
type PlotService interface {
	Upload(ctx context.Context, filename string, data []byte) (*models.FileInfo, error)
	ListFiles(ctx context.Context) []models.FileInfo
	FrequencyPlot(ctx context.Context, selections []models.Selection) (*models.PlotInfo, error)
	TimeDomainPlot(ctx context.Context, selections []models.Selection) (*models.PlotInfo, error)
	GatedPlot(ctx context.Context, selections []models.Selection, gate transform.GateParameters) (*GatedPlots, error)
	GetPlot(ctx context.Context, id string) (*models.PlotInfo, error)
	Reset(ctx context.Context) (*ResetResult, error)
	Restore(ctx context.Context) (int, error)
}

type plotService struct {
	store      registry.Store
	engine     *transform.Engine
	renderer   render.Renderer
	s3         storage.S3Service
	repository repository.Repository
	metrics    *metrics.Collector
}

// NewPlotService wires the service. A nil collector disables metrics.
func NewPlotService(
	store registry.Store,
	engine *transform.Engine,
	renderer render.Renderer,
	s3Service storage.S3Service,
	repo repository.Repository,
	collector *metrics.Collector,
) PlotService {
	return &plotService{
		store:      store,
		engine:     engine,
		renderer:   renderer,
		s3:         s3Service,
		repository: repo,
		metrics:    collector,
	}
}

// Upload parses a Touchstone file, stores the raw bytes and registers the
// measurement under its base filename. A re-upload replaces the old entry.
func (s *plotService) Upload(ctx context.Context, filename string, data []byte) (*models.FileInfo, error) {
	fileID := filepath.Base(strings.TrimSpace(filename))
	if fileID == "" || fileID == "." || fileID == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: missing filename", ErrInvalidMeasurement)
	}

	n, err := touchstone.Parse(fileID, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMeasurement, err)
	}

	key := storage.MeasurementKey(fileID)
	if err := s.s3.UploadFile(ctx, key, storage.ContentTypeMeasurement, data); err != nil {
		return nil, fmt.Errorf("failed to store measurement: %w", err)
	}

	entry := registry.NewEntry(fileID, n)
	record := &models.Measurement{
		Filename:   fileID,
		S3Key:      key,
		Ports:      n.Ports,
		Points:     n.Points(),
		StartHz:    n.Frequency[0],
		StopHz:     n.Frequency[len(n.Frequency)-1],
		Parameters: parameterNames(entry.Parameters),
		CreatedAt:  entry.LoadedAt,
	}
	if err := s.repository.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record measurement: %w", err)
	}

	s.store.Put(entry)
	s.metrics.SetLoadedFiles(s.store.Len())

	log.Info().
		Str("file_id", fileID).
		Int("ports", n.Ports).
		Int("points", n.Points()).
		Strs("parameters", record.Parameters).
		Msg("Measurement loaded")

	info := fileInfo(entry)
	return &info, nil
}

// ListFiles returns every loaded measurement, sorted by file ID.
func (s *plotService) ListFiles(ctx context.Context) []models.FileInfo {
	entries := s.store.GetAll()
	out := make([]models.FileInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, fileInfo(e))
	}
	return out
}

// FrequencyPlot draws |S| in dB against frequency for every selection.
func (s *plotService) FrequencyPlot(ctx context.Context, selections []models.Selection) (*models.PlotInfo, error) {
	resps, err := s.resolve(selections)
	if err != nil {
		return nil, err
	}

	curves := make([]render.Curve, 0, len(resps))
	for _, r := range resps {
		curves = append(curves, render.Curve{
			Label: r.Label(),
			X:     gigahertz(r.Frequency),
			Y:     transform.MagnitudeDB(r.Values),
		})
	}

	return s.storePlot(ctx, plotJob{
		kind:       models.PlotKindFrequency,
		title:      "Frequency Domain",
		axes:       render.Axes{X: axisFrequency, Y: axisMagnitude},
		curves:     curves,
		selections: selections,
	})
}

// TimeDomainPlot draws the causal |h(t)| of every selection.
func (s *plotService) TimeDomainPlot(ctx context.Context, selections []models.Selection) (*models.PlotInfo, error) {
	resps, err := s.resolve(selections)
	if err != nil {
		return nil, err
	}

	results, err := fanOut(resps, func(r network.Response) (*transform.TimeDomainResponse, error) {
		start := time.Now()
		td, err := s.engine.TimeDomain(r)
		s.metrics.ObserveTransform("time_domain", time.Since(start))
		return td, err
	})
	if err != nil {
		return nil, err
	}

	curves := make([]render.Curve, 0, len(results))
	for i, td := range results {
		curves = append(curves, render.Curve{
			Label: resps[i].Label(),
			X:     td.Time,
			Y:     td.Magnitude(),
		})
	}

	return s.storePlot(ctx, plotJob{
		kind:       models.PlotKindTimeDomain,
		title:      "Time Domain",
		axes:       render.Axes{X: axisTime, Y: axisAmplitude},
		curves:     curves,
		selections: selections,
	})
}

// GatedPlot applies gate to every selection and stores two comparison plots,
// one per domain.
func (s *plotService) GatedPlot(ctx context.Context, selections []models.Selection, gate transform.GateParameters) (*GatedPlots, error) {
	if err := gate.Validate(); err != nil {
		return nil, err
	}

	resps, err := s.resolve(selections)
	if err != nil {
		return nil, err
	}

	results, err := fanOut(resps, func(r network.Response) (*transform.GatedResult, error) {
		start := time.Now()
		res, err := s.engine.Gate(r, gate)
		s.metrics.ObserveTransform("gate", time.Since(start))
		return res, err
	})
	if err != nil {
		return nil, err
	}

	timeCurves := make([]render.Curve, 0, 2*len(results))
	freqCurves := make([]render.Curve, 0, 2*len(results))
	for i, res := range results {
		label := resps[i].Label()
		timeCurves = append(timeCurves,
			render.Curve{Label: label + " original", X: res.OriginalTime.Time, Y: res.OriginalTime.Magnitude()},
			render.Curve{Label: label + " gated", X: res.GatedTime.Time, Y: res.GatedTime.Magnitude()},
		)
		ghz := gigahertz(res.Frequency)
		freqCurves = append(freqCurves,
			render.Curve{Label: label + " original", X: ghz, Y: res.OriginalMagnitudeDB()},
			render.Curve{Label: label + " gated", X: ghz, Y: res.GatedMagnitudeDB()},
		)
	}

	window := fmt.Sprintf("%.3g-%.3g ns", gate.Start(), gate.Stop())
	timePlot, err := s.storePlot(ctx, plotJob{
		kind:       models.PlotKindGatedTime,
		title:      "Time Gating " + window,
		axes:       render.Axes{X: axisTime, Y: axisAmplitude},
		curves:     timeCurves,
		selections: selections,
		gate:       &gate,
	})
	if err != nil {
		return nil, err
	}

	freqPlot, err := s.storePlot(ctx, plotJob{
		kind:       models.PlotKindGatedFrequency,
		title:      "Gated Frequency Response " + window,
		axes:       render.Axes{X: axisFrequency, Y: axisMagnitude},
		curves:     freqCurves,
		selections: selections,
		gate:       &gate,
	})
	if err != nil {
		return nil, err
	}

	return &GatedPlots{Gate: gate, TimePlot: timePlot, FrequencyPlot: freqPlot}, nil
}

// GetPlot returns a stored plot record with a fresh download URL.
func (s *plotService) GetPlot(ctx context.Context, id string) (*models.PlotInfo, error) {
	plotID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, id)
	}

	plot, err := s.repository.GetPlot(ctx, plotID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plot: %w", err)
	}

	url, err := s.s3.GenerateDownloadURL(ctx, plot.S3Key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plot URL: %w", err)
	}

	info := plotInfo(plot, url)
	return &info, nil
}

// Reset unloads every measurement and removes stored files and plots. The
// registry is cleared even if the persistent cleanup fails.
func (s *plotService) Reset(ctx context.Context) (*ResetResult, error) {
	cleared := s.store.Clear()
	s.metrics.SetLoadedFiles(0)

	plots, err := s.repository.ListPlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	for _, p := range plots {
		s.deleteObject(ctx, p.S3Key)
	}
	deleted, err := s.repository.DeleteAllPlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete plots: %w", err)
	}

	measurements, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list measurements: %w", err)
	}
	for _, m := range measurements {
		s.deleteObject(ctx, m.S3Key)
	}
	if _, err := s.repository.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete measurements: %w", err)
	}

	log.Info().Int("files_cleared", cleared).Int64("plots_deleted", deleted).Msg("Reset complete")
	return &ResetResult{FilesCleared: cleared, PlotsDeleted: int(deleted)}, nil
}

// Restore reloads the registry from stored measurement records. Files that
// can no longer be fetched or parsed are skipped.
func (s *plotService) Restore(ctx context.Context) (int, error) {
	records, err := s.repository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list measurements: %w", err)
	}

	loaded := 0
	for _, m := range records {
		data, err := s.s3.DownloadFile(ctx, m.S3Key)
		if err != nil {
			log.Warn().Err(err).Str("file_id", m.Filename).Msg("Skipping measurement, download failed")
			continue
		}
		n, err := touchstone.Parse(m.Filename, bytes.NewReader(data))
		if err != nil {
			log.Warn().Err(err).Str("file_id", m.Filename).Msg("Skipping measurement, parse failed")
			continue
		}
		s.store.Put(registry.NewEntry(m.Filename, n))
		loaded++
	}

	s.metrics.SetLoadedFiles(s.store.Len())
	log.Info().Int("restored", loaded).Int("records", len(records)).Msg("Registry restored")
	return loaded, nil
}

func (s *plotService) resolve(selections []models.Selection) ([]network.Response, error) {
	sels := make([]registry.Selection, len(selections))
	for i, sel := range selections {
		sels[i] = registry.Selection{FileID: sel.Filename, Parameter: sel.Parameter}
	}

	resps, err := registry.Resolve(s.store, sels)
	if err != nil {
		s.metrics.IncSelectionErrors(selectionErrorReason(err))
		log.Info().Err(err).Int("selections", len(selections)).Msg("Selection rejected")
		return nil, err
	}
	return resps, nil
}

type plotJob struct {
	kind       string
	title      string
	axes       render.Axes
	curves     []render.Curve
	selections []models.Selection
	gate       *transform.GateParameters
}

// storePlot renders the curves, uploads the image and records it.
func (s *plotService) storePlot(ctx context.Context, job plotJob) (*models.PlotInfo, error) {
	img, err := s.renderer.Render(job.curves, job.axes, job.title)
	if err != nil {
		return nil, fmt.Errorf("failed to render plot: %w", err)
	}

	id := uuid.New().String()
	key := storage.PlotKey(id)
	if err := s.s3.UploadFile(ctx, key, s.renderer.ContentType(), img); err != nil {
		return nil, fmt.Errorf("failed to store plot: %w", err)
	}

	plot := &models.Plot{
		ID:         id,
		Kind:       job.kind,
		Title:      job.title,
		S3Key:      key,
		Selections: job.selections,
		CreatedAt:  time.Now().UTC(),
	}
	if job.gate != nil {
		center, span := job.gate.CenterNS, job.gate.SpanNS
		plot.CenterNS = &center
		plot.SpanNS = &span
	}
	if err := s.repository.CreatePlot(ctx, plot); err != nil {
		return nil, fmt.Errorf("failed to record plot: %w", err)
	}

	url, err := s.s3.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to generate plot URL: %w", err)
	}

	s.metrics.IncPlots(job.kind)
	log.Info().
		Str("plot_id", id).
		Str("kind", job.kind).
		Int("curves", len(job.curves)).
		Int("bytes", len(img)).
		Msg("Plot stored")

	info := plotInfo(plot, url)
	return &info, nil
}

func (s *plotService) deleteObject(ctx context.Context, key string) {
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to delete object")
	}
}

// fanOut runs fn once per response concurrently. Results keep request order
// and the first failure in that order is reported.
func fanOut[T any](resps []network.Response, fn func(network.Response) (T, error)) ([]T, error) {
	out := make([]T, len(resps))
	errs := make([]error, len(resps))

	var wg sync.WaitGroup
	for i, r := range resps {
		wg.Add(1)
		go func(i int, r network.Response) {
			defer wg.Done()
			out[i], errs[i] = fn(r)
		}(i, r)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", resps[i].Label(), err)
		}
	}
	return out, nil
}

func selectionErrorReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrNoSelections):
		return "no_selections"
	case errors.Is(err, registry.ErrUnsupportedParameter):
		return "unsupported_parameter"
	default:
		return "not_found"
	}
}

func gigahertz(hz []float64) []float64 {
	out := make([]float64, len(hz))
	for i, f := range hz {
		out[i] = f / hzPerGHz
	}
	return out
}

func parameterNames(params []network.Parameter) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = string(p)
	}
	return out
}

func fileInfo(e *registry.Entry) models.FileInfo {
	n := e.Network
	return models.FileInfo{
		Filename:   e.FileID,
		Ports:      n.Ports,
		Points:     n.Points(),
		StartHz:    n.Frequency[0],
		StopHz:     n.Frequency[len(n.Frequency)-1],
		Parameters: parameterNames(e.Parameters),
		LoadedAt:   e.LoadedAt,
	}
}

func plotInfo(p *models.Plot, url string) models.PlotInfo {
	return models.PlotInfo{
		ID:         p.ID,
		Kind:       p.Kind,
		Title:      p.Title,
		PlotURL:    url,
		Selections: p.Selections,
		CreatedAt:  p.CreatedAt,
	}
}
