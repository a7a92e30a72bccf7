package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/evpulse/internal/aggregate"
	"github.com/stwalsh4118/evpulse/internal/export"
	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/logger"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/preset"
	"github.com/stwalsh4118/evpulse/internal/store"
	"github.com/stwalsh4118/evpulse/internal/table"
)

// Service-level errors
var (
	ErrDatasetNotReady = errors.New("dataset not loaded")
	ErrLoadSuperseded  = errors.New("dataset load superseded by a newer load")
	ErrInvalidFilter   = errors.New("invalid filter update")
	ErrInvalidPage     = errors.New("invalid page request")
)

// InvalidFilterError carries the rejected fields of a filter update.
// errors.Is(err, ErrInvalidFilter) holds for it.
type InvalidFilterError struct {
	Issues []models.FieldIssue
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s: %d field(s) rejected", ErrInvalidFilter, len(e.Issues))
}

func (e *InvalidFilterError) Unwrap() error {
	return ErrInvalidFilter
}

// LoadStatus describes the most recent dataset load.
type LoadStatus struct {
	StartedAt   *time.Time       `json:"startedAt,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	Stage       models.LoadStage `json:"stage"`
	LoadID      string           `json:"loadId,omitempty"`
	Source      string           `json:"source"`
	Error       string           `json:"error,omitempty"`
	Meta        models.LoadMeta  `json:"meta"`
	ErrorCount  int              `json:"errorCount"`
	Loaded      bool             `json:"loaded"`
}

// Summary is the headline block of the dashboard.
type Summary struct {
	aggregate.Stats
	aggregate.Population
	DatasetTotal int `json:"datasetTotal"`
}

// FilterState is the active specification with everything a client needs to
// render filter controls.
type FilterState struct {
	Filters       models.FilterSpec    `json:"filters"`
	Bounds        models.DatasetBounds `json:"bounds"`
	Active        []store.ActiveFilter `json:"active"`
	TotalCount    int                  `json:"totalCount"`
	FilteredCount int                  `json:"filteredCount"`
}

// TableQuery positions the table. Zero fields keep the current value.
// Toggle flips one column after the explicit directions are applied.
type TableQuery struct {
	SortYear  models.SortDirection
	SortRange models.SortDirection
	Toggle    models.SortColumn
	Page      int
	PageSize  int
}

// DashboardService loads the dataset and answers every dashboard query from
// the shared store.
type DashboardService interface {
	// Load runs a load to completion. A load started while another is in
	// flight cancels the older one, which returns ErrLoadSuperseded.
	Load(ctx context.Context) (LoadStatus, error)

	// ReloadAsync starts a load in the background and returns its ID.
	// ctx must outlive the call; request contexts should be detached first.
	ReloadAsync(ctx context.Context) string

	// Status reports the most recent load.
	Status() LoadStatus

	// LoadErrors returns up to limit row errors of the current dataset and
	// the total number recorded. A limit below 1 returns all of them.
	LoadErrors(limit int) ([]models.RowError, int)

	Summary() (Summary, error)
	Charts(maxItems int) ([]aggregate.ChartSeries, error)
	RangeStats() (aggregate.RangeStatistics, error)
	Groups(limit int) (map[string][]aggregate.ChartPoint, error)
	Table(q TableQuery) (table.Page, error)
	Filters() (FilterState, error)

	// UpdateFilters validates the update first and applies nothing when any
	// field is rejected.
	UpdateFilters(update models.FilterUpdate) (FilterState, error)
	ResetFilters() (FilterState, error)
	Options(dim models.Dimension) ([]string, error)

	// Export writes the filtered view in table order as CSV and returns the
	// number of rows written.
	Export(w io.Writer, opts export.Options) (int, error)
}

// dashboardService is the concrete implementation of DashboardService.
type dashboardService struct {
	source        loader.Source
	store         *store.Store
	preset        *preset.Preset
	log           *logger.Logger
	maxChartItems int

	mu        sync.Mutex
	status    LoadStatus
	rowErrors []models.RowError
	cancel    context.CancelFunc

	// tableMu keeps a table query's position update and projection together.
	tableMu sync.Mutex
}

// Options configures a DashboardService.
type Options struct {
	// Preset is applied after every successful load. Nil applies nothing.
	Preset        *preset.Preset
	MaxChartItems int
}

// NewDashboardService creates a service over source and st.
func NewDashboardService(source loader.Source, st *store.Store, log *logger.Logger, opts Options) DashboardService {
	maxItems := opts.MaxChartItems
	if maxItems < 1 {
		maxItems = 10
	}
	return &dashboardService{
		source:        source,
		store:         st,
		preset:        opts.Preset,
		log:           log.WithComponent("dashboard"),
		maxChartItems: maxItems,
		status: LoadStatus{
			Stage:  models.StageIdle,
			Source: source.Name(),
		},
		rowErrors: []models.RowError{},
	}
}

// ============================================================================
// Loading
// ============================================================================

func (s *dashboardService) Load(ctx context.Context) (LoadStatus, error) {
	id, loadCtx, cancel := s.begin(ctx)
	defer cancel()
	return s.run(loadCtx, id)
}

func (s *dashboardService) ReloadAsync(ctx context.Context) string {
	id, loadCtx, cancel := s.begin(ctx)
	go func() {
		defer cancel()
		if _, err := s.run(loadCtx, id); err != nil && !errors.Is(err, ErrLoadSuperseded) {
			s.log.Error("Background dataset load failed", err, map[string]interface{}{"load_id": id})
		}
	}()
	return id
}

// begin registers a new load as the current one and cancels its predecessor.
func (s *dashboardService) begin(ctx context.Context) (string, context.Context, context.CancelFunc) {
	loadCtx, cancel := context.WithCancel(ctx)
	id := uuid.NewString()
	now := time.Now()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.status = LoadStatus{
		Stage:      models.StageFetching,
		LoadID:     id,
		Source:     s.source.Name(),
		StartedAt:  &now,
		Meta:       s.status.Meta,
		ErrorCount: s.status.ErrorCount,
		Loaded:     s.status.Loaded,
	}
	s.mu.Unlock()

	s.log.Info("Dataset load started", map[string]interface{}{
		"load_id": id,
		"source":  s.source.Name(),
	})
	return id, loadCtx, cancel
}

func (s *dashboardService) run(ctx context.Context, id string) (LoadStatus, error) {
	start := time.Now()
	progress := loader.WithProgress(ctx, func(stage models.LoadStage) {
		s.setStage(id, stage)
	})

	result, err := s.source.Load(progress)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.LoadID != id {
		s.log.Info("Dataset load superseded", map[string]interface{}{"load_id": id})
		return s.status, ErrLoadSuperseded
	}

	if err != nil {
		now := time.Now()
		s.status.Stage = models.StageError
		s.status.Error = "failed to load dataset from " + s.source.Name()
		s.status.CompletedAt = &now
		s.cancel = nil
		s.log.Error("Dataset load failed", err, map[string]interface{}{
			"load_id": id,
			"source":  s.source.Name(),
		})
		return s.status, fmt.Errorf("failed to load dataset from %s: %w", s.source.Name(), err)
	}

	s.status.Stage = models.StageProcessing
	s.store.SetData(result.Vehicles)
	s.applyPreset()

	now := time.Now()
	s.rowErrors = result.Errors
	s.status.Stage = models.StageComplete
	s.status.Meta = result.Meta
	s.status.ErrorCount = len(result.Errors)
	s.status.CompletedAt = &now
	s.status.Loaded = true
	s.cancel = nil

	s.log.Info("Dataset load complete", map[string]interface{}{
		"load_id":      id,
		"total_rows":   result.Meta.TotalRows,
		"valid_rows":   result.Meta.ValidRows,
		"invalid_rows": result.Meta.InvalidRows,
		"row_errors":   len(result.Errors),
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return s.status, nil
}

// applyPreset must be called with s.mu held.
func (s *dashboardService) applyPreset() {
	if s.preset == nil {
		return
	}
	if issues := s.store.SetFilters(s.preset.Filters); len(issues) > 0 {
		s.log.Warn("Preset fields ignored", map[string]interface{}{
			"preset": s.preset.Name,
			"issues": issues,
		})
	}
	if s.preset.Sort != nil {
		s.store.SetSort(*s.preset.Sort)
	}
}

func (s *dashboardService) setStage(id string, stage models.LoadStage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.LoadID == id && !s.status.Stage.Terminal() {
		s.status.Stage = stage
	}
}

func (s *dashboardService) Status() LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *dashboardService) LoadErrors(limit int) ([]models.RowError, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.rowErrors)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.RowError, n)
	copy(out, s.rowErrors)
	return out, len(s.rowErrors)
}

// ============================================================================
// Queries
// ============================================================================

func (s *dashboardService) ready() error {
	if !s.store.Snapshot().Loaded {
		return ErrDatasetNotReady
	}
	return nil
}

func (s *dashboardService) Summary() (Summary, error) {
	if err := s.ready(); err != nil {
		return Summary{}, err
	}
	view := s.store.View()
	return Summary{
		Stats:        aggregate.CalculateStats(view.Vehicles),
		Population:   aggregate.CountPopulation(view.Vehicles),
		DatasetTotal: view.TotalCount,
	}, nil
}

func (s *dashboardService) Charts(maxItems int) ([]aggregate.ChartSeries, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if maxItems < 1 {
		maxItems = s.maxChartItems
	}
	view := s.store.View()
	return aggregate.BuildCharts(view.Vehicles, view.Filters, maxItems), nil
}

func (s *dashboardService) RangeStats() (aggregate.RangeStatistics, error) {
	if err := s.ready(); err != nil {
		return aggregate.RangeStatistics{}, err
	}
	return aggregate.RangeStats(s.store.Filtered()), nil
}

func (s *dashboardService) Groups(limit int) (map[string][]aggregate.ChartPoint, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = s.maxChartItems
	}

	g := aggregate.Group(s.store.Filtered())
	years := make(map[string]int, len(g.ByYear))
	for year, n := range g.ByYear {
		years[strconv.Itoa(year)] = n
	}

	return map[string][]aggregate.ChartPoint{
		"makes":       aggregate.TopItems(g.ByMake, limit),
		"models":      aggregate.TopItems(g.ByModel, limit),
		"counties":    aggregate.TopItems(g.ByCounty, limit),
		"cities":      aggregate.TopItems(g.ByCity, limit),
		"years":       aggregate.TopItems(years, limit),
		"evTypes":     aggregate.TopItems(g.ByEVType, limit),
		"eligibility": aggregate.TopItems(g.ByCAFVEligibility, limit),
	}, nil
}

func (s *dashboardService) Table(q TableQuery) (table.Page, error) {
	if err := s.ready(); err != nil {
		return table.Page{}, err
	}
	if q.Page < 0 || q.PageSize < 0 {
		return table.Page{}, fmt.Errorf("%w: page and pageSize must be positive", ErrInvalidPage)
	}
	if (q.SortYear != "" && !q.SortYear.Valid()) || (q.SortRange != "" && !q.SortRange.Valid()) {
		return table.Page{}, fmt.Errorf("%w: sort directions must be asc or desc", ErrInvalidPage)
	}

	s.tableMu.Lock()
	defer s.tableMu.Unlock()

	current := s.store.Snapshot().Sort
	next := current
	if q.SortYear != "" {
		next.ModelYear = q.SortYear
	}
	if q.SortRange != "" {
		next.ElectricRange = q.SortRange
	}
	if next != current {
		s.store.SetSort(next)
	}
	if q.Toggle != "" {
		if _, err := next.Toggle(q.Toggle); err != nil {
			return table.Page{}, fmt.Errorf("%w: %w", ErrInvalidPage, err)
		}
		s.store.ToggleSort(q.Toggle)
	}
	if q.PageSize > 0 {
		s.store.SetPageSize(q.PageSize)
	}
	if q.Page > 0 {
		s.store.SetPage(q.Page)
	}
	return s.store.Table(), nil
}

func (s *dashboardService) Filters() (FilterState, error) {
	if err := s.ready(); err != nil {
		return FilterState{}, err
	}
	return s.filterState(), nil
}

func (s *dashboardService) UpdateFilters(update models.FilterUpdate) (FilterState, error) {
	if err := s.ready(); err != nil {
		return FilterState{}, err
	}
	if issues := update.Validate(); len(issues) > 0 {
		s.log.Warn("Filter update rejected", map[string]interface{}{"issues": issues})
		return FilterState{}, &InvalidFilterError{Issues: issues}
	}

	s.store.SetFilters(update)
	state := s.filterState()
	s.log.Debug("Filters updated", map[string]interface{}{
		"active":   len(state.Active),
		"filtered": state.FilteredCount,
	})
	return state, nil
}

func (s *dashboardService) ResetFilters() (FilterState, error) {
	if err := s.ready(); err != nil {
		return FilterState{}, err
	}
	s.store.ResetFilters()
	return s.filterState(), nil
}

func (s *dashboardService) filterState() FilterState {
	snap := s.store.Snapshot()
	return FilterState{
		Filters:       snap.Filters,
		Bounds:        snap.Bounds,
		Active:        s.store.ActiveFilters(),
		TotalCount:    snap.TotalCount,
		FilteredCount: snap.FilteredCount,
	}
}

func (s *dashboardService) Options(dim models.Dimension) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !dim.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownDimension, dim)
	}
	return aggregate.UniqueOptions(s.store.Data(), dim), nil
}

func (s *dashboardService) Export(w io.Writer, opts export.Options) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	rows := s.store.Sorted()
	if err := export.WriteCSV(w, rows, opts); err != nil {
		return 0, err
	}
	s.log.Info("Filtered view exported", map[string]interface{}{"rows": len(rows)})
	return len(rows), nil
}
