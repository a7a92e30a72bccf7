// Package store holds the loaded dataset, the active filter specification
// and the derived filtered view, keeping them consistent across mutations.
//
// A Store is safe for concurrent use. Every mutator computes the next state
// from the current one and swaps it in under a single write lock, so readers
// never observe a half-applied update.
package store

import (
	"slices"
	"sync"

	"github.com/stwalsh4118/evpulse/internal/aggregate"
	"github.com/stwalsh4118/evpulse/internal/filter"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/table"
)

// DefaultPageSize is used when New is given a size below 1.
const DefaultPageSize = 20

// State is a point-in-time copy of the store's scalar state.
type State struct {
	Filters       models.FilterSpec    `json:"filters"`
	Bounds        models.DatasetBounds `json:"bounds"`
	Sort          models.SortSpec      `json:"sort"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"pageSize"`
	TotalCount    int                  `json:"totalCount"`
	FilteredCount int                  `json:"filteredCount"`
	Loaded        bool                 `json:"loaded"`
}

// Store is the single source of truth for dataset, filters, filtered view
// and table position.
type Store struct {
	mu       sync.RWMutex
	data     []models.Vehicle
	filtered []models.Vehicle
	filters  models.FilterSpec
	bounds   models.DatasetBounds
	sort     models.SortSpec
	page     int
	pageSize int
	loaded   bool
}

// New creates an empty store.
func New(pageSize int) *Store {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	bounds := aggregate.Bounds(nil)
	return &Store{
		data:     []models.Vehicle{},
		filtered: []models.Vehicle{},
		filters:  models.DefaultFilterSpec(bounds),
		bounds:   bounds,
		sort:     models.DefaultSortSpec(),
		page:     1,
		pageSize: pageSize,
	}
}

// SetData replaces the dataset. Bounds are recomputed, filters return to
// the no-op specification for the new bounds and the page goes back to 1.
// The sort order is kept.
func (s *Store) SetData(vehicles []models.Vehicle) {
	data := models.CloneVehicles(vehicles)
	bounds := aggregate.Bounds(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.bounds = bounds
	s.filters = models.DefaultFilterSpec(bounds)
	s.filtered = slices.Clone(data)
	s.page = 1
	s.loaded = true
}

// SetFilters merges update into the current specification and recomputes
// the filtered view from the full dataset.
//
// Fields that fail validation are left unchanged and reported in the
// returned issues; the remaining fields are still applied.
func (s *Store) SetFilters(update models.FilterUpdate) []models.FieldIssue {
	issues := update.Validate()
	update = withoutFields(update, issues)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := merge(s.filters, update, s.bounds)
	s.filters = next
	s.filtered = filter.Apply(s.data, next, s.bounds)
	s.page = 1

	return issues
}

// ResetFilters restores the no-op specification for the current dataset.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = models.DefaultFilterSpec(s.bounds)
	s.filtered = slices.Clone(s.data)
	s.page = 1
}

// SetPage moves the table to page. Pages outside the view are not clamped;
// they project to an empty table.
func (s *Store) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
}

// SetPageSize changes the page size without moving the page.
func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = size
}

// SetSort replaces the sort order and returns to page 1.
func (s *Store) SetSort(spec models.SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = spec
	s.page = 1
}

// ToggleSort flips one column's direction and returns to page 1. Unknown
// columns leave the sort untouched. The resulting sort order is returned.
func (s *Store) ToggleSort(column models.SortColumn) models.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.sort.Toggle(column)
	if err != nil {
		return s.sort
	}
	s.sort = next
	s.page = 1
	return next
}

// Snapshot returns a copy of the scalar state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Filters:       s.filters.Clone(),
		Bounds:        s.bounds,
		Sort:          s.sort,
		Page:          s.page,
		PageSize:      s.pageSize,
		TotalCount:    len(s.data),
		FilteredCount: len(s.filtered),
		Loaded:        s.loaded,
	}
}

// Filtered returns a copy of the filtered view in dataset order.
func (s *Store) Filtered() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneVehicles(s.filtered)
}

// View is the filtered view together with the specification that produced
// it and the size of the dataset it was drawn from.
type View struct {
	Vehicles   []models.Vehicle
	Filters    models.FilterSpec
	TotalCount int
}

// View returns a copy of the filtered view, its specification and the
// dataset size read under one lock.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Vehicles:   models.CloneVehicles(s.filtered),
		Filters:    s.filters.Clone(),
		TotalCount: len(s.data),
	}
}

// Data returns a copy of the full dataset.
func (s *Store) Data() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneVehicles(s.data)
}

// Filters returns a copy of the active specification.
func (s *Store) Filters() models.FilterSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// Bounds returns the observed bounds of the current dataset.
func (s *Store) Bounds() models.DatasetBounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// Table projects the filtered view with the current sort and page.
func (s *Store) Table() table.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page := table.Project(s.filtered, s.sort, s.page, s.pageSize)
	page.Rows = models.CloneVehicles(page.Rows)
	return page
}

// Sorted returns the filtered view in the table's current order.
func (s *Store) Sorted() []models.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneVehicles(table.Sort(s.filtered, s.sort))
}
