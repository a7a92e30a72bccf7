package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/models"
)

// DatabaseSource loads the dataset from the vehicles table. It satisfies
// loader.Source.
type DatabaseSource struct {
	repo  VehicleRepository
	table string
}

// NewDatabaseSource creates a source reading through repo.
func NewDatabaseSource(repo VehicleRepository, table string) *DatabaseSource {
	return &DatabaseSource{repo: repo, table: table}
}

// Name returns the table name.
func (s *DatabaseSource) Name() string {
	return "postgres:" + s.table
}

// Load reads every row and normalizes it like a CSV row. Row numbers in
// reported errors are 1-based positions in the result set.
func (s *DatabaseSource) Load(ctx context.Context) (*models.LoadResult, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles from %s: %w", s.table, err)
	}
	loader.ReportStage(ctx, models.StageParsing)

	result := &models.LoadResult{
		Vehicles: make([]models.Vehicle, 0, len(records)),
		Errors:   []models.RowError{},
		Meta:     models.LoadMeta{TotalRows: len(records)},
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vehicle, rowErrs := loader.NormalizeRow(rec.Raw(), i+1)
		result.Errors = append(result.Errors, rowErrs...)
		if vehicle == nil {
			result.Meta.InvalidRows++
			continue
		}
		result.Vehicles = append(result.Vehicles, *vehicle)
		result.Meta.ValidRows++
	}

	return result, nil
}

var _ loader.Source = (*DatabaseSource)(nil)
