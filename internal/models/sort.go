package models

import (
	"errors"
	"fmt"
)

// ErrUnknownSortColumn is returned for columns the table cannot sort on.
var ErrUnknownSortColumn = errors.New("unknown sort column")

// SortDirection is the ordering applied to one table column.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid reports whether d is asc or desc.
func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// Toggle flips the direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// SortColumn identifies a sortable table column.
type SortColumn string

// Sortable columns.
const (
	SortColumnModelYear     SortColumn = "modelYear"
	SortColumnElectricRange SortColumn = "electricRange"
)

// SortSpec holds an independent direction per sortable column. Model year is
// the primary key, electric range the secondary key.
type SortSpec struct {
	ModelYear     SortDirection `json:"modelYear" yaml:"modelYear"`
	ElectricRange SortDirection `json:"electricRange" yaml:"electricRange"`
}

// DefaultSortSpec sorts newest and longest-range vehicles first.
func DefaultSortSpec() SortSpec {
	return SortSpec{ModelYear: SortDesc, ElectricRange: SortDesc}
}

// Toggle returns a copy with the direction of column flipped.
func (s SortSpec) Toggle(column SortColumn) (SortSpec, error) {
	switch column {
	case SortColumnModelYear:
		s.ModelYear = s.ModelYear.Toggle()
	case SortColumnElectricRange:
		s.ElectricRange = s.ElectricRange.Toggle()
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownSortColumn, column)
	}
	return s, nil
}
