// Package table sorts and paginates a filtered view for tabular display.
package table

import (
	"cmp"
	"slices"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// Page is one page of the projected table.
type Page struct {
	Rows       []models.Vehicle `json:"rows"`
	Sort       models.SortSpec  `json:"sort"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
}

// Sort returns a sorted copy of vehicles: model year first, electric range
// second, each in its own direction. Vehicles that compare equal keep their
// input order. Unknown years and ranges compare as 0.
func Sort(vehicles []models.Vehicle, spec models.SortSpec) []models.Vehicle {
	out := slices.Clone(vehicles)
	if out == nil {
		out = []models.Vehicle{}
	}
	slices.SortStableFunc(out, func(a, b models.Vehicle) int {
		if c := directed(cmp.Compare(a.ModelYear, b.ModelYear), spec.ModelYear); c != 0 {
			return c
		}
		return directed(cmp.Compare(a.ElectricRange, b.ElectricRange), spec.ElectricRange)
	})
	return out
}

func directed(c int, dir models.SortDirection) int {
	if dir == models.SortDesc {
		return -c
	}
	return c
}

// Paginate returns a copy of items[(page-1)*size : page*size]. A page or
// size below 1, or a page past the end, yields an empty slice.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return slices.Clone(items[start:end])
}

// TotalPages is ceil(total/size). No items means no pages.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Project sorts view and cuts out the requested page.
func Project(view []models.Vehicle, spec models.SortSpec, page, size int) Page {
	sorted := Sort(view, spec)
	return Page{
		Rows:       Paginate(sorted, page, size),
		Sort:       spec,
		Page:       page,
		PageSize:   size,
		TotalItems: len(sorted),
		TotalPages: TotalPages(len(sorted), size),
	}
}
