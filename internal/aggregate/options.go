package aggregate

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// Fallback bounds used when a collection holds no valid value for a field.
var (
	FallbackYears = models.NewRange(2020, 2024)
	FallbackRange = models.NewRange(0, 350)
	FallbackMSRP  = models.NewRange(0.0, 200000.0)
)

// ============================================================================
// OPTIONS
// ============================================================================

// UniqueOptions returns the sorted distinct values of dim, excluding empty
// values and the "Unknown" sentinel. Integer values (districts, years) sort
// numerically and ahead of any non-numeric value.
func UniqueOptions(vehicles []models.Vehicle, dim models.Dimension) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for i := range vehicles {
		val := strings.TrimSpace(dim.Value(&vehicles[i]))
		if !models.IsKnownValue(val) {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}

	slices.SortFunc(out, compareOptions)
	return out
}

func compareOptions(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// ============================================================================
// BOUNDS
// ============================================================================

// YearBounds returns the [min, max] model year over known years.
func YearBounds(vehicles []models.Vehicle) models.Range[int] {
	return observed(vehicles, func(v *models.Vehicle) (int, bool) {
		return v.ModelYear, v.ModelYear > 0
	}, FallbackYears)
}

// RangeBounds returns the [min, max] electric range. Zero counts as a value
// here so the default window starts at the unknown-range sentinel.
func RangeBounds(vehicles []models.Vehicle) models.Range[int] {
	return observed(vehicles, func(v *models.Vehicle) (int, bool) {
		return v.ElectricRange, v.ElectricRange >= 0
	}, FallbackRange)
}

// MSRPBounds returns the [min, max] base MSRP over known prices.
func MSRPBounds(vehicles []models.Vehicle) models.Range[float64] {
	return observed(vehicles, func(v *models.Vehicle) (float64, bool) {
		return v.BaseMSRP, v.BaseMSRP > 0
	}, FallbackMSRP)
}

// Bounds collects the three numeric bounds of a dataset.
func Bounds(vehicles []models.Vehicle) models.DatasetBounds {
	return models.DatasetBounds{
		Years: YearBounds(vehicles),
		Range: RangeBounds(vehicles),
		MSRP:  MSRPBounds(vehicles),
	}
}

func observed[T int | float64](
	vehicles []models.Vehicle,
	value func(*models.Vehicle) (T, bool),
	fallback models.Range[T],
) models.Range[T] {
	var (
		out   models.Range[T]
		found bool
	)
	for i := range vehicles {
		val, ok := value(&vehicles[i])
		if !ok {
			continue
		}
		if !found {
			out = models.NewRange(val, val)
			found = true
			continue
		}
		out.Min = min(out.Min, val)
		out.Max = max(out.Max, val)
	}
	if !found {
		return fallback
	}
	return out
}
