package aggregate

import (
	"math"
	"slices"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// Stats are the headline numbers for a collection.
type Stats struct {
	TotalVehicles int               `json:"totalVehicles"`
	BEVCount      int               `json:"bevCount"`
	PHEVCount     int               `json:"phevCount"`
	AvgRange      int               `json:"avgRange"`
	AvgMSRP       int               `json:"avgMSRP"`
	UniqueMakes   int               `json:"uniqueMakes"`
	UniqueModels  int               `json:"uniqueModels"`
	YearRange     models.Range[int] `json:"yearRange"`
}

// CalculateStats computes Stats. The average range includes vehicles with an
// unreported (zero) range; the average MSRP only counts reported prices.
// Both averages are rounded to the nearest integer.
func CalculateStats(vehicles []models.Vehicle) Stats {
	stats := Stats{
		TotalVehicles: len(vehicles),
		YearRange:     YearBounds(vehicles),
	}
	if len(vehicles) == 0 {
		return stats
	}

	var (
		totalRange  int
		totalMSRP   float64
		pricedCount int
	)
	makes := make(map[string]struct{})
	vehicleModels := make(map[string]struct{})

	for i := range vehicles {
		v := &vehicles[i]
		switch v.EVType {
		case models.EVTypeBEV:
			stats.BEVCount++
		case models.EVTypePHEV:
			stats.PHEVCount++
		}
		totalRange += v.ElectricRange
		if v.HasKnownPrice() {
			totalMSRP += v.BaseMSRP
			pricedCount++
		}
		makes[v.Make] = struct{}{}
		vehicleModels[v.Model] = struct{}{}
	}

	stats.AvgRange = roundedMean(float64(totalRange), len(vehicles))
	stats.AvgMSRP = roundedMean(totalMSRP, pricedCount)
	stats.UniqueMakes = len(makes)
	stats.UniqueModels = len(vehicleModels)

	return stats
}

// ============================================================================
// RANGE DISTRIBUTION
// ============================================================================

// RangeBucket is one non-empty bucket of the range distribution.
type RangeBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// RangeStatistics describes the distribution of reported electric ranges.
type RangeStatistics struct {
	Min          int           `json:"min"`
	Max          int           `json:"max"`
	Avg          int           `json:"avg"`
	Median       int           `json:"median"`
	Distribution []RangeBucket `json:"distribution"`
}

var rangeBuckets = []struct {
	label    string
	min, max int
}{
	{"0-50", 0, 50},
	{"51-100", 51, 100},
	{"101-150", 101, 150},
	{"151-200", 151, 200},
	{"201-250", 201, 250},
	{"251-300", 251, 300},
	{"301+", 301, math.MaxInt},
}

// RangeStats buckets every reported range (> 0) into fixed 50-mile bands.
// Only non-empty buckets are returned, in band order. For an even number of
// values the median is the lower of the two middle values.
func RangeStats(vehicles []models.Vehicle) RangeStatistics {
	ranges := make([]int, 0, len(vehicles))
	for i := range vehicles {
		if vehicles[i].ElectricRange > 0 {
			ranges = append(ranges, vehicles[i].ElectricRange)
		}
	}

	out := RangeStatistics{Distribution: []RangeBucket{}}
	if len(ranges) == 0 {
		return out
	}
	slices.Sort(ranges)

	total := 0
	for _, r := range ranges {
		total += r
	}
	out.Min = ranges[0]
	out.Max = ranges[len(ranges)-1]
	out.Avg = roundedMean(float64(total), len(ranges))
	out.Median = ranges[(len(ranges)-1)/2]

	for _, b := range rangeBuckets {
		count := 0
		for _, r := range ranges {
			if r >= b.min && r <= b.max {
				count++
			}
		}
		if count > 0 {
			out.Distribution = append(out.Distribution, RangeBucket{Range: b.label, Count: count})
		}
	}

	return out
}

func roundedMean(total float64, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(total / float64(n)))
}
