package aggregate

import (
	"cmp"
	"slices"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// OthersLabel names the synthetic entry that folds everything beyond a limit.
const OthersLabel = "Others"

// ChartPoint is one (name, value) pair of a chart series.
type ChartPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ============================================================================
// GROUPED COUNTS
// ============================================================================

// ByField counts vehicles per known value of dim, ordered by count
// descending. Equal counts keep first-seen order.
//
// When limit > 0 and there are more distinct values than limit, the top
// limit-1 entries are kept and the rest are folded into a trailing
// OthersLabel entry holding their summed count.
func ByField(vehicles []models.Vehicle, dim models.Dimension, limit int) []ChartPoint {
	counts := make(map[string]int)
	order := make([]string, 0)

	for i := range vehicles {
		key := dim.Value(&vehicles[i])
		if !models.IsKnownValue(key) {
			continue
		}
		if _, exists := counts[key]; !exists {
			order = append(order, key)
		}
		counts[key]++
	}

	points := make([]ChartPoint, 0, len(order))
	for _, key := range order {
		points = append(points, ChartPoint{Name: key, Value: counts[key]})
	}
	slices.SortStableFunc(points, byValueDesc)

	return foldOthers(points, limit)
}

// TopItems turns a count map into at most limit points, highest first.
// Ties are broken by name so the output is deterministic. limit <= 0 keeps
// every entry.
func TopItems(counts map[string]int, limit int) []ChartPoint {
	points := make([]ChartPoint, 0, len(counts))
	for name, value := range counts {
		points = append(points, ChartPoint{Name: name, Value: value})
	}
	slices.SortFunc(points, func(a, b ChartPoint) int {
		if c := byValueDesc(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}
	return points
}

func byValueDesc(a, b ChartPoint) int {
	return cmp.Compare(b.Value, a.Value)
}

func foldOthers(points []ChartPoint, limit int) []ChartPoint {
	if limit <= 0 || len(points) <= limit {
		return points
	}

	keep := limit - 1
	rest := 0
	for _, p := range points[keep:] {
		rest += p.Value
	}

	out := make([]ChartPoint, 0, limit)
	out = append(out, points[:keep]...)
	return append(out, ChartPoint{Name: OthersLabel, Value: rest})
}

// ============================================================================
// MULTI-DIMENSION GROUPING
// ============================================================================

// Grouped holds per-dimension counts computed in a single pass.
type Grouped struct {
	ByMake            map[string]int `json:"byMake"`
	ByModel           map[string]int `json:"byModel"`
	ByCounty          map[string]int `json:"byCounty"`
	ByCity            map[string]int `json:"byCity"`
	ByYear            map[int]int    `json:"byYear"`
	ByEVType          map[string]int `json:"byEvType"`
	ByCAFVEligibility map[string]int `json:"byCafvEligibility"`
}

// Group counts vehicles by make, "make model", county, city, year, EV type
// and eligibility. Unknown counties, cities and years are skipped, as are
// empty eligibility values.
func Group(vehicles []models.Vehicle) Grouped {
	g := Grouped{
		ByMake:            make(map[string]int),
		ByModel:           make(map[string]int),
		ByCounty:          make(map[string]int),
		ByCity:            make(map[string]int),
		ByYear:            make(map[int]int),
		ByEVType:          make(map[string]int),
		ByCAFVEligibility: make(map[string]int),
	}

	for i := range vehicles {
		v := &vehicles[i]
		g.ByMake[v.Make]++
		g.ByModel[v.Make+" "+v.Model]++
		if models.IsKnownValue(v.County) {
			g.ByCounty[v.County]++
		}
		if models.IsKnownValue(v.City) {
			g.ByCity[v.City]++
		}
		if v.HasKnownYear() {
			g.ByYear[v.ModelYear]++
		}
		g.ByEVType[string(v.EVType)]++
		if v.CAFVEligibility != "" {
			g.ByCAFVEligibility[v.CAFVEligibility]++
		}
	}

	return g
}

// Population counts the distinct locations present in a collection.
type Population struct {
	Counties int `json:"uniqueCounties"`
	Cities   int `json:"uniqueCities"`
	States   int `json:"uniqueStates"`
}

// CountPopulation returns the number of distinct counties, cities and states.
// Sentinel values count as a value of their own.
func CountPopulation(vehicles []models.Vehicle) Population {
	counties := make(map[string]struct{})
	cities := make(map[string]struct{})
	states := make(map[string]struct{})
	for i := range vehicles {
		counties[vehicles[i].County] = struct{}{}
		cities[vehicles[i].City] = struct{}{}
		states[vehicles[i].State] = struct{}{}
	}
	return Population{Counties: len(counties), Cities: len(cities), States: len(states)}
}
