// Package filter decides which vehicles pass a FilterSpec.
//
// A spec is compiled once into a Predicate (lowercased query, lookup sets)
// and then matched against every record in a single pass. All rules are
// AND-combined; values within a multi-select set are OR-combined.
package filter

import (
	"strings"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// Predicate is a compiled FilterSpec.
type Predicate struct {
	query       string
	counties    map[string]struct{}
	cities      map[string]struct{}
	makes       map[string]struct{}
	models      map[string]struct{}
	evTypes     map[models.EVType]struct{}
	districts   map[string]struct{}
	tracts      map[string]struct{}
	eligibility []string
	years       models.Range[int]
	ranges      models.Range[int]
	msrp        models.Range[float64]
	onlyUnknown bool
	withUnknown bool
	yearNoop    bool
}

// Compile builds a Predicate from spec. bounds are the observed ranges of
// the dataset being filtered; they decide whether the year window is a no-op.
// The spec is not retained.
func Compile(spec models.FilterSpec, bounds models.DatasetBounds) *Predicate {
	p := &Predicate{
		query:       strings.ToLower(spec.SearchQuery),
		counties:    toSet(spec.Counties),
		cities:      toSet(spec.Cities),
		makes:       toSet(spec.Makes),
		models:      toSet(spec.Models),
		districts:   toSet(spec.LegislativeDistricts),
		tracts:      toSet(spec.CensusTracts),
		years:       spec.YearRange,
		ranges:      spec.RangeFilter,
		msrp:        spec.MSRPRange,
		onlyUnknown: spec.OnlyUnknownRange,
		withUnknown: spec.IncludeUnknownRange,
		yearNoop:    spec.YearRange == bounds.Years,
	}

	if len(spec.EVTypes) > 0 {
		p.evTypes = make(map[models.EVType]struct{}, len(spec.EVTypes))
		for _, t := range spec.EVTypes {
			p.evTypes[t] = struct{}{}
		}
	}

	for _, e := range spec.CAFVEligibility {
		p.eligibility = append(p.eligibility, normalizeEligibility(e))
	}

	return p
}

// Match reports whether v satisfies every rule. Rules are checked cheapest
// first and evaluation stops at the first failure.
func (p *Predicate) Match(v *models.Vehicle) bool {
	if v == nil {
		return false
	}
	return p.matchYear(v) &&
		p.matchRange(v) &&
		p.matchPrice(v) &&
		inSet(p.evTypes, v.EVType) &&
		inSet(p.makes, v.Make) &&
		inSet(p.models, v.Model) &&
		inSet(p.counties, v.County) &&
		inSet(p.cities, v.City) &&
		inSet(p.districts, v.LegislativeDistrict) &&
		inSet(p.tracts, v.CensusTract) &&
		p.matchEligibility(v) &&
		p.matchSearch(v)
}

// Passes compiles spec and matches a single vehicle against it.
func Passes(v *models.Vehicle, spec models.FilterSpec, bounds models.DatasetBounds) bool {
	return Compile(spec, bounds).Match(v)
}

// Apply returns the vehicles that pass spec, in their original order.
// The result is always a new slice, never a sub-slice of vehicles.
func Apply(vehicles []models.Vehicle, spec models.FilterSpec, bounds models.DatasetBounds) []models.Vehicle {
	p := Compile(spec, bounds)
	out := make([]models.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		if p.Match(&vehicles[i]) {
			out = append(out, vehicles[i])
		}
	}
	return out
}

func (p *Predicate) matchSearch(v *models.Vehicle) bool {
	if p.query == "" {
		return true
	}
	for _, field := range [...]string{v.Make, v.Model, v.City, v.County, v.VIN, string(v.EVType)} {
		if strings.Contains(strings.ToLower(field), p.query) {
			return true
		}
	}
	return false
}

// matchYear lets vehicles with an unknown year through only while the year
// window still spans the whole dataset.
func (p *Predicate) matchYear(v *models.Vehicle) bool {
	if !v.HasKnownYear() {
		return p.yearNoop
	}
	return p.years.Contains(v.ModelYear)
}

// matchRange applies the unknown-range policy. A range of 0 means the
// range was not reported.
func (p *Predicate) matchRange(v *models.Vehicle) bool {
	switch {
	case p.onlyUnknown:
		return !v.HasKnownRange()
	case p.withUnknown:
		return !v.HasKnownRange() || p.ranges.Contains(v.ElectricRange)
	default:
		return v.HasKnownRange() && p.ranges.Contains(v.ElectricRange)
	}
}

// matchPrice ignores vehicles without a reported MSRP.
func (p *Predicate) matchPrice(v *models.Vehicle) bool {
	if !v.HasKnownPrice() {
		return true
	}
	return p.msrp.Contains(v.BaseMSRP)
}

// matchEligibility uses two-way substring containment on normalized text,
// since the source wording varies between releases of the dataset. An empty
// side never matches.
func (p *Predicate) matchEligibility(v *models.Vehicle) bool {
	if len(p.eligibility) == 0 {
		return true
	}
	item := normalizeEligibility(v.CAFVEligibility)
	if item == "" {
		return false
	}
	for _, want := range p.eligibility {
		if want == "" {
			continue
		}
		if strings.Contains(item, want) || strings.Contains(want, item) {
			return true
		}
	}
	return false
}

func normalizeEligibility(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as "no restriction".
func inSet[K comparable](set map[K]struct{}, value K) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
