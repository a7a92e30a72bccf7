package models

import (
	"fmt"
	"math"
	"slices"
)

// Range is an inclusive [Min, Max] interval.
type Range[T int | float64] struct {
	Min T `json:"min" yaml:"min"`
	Max T `json:"max" yaml:"max"`
}

// NewRange builds a Range from its bounds.
func NewRange[T int | float64](lo, hi T) Range[T] {
	return Range[T]{Min: lo, Max: hi}
}

// Contains reports whether value lies within the range, bounds included.
func (r Range[T]) Contains(value T) bool {
	return value >= r.Min && value <= r.Max
}

// Inverted reports whether Min is greater than Max.
func (r Range[T]) Inverted() bool {
	return r.Min > r.Max
}

// DatasetBounds holds the observed numeric ranges of a loaded dataset.
type DatasetBounds struct {
	Years Range[int]     `json:"years"`
	Range Range[int]     `json:"range"`
	MSRP  Range[float64] `json:"msrp"`
}

// FilterSpec describes which vehicles belong to the filtered view.
// Every field has a no-op value: empty string or slice, or a range equal to
// the dataset bounds.
type FilterSpec struct {
	SearchQuery          string         `json:"searchQuery"`
	Counties             []string       `json:"counties"`
	Cities               []string       `json:"cities"`
	Makes                []string       `json:"makes"`
	Models               []string       `json:"models"`
	EVTypes              []EVType       `json:"evTypes"`
	CAFVEligibility      []string       `json:"cafvEligibility"`
	LegislativeDistricts []string       `json:"legislativeDistricts"`
	CensusTracts         []string       `json:"censusTracts"`
	YearRange            Range[int]     `json:"yearRange"`
	RangeFilter          Range[int]     `json:"rangeFilter"`
	MSRPRange            Range[float64] `json:"msrpRange"`
	IncludeUnknownRange  bool           `json:"includeUnknownRange"`
	OnlyUnknownRange     bool           `json:"onlyUnknownRange"`
}

// DefaultFilterSpec returns the no-op specification bounded to a dataset.
func DefaultFilterSpec(bounds DatasetBounds) FilterSpec {
	return FilterSpec{
		Counties:             []string{},
		Cities:               []string{},
		Makes:                []string{},
		Models:               []string{},
		EVTypes:              []EVType{},
		CAFVEligibility:      []string{},
		LegislativeDistricts: []string{},
		CensusTracts:         []string{},
		YearRange:            bounds.Years,
		RangeFilter:          bounds.Range,
		MSRPRange:            bounds.MSRP,
		IncludeUnknownRange:  true,
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (s FilterSpec) Clone() FilterSpec {
	out := s
	out.Counties = cloneStrings(s.Counties)
	out.Cities = cloneStrings(s.Cities)
	out.Makes = cloneStrings(s.Makes)
	out.Models = cloneStrings(s.Models)
	out.EVTypes = append([]EVType{}, s.EVTypes...)
	out.CAFVEligibility = cloneStrings(s.CAFVEligibility)
	out.LegislativeDistricts = cloneStrings(s.LegislativeDistricts)
	out.CensusTracts = cloneStrings(s.CensusTracts)
	return out
}

// Equal reports whether two specifications select the same vehicles by
// construction (field-by-field comparison, order-sensitive for sets).
func (s FilterSpec) Equal(other FilterSpec) bool {
	return s.SearchQuery == other.SearchQuery &&
		slices.Equal(s.Counties, other.Counties) &&
		slices.Equal(s.Cities, other.Cities) &&
		slices.Equal(s.Makes, other.Makes) &&
		slices.Equal(s.Models, other.Models) &&
		slices.Equal(s.EVTypes, other.EVTypes) &&
		slices.Equal(s.CAFVEligibility, other.CAFVEligibility) &&
		slices.Equal(s.LegislativeDistricts, other.LegislativeDistricts) &&
		slices.Equal(s.CensusTracts, other.CensusTracts) &&
		s.YearRange == other.YearRange &&
		s.RangeFilter == other.RangeFilter &&
		s.MSRPRange == other.MSRPRange &&
		s.IncludeUnknownRange == other.IncludeUnknownRange &&
		s.OnlyUnknownRange == other.OnlyUnknownRange
}

// FilterUpdate is a partial FilterSpec. A nil field leaves the current value
// untouched; a non-nil slice replaces the current selection wholesale.
type FilterUpdate struct {
	SearchQuery          *string         `json:"searchQuery,omitempty" yaml:"searchQuery,omitempty" binding:"omitempty,max=200"`
	Counties             *[]string       `json:"counties,omitempty" yaml:"counties,omitempty"`
	Cities               *[]string       `json:"cities,omitempty" yaml:"cities,omitempty"`
	Makes                *[]string       `json:"makes,omitempty" yaml:"makes,omitempty"`
	Models               *[]string       `json:"models,omitempty" yaml:"models,omitempty"`
	EVTypes              *[]EVType       `json:"evTypes,omitempty" yaml:"evTypes,omitempty"`
	CAFVEligibility      *[]string       `json:"cafvEligibility,omitempty" yaml:"cafvEligibility,omitempty"`
	LegislativeDistricts *[]string       `json:"legislativeDistricts,omitempty" yaml:"legislativeDistricts,omitempty"`
	CensusTracts         *[]string       `json:"censusTracts,omitempty" yaml:"censusTracts,omitempty"`
	YearRange            *Range[int]     `json:"yearRange,omitempty" yaml:"yearRange,omitempty"`
	RangeFilter          *Range[int]     `json:"rangeFilter,omitempty" yaml:"rangeFilter,omitempty"`
	MSRPRange            *Range[float64] `json:"msrpRange,omitempty" yaml:"msrpRange,omitempty"`
	IncludeUnknownRange  *bool           `json:"includeUnknownRange,omitempty" yaml:"includeUnknownRange,omitempty"`
	OnlyUnknownRange     *bool           `json:"onlyUnknownRange,omitempty" yaml:"onlyUnknownRange,omitempty"`
}

// UpdateFromSpec builds an update that sets every field of spec.
func UpdateFromSpec(spec FilterSpec) FilterUpdate {
	s := spec.Clone()
	return FilterUpdate{
		SearchQuery:          &s.SearchQuery,
		Counties:             &s.Counties,
		Cities:               &s.Cities,
		Makes:                &s.Makes,
		Models:               &s.Models,
		EVTypes:              &s.EVTypes,
		CAFVEligibility:      &s.CAFVEligibility,
		LegislativeDistricts: &s.LegislativeDistricts,
		CensusTracts:         &s.CensusTracts,
		YearRange:            &s.YearRange,
		RangeFilter:          &s.RangeFilter,
		MSRPRange:            &s.MSRPRange,
		IncludeUnknownRange:  &s.IncludeUnknownRange,
		OnlyUnknownRange:     &s.OnlyUnknownRange,
	}
}

// IsEmpty reports whether the update changes nothing.
func (u FilterUpdate) IsEmpty() bool {
	return u == FilterUpdate{}
}

// FieldIssue describes a rejected field of a FilterUpdate.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the update for values that would leave the specification
// inconsistent. It returns one issue per offending field.
func (u FilterUpdate) Validate() []FieldIssue {
	var issues []FieldIssue

	if u.YearRange != nil {
		if msg := checkRange(*u.YearRange, 0); msg != "" {
			issues = append(issues, FieldIssue{Field: "yearRange", Message: msg})
		}
	}
	if u.RangeFilter != nil {
		if msg := checkRange(*u.RangeFilter, 0); msg != "" {
			issues = append(issues, FieldIssue{Field: "rangeFilter", Message: msg})
		}
	}
	if u.MSRPRange != nil {
		if msg := checkRange(*u.MSRPRange, 0); msg != "" {
			issues = append(issues, FieldIssue{Field: "msrpRange", Message: msg})
		}
	}
	if u.EVTypes != nil {
		for _, t := range *u.EVTypes {
			if !t.Valid() {
				issues = append(issues, FieldIssue{
					Field:   "evTypes",
					Message: fmt.Sprintf("unsupported EV type %q (expected BEV or PHEV)", t),
				})
				break
			}
		}
	}

	return issues
}

func checkRange[T int | float64](r Range[T], floor T) string {
	if math.IsNaN(float64(r.Min)) || math.IsNaN(float64(r.Max)) {
		return "bounds must be numbers"
	}
	if r.Min < floor {
		return fmt.Sprintf("minimum must be at least %v", floor)
	}
	if r.Inverted() {
		return fmt.Sprintf("minimum %v is greater than maximum %v", r.Min, r.Max)
	}
	return ""
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}
