package store

import (
	"fmt"
	"slices"

	"github.com/stwalsh4118/evpulse/internal/models"
)

// Kinds of active filter chips.
const (
	KindSearch      = "search"
	KindYear        = "yearRange"
	KindRange       = "rangeFilter"
	KindCounty      = "county"
	KindCity        = "city"
	KindMake        = "make"
	KindModel       = "model"
	KindEVType      = "evType"
	KindEligibility = "cafvEligibility"
	KindUnknown     = "unknownRange"
	KindMSRP        = "msrpRange"
	KindDistrict    = "legislativeDistrict"
	KindTract       = "censusTract"
)

const maxLabelValue = 20

// ActiveFilter is one constraint that currently narrows the view, with the
// update that removes it.
type ActiveFilter struct {
	Kind   string              `json:"kind"`
	Label  string              `json:"label"`
	Remove models.FilterUpdate `json:"remove"`
}

// ActiveFilters lists every constraint that differs from the no-op
// specification, in a fixed display order.
func (s *Store) ActiveFilters() []ActiveFilter {
	s.mu.RLock()
	f := s.filters.Clone()
	b := s.bounds
	s.mu.RUnlock()

	out := []ActiveFilter{}

	if f.SearchQuery != "" {
		empty := ""
		out = append(out, ActiveFilter{
			Kind:   KindSearch,
			Label:  fmt.Sprintf("Search: %q", f.SearchQuery),
			Remove: models.FilterUpdate{SearchQuery: &empty},
		})
	}

	if f.YearRange != b.Years {
		years := b.Years
		out = append(out, ActiveFilter{
			Kind:   KindYear,
			Label:  fmt.Sprintf("Year: %d-%d", f.YearRange.Min, f.YearRange.Max),
			Remove: models.FilterUpdate{YearRange: &years},
		})
	}

	if f.RangeFilter != b.Range {
		ranges := b.Range
		out = append(out, ActiveFilter{
			Kind:   KindRange,
			Label:  fmt.Sprintf("Range: %d-%dmi", f.RangeFilter.Min, f.RangeFilter.Max),
			Remove: models.FilterUpdate{RangeFilter: &ranges},
		})
	}

	out = appendMembers(out, KindCounty, "County", f.Counties, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{Counties: &rest}
	})
	out = appendMembers(out, KindCity, "City", f.Cities, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{Cities: &rest}
	})
	out = appendMembers(out, KindMake, "Make", f.Makes, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{Makes: &rest}
	})
	out = appendMembers(out, KindModel, "Model", f.Models, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{Models: &rest}
	})

	for _, t := range f.EVTypes {
		rest := slices.DeleteFunc(slices.Clone(f.EVTypes), func(other models.EVType) bool { return other == t })
		out = append(out, ActiveFilter{
			Kind:   KindEVType,
			Label:  "Type: " + string(t),
			Remove: models.FilterUpdate{EVTypes: &rest},
		})
	}

	out = appendMembers(out, KindEligibility, "CAFV", f.CAFVEligibility, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{CAFVEligibility: &rest}
	})

	switch {
	case f.OnlyUnknownRange:
		off := false
		out = append(out, ActiveFilter{
			Kind:   KindUnknown,
			Label:  "Only Unknown Range",
			Remove: models.FilterUpdate{OnlyUnknownRange: &off},
		})
	case !f.IncludeUnknownRange:
		on := true
		out = append(out, ActiveFilter{
			Kind:   KindUnknown,
			Label:  "Exclude Unknown Range",
			Remove: models.FilterUpdate{IncludeUnknownRange: &on},
		})
	}

	if f.MSRPRange != b.MSRP {
		msrp := b.MSRP
		out = append(out, ActiveFilter{
			Kind:   KindMSRP,
			Label:  fmt.Sprintf("MSRP: $%.0fk-$%.0fk", f.MSRPRange.Min/1000, f.MSRPRange.Max/1000),
			Remove: models.FilterUpdate{MSRPRange: &msrp},
		})
	}

	out = appendMembers(out, KindDistrict, "District", f.LegislativeDistricts, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{LegislativeDistricts: &rest}
	})
	out = appendMembers(out, KindTract, "Tract", f.CensusTracts, func(rest []string) models.FilterUpdate {
		return models.FilterUpdate{CensusTracts: &rest}
	})

	return out
}

func appendMembers(
	out []ActiveFilter,
	kind, prefix string,
	values []string,
	remove func(rest []string) models.FilterUpdate,
) []ActiveFilter {
	for _, value := range values {
		rest := slices.DeleteFunc(slices.Clone(values), func(other string) bool { return other == value })
		out = append(out, ActiveFilter{
			Kind:   kind,
			Label:  prefix + ": " + shorten(value),
			Remove: remove(rest),
		})
	}
	return out
}

func shorten(value string) string {
	runes := []rune(value)
	if len(runes) <= maxLabelValue {
		return value
	}
	return string(runes[:maxLabelValue]) + "..."
}
