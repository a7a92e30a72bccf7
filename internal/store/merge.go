package store

import (
	"github.com/stwalsh4118/evpulse/internal/models"
)

// merge applies update to current field by field and enforces the
// unknown-range rules:
//
//   - IncludeUnknownRange and OnlyUnknownRange are never both true; when an
//     update sets both, OnlyUnknownRange wins.
//   - Moving the range minimum above the dataset minimum clears
//     IncludeUnknownRange, and moving it back restores it, unless the
//     update sets IncludeUnknownRange itself or OnlyUnknownRange is on.
func merge(current models.FilterSpec, u models.FilterUpdate, bounds models.DatasetBounds) models.FilterSpec {
	next := current.Clone()

	if u.SearchQuery != nil {
		next.SearchQuery = *u.SearchQuery
	}
	setStrings(&next.Counties, u.Counties)
	setStrings(&next.Cities, u.Cities)
	setStrings(&next.Makes, u.Makes)
	setStrings(&next.Models, u.Models)
	setStrings(&next.CAFVEligibility, u.CAFVEligibility)
	setStrings(&next.LegislativeDistricts, u.LegislativeDistricts)
	setStrings(&next.CensusTracts, u.CensusTracts)
	if u.EVTypes != nil {
		next.EVTypes = append([]models.EVType{}, *u.EVTypes...)
	}
	if u.YearRange != nil {
		next.YearRange = *u.YearRange
	}
	if u.MSRPRange != nil {
		next.MSRPRange = *u.MSRPRange
	}
	if u.RangeFilter != nil {
		next.RangeFilter = *u.RangeFilter
	}

	if u.IncludeUnknownRange != nil {
		next.IncludeUnknownRange = *u.IncludeUnknownRange
		if next.IncludeUnknownRange {
			next.OnlyUnknownRange = false
		}
	}
	if u.OnlyUnknownRange != nil {
		next.OnlyUnknownRange = *u.OnlyUnknownRange
		if next.OnlyUnknownRange {
			next.IncludeUnknownRange = false
		}
	}

	minMoved := u.RangeFilter != nil && u.RangeFilter.Min != current.RangeFilter.Min
	if minMoved && u.IncludeUnknownRange == nil && !next.OnlyUnknownRange {
		next.IncludeUnknownRange = next.RangeFilter.Min <= bounds.Range.Min
	}

	return next
}

func setStrings(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	*dst = append([]string{}, *src...)
}

// withoutFields clears the update fields named by issues.
func withoutFields(u models.FilterUpdate, issues []models.FieldIssue) models.FilterUpdate {
	for _, issue := range issues {
		switch issue.Field {
		case "yearRange":
			u.YearRange = nil
		case "rangeFilter":
			u.RangeFilter = nil
		case "msrpRange":
			u.MSRPRange = nil
		case "evTypes":
			u.EVTypes = nil
		}
	}
	return u
}
