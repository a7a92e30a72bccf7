package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/evpulse/internal/models"
)

// filterFlags mirrors the dashboard filter controls.
type filterFlags struct {
	search      string
	makes       []string
	models      []string
	counties    []string
	cities      []string
	evTypes     []string
	eligibility []string
	districts   []string
	tracts      []string
	yearMin     int
	yearMax     int
	rangeMin    int
	rangeMax    int
	msrpMin     float64
	msrpMax     float64

	excludeUnknownRange bool
	onlyUnknownRange    bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&f.search, "search", "", "case-insensitive text search")
	fs.StringSliceVar(&f.makes, "make", nil, "keep these makes (repeatable or comma-separated)")
	fs.StringSliceVar(&f.models, "model", nil, "keep these models")
	fs.StringSliceVar(&f.counties, "county", nil, "keep these counties")
	fs.StringSliceVar(&f.cities, "city", nil, "keep these cities")
	fs.StringSliceVar(&f.evTypes, "ev-type", nil, "keep these EV types (BEV, PHEV)")
	fs.StringSliceVar(&f.eligibility, "eligibility", nil, "keep these CAFV eligibility statuses")
	fs.StringSliceVar(&f.districts, "district", nil, "keep these legislative districts")
	fs.StringSliceVar(&f.tracts, "census-tract", nil, "keep these census tracts")
	fs.IntVar(&f.yearMin, "year-min", 0, "lowest model year")
	fs.IntVar(&f.yearMax, "year-max", 0, "highest model year")
	fs.IntVar(&f.rangeMin, "range-min", 0, "lowest electric range in miles")
	fs.IntVar(&f.rangeMax, "range-max", 0, "highest electric range in miles")
	fs.Float64Var(&f.msrpMin, "msrp-min", 0, "lowest base MSRP")
	fs.Float64Var(&f.msrpMax, "msrp-max", 0, "highest base MSRP")
	fs.BoolVar(&f.excludeUnknownRange, "exclude-unknown-range", false, "drop vehicles without a reported range")
	fs.BoolVar(&f.onlyUnknownRange, "only-unknown-range", false, "keep only vehicles without a reported range")
}

// update converts the flags that were set into a FilterUpdate. A range
// with one bound given keeps the other bound of current.
func (f *filterFlags) update(cmd *cobra.Command, current models.FilterSpec) models.FilterUpdate {
	fs := cmd.Flags()
	var u models.FilterUpdate

	if fs.Changed("search") {
		search := f.search
		u.SearchQuery = &search
	}

	setStrings := func(name string, values []string, dst **[]string) {
		if fs.Changed(name) {
			v := append([]string{}, values...)
			*dst = &v
		}
	}
	setStrings("make", f.makes, &u.Makes)
	setStrings("model", f.models, &u.Models)
	setStrings("county", f.counties, &u.Counties)
	setStrings("city", f.cities, &u.Cities)
	setStrings("eligibility", f.eligibility, &u.CAFVEligibility)
	setStrings("district", f.districts, &u.LegislativeDistricts)
	setStrings("census-tract", f.tracts, &u.CensusTracts)

	if fs.Changed("ev-type") {
		types := make([]models.EVType, 0, len(f.evTypes))
		for _, t := range f.evTypes {
			types = append(types, models.EVType(strings.ToUpper(strings.TrimSpace(t))))
		}
		u.EVTypes = &types
	}

	if fs.Changed("year-min") || fs.Changed("year-max") {
		years := current.YearRange
		if fs.Changed("year-min") {
			years.Min = f.yearMin
		}
		if fs.Changed("year-max") {
			years.Max = f.yearMax
		}
		u.YearRange = &years
	}
	if fs.Changed("range-min") || fs.Changed("range-max") {
		ranges := current.RangeFilter
		if fs.Changed("range-min") {
			ranges.Min = f.rangeMin
		}
		if fs.Changed("range-max") {
			ranges.Max = f.rangeMax
		}
		u.RangeFilter = &ranges
	}
	if fs.Changed("msrp-min") || fs.Changed("msrp-max") {
		msrp := current.MSRPRange
		if fs.Changed("msrp-min") {
			msrp.Min = f.msrpMin
		}
		if fs.Changed("msrp-max") {
			msrp.Max = f.msrpMax
		}
		u.MSRPRange = &msrp
	}

	if fs.Changed("exclude-unknown-range") {
		include := !f.excludeUnknownRange
		u.IncludeUnknownRange = &include
	}
	if fs.Changed("only-unknown-range") {
		only := f.onlyUnknownRange
		u.OnlyUnknownRange = &only
	}

	return u
}
