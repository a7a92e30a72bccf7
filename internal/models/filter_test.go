package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testBounds() DatasetBounds {
	return DatasetBounds{
		Years: NewRange(2011, 2024),
		Range: NewRange(0, 337),
		MSRP:  NewRange(25000.0, 110950.0),
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(10, 20)
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(20))
	assert.False(t, r.Contains(9))
	assert.False(t, r.Contains(21))
	assert.False(t, r.Inverted())
	assert.True(t, NewRange(5.0, 1.0).Inverted())
}

func TestDefaultFilterSpec(t *testing.T) {
	spec := DefaultFilterSpec(testBounds())

	assert.Empty(t, spec.SearchQuery)
	assert.NotNil(t, spec.Makes, "sets serialize as [] rather than null")
	assert.Empty(t, spec.Makes)
	assert.Equal(t, NewRange(2011, 2024), spec.YearRange)
	assert.Equal(t, NewRange(0, 337), spec.RangeFilter)
	assert.True(t, spec.IncludeUnknownRange)
	assert.False(t, spec.OnlyUnknownRange)
}

func TestFilterSpecCloneDoesNotAlias(t *testing.T) {
	spec := DefaultFilterSpec(testBounds())
	spec.Makes = []string{"TESLA"}

	clone := spec.Clone()
	clone.Makes[0] = "NISSAN"

	assert.Equal(t, "TESLA", spec.Makes[0])
	assert.True(t, spec.Equal(spec.Clone()))
	assert.False(t, spec.Equal(clone))
}

func TestUpdateFromSpecCoversEveryField(t *testing.T) {
	spec := DefaultFilterSpec(testBounds())
	spec.SearchQuery = "leaf"
	spec.OnlyUnknownRange = true
	spec.IncludeUnknownRange = false

	update := UpdateFromSpec(spec)

	assert.False(t, update.IsEmpty())
	assert.Equal(t, "leaf", *update.SearchQuery)
	assert.True(t, *update.OnlyUnknownRange)
	assert.False(t, *update.IncludeUnknownRange)
	assert.Equal(t, spec.YearRange, *update.YearRange)
	assert.NotNil(t, update.CensusTracts)
	assert.True(t, FilterUpdate{}.IsEmpty())
}

func TestFilterUpdateValidate(t *testing.T) {
	inverted := NewRange(2024, 2011)
	negative := NewRange(-5, 100)
	price := NewRange(90000.0, 30000.0)
	nanMin := NewRange(math.NaN(), 100000.0)
	nanMax := NewRange(0.0, math.NaN())
	okRange := NewRange(50, 200)
	badTypes := []EVType{EVTypeBEV, "FCEV"}
	goodTypes := []EVType{EVTypePHEV}

	tests := []struct {
		name   string
		update FilterUpdate
		fields []string
	}{
		{name: "empty update", update: FilterUpdate{}},
		{name: "valid range", update: FilterUpdate{RangeFilter: &okRange, EVTypes: &goodTypes}},
		{name: "inverted year range", update: FilterUpdate{YearRange: &inverted}, fields: []string{"yearRange"}},
		{name: "negative range minimum", update: FilterUpdate{RangeFilter: &negative}, fields: []string{"rangeFilter"}},
		{name: "inverted price", update: FilterUpdate{MSRPRange: &price}, fields: []string{"msrpRange"}},
		{name: "NaN price minimum", update: FilterUpdate{MSRPRange: &nanMin}, fields: []string{"msrpRange"}},
		{name: "NaN price maximum", update: FilterUpdate{MSRPRange: &nanMax}, fields: []string{"msrpRange"}},
		{name: "unknown ev type", update: FilterUpdate{EVTypes: &badTypes}, fields: []string{"evTypes"}},
		{
			name:   "multiple issues",
			update: FilterUpdate{YearRange: &inverted, EVTypes: &badTypes},
			fields: []string{"yearRange", "evTypes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.update.Validate()
			var fields []string
			for _, issue := range issues {
				fields = append(fields, issue.Field)
				assert.NotEmpty(t, issue.Message)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}
