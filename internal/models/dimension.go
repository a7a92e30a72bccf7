package models

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownDimension is returned when a dimension name is not supported.
var ErrUnknownDimension = errors.New("unknown dimension")

// Dimension names a string-valued attribute of a Vehicle that can be grouped
// on or offered as a filter choice.
type Dimension string

// Supported dimensions.
const (
	DimensionCounty              Dimension = "county"
	DimensionCity                Dimension = "city"
	DimensionState               Dimension = "state"
	DimensionPostalCode          Dimension = "postalCode"
	DimensionMake                Dimension = "make"
	DimensionModel               Dimension = "model"
	DimensionEVType              Dimension = "evType"
	DimensionCAFVEligibility     Dimension = "cafvEligibility"
	DimensionModelYear           Dimension = "modelYear"
	DimensionLegislativeDistrict Dimension = "legislativeDistrict"
	DimensionCensusTract         Dimension = "censusTract"
	DimensionElectricUtility     Dimension = "electricUtility"
)

var dimensionAccessors = map[Dimension]func(*Vehicle) string{
	DimensionCounty:              func(v *Vehicle) string { return v.County },
	DimensionCity:                func(v *Vehicle) string { return v.City },
	DimensionState:               func(v *Vehicle) string { return v.State },
	DimensionPostalCode:          func(v *Vehicle) string { return v.PostalCode },
	DimensionMake:                func(v *Vehicle) string { return v.Make },
	DimensionModel:               func(v *Vehicle) string { return v.Model },
	DimensionEVType:              func(v *Vehicle) string { return string(v.EVType) },
	DimensionCAFVEligibility:     func(v *Vehicle) string { return v.CAFVEligibility },
	DimensionLegislativeDistrict: func(v *Vehicle) string { return v.LegislativeDistrict },
	DimensionCensusTract:         func(v *Vehicle) string { return v.CensusTract },
	DimensionElectricUtility:     func(v *Vehicle) string { return v.ElectricUtility },
	DimensionModelYear: func(v *Vehicle) string {
		if !v.HasKnownYear() {
			return ""
		}
		return strconv.Itoa(v.ModelYear)
	},
}

// Dimensions returns every supported dimension in a stable order.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionCounty,
		DimensionCity,
		DimensionState,
		DimensionPostalCode,
		DimensionMake,
		DimensionModel,
		DimensionEVType,
		DimensionCAFVEligibility,
		DimensionModelYear,
		DimensionLegislativeDistrict,
		DimensionCensusTract,
		DimensionElectricUtility,
	}
}

// ParseDimension converts a dimension name into a Dimension.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(name)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDimension, name)
	}
	return d, nil
}

// Valid reports whether d is a supported dimension.
func (d Dimension) Valid() bool {
	_, ok := dimensionAccessors[d]
	return ok
}

// Value returns the dimension's value for v. An unknown model year yields "".
// Unsupported dimensions yield "".
func (d Dimension) Value(v *Vehicle) string {
	accessor, ok := dimensionAccessors[d]
	if !ok || v == nil {
		return ""
	}
	return accessor(v)
}
