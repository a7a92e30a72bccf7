package models

import (
	"strings"
)

// UnknownValue is the sentinel the loader stores for missing text attributes.
const UnknownValue = "Unknown"

// EVType is the propulsion classification of a vehicle.
type EVType string

// Supported propulsion types.
const (
	EVTypeBEV  EVType = "BEV"
	EVTypePHEV EVType = "PHEV"
)

// EVTypes lists every supported propulsion type in display order.
var EVTypes = []EVType{EVTypeBEV, EVTypePHEV}

// Valid reports whether t is one of the supported propulsion types.
func (t EVType) Valid() bool {
	return t == EVTypeBEV || t == EVTypePHEV
}

// ParseEVType normalizes the free-text "Electric Vehicle Type" column.
// Anything that is not recognizably a plug-in hybrid is treated as BEV.
func ParseEVType(raw string) EVType {
	normalized := strings.ToUpper(raw)
	if strings.Contains(normalized, "BATTERY ELECTRIC") || strings.Contains(normalized, "BEV") {
		return EVTypeBEV
	}
	if strings.Contains(normalized, "PLUG-IN HYBRID") || strings.Contains(normalized, "PHEV") {
		return EVTypePHEV
	}
	return EVTypeBEV
}

// Vehicle represents one registered electric vehicle.
// Zero values carry meaning: ModelYear, ElectricRange and BaseMSRP use 0 for
// "not reported", text attributes use UnknownValue or the empty string.
type Vehicle struct {
	Location            *Point  `json:"location,omitempty"`
	VIN                 string  `json:"vin"`
	County              string  `json:"county"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	PostalCode          string  `json:"postalCode"`
	Make                string  `json:"make"`
	Model               string  `json:"model"`
	EVType              EVType  `json:"evType"`
	CAFVEligibility     string  `json:"cafvEligibility"`
	LegislativeDistrict string  `json:"legislativeDistrict"`
	DOLVehicleID        string  `json:"dolVehicleId"`
	ElectricUtility     string  `json:"electricUtility"`
	CensusTract         string  `json:"censusTract"`
	BaseMSRP            float64 `json:"baseMSRP"`
	ModelYear           int     `json:"modelYear"`
	ElectricRange       int     `json:"electricRange"`
}

// HasKnownRange reports whether the electric range was reported.
func (v *Vehicle) HasKnownRange() bool {
	return v.ElectricRange != 0
}

// HasKnownPrice reports whether a base MSRP was reported.
func (v *Vehicle) HasKnownPrice() bool {
	return v.BaseMSRP > 0
}

// HasKnownYear reports whether the model year was parsed.
func (v *Vehicle) HasKnownYear() bool {
	return v.ModelYear > 0
}

// Clone returns a copy of v that shares no memory with it.
func (v Vehicle) Clone() Vehicle {
	if v.Location != nil {
		loc := *v.Location
		v.Location = &loc
	}
	return v
}

// CloneVehicles deep-copies a slice of vehicles. The result is never nil.
func CloneVehicles(vehicles []Vehicle) []Vehicle {
	out := make([]Vehicle, len(vehicles))
	for i := range vehicles {
		out[i] = vehicles[i].Clone()
	}
	return out
}

// IsKnownValue reports whether a text attribute holds a real value.
func IsKnownValue(value string) bool {
	return value != "" && value != UnknownValue
}
