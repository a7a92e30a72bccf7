// Package testutil holds vehicle fixtures shared by package tests.
package testutil

import "github.com/stwalsh4118/evpulse/internal/models"

// ThreeVehicles returns the Tesla / Nissan / Toyota dataset used as the
// reference scenario throughout the tests.
func ThreeVehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			VIN:                 "TEST001",
			County:              "King",
			City:                "Seattle",
			State:               "WA",
			PostalCode:          "98101",
			ModelYear:           2023,
			Make:                "Tesla",
			Model:               "Model 3",
			EVType:              models.EVTypeBEV,
			CAFVEligibility:     "Eligible",
			ElectricRange:       272,
			BaseMSRP:            46990,
			LegislativeDistrict: "43",
			DOLVehicleID:        "DOL001",
			Location:            &models.Point{Lng: -122.33, Lat: 47.61},
			ElectricUtility:     "Seattle City Light",
			CensusTract:         "53033007800",
		},
		{
			VIN:                 "TEST002",
			County:              "King",
			City:                "Bellevue",
			State:               "WA",
			PostalCode:          "98004",
			ModelYear:           2022,
			Make:                "Nissan",
			Model:               "Leaf",
			EVType:              models.EVTypeBEV,
			CAFVEligibility:     "Eligible",
			ElectricRange:       149,
			BaseMSRP:            27400,
			LegislativeDistrict: "41",
			DOLVehicleID:        "DOL002",
			Location:            &models.Point{Lng: -122.2, Lat: 47.61},
			ElectricUtility:     "Puget Sound Energy",
			CensusTract:         "53033022604",
		},
		{
			VIN:                 "TEST003",
			County:              "Snohomish",
			City:                "Everett",
			State:               "WA",
			PostalCode:          "98201",
			ModelYear:           2021,
			Make:                "Toyota",
			Model:               "Prius Prime",
			EVType:              models.EVTypePHEV,
			CAFVEligibility:     "Not Eligible",
			ElectricRange:       44,
			BaseMSRP:            32350,
			LegislativeDistrict: "38",
			DOLVehicleID:        "DOL003",
			Location:            &models.Point{Lng: -122.2, Lat: 47.98},
			ElectricUtility:     "Snohomish County PUD",
			CensusTract:         "53061040100",
		},
	}
}

// MixedVehicles extends ThreeVehicles with records that exercise the
// unknown sentinels: no range, no price, no year and no county.
func MixedVehicles() []models.Vehicle {
	vehicles := ThreeVehicles()
	return append(vehicles,
		models.Vehicle{
			VIN:                 "TEST004",
			County:              "King",
			City:                "Seattle",
			State:               "WA",
			ModelYear:           2020,
			Make:                "Tesla",
			Model:               "Model Y",
			EVType:              models.EVTypeBEV,
			CAFVEligibility:     "Eligibility unknown as battery range has not been researched",
			ElectricRange:       0,
			BaseMSRP:            0,
			LegislativeDistrict: "43",
			ElectricUtility:     models.UnknownValue,
		},
		models.Vehicle{
			VIN:             "TEST005",
			County:          models.UnknownValue,
			City:            models.UnknownValue,
			State:           "BC",
			ModelYear:       0,
			Make:            "Chevrolet",
			Model:           "Volt",
			EVType:          models.EVTypePHEV,
			CAFVEligibility: models.UnknownValue,
			ElectricRange:   53,
			BaseMSRP:        0,
			ElectricUtility: models.UnknownValue,
		},
		models.Vehicle{
			VIN:                 "TEST006",
			County:              "Snohomish",
			City:                "Everett",
			State:               "WA",
			ModelYear:           2024,
			Make:                "Tesla",
			Model:               "Model 3",
			EVType:              models.EVTypeBEV,
			CAFVEligibility:     "Eligible",
			ElectricRange:       0,
			BaseMSRP:            110950,
			LegislativeDistrict: "38",
			ElectricUtility:     "Snohomish County PUD",
			CensusTract:         "53061040100",
		},
	)
}

// Bounds is the DatasetBounds of MixedVehicles.
func Bounds() models.DatasetBounds {
	return models.DatasetBounds{
		Years: models.NewRange(2020, 2024),
		Range: models.NewRange(0, 272),
		MSRP:  models.NewRange(27400.0, 110950.0),
	}
}

// VINs lists the identifiers of vehicles in order.
func VINs(vehicles []models.Vehicle) []string {
	out := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.VIN)
	}
	return out
}
