package loader

// Column headers of the registration CSV, in file order.
const (
	ColumnVIN                 = "VIN (1-10)"
	ColumnCounty              = "County"
	ColumnCity                = "City"
	ColumnState               = "State"
	ColumnPostalCode          = "Postal Code"
	ColumnModelYear           = "Model Year"
	ColumnMake                = "Make"
	ColumnModel               = "Model"
	ColumnEVType              = "Electric Vehicle Type"
	ColumnCAFVEligibility     = "Clean Alternative Fuel Vehicle (CAFV) Eligibility"
	ColumnElectricRange       = "Electric Range"
	ColumnBaseMSRP            = "Base MSRP"
	ColumnLegislativeDistrict = "Legislative District"
	ColumnDOLVehicleID        = "DOL Vehicle ID"
	ColumnVehicleLocation     = "Vehicle Location"
	ColumnElectricUtility     = "Electric Utility"
	ColumnCensusTract         = "2020 Census Tract"
)

// Columns lists every column header in file order.
var Columns = []string{
	ColumnVIN,
	ColumnCounty,
	ColumnCity,
	ColumnState,
	ColumnPostalCode,
	ColumnModelYear,
	ColumnMake,
	ColumnModel,
	ColumnEVType,
	ColumnCAFVEligibility,
	ColumnElectricRange,
	ColumnBaseMSRP,
	ColumnLegislativeDistrict,
	ColumnDOLVehicleID,
	ColumnVehicleLocation,
	ColumnElectricUtility,
	ColumnCensusTract,
}

// Accepted model years; anything outside is flagged but kept.
const (
	MinModelYear = 1900
	MaxModelYear = 2030
)

// DefaultState is assumed when a row has no state.
const DefaultState = "WA"
