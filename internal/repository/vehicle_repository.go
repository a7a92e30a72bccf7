package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/evpulse/internal/database"
	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/models"
)

// vehicleColumns lists the table columns in CSV order.
var vehicleColumns = []string{
	"vin",
	"county",
	"city",
	"state",
	"postal_code",
	"model_year",
	"make",
	"model",
	"ev_type",
	"cafv_eligibility",
	"electric_range",
	"base_msrp",
	"legislative_district",
	"dol_vehicle_id",
	"vehicle_location",
	"electric_utility",
	"census_tract",
}

// VehicleRecord is one row of the vehicles table. Every column is nullable;
// cleaning happens in the loader, not in SQL.
type VehicleRecord struct {
	VIN                 *string  `db:"vin"`
	County              *string  `db:"county"`
	City                *string  `db:"city"`
	State               *string  `db:"state"`
	PostalCode          *string  `db:"postal_code"`
	ModelYear           *int32   `db:"model_year"`
	Make                *string  `db:"make"`
	Model               *string  `db:"model"`
	EVType              *string  `db:"ev_type"`
	CAFVEligibility     *string  `db:"cafv_eligibility"`
	ElectricRange       *int32   `db:"electric_range"`
	BaseMSRP            *float64 `db:"base_msrp"`
	LegislativeDistrict *string  `db:"legislative_district"`
	DOLVehicleID        *string  `db:"dol_vehicle_id"`
	VehicleLocation     *string  `db:"vehicle_location"`
	ElectricUtility     *string  `db:"electric_utility"`
	CensusTract         *string  `db:"census_tract"`
}

// Raw converts the record into the loader's raw row form so database rows go
// through the same normalization as CSV rows.
func (r VehicleRecord) Raw() loader.RawRow {
	return loader.RawRow{
		loader.ColumnVIN:                 deref(r.VIN),
		loader.ColumnCounty:              deref(r.County),
		loader.ColumnCity:                deref(r.City),
		loader.ColumnState:               deref(r.State),
		loader.ColumnPostalCode:          deref(r.PostalCode),
		loader.ColumnModelYear:           intText(r.ModelYear),
		loader.ColumnMake:                deref(r.Make),
		loader.ColumnModel:               deref(r.Model),
		loader.ColumnEVType:              deref(r.EVType),
		loader.ColumnCAFVEligibility:     deref(r.CAFVEligibility),
		loader.ColumnElectricRange:       intText(r.ElectricRange),
		loader.ColumnBaseMSRP:            floatText(r.BaseMSRP),
		loader.ColumnLegislativeDistrict: deref(r.LegislativeDistrict),
		loader.ColumnDOLVehicleID:        deref(r.DOLVehicleID),
		loader.ColumnVehicleLocation:     deref(r.VehicleLocation),
		loader.ColumnElectricUtility:     deref(r.ElectricUtility),
		loader.ColumnCensusTract:         deref(r.CensusTract),
	}
}

// RecordFromVehicle maps a cleaned vehicle back onto table columns. Unknown
// model years and prices are stored as NULL.
func RecordFromVehicle(v models.Vehicle) VehicleRecord {
	rec := VehicleRecord{
		VIN:                 nullable(v.VIN),
		County:              nullable(v.County),
		City:                nullable(v.City),
		State:               nullable(v.State),
		PostalCode:          nullable(v.PostalCode),
		Make:                nullable(v.Make),
		Model:               nullable(v.Model),
		EVType:              nullable(string(v.EVType)),
		CAFVEligibility:     nullable(v.CAFVEligibility),
		LegislativeDistrict: nullable(v.LegislativeDistrict),
		DOLVehicleID:        nullable(v.DOLVehicleID),
		ElectricUtility:     nullable(v.ElectricUtility),
		CensusTract:         nullable(v.CensusTract),
	}
	if v.HasKnownYear() {
		year := int32(v.ModelYear)
		rec.ModelYear = &year
	}
	electricRange := int32(v.ElectricRange)
	rec.ElectricRange = &electricRange
	if v.HasKnownPrice() {
		msrp := v.BaseMSRP
		rec.BaseMSRP = &msrp
	}
	if v.Location != nil {
		rec.VehicleLocation = nullable(v.Location.String())
	}
	return rec
}

func (r VehicleRecord) values() []any {
	return []any{
		r.VIN, r.County, r.City, r.State, r.PostalCode, r.ModelYear,
		r.Make, r.Model, r.EVType, r.CAFVEligibility, r.ElectricRange,
		r.BaseMSRP, r.LegislativeDistrict, r.DOLVehicleID, r.VehicleLocation,
		r.ElectricUtility, r.CensusTract,
	}
}

// VehicleRepository defines data access for the registration table.
type VehicleRepository interface {
	// EnsureSchema creates the table when it does not exist.
	EnsureSchema(ctx context.Context) error

	// FindAll returns every row in insertion order. An empty table yields an
	// empty slice.
	FindAll(ctx context.Context) ([]VehicleRecord, error)

	// Count returns the number of rows.
	Count(ctx context.Context) (int64, error)

	// ReplaceAll swaps the table contents for vehicles in one transaction and
	// returns the number of rows written.
	ReplaceAll(ctx context.Context, vehicles []models.Vehicle) (int64, error)
}

// vehicleRepository is the pgx implementation of VehicleRepository.
type vehicleRepository struct {
	db    *database.Database
	table pgx.Identifier
}

// NewVehicleRepository creates a repository over table. The name is quoted as
// an identifier, never interpolated raw.
func NewVehicleRepository(db *database.Database, table string) VehicleRepository {
	return &vehicleRepository{
		db:    db,
		table: pgx.Identifier{table},
	}
}

func (r *vehicleRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id                   BIGSERIAL PRIMARY KEY,
			vin                  TEXT,
			county               TEXT,
			city                 TEXT,
			state                TEXT,
			postal_code          TEXT,
			model_year           INTEGER,
			make                 TEXT,
			model                TEXT,
			ev_type              TEXT,
			cafv_eligibility     TEXT,
			electric_range       INTEGER,
			base_msrp            DOUBLE PRECISION,
			legislative_district TEXT,
			dol_vehicle_id       TEXT,
			vehicle_location     TEXT,
			electric_utility     TEXT,
			census_tract         TEXT
		)`, r.table.Sanitize())

	if _, err := r.db.Pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table.Sanitize(), err)
	}
	return nil
}

func (r *vehicleRepository) FindAll(ctx context.Context) ([]VehicleRecord, error) {
	query := fmt.Sprintf(`
		SELECT
			vin,
			county,
			city,
			state,
			postal_code,
			model_year,
			make,
			model,
			ev_type,
			cafv_eligibility,
			electric_range,
			base_msrp,
			legislative_district,
			dol_vehicle_id,
			vehicle_location,
			electric_utility,
			census_tract
		FROM %s
		ORDER BY id
	`, r.table.Sanitize())

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[VehicleRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan vehicle rows: %w", err)
	}

	if records == nil {
		records = []VehicleRecord{}
	}
	return records, nil
}

func (r *vehicleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	query := "SELECT COUNT(*) FROM " + r.table.Sanitize()
	if err := r.db.Pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}
	return n, nil
}

func (r *vehicleRepository) ReplaceAll(ctx context.Context, vehicles []models.Vehicle) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE "+r.table.Sanitize()); err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", r.table.Sanitize(), err)
	}

	copied, err := tx.CopyFrom(ctx, r.table, vehicleColumns,
		pgx.CopyFromSlice(len(vehicles), func(i int) ([]any, error) {
			return RecordFromVehicle(vehicles[i]).values(), nil
		}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy vehicles: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit vehicle import: %w", err)
	}
	return copied, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intText(n *int32) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(int(*n))
}

func floatText(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
