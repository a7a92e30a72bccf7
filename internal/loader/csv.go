// Package loader turns registration CSV data into vehicles and row-level
// errors, and provides the sources a dataset can be loaded from.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/stwalsh4118/evpulse/internal/models"
)

const utf8BOM = "\ufeff"

var (
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("csv input is empty")
	// ErrUnrecognizedHeader is returned when the header has neither a VIN
	// nor a Make column.
	ErrUnrecognizedHeader = errors.New("csv header is not a vehicle registration header")
)

// RawRow maps column headers to untrimmed cell values. Missing columns read
// as the empty string.
type RawRow map[string]string

// ParseCSV reads a header row followed by data rows. Row-level problems are
// collected in the result rather than returned; only an unreadable header
// is an error.
func ParseCSV(r io.Reader) (*models.LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	_, hasVIN := index[ColumnVIN]
	_, hasMake := index[ColumnMake]
	if !hasVIN && !hasMake {
		return nil, ErrUnrecognizedHeader
	}

	result := &models.LoadResult{
		Vehicles: []models.Vehicle{},
		Errors:   []models.RowError{},
	}

	for dataIndex := 0; ; dataIndex++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row := dataIndex + 2
		result.Meta.TotalRows++

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read csv row %d: %w", row, err)
			}
			result.Meta.InvalidRows++
			result.Errors = append(result.Errors, models.RowError{
				Row:     row,
				Message: parseErr.Err.Error(),
			})
			continue
		}

		raw := make(RawRow, len(index))
		for name, i := range index {
			if i < len(record) {
				raw[name] = record[i]
			}
		}

		vehicle, rowErrs := NormalizeRow(raw, row)
		result.Errors = append(result.Errors, rowErrs...)
		if vehicle == nil {
			result.Meta.InvalidRows++
			continue
		}
		result.Vehicles = append(result.Vehicles, *vehicle)
		result.Meta.ValidRows++
	}

	return result, nil
}

// NormalizeRow validates and converts one raw row. row is the 1-based line
// number used in reported errors.
//
// A missing VIN or Make and an out-of-bounds model year are reported. An
// out-of-bounds year is stored as 0. The vehicle is still returned unless
// both VIN and Make are missing.
func NormalizeRow(raw RawRow, row int) (*models.Vehicle, []models.RowError) {
	var errs []models.RowError

	vin := strings.TrimSpace(raw[ColumnVIN])
	if vin == "" {
		errs = append(errs, models.RowError{
			Row:      row,
			Field:    ColumnVIN,
			Message:  "VIN is required",
			RawValue: raw[ColumnVIN],
		})
	}

	vehicleMake := strings.TrimSpace(raw[ColumnMake])
	if vehicleMake == "" {
		errs = append(errs, models.RowError{
			Row:      row,
			Field:    ColumnMake,
			Message:  "Make is required",
			RawValue: raw[ColumnMake],
		})
	}

	year := parseInt(raw[ColumnModelYear])
	if year < MinModelYear || year > MaxModelYear {
		errs = append(errs, models.RowError{
			Row:      row,
			Field:    ColumnModelYear,
			Message:  "Invalid model year",
			RawValue: raw[ColumnModelYear],
		})
		year = 0
	}

	if len(errs) > 0 && vin == "" && vehicleMake == "" {
		return nil, errs
	}

	v := &models.Vehicle{
		VIN:                 vin,
		County:              orDefault(raw[ColumnCounty], models.UnknownValue),
		City:                orDefault(raw[ColumnCity], models.UnknownValue),
		State:               orDefault(raw[ColumnState], DefaultState),
		PostalCode:          strings.TrimSpace(raw[ColumnPostalCode]),
		ModelYear:           year,
		Make:                orDefault(vehicleMake, models.UnknownValue),
		Model:               orDefault(raw[ColumnModel], models.UnknownValue),
		EVType:              models.ParseEVType(raw[ColumnEVType]),
		CAFVEligibility:     orDefault(raw[ColumnCAFVEligibility], models.UnknownValue),
		ElectricRange:       parseInt(raw[ColumnElectricRange]),
		BaseMSRP:            parseFloat(raw[ColumnBaseMSRP]),
		LegislativeDistrict: strings.TrimSpace(raw[ColumnLegislativeDistrict]),
		DOLVehicleID:        strings.TrimSpace(raw[ColumnDOLVehicleID]),
		ElectricUtility:     orDefault(raw[ColumnElectricUtility], models.UnknownValue),
		CensusTract:         strings.TrimSpace(raw[ColumnCensusTract]),
	}

	if loc := strings.TrimSpace(raw[ColumnVehicleLocation]); loc != "" {
		if p, err := models.ParsePoint(loc); err == nil {
			v.Location = &p
		}
	}

	return v, errs
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// parseFloat returns 0 for empty or non-numeric input.
func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseInt truncates fractional input toward zero.
func parseInt(value string) int {
	return int(parseFloat(value))
}
