// Package export serializes vehicles back into the registration CSV format.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/models"
)

// ErrNoData is returned when there is nothing to export.
var ErrNoData = errors.New("no data to export")

// ContentType is the media type of an exported file.
const ContentType = "text/csv; charset=utf-8"

const byteOrderMark = "\ufeff"

// Options controls the output encoding.
type Options struct {
	// BOM prefixes the output with a UTF-8 byte order mark so spreadsheet
	// applications detect the encoding.
	BOM bool
}

// WriteCSV writes a header row and one row per vehicle using the source
// column layout. Fields are quoted per RFC 4180. An unknown MSRP is
// written as an empty cell.
func WriteCSV(w io.Writer, vehicles []models.Vehicle, opts Options) error {
	if len(vehicles) == 0 {
		return ErrNoData
	}

	if opts.BOM {
		if _, err := io.WriteString(w, byteOrderMark); err != nil {
			return fmt.Errorf("failed to write byte order mark: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(loader.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range vehicles {
		if err := cw.Write(record(&vehicles[i])); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// Filename returns the download name for an export taken at t, in UTC.
func Filename(t time.Time) string {
	return "ev-data-export-" + t.UTC().Format("2006-01-02-150405") + ".csv"
}

func record(v *models.Vehicle) []string {
	msrp := ""
	if v.HasKnownPrice() {
		msrp = strconv.FormatFloat(v.BaseMSRP, 'f', -1, 64)
	}
	location := ""
	if v.Location != nil {
		location = v.Location.String()
	}

	return []string{
		v.VIN,
		v.County,
		v.City,
		v.State,
		v.PostalCode,
		strconv.Itoa(v.ModelYear),
		v.Make,
		v.Model,
		string(v.EVType),
		v.CAFVEligibility,
		strconv.Itoa(v.ElectricRange),
		msrp,
		v.LegislativeDistrict,
		v.DOLVehicleID,
		location,
		v.ElectricUtility,
		v.CensusTract,
	}
}
