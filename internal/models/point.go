package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPoint is returned when a WKT point cannot be parsed.
var ErrInvalidPoint = errors.New("invalid point")

// Point is a WGS84 location. The source data encodes it as WKT text,
// e.g. "POINT (-122.33 47.61)", longitude first.
type Point struct {
	Lng float64
	Lat float64
}

// ParsePoint parses a WKT "POINT (lng lat)" string.
func ParsePoint(wkt string) (Point, error) {
	s := strings.TrimSpace(wkt)
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "POINT") {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, wkt)
	}

	body := strings.TrimSpace(s[len("POINT"):])
	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") {
		return Point{}, fmt.Errorf("%w: %q", ErrInvalidPoint, wkt)
	}

	coords := strings.Fields(body[1 : len(body)-1])
	if len(coords) != 2 {
		return Point{}, fmt.Errorf("%w: expected 2 coordinates in %q", ErrInvalidPoint, wkt)
	}

	lng, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidPoint, coords[0])
	}
	lat, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		return Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidPoint, coords[1])
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("%w: coordinates out of range in %q", ErrInvalidPoint, wkt)
	}

	return Point{Lng: lng, Lat: lat}, nil
}

// String renders the point back to the WKT form used by the source data.
func (p Point) String() string {
	return "POINT (" + strconv.FormatFloat(p.Lng, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Lat, 'f', -1, 64) + ")"
}

// Scan implements sql.Scanner for WKT text columns.
func (p *Point) Scan(value interface{}) error {
	var text string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("failed to scan Point: expected text, got %T", value)
	}

	parsed, err := ParsePoint(text)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements driver.Valuer, writing the WKT form.
func (p Point) Value() (driver.Value, error) {
	return p.String(), nil
}

// MarshalJSON renders the point as a GeoJSON Point.
func (p Point) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}{
		Type:        "Point",
		Coordinates: [2]float64{p.Lng, p.Lat},
	}
	return json.Marshal(geom)
}

// UnmarshalJSON accepts a GeoJSON Point.
func (p *Point) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string     `json:"type"`
		Coordinates [2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}

	if geom.Type != "" && geom.Type != "Point" {
		return fmt.Errorf("expected Point type, got %s", geom.Type)
	}

	p.Lng = geom.Coordinates[0]
	p.Lat = geom.Coordinates[1]
	return nil
}
