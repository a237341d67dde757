package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"jet-tracker/models"
)

// FlightWriter is the interface any export format must satisfy.
type FlightWriter interface {
	Write(flights []*models.Flight) error
	Close() error
}

// Columns is the header of every export, in order.
var Columns = []string{
	"date", "year", "month", "origin", "destination",
	"distance_km", "flight_time_min", "co2_kg",
	"orig_lat", "orig_lon", "dest_lat", "dest_lon",
}

// NewFileWriter creates (or truncates) the file at path and returns a writer
// for the format its extension names: .xlsx, or CSV for anything else.
// Intermediate directories are created automatically.
func NewFileWriter(path string) (FlightWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("export: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create file %q: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return newXLSXWriter(f, f), nil
	}
	return newCSVWriter(f, f), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// nopCloser is used when the caller owns the destination.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
