package models

import "time"

// Target field names understood by the ingestion pipeline.
const (
	FieldDate          = "date"
	FieldOrigin        = "origin"
	FieldDestination   = "destination"
	FieldDistanceKm    = "distance_km"
	FieldFlightTimeMin = "flight_time_min"
	FieldCO2Kg         = "co2_kg"
	FieldOrigLat       = "orig_lat"
	FieldOrigLon       = "orig_lon"
	FieldDestLat       = "dest_lat"
	FieldDestLon       = "dest_lon"
)

// TargetFields lists every target field in its canonical order.
var TargetFields = []string{
	FieldDate,
	FieldOrigin, FieldDestination,
	FieldDistanceKm,
	FieldFlightTimeMin,
	FieldCO2Kg,
	FieldOrigLat, FieldOrigLon,
	FieldDestLat, FieldDestLon,
}

// CoordinateFields are the four fields every finalized row must carry.
var CoordinateFields = []string{FieldOrigLat, FieldOrigLon, FieldDestLat, FieldDestLon}

// IsTargetField reports whether name is one of TargetFields.
func IsTargetField(name string) bool {
	for _, f := range TargetFields {
		if f == name {
			return true
		}
	}
	return false
}

// Mapping relates a target field to the source column that holds it.
// A target missing from the map is unassigned.
type Mapping map[string]string

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ValidationResult is the outcome of validating a mapped table.
// Passed is true exactly when Diagnostics is empty.
type ValidationResult struct {
	Passed      bool     `json:"passed"`
	Diagnostics []string `json:"diagnostics"`
}

// NewValidationResult derives Passed from the diagnostics list.
func NewValidationResult(diagnostics []string) ValidationResult {
	if diagnostics == nil {
		diagnostics = []string{}
	}
	return ValidationResult{Passed: len(diagnostics) == 0, Diagnostics: diagnostics}
}

// Flight is one row of the finalized table.
// Distance, duration and emissions may be missing; date and coordinates never are.
type Flight struct {
	Date          time.Time         `json:"date"`
	DateStr       string            `json:"date_str"`
	Year          int               `json:"year"`
	Month         string            `json:"month"`
	Origin        string            `json:"origin"`
	Destination   string            `json:"destination"`
	DistanceKm    *float64          `json:"distance_km"`
	FlightTimeMin *float64          `json:"flight_time_min"`
	CO2Kg         *float64          `json:"co2_kg"`
	OrigLat       float64           `json:"orig_lat"`
	OrigLon       float64           `json:"orig_lon"`
	DestLat       float64           `json:"dest_lat"`
	DestLon       float64           `json:"dest_lon"`
	Extra         map[string]string `json:"extra,omitempty"`
}

// Float returns a pointer to v, for building flights by hand.
func Float(v float64) *float64 {
	return &v
}

// DataSource says where a dataset actually came from.
type DataSource string

const (
	SourceUpload      DataSource = "upload"
	SourceDefault     DataSource = "default"
	SourcePlaceholder DataSource = "placeholder"
)

// Dataset is the finalized table handed to reporting, together with the
// notices explaining how it was chosen.
type Dataset struct {
	Source  DataSource `json:"source"`
	Flights []*Flight  `json:"-"`
	Notices []string   `json:"notices"`
}
