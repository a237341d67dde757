package ingest

import (
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"jet-tracker/models"
)

// derived columns are recomputed, never carried as extras
var derivedFields = map[string]bool{"year": true, "month": true, "date_str": true}

// Finalize turns a validated, mapped table into flights. Rows whose date does
// not parse or that lack any coordinate are dropped; distance, duration and
// CO₂ may stay missing. Source order is kept.
func Finalize(df dataframe.DataFrame) []*models.Flight {
	if df.Err != nil {
		return nil
	}
	rows := df.Nrow()
	has := columnSet(df)

	text := func(field string) []string {
		if !has[field] {
			return make([]string, rows)
		}
		return cells(df.Col(field))
	}
	numbers := func(field string) []float64 {
		if !has[field] {
			out := make([]float64, rows)
			for i := range out {
				out[i] = math.NaN()
			}
			return out
		}
		return toNumeric(df.Col(field))
	}

	dates := text(models.FieldDate)
	origins := text(models.FieldOrigin)
	destinations := text(models.FieldDestination)
	distance := numbers(models.FieldDistanceKm)
	duration := numbers(models.FieldFlightTimeMin)
	co2 := numbers(models.FieldCO2Kg)
	origLat := numbers(models.FieldOrigLat)
	origLon := numbers(models.FieldOrigLon)
	destLat := numbers(models.FieldDestLat)
	destLon := numbers(models.FieldDestLon)

	var extraNames []string
	extra := make(map[string][]string)
	for _, name := range df.Names() {
		if models.IsTargetField(name) || derivedFields[name] {
			continue
		}
		extraNames = append(extraNames, name)
		extra[name] = cells(df.Col(name))
	}

	flights := make([]*models.Flight, 0, rows)
	for i := 0; i < rows; i++ {
		date, ok := ParseDate(dates[i])
		if !ok {
			continue
		}
		if anyNaN(origLat[i], origLon[i], destLat[i], destLon[i]) {
			continue
		}

		f := &models.Flight{
			Date:          date,
			Origin:        strings.TrimSpace(origins[i]),
			Destination:   strings.TrimSpace(destinations[i]),
			DistanceKm:    optional(distance[i]),
			FlightTimeMin: optional(duration[i]),
			CO2Kg:         optional(co2[i]),
			OrigLat:       origLat[i],
			OrigLon:       origLon[i],
			DestLat:       destLat[i],
			DestLon:       destLon[i],
		}
		for _, name := range extraNames {
			if v := extra[name][i]; v != "" {
				if f.Extra == nil {
					f.Extra = make(map[string]string)
				}
				f.Extra[name] = v
			}
		}
		EnrichTime(f)
		flights = append(flights, f)
	}
	return flights
}

// EnrichTime derives DateStr, Year and Month from Date.
func EnrichTime(f *models.Flight) {
	f.DateStr = f.Date.Format("2006-01-02")
	f.Year = f.Date.Year()
	f.Month = f.Date.Format("2006-01")
}

func optional(x float64) *float64 {
	if math.IsNaN(x) {
		return nil
	}
	return models.Float(x)
}

func anyNaN(values ...float64) bool {
	for _, x := range values {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
