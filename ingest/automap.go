package ingest

import "jet-tracker/models"

// synonyms lists, per target field, the source column names accepted for it.
// Order matters: the first synonym present wins.
var synonyms = []struct {
	target string
	names  []string
}{
	{models.FieldDate, []string{"date", "datetime", "timestamp", "flight_date", "time"}},
	{models.FieldOrigin, []string{"origin", "from", "dep", "departure", "departure_airport", "orig"}},
	{models.FieldDestination, []string{"destination", "to", "arr", "arrival", "arrival_airport", "dest"}},
	{models.FieldDistanceKm, []string{"distance_km", "distance", "km", "great_circle_km"}},
	{models.FieldFlightTimeMin, []string{"flight_time_min", "duration_min", "duration", "minutes", "flight_minutes"}},
	{models.FieldCO2Kg, []string{"co2_kg", "co2", "emissions_kg", "emission_kg", "co2e_kg", "co2e"}},
	{models.FieldOrigLat, []string{"orig_lat", "origin_lat", "from_lat", "dep_lat", "latitude_origin", "olat"}},
	{models.FieldOrigLon, []string{"orig_lon", "origin_lon", "from_lon", "dep_lon", "longitude_origin", "olon"}},
	{models.FieldDestLat, []string{"dest_lat", "destination_lat", "to_lat", "arr_lat", "latitude_destination", "dlat"}},
	{models.FieldDestLon, []string{"dest_lon", "destination_lon", "to_lon", "arr_lon", "longitude_destination", "dlon"}},
}

// AutoMap proposes a mapping for the given normalized column names. Targets
// without a matching synonym stay unassigned.
func AutoMap(columns []string) models.Mapping {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	m := make(models.Mapping)
	for _, entry := range synonyms {
		for _, name := range entry.names {
			if present[name] {
				m[entry.target] = name
				break
			}
		}
	}
	return m
}

// Synonyms returns the accepted source names for target, in priority order.
func Synonyms(target string) []string {
	for _, entry := range synonyms {
		if entry.target == target {
			return append([]string(nil), entry.names...)
		}
	}
	return nil
}
