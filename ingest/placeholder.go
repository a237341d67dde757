package ingest

import (
	"math"
	"math/rand"
	"time"

	"jet-tracker/models"
)

var (
	placeholderOrigins      = []string{"FRA", "MUC", "BER", "HAM", "CGN"}
	placeholderDestinations = []string{"LHR", "CDG", "ZRH", "AMS", "BCN", "FCO"}
	placeholderStart        = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	placeholderEnd          = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Placeholder generates n synthetic flights around Germany. The same seed
// always yields the same flights.
func Placeholder(seed int64, n int) []*models.Flight {
	rng := rand.New(rand.NewSource(seed))
	days := int(placeholderEnd.Sub(placeholderStart).Hours()/24) + 1

	normal := func(mean, sd float64) float64 {
		return rng.NormFloat64()*sd + mean
	}
	clippedRound := func(mean, sd, lo, hi float64) *float64 {
		return models.Float(math.Round(math.Max(lo, math.Min(hi, normal(mean, sd)))))
	}

	flights := make([]*models.Flight, 0, n)
	for i := 0; i < n; i++ {
		f := &models.Flight{
			Date:          placeholderStart.AddDate(0, 0, rng.Intn(days)),
			Origin:        placeholderOrigins[rng.Intn(len(placeholderOrigins))],
			Destination:   placeholderDestinations[rng.Intn(len(placeholderDestinations))],
			DistanceKm:    clippedRound(900, 350, 80, 3500),
			FlightTimeMin: clippedRound(120, 50, 25, 420),
			CO2Kg:         clippedRound(2500, 1200, 200, 12000),
			OrigLat:       normal(50.0, 2.0),
			OrigLon:       normal(10.0, 3.0),
			DestLat:       normal(48.0, 3.0),
			DestLon:       normal(8.0, 4.0),
		}
		EnrichTime(f)
		flights = append(flights, f)
	}
	return flights
}
