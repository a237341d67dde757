package services

import (
	"math"
	"math/rand"
	"sort"

	"jet-tracker/locale"
	"jet-tracker/models"
	"jet-tracker/utils"
)

const (
	previewRows   = 50
	mapSampleSeed = 1
)

var (
	defaultView = models.ViewState{Latitude: 50.5, Longitude: 10.5, Zoom: 3.4, Pitch: 30}
	arcColor    = [4]int{0, 200, 0, 160}
)

// ReportService computes everything the dashboard shows for a dataset.
type ReportService struct {
	logger        *utils.Logger
	messages      *locale.Printer
	smallCityTons float64
	mapSample     int
}

// NewReportService creates a ReportService. smallCityTons is the yearly CO₂
// of the reference town; mapSample caps the number of arcs on the map.
func NewReportService(logger *utils.Logger, messages *locale.Printer, smallCityTons float64, mapSample int) *ReportService {
	return &ReportService{
		logger:        logger.With("report"),
		messages:      messages,
		smallCityTons: smallCityTons,
		mapSample:     mapSample,
	}
}

// Generate builds the dashboard report for ds. year 0 covers all years;
// any other year is clamped to the years present in the data.
func (s *ReportService) Generate(ds models.Dataset, year int) *models.DashboardReport {
	report := &models.DashboardReport{
		Source:  ds.Source,
		Notices: ds.Notices,
	}
	if report.Notices == nil {
		report.Notices = []string{}
	}

	report.Years, _ = YearsOf(ds.Flights)
	flights, selected := SelectYear(ds.Flights, year)
	report.SelectedYear = selected

	report.KPIs = ComputeKPIs(flights)
	report.Tiles = s.tiles(report.KPIs)
	report.Comparison = s.compare(report.KPIs.TotalCO2Tons)
	report.FlightsPerMonth = FlightsPerMonth(flights)
	report.CO2ByYear = CO2ByYear(flights)
	report.Charts = map[string]any{
		"flights_per_month": s.monthChart(report.FlightsPerMonth),
		"co2_by_year":       s.yearChart(report.CO2ByYear),
	}
	report.Map = models.RouteMap{
		Arcs:  SampleArcs(flights, s.mapSample, mapSampleSeed),
		View:  defaultView,
		Color: arcColor,
	}

	if len(flights) > previewRows {
		report.Preview = flights[:previewRows]
	} else {
		report.Preview = flights
	}

	s.logger.Debug("Report for %s: %d flights, year %d", ds.Source, report.KPIs.Flights, selected)
	return report
}

// YearsOf returns the smallest and largest year in flights. ok is false for
// an empty slice.
func YearsOf(flights []*models.Flight) (years models.YearRange, ok bool) {
	for i, f := range flights {
		if i == 0 || f.Year < years.Min {
			years.Min = f.Year
		}
		if i == 0 || f.Year > years.Max {
			years.Max = f.Year
		}
	}
	return years, len(flights) > 0
}

// SelectYear narrows flights to one year, clamped to the years present.
// Year 0 keeps every flight. The returned year is the one actually applied.
func SelectYear(flights []*models.Flight, year int) ([]*models.Flight, int) {
	years, ok := YearsOf(flights)
	if !ok || year == 0 {
		return flights, 0
	}
	year = clampInt(year, years.Min, years.Max)
	return FilterYear(flights, year), year
}

// FilterYear keeps the flights of one calendar year.
func FilterYear(flights []*models.Flight, year int) []*models.Flight {
	out := make([]*models.Flight, 0, len(flights))
	for _, f := range flights {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}

// ComputeKPIs counts flights and aggregates the optional numeric fields.
// Missing values are left out of means and sums.
func ComputeKPIs(flights []*models.Flight) models.KPIReport {
	var distance, duration, co2 meanAcc
	for _, f := range flights {
		distance.add(f.DistanceKm)
		duration.add(f.FlightTimeMin)
		co2.add(f.CO2Kg)
	}
	return models.KPIReport{
		Flights:        len(flights),
		AvgDistanceKm:  distance.mean(),
		TotalCO2Tons:   co2.sum / 1000,
		AvgDurationMin: duration.mean(),
	}
}

// FlightsPerMonth counts flights per "YYYY-MM", months ascending.
func FlightsPerMonth(flights []*models.Flight) []models.MonthCount {
	counts := make(map[string]int)
	for _, f := range flights {
		counts[f.Month]++
	}
	out := make([]models.MonthCount, 0, len(counts))
	for month, n := range counts {
		out = append(out, models.MonthCount{Month: month, Flights: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CO2ByYear sums emissions per year, years ascending.
func CO2ByYear(flights []*models.Flight) []models.YearEmissions {
	sums := make(map[int]float64)
	for _, f := range flights {
		v := 0.0
		if f.CO2Kg != nil {
			v = *f.CO2Kg
		}
		sums[f.Year] += v
	}
	out := make([]models.YearEmissions, 0, len(sums))
	for year, kg := range sums {
		out = append(out, models.YearEmissions{Year: year, CO2Kg: kg, CO2Tons: kg / 1000})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// SampleArcs draws up to n flights without replacement and turns them into
// map arcs. The same seed and input always give the same arcs.
func SampleArcs(flights []*models.Flight, n int, seed int64) []models.Arc {
	if n > len(flights) || n < 0 {
		n = len(flights)
	}
	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(flights))[:n]

	arcs := make([]models.Arc, 0, n)
	for _, i := range idx {
		f := flights[i]
		arcs = append(arcs, models.Arc{
			Origin:      f.Origin,
			Destination: f.Destination,
			Source:      [2]float64{f.OrigLon, f.OrigLat},
			Target:      [2]float64{f.DestLon, f.DestLat},
			DistanceKm:  f.DistanceKm,
			CO2Kg:       f.CO2Kg,
			DateStr:     f.DateStr,
		})
	}
	return arcs
}

func (s *ReportService) tiles(k models.KPIReport) []models.KPITile {
	p := s.messages
	return []models.KPITile{
		{Key: "flights", Title: p.Sprintf("Flights"), Value: p.Int(k.Flights)},
		{Key: "avg_distance", Title: p.Sprintf("Avg. distance"), Value: p.Round(k.AvgDistanceKm) + " km"},
		{Key: "total_co2", Title: p.Sprintf("Total CO₂"), Value: p.Round(k.TotalCO2Tons) + " t"},
		{Key: "avg_duration", Title: p.Sprintf("Avg. duration"), Value: p.Round(k.AvgDurationMin) + " min"},
	}
}

func (s *ReportService) compare(totalTons float64) models.Comparison {
	c := models.Comparison{ReferenceTons: s.smallCityTons}
	if s.smallCityTons > 0 {
		c.SharePercent = totalTons / s.smallCityTons * 100
	}
	c.Progress = math.Max(0, math.Min(1, c.SharePercent/100))

	p := s.messages
	share := p.Fixed(c.SharePercent)
	c.Summary = p.Sprintf("Demo: small town = %s t CO₂/year, private jet flights ~%s%% of that.", p.Round(c.ReferenceTons), share)
	c.ShareLabel = p.Sprintf("Share: %s%%", share)
	return c
}

func (s *ReportService) monthChart(data []models.MonthCount) map[string]any {
	p := s.messages
	return vegaLite(p.Sprintf("Flights per month"), data,
		map[string]any{"type": "line", "point": true},
		map[string]any{
			"x":       map[string]any{"field": "month", "type": "nominal", "title": p.Sprintf("Month"), "sort": nil},
			"y":       map[string]any{"field": "flights", "type": "quantitative", "title": p.Sprintf("Number of flights")},
			"tooltip": []any{map[string]any{"field": "month"}, map[string]any{"field": "flights"}},
		})
}

func (s *ReportService) yearChart(data []models.YearEmissions) map[string]any {
	p := s.messages
	return vegaLite(p.Sprintf("CO₂ per year (t)"), data,
		map[string]any{"type": "bar"},
		map[string]any{
			"x": map[string]any{"field": "year", "type": "ordinal", "title": p.Sprintf("Year")},
			"y": map[string]any{"field": "co2_t", "type": "quantitative", "title": p.Sprintf("CO₂ (t)")},
			"tooltip": []any{
				map[string]any{"field": "year"},
				map[string]any{"field": "co2_t", "type": "quantitative", "format": ",.0f"},
			},
		})
}

func vegaLite(title string, values any, mark, encoding map[string]any) map[string]any {
	return map[string]any{
		"$schema":  "https://vega.github.io/schema/vega-lite/v5.json",
		"title":    title,
		"width":    "container",
		"height":   280,
		"data":     map[string]any{"values": values},
		"mark":     mark,
		"encoding": encoding,
	}
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.n++
}

func (a *meanAcc) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
