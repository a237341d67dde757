package services

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jet-tracker/ingest"
	"jet-tracker/locale"
	"jet-tracker/models"
	"jet-tracker/utils"
)

func newTestLogger() *utils.Logger {
	var buf bytes.Buffer
	return utils.NewLoggerTo(&buf, &buf, utils.LevelDebug)
}

func flight(date string, distance, duration, co2 *float64) *models.Flight {
	d, _ := time.Parse("2006-01-02", date)
	f := &models.Flight{
		Date: d, Origin: "FRA", Destination: "LHR",
		DistanceKm: distance, FlightTimeMin: duration, CO2Kg: co2,
		OrigLat: 50.0, OrigLon: 8.5, DestLat: 51.5, DestLon: -0.1,
	}
	ingest.EnrichTime(f)
	return f
}

func sampleFlights() []*models.Flight {
	v := models.Float
	return []*models.Flight{
		flight("2023-11-05", v(600), v(80), v(1000)),
		flight("2024-01-10", v(900), v(120), v(2000)),
		flight("2024-01-20", nil, v(100), v(3000)),
		flight("2024-03-01", v(1200), nil, nil),
	}
}

func TestComputeKPIs(t *testing.T) {
	k := ComputeKPIs(sampleFlights())

	if k.Flights != 4 {
		t.Errorf("Flights: got %d, want 4", k.Flights)
	}
	if k.AvgDistanceKm != 900 {
		t.Errorf("AvgDistanceKm: got %.2f, want 900 (missing value skipped)", k.AvgDistanceKm)
	}
	if k.TotalCO2Tons != 6 {
		t.Errorf("TotalCO2Tons: got %.2f, want 6", k.TotalCO2Tons)
	}
	if k.AvgDurationMin != 100 {
		t.Errorf("AvgDurationMin: got %.2f, want 100", k.AvgDurationMin)
	}

	if empty := ComputeKPIs(nil); empty != (models.KPIReport{}) {
		t.Errorf("KPIs of no flights should be zero, got %+v", empty)
	}
}

func TestYearsAndFilter(t *testing.T) {
	flights := sampleFlights()
	years, ok := YearsOf(flights)
	if !ok || years.Min != 2023 || years.Max != 2024 {
		t.Errorf("YearsOf = %+v, %v; want 2023..2024", years, ok)
	}
	if _, ok := YearsOf(nil); ok {
		t.Error("YearsOf(nil) should report false")
	}

	if got := len(FilterYear(flights, 2024)); got != 3 {
		t.Errorf("FilterYear(2024): got %d flights, want 3", got)
	}
	if got := len(FilterYear(flights, 2019)); got != 0 {
		t.Errorf("FilterYear(2019): got %d flights, want 0", got)
	}
}

func TestSelectYear(t *testing.T) {
	flights := sampleFlights()
	tests := []struct {
		year      int
		wantYear  int
		wantCount int
	}{
		{0, 0, 4},
		{2023, 2023, 1},
		{2024, 2024, 3},
		{1990, 2023, 1},
		{2031, 2024, 3},
	}
	for _, tt := range tests {
		got, year := SelectYear(flights, tt.year)
		if year != tt.wantYear || len(got) != tt.wantCount {
			t.Errorf("SelectYear(%d) = %d flights, year %d; want %d flights, year %d",
				tt.year, len(got), year, tt.wantCount, tt.wantYear)
		}
	}

	if got, year := SelectYear(nil, 2024); len(got) != 0 || year != 0 {
		t.Errorf("SelectYear(nil, 2024) = %d flights, year %d; want none, 0", len(got), year)
	}
}

func TestFlightsPerMonthSorted(t *testing.T) {
	got := FlightsPerMonth(sampleFlights())
	want := []models.MonthCount{
		{Month: "2023-11", Flights: 1},
		{Month: "2024-01", Flights: 2},
		{Month: "2024-03", Flights: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d months, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("month %d = %+v; want %+v", i, got[i], want[i])
		}
	}
}

func TestCO2ByYear(t *testing.T) {
	got := CO2ByYear(sampleFlights())
	if len(got) != 2 {
		t.Fatalf("got %d years, want 2", len(got))
	}
	if got[0].Year != 2023 || got[0].CO2Tons != 1 {
		t.Errorf("2023 = %+v; want 1 t", got[0])
	}
	if got[1].Year != 2024 || got[1].CO2Kg != 5000 || got[1].CO2Tons != 5 {
		t.Errorf("2024 = %+v; want 5000 kg", got[1])
	}
}

func TestSampleArcs(t *testing.T) {
	flights := ingest.Placeholder(42, 800)

	a := SampleArcs(flights, 300, 1)
	b := SampleArcs(flights, 300, 1)
	if len(a) != 300 {
		t.Fatalf("expected 300 arcs, got %d", len(a))
	}
	for i := range a {
		if a[i].Source != b[i].Source || a[i].DateStr != b[i].DateStr {
			t.Fatalf("sample is not deterministic at %d", i)
		}
	}

	seen := make(map[*float64]bool)
	for _, arc := range a {
		if seen[arc.CO2Kg] {
			t.Fatal("sample should not repeat flights")
		}
		seen[arc.CO2Kg] = true
	}

	small := SampleArcs(sampleFlights(), 300, 1)
	if len(small) != 4 {
		t.Errorf("sample of 4 flights: got %d arcs", len(small))
	}
	if arc := small[0]; arc.Source[0] != 8.5 || arc.Source[1] != 50.0 {
		t.Errorf("arc source should be [lon, lat], got %v", arc.Source)
	}
}

func TestReportGenerate(t *testing.T) {
	svc := NewReportService(newTestLogger(), locale.New("de"), 50000, 300)
	ds := models.Dataset{Source: models.SourceUpload, Flights: sampleFlights()}

	all := svc.Generate(ds, 0)
	if all.KPIs.Flights != 4 || all.SelectedYear != 0 {
		t.Errorf("all years: %d flights, year %d", all.KPIs.Flights, all.SelectedYear)
	}
	if all.Years != (models.YearRange{Min: 2023, Max: 2024}) {
		t.Errorf("year range = %+v", all.Years)
	}
	if len(all.Tiles) != 4 || all.Tiles[0].Title != "Flüge" || all.Tiles[2].Value != "6 t" {
		t.Errorf("tiles = %+v", all.Tiles)
	}
	if all.Map.View.Zoom != 3.4 || all.Map.Color != [4]int{0, 200, 0, 160} {
		t.Errorf("map settings = %+v", all.Map)
	}
	if _, ok := all.Charts["flights_per_month"]; !ok {
		t.Error("missing flights_per_month chart spec")
	}
	if all.Notices == nil {
		t.Error("notices should be an empty list, not nil")
	}

	clamped := svc.Generate(ds, 2030)
	if clamped.SelectedYear != 2024 || clamped.KPIs.Flights != 3 {
		t.Errorf("year 2030 should clamp to 2024, got year %d with %d flights", clamped.SelectedYear, clamped.KPIs.Flights)
	}
}

func TestComparison(t *testing.T) {
	tests := []struct {
		tons         float64
		wantShare    float64
		wantProgress float64
	}{
		{500, 1, 0.01},
		{0, 0, 0},
		{75000, 150, 1},
	}

	svc := NewReportService(newTestLogger(), locale.New("de"), 50000, 300)
	for _, tt := range tests {
		c := svc.compare(tt.tons)
		if c.SharePercent != tt.wantShare || c.Progress != tt.wantProgress {
			t.Errorf("compare(%.0f) = %.2f%%, progress %.2f; want %.2f%%, %.2f",
				tt.tons, c.SharePercent, c.Progress, tt.wantShare, tt.wantProgress)
		}
	}

	c := svc.compare(250)
	if !strings.Contains(c.Summary, "50.000 t") || c.ShareLabel != "Anteil: 0,50%" {
		t.Errorf("summary %q / label %q not localized", c.Summary, c.ShareLabel)
	}
}

func writeDefaultCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drake_flights.csv")
	csv := "date,origin,destination,distance_km,flight_time_min,co2_kg,orig_lat,orig_lon,dest_lat,dest_lon\n" +
		"2024-03-01,FRA,LHR,650,90,1800,50.0,8.5,51.5,-0.1\n" +
		"2024-04-01,LHR,FRA,650,85,1700,51.5,-0.1,50.0,8.5\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveDefault(t *testing.T) {
	svc := NewDatasetService(newTestLogger(), locale.New("de"), writeDefaultCSV(t), 42, 50)

	ds := svc.Resolve(Selection{Source: models.SourceDefault})
	if ds.Source != models.SourceDefault || len(ds.Flights) != 2 {
		t.Fatalf("got %s with %d flights; want default with 2", ds.Source, len(ds.Flights))
	}
	if ds.Notices[0] != "Standard-Datensatz: drake_flights" {
		t.Errorf("notice = %q", ds.Notices[0])
	}
}

func TestResolveFallbacks(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.csv")
	svc := NewDatasetService(newTestLogger(), locale.New("en"), missing, 42, 50)

	failed := &ingest.Outcome{Result: models.NewValidationResult([]string{"Missing columns: co2_kg"})}
	empty := &ingest.Outcome{Result: models.NewValidationResult(nil)}

	tests := []struct {
		name       string
		sel        Selection
		wantNotice string
	}{
		{"missing default", Selection{Source: models.SourceDefault}, "Default CSV could not be loaded, demo data active."},
		{"demo", Selection{Source: models.SourcePlaceholder}, "Demo data active."},
		{"no session", Selection{Source: models.SourceUpload, Err: ErrNoSession}, "Upload session not found, demo data active."},
		{"read error", Selection{Source: models.SourceUpload, Err: errors.New("boom")}, "Error while loading: boom"},
		{"no mapping", Selection{Source: models.SourceUpload}, "No mapping confirmed yet for the uploaded CSV."},
		{"invalid", Selection{Source: models.SourceUpload, Outcome: failed}, "Missing columns: co2_kg"},
		{"empty", Selection{Source: models.SourceUpload, Outcome: empty}, "No data available, demo data loaded."},
	}

	for _, tt := range tests {
		ds := svc.Resolve(tt.sel)
		if ds.Source != models.SourcePlaceholder {
			t.Errorf("%s: source = %s; want placeholder", tt.name, ds.Source)
		}
		if len(ds.Flights) != 50 {
			t.Errorf("%s: got %d placeholder flights, want 50", tt.name, len(ds.Flights))
		}
		if !strings.Contains(strings.Join(ds.Notices, "\n"), tt.wantNotice) {
			t.Errorf("%s: notices %q should contain %q", tt.name, ds.Notices, tt.wantNotice)
		}
	}
}

func TestResolveUpload(t *testing.T) {
	svc := NewDatasetService(newTestLogger(), locale.New("de"), "", 42, 50)
	outcome := &ingest.Outcome{Result: models.NewValidationResult(nil), Flights: sampleFlights()}

	ds := svc.Resolve(Selection{Source: models.SourceUpload, Outcome: outcome})
	if ds.Source != models.SourceUpload || len(ds.Flights) != 4 {
		t.Fatalf("got %s with %d flights; want upload with 4", ds.Source, len(ds.Flights))
	}
	if ds.Notices[0] != "CSV geladen: 4 Flüge" {
		t.Errorf("notice = %q", ds.Notices[0])
	}
}
