package ingest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"jet-tracker/locale"
	"jet-tracker/models"
)

const commaFlights = "Date, From, To, Distance, Duration, CO2, OLat, OLon, DLat, DLon\n" +
	"2024-03-01, FRA, LHR, 650, 90, 1800, 50.0, 8.5, 51.5, -0.1\n"

const semicolonFlights = "Date;From;To;Distance;Duration;CO2;OLat;OLon;DLat;DLon\n" +
	"2024-03-01;FRA;LHR;650;90;1800;50.0;8.5;51.5;-0.1\n"

func newTestPipeline() *Pipeline {
	return NewPipeline(newTestValidator(), newTestLogger())
}

func runAuto(t *testing.T, p *Pipeline, csv string) *Outcome {
	t.Helper()
	draft, err := p.Prepare(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	out, err := p.Run(draft, draft.Guess)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out
}

func TestPipelineEndToEnd(t *testing.T) {
	p := newTestPipeline()
	draft, err := p.Prepare(strings.NewReader(commaFlights))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if draft.Rows() != 1 {
		t.Errorf("draft rows: got %d, want 1", draft.Rows())
	}

	wantGuess := map[string]string{
		"origin": "from", "destination": "to", "distance_km": "distance",
		"flight_time_min": "duration", "co2_kg": "co2", "orig_lat": "olat",
		"orig_lon": "olon", "dest_lat": "dlat", "dest_lon": "dlon", "date": "date",
	}
	for target, source := range wantGuess {
		if draft.Guess[target] != source {
			t.Errorf("guess[%q] = %q; want %q", target, draft.Guess[target], source)
		}
	}

	out, err := p.Run(draft, draft.Guess)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Result.Passed {
		t.Fatalf("validation failed: %q", out.Result.Diagnostics)
	}
	if out.Err() != nil {
		t.Errorf("passing outcome should have no error, got %v", out.Err())
	}
	if len(out.Flights) != 1 {
		t.Fatalf("expected 1 flight, got %d", len(out.Flights))
	}

	f := out.Flights[0]
	if f.Year != 2024 || f.Month != "2024-03" || f.DateStr != "2024-03-01" {
		t.Errorf("derived fields = %d %q %q; want 2024 \"2024-03\" \"2024-03-01\"", f.Year, f.Month, f.DateStr)
	}
	if f.Origin != "FRA" || f.Destination != "LHR" {
		t.Errorf("route = %s -> %s; want FRA -> LHR", f.Origin, f.Destination)
	}
	if f.CO2Kg == nil || *f.CO2Kg != 1800 || f.DestLon != -0.1 {
		t.Errorf("numeric fields not coerced: co2=%v dest_lon=%v", f.CO2Kg, f.DestLon)
	}
}

func TestPipelineSemicolonMatchesComma(t *testing.T) {
	p := newTestPipeline()
	comma := runAuto(t, p, commaFlights)
	semi := runAuto(t, p, semicolonFlights)

	if !reflect.DeepEqual(comma.Flights, semi.Flights) {
		t.Errorf("semicolon result differs:\ncomma: %+v\nsemi:  %+v", *comma.Flights[0], *semi.Flights[0])
	}
}

func TestPipelineUnpaddedDates(t *testing.T) {
	csv := "Date,From,To,Distance,Duration,CO2,OLat,OLon,DLat,DLon\n" +
		"3/1/2024,FRA,LHR,650,90,1800,50.0,8.5,51.5,-0.1\n" +
		"12/5/2023,LHR,FRA,650,85,1700,51.5,-0.1,50.0,8.5\n"

	out := runAuto(t, newTestPipeline(), csv)
	if !out.Result.Passed {
		t.Fatalf("validation failed: %q", out.Result.Diagnostics)
	}
	if len(out.Flights) != 2 {
		t.Fatalf("expected 2 flights, got %d", len(out.Flights))
	}

	want := []string{"2024-03-01", "2023-12-05"}
	for i, f := range out.Flights {
		if f.DateStr != want[i] {
			t.Errorf("flight %d date = %q; want %q", i, f.DateStr, want[i])
		}
	}
	if out.Flights[1].Year != 2023 {
		t.Errorf("flight 1 year = %d; want 2023", out.Flights[1].Year)
	}
}

func TestPipelineRejectsBadMapping(t *testing.T) {
	p := NewPipeline(NewValidator(DefaultThresholds(), locale.New("en")), newTestLogger())
	draft, err := p.Prepare(strings.NewReader(commaFlights))
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	m := CompleteMapping(draft.Guess, models.Mapping{"co2_kg": "co2e"})
	out, err := p.Run(draft, m)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Result.Passed || out.Flights != nil {
		t.Fatalf("mapping to a missing column should fail, got %+v", out.Result)
	}

	want := []string{
		"Target 'co2_kg' is mapped to column 'co2e', which does not exist.",
		"Missing columns: co2_kg",
	}
	if !reflect.DeepEqual(out.Result.Diagnostics, want) {
		t.Errorf("diagnostics = %q; want %q", out.Result.Diagnostics, want)
	}
	if !errors.Is(out.Err(), ErrValidation) {
		t.Errorf("Err() = %v; want ErrValidation", out.Err())
	}
}

func TestPipelinePrepareRejectsGarbage(t *testing.T) {
	_, err := newTestPipeline().Prepare(strings.NewReader(""))
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected *DataLoadError, got %v", err)
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flights.csv")
	csv := "Date,Origin,Destination,Distance_KM,Flight Time Min,CO2_KG,Orig Lat,Orig Lon,Dest Lat,Dest Lon\n" +
		"2023-05-01,FRA,LHR,650,90,1800,50.0,8.5,51.5,-0.1\n" +
		"2023-05-02,MUC,CDG,700,95,1900,,11.7,49.0,2.5\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	flights, err := LoadDefault(path)
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	if len(flights) != 1 || flights[0].Origin != "FRA" {
		t.Errorf("expected only the FRA flight, got %d flights", len(flights))
	}

	_, err = LoadDefault(filepath.Join(dir, "missing.csv"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v; want fs.ErrNotExist", err)
	}
}
