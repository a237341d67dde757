package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	"jet-tracker/models"
)

func sampleFlights() []*models.Flight {
	return []*models.Flight{
		{
			Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), DateStr: "2024-03-01", Year: 2024, Month: "2024-03",
			Origin: "FRA", Destination: "LHR",
			DistanceKm: models.Float(650), FlightTimeMin: models.Float(90), CO2Kg: models.Float(1800),
			OrigLat: 50.0, OrigLon: 8.5, DestLat: 51.5, DestLon: -0.1,
		},
		{
			Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC), DateStr: "2024-04-02", Year: 2024, Month: "2024-04",
			Origin: "MUC", Destination: "CDG",
			DistanceKm: models.Float(700), FlightTimeMin: nil, CO2Kg: nil,
			OrigLat: 48.35, OrigLon: 11.79, DestLat: 49.01, DestLon: 2.55,
		},
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	if err := w.Write(sampleFlights()[:1]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(sampleFlights()[1:]); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if header != strings.Join(Columns, ",") {
		t.Errorf("header = %q; want %q", header, strings.Join(Columns, ","))
	}

	var rows []csvRow
	if err := csvutil.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Origin != "FRA" || rows[0].CO2Kg != "1800" || rows[0].DestLon != "-0.1" {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[1].CO2Kg != "" || rows[1].FlightTimeMin != "" {
		t.Errorf("missing values should export as empty cells, got %+v", rows[1])
	}
}

func TestCSVWriterEmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != strings.Join(Columns, ",") {
		t.Errorf("output = %q; want header only", got)
	}
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewXLSXWriter(&buf)
	if err := w.Write(sampleFlights()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Columns, ",") {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-03-01" || rows[1][3] != "FRA" || rows[1][7] != "1800" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][6] != "" || rows[2][7] != "" {
		t.Errorf("missing values should be empty cells, got %v", rows[2])
	}
}

func TestNewFileWriter(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out/flights.csv", "out/flights.XLSX"} {
		path := filepath.Join(dir, name)
		w, err := NewFileWriter(path)
		if err != nil {
			t.Fatalf("NewFileWriter(%q): %v", name, err)
		}
		if err := w.Write(sampleFlights()); err != nil {
			t.Fatalf("Write(%q): %v", name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close(%q): %v", name, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		isZip := bytes.HasPrefix(data, []byte("PK"))
		if wantZip := strings.HasSuffix(name, ".XLSX"); isZip != wantZip {
			t.Errorf("%s: zip container = %v; want %v", name, isZip, wantZip)
		}
	}
}
