package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/jszwec/csvutil"

	"jet-tracker/models"
)

// csvRow is one exported flight. Field order and tags match Columns.
type csvRow struct {
	Date          string `csv:"date"`
	Year          int    `csv:"year"`
	Month         string `csv:"month"`
	Origin        string `csv:"origin"`
	Destination   string `csv:"destination"`
	DistanceKm    string `csv:"distance_km"`
	FlightTimeMin string `csv:"flight_time_min"`
	CO2Kg         string `csv:"co2_kg"`
	OrigLat       string `csv:"orig_lat"`
	OrigLon       string `csv:"orig_lon"`
	DestLat       string `csv:"dest_lat"`
	DestLon       string `csv:"dest_lon"`
}

func toCSVRow(f *models.Flight) csvRow {
	return csvRow{
		Date:          f.DateStr,
		Year:          f.Year,
		Month:         f.Month,
		Origin:        f.Origin,
		Destination:   f.Destination,
		DistanceKm:    formatOptional(f.DistanceKm),
		FlightTimeMin: formatOptional(f.FlightTimeMin),
		CO2Kg:         formatOptional(f.CO2Kg),
		OrigLat:       formatFloat(f.OrigLat),
		OrigLon:       formatFloat(f.OrigLon),
		DestLat:       formatFloat(f.DestLat),
		DestLon:       formatFloat(f.DestLon),
	}
}

// CSVWriter writes finalized flights as comma-separated values. The header
// is written once, before the first row. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	writer *csv.Writer
	enc    *csvutil.Encoder
	closer io.Closer
	wrote  bool
}

// NewCSVWriter returns a CSVWriter writing to w. Closing it flushes but does
// not close w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return newCSVWriter(w, nopCloser{})
}

func newCSVWriter(w io.Writer, closer io.Closer) *CSVWriter {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false
	return &CSVWriter{writer: cw, enc: enc, closer: closer}
}

// Write appends flights to the output.
func (c *CSVWriter) Write(flights []*models.Flight) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.wrote {
		if err := c.enc.EncodeHeader(csvRow{}); err != nil {
			return fmt.Errorf("export: csv header: %w", err)
		}
		c.wrote = true
	}
	for _, f := range flights {
		if err := c.enc.Encode(toCSVRow(f)); err != nil {
			return fmt.Errorf("export: csv row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close writes the header if nothing was written yet, flushes and closes the
// destination when the writer owns it.
func (c *CSVWriter) Close() error {
	if err := c.Write(nil); err != nil {
		_ = c.closer.Close()
		return err
	}
	return c.closer.Close()
}
