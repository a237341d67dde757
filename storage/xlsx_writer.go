package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/xuri/excelize/v2"

	"jet-tracker/models"
)

// SheetName is the worksheet XLSX exports are written to.
const SheetName = "flights"

// XLSXWriter collects flights into a single worksheet and writes the
// workbook when closed.
type XLSXWriter struct {
	mu     sync.Mutex
	file   *excelize.File
	out    io.Writer
	closer io.Closer
	row    int
	err    error
}

// NewXLSXWriter returns an XLSXWriter that writes the workbook to w on
// Close. It does not close w.
func NewXLSXWriter(w io.Writer) *XLSXWriter {
	return newXLSXWriter(w, nopCloser{})
}

func newXLSXWriter(w io.Writer, closer io.Closer) *XLSXWriter {
	f := excelize.NewFile()
	x := &XLSXWriter{file: f, out: w, closer: closer, row: 1}
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		x.err = fmt.Errorf("export: xlsx sheet: %w", err)
		return x
	}
	x.err = x.setRow(Columns)
	return x
}

// Write appends flights below the rows written so far. Missing values stay
// empty cells.
func (x *XLSXWriter) Write(flights []*models.Flight) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.err != nil {
		return x.err
	}
	for _, f := range flights {
		cells := []any{
			f.DateStr, f.Year, f.Month, f.Origin, f.Destination,
			optionalCell(f.DistanceKm), optionalCell(f.FlightTimeMin), optionalCell(f.CO2Kg),
			f.OrigLat, f.OrigLon, f.DestLat, f.DestLon,
		}
		if err := x.setRow(cells); err != nil {
			x.err = err
			return err
		}
	}
	return nil
}

// Close writes the workbook and releases it.
func (x *XLSXWriter) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	err := x.err
	if err == nil {
		if werr := x.file.Write(x.out); werr != nil {
			err = fmt.Errorf("export: write xlsx: %w", werr)
		}
	}
	if cerr := x.file.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("export: close xlsx: %w", cerr)
	}
	if cerr := x.closer.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return err
}

func (x *XLSXWriter) setRow(values any) error {
	var cells []any
	switch v := values.(type) {
	case []string:
		for _, s := range v {
			cells = append(cells, s)
		}
	case []any:
		cells = v
	}

	for i, val := range cells {
		if val == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, x.row)
		if err != nil {
			return fmt.Errorf("export: xlsx cell: %w", err)
		}
		if err := x.file.SetCellValue(SheetName, cell, val); err != nil {
			return fmt.Errorf("export: xlsx cell %s: %w", cell, err)
		}
	}
	x.row++
	return nil
}

func optionalCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
