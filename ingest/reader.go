package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Cells equal to one of these are loaded as missing.
var nanValues = []string{"", "NA", "NaN", "nan", "null", "<nil>"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const sniffSize = 64 << 10

var errEmptyInput = errors.New("empty input")

// ReadCSV parses r as comma-delimited text and, if that fails, rewinds r and
// tries again with semicolons. Every column is loaded as strings; coercion
// happens later in the pipeline.
func ReadCSV(r io.ReadSeeker) (dataframe.DataFrame, error) {
	df, err := readDelimited(r, ',')
	if err == nil {
		return df, nil
	}

	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return dataframe.DataFrame{}, &DataLoadError{Err: fmt.Errorf("rewind: %w", serr)}
	}
	df, err = readDelimited(r, ';')
	if err != nil {
		return dataframe.DataFrame{}, &DataLoadError{Err: err}
	}
	return df, nil
}

func readDelimited(r io.Reader, delim rune) (dataframe.DataFrame, error) {
	text, err := decodeInput(r)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.ReadCSV(text,
		dataframe.WithDelimiter(delim),
		dataframe.WithLazyQuotes(true),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues),
	)
	// gota refuses a header without data rows. That is reported as a load
	// error, and the caller falls back to the placeholder flights.
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}

	// encoding/csv happily reads a semicolon file as a single column
	if delim != ';' && df.Ncol() == 1 && strings.Contains(df.Names()[0], ";") {
		return dataframe.DataFrame{}, fmt.Errorf("single column %q looks semicolon-delimited", df.Names()[0])
	}
	return df, nil
}

// decodeInput returns the input as UTF-8. Input that is not valid UTF-8 is
// decoded from the single-byte charset chardet considers most likely.
func decodeInput(r io.Reader) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errEmptyInput
	}
	if utf8.Valid(raw) {
		return bytes.NewReader(raw), nil
	}

	sample := raw
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}
	return transform.NewReader(bytes.NewReader(raw), legacyDecoder(sample)), nil
}

func legacyDecoder(sample []byte) *encoding.Decoder {
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return charmap.Windows1252.NewDecoder()
	}
	switch strings.ToLower(res.Charset) {
	case "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	case "iso-8859-2":
		return charmap.ISO8859_2.NewDecoder()
	case "windows-1250":
		return charmap.Windows1250.NewDecoder()
	case "iso-8859-9":
		return charmap.ISO8859_9.NewDecoder()
	default:
		return charmap.Windows1252.NewDecoder()
	}
}
