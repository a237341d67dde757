package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"jet-tracker/locale"
	"jet-tracker/models"
)

// Thresholds are the maximum tolerated shares of bad cells, as ratios of all
// rows. A check fails when its share is strictly greater than the threshold.
type Thresholds struct {
	DateInvalidMax    float64
	NumericInvalidMax float64
	BelowRangeMax     float64
	AboveRangeMax     float64
}

// DefaultThresholds returns 20% invalid dates, 30% invalid numbers, 10% below
// range and 5% above range.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DateInvalidMax:    0.20,
		NumericInvalidMax: 0.30,
		BelowRangeMax:     0.10,
		AboveRangeMax:     0.05,
	}
}

// PlausibleRange is the accepted value range of a numeric field.
type PlausibleRange struct {
	Field    string
	Min, Max float64
}

// PlausibleRanges are checked in this order.
var PlausibleRanges = []PlausibleRange{
	{models.FieldDistanceKm, 1, 20000},
	{models.FieldFlightTimeMin, 1, 2000},
	{models.FieldCO2Kg, 0, 500000},
}

// Validator checks a mapped table. Messages selects the diagnostic language;
// nil means German.
type Validator struct {
	Thresholds Thresholds
	Messages   *locale.Printer
}

// NewValidator returns a Validator with the given thresholds and language.
func NewValidator(th Thresholds, messages *locale.Printer) *Validator {
	return &Validator{Thresholds: th, Messages: messages}
}

func (v *Validator) printer() *locale.Printer {
	if v.Messages == nil {
		return locale.New("de")
	}
	return v.Messages
}

// Validate runs every check on df and collects one diagnostic per failed
// check. No check is skipped because an earlier one failed.
func (v *Validator) Validate(df dataframe.DataFrame) models.ValidationResult {
	p := v.printer()
	th := v.Thresholds
	has := columnSet(df)
	rows := df.Nrow()

	var diags []string

	var missing []string
	for _, f := range models.TargetFields {
		if !has[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		diags = append(diags, p.Sprintf("Missing columns: %s", strings.Join(missing, ", ")))
	}

	if has[models.FieldDate] {
		bad := 0
		for _, cell := range cells(df.Col(models.FieldDate)) {
			if _, ok := ParseDate(cell); !ok {
				bad++
			}
		}
		if share(bad, rows) > th.DateInvalidMax {
			diags = append(diags, p.Sprintf("Many invalid date values in '%s' (more than %s).",
				models.FieldDate, locale.Percent(th.DateInvalidMax)))
		}
	}

	for _, rg := range PlausibleRanges {
		if !has[rg.Field] {
			continue
		}
		var invalid, below, above int
		for _, x := range toNumeric(df.Col(rg.Field)) {
			switch {
			case math.IsNaN(x):
				invalid++
			case x < rg.Min:
				below++
			case x > rg.Max:
				above++
			}
		}

		if share(invalid, rows) > th.NumericInvalidMax {
			diags = append(diags, p.Sprintf("Many invalid values in '%s' (more than %s).",
				rg.Field, locale.Percent(th.NumericInvalidMax)))
			continue
		}
		if share(below, rows) > th.BelowRangeMax {
			diags = append(diags, p.Sprintf("Implausible values: '%s' frequently < %s.", rg.Field, locale.Plain(rg.Min)))
		}
		if share(above, rows) > th.AboveRangeMax {
			diags = append(diags, p.Sprintf("Implausible values: '%s' partly > %s.", rg.Field, locale.Plain(rg.Max)))
		}
	}

	return models.NewValidationResult(diags)
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}

func columnSet(df dataframe.DataFrame) map[string]bool {
	has := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		has[name] = true
	}
	return has
}

// cells returns the column as strings, with missing cells as "".
func cells(s series.Series) []string {
	out := s.Records()
	for i, na := range s.IsNaN() {
		if na {
			out[i] = ""
		}
	}
	return out
}

// toNumeric coerces a string column to float64. Cells that are missing or
// do not parse become NaN.
func toNumeric(s series.Series) []float64 {
	values := cells(s)
	out := make([]float64, len(values))
	for i, cell := range values {
		out[i] = parseNumber(cell)
	}
	return out
}

func parseNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	x, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return x
}
