package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"jet-tracker/models"
	"jet-tracker/utils"
)

// Draft is an uploaded table after reading and normalization, waiting for a
// confirmed mapping.
type Draft struct {
	Table   dataframe.DataFrame
	Columns []string
	Guess   models.Mapping
}

// Rows returns the number of data rows in the draft.
func (d *Draft) Rows() int {
	return d.Table.Nrow()
}

// Outcome is the result of running a mapping over a draft. Flights is nil
// unless Result passed.
type Outcome struct {
	Result  models.ValidationResult
	Flights []*models.Flight
}

// Err returns nil for a passing outcome and an error wrapping ErrValidation
// otherwise.
func (o *Outcome) Err() error {
	if o.Result.Passed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(o.Result.Diagnostics, "; "))
}

// Pipeline runs the ingestion steps for one upload at a time. It holds no
// per-upload state and is safe for concurrent use.
type Pipeline struct {
	validator *Validator
	logger    *utils.Logger
}

// NewPipeline creates a Pipeline that validates with v.
func NewPipeline(v *Validator, logger *utils.Logger) *Pipeline {
	return &Pipeline{validator: v, logger: logger.With("ingest")}
}

// Validator returns the validator the pipeline checks mappings with.
func (p *Pipeline) Validator() *Validator {
	return p.validator
}

// Prepare reads and normalizes r and proposes a mapping.
func (p *Pipeline) Prepare(r io.ReadSeeker) (*Draft, error) {
	raw, err := ReadCSV(r)
	if err != nil {
		p.logger.Warn("Upload rejected: %v", err)
		return nil, err
	}
	table := NormalizeColumns(raw)
	if table.Err != nil {
		return nil, &DataLoadError{Err: table.Err}
	}

	columns := table.Names()
	guess := AutoMap(columns)
	p.logger.Info("Read %d rows, %d columns; auto-mapped %d of %d targets",
		table.Nrow(), len(columns), len(guess), len(models.TargetFields))
	return &Draft{Table: table, Columns: columns, Guess: guess}, nil
}

// Run checks and applies m, validates the mapped table and, if it passes,
// finalizes it. A failed validation is reported in the Outcome, not as an
// error.
func (p *Pipeline) Run(d *Draft, m models.Mapping) (*Outcome, error) {
	if d == nil {
		return nil, errors.New("ingest: run: no draft")
	}

	diags := p.validator.CheckMapping(d.Columns, m)
	mapped := ApplyMapping(d.Table, m)
	if mapped.Err != nil {
		return nil, fmt.Errorf("ingest: apply mapping: %w", mapped.Err)
	}

	checked := p.validator.Validate(mapped)
	result := models.NewValidationResult(append(diags, checked.Diagnostics...))
	if !result.Passed {
		p.logger.Info("Mapping rejected with %d diagnostics", len(result.Diagnostics))
		return &Outcome{Result: result}, nil
	}

	flights := Finalize(mapped)
	p.logger.Info("Finalized %d of %d rows", len(flights), d.Rows())
	return &Outcome{Result: result, Flights: flights}, nil
}

// LoadDefault reads the default dataset at path. Its columns must already be
// named after the target fields, so no mapping step runs. A missing file
// yields an error matching fs.ErrNotExist.
func LoadDefault(path string) ([]*models.Flight, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Finalize(NormalizeColumns(raw)), nil
}

// ReadFile opens path and reads it with ReadCSV, leaving column names as
// they are in the file.
func ReadFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("ingest: %s: %w", path, err)
	}
	return raw, nil
}
