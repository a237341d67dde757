package ingest

import "errors"

// ErrValidation is returned by Outcome.Err when a mapped table did not pass
// validation. The diagnostics themselves live in the ValidationResult.
var ErrValidation = errors.New("ingest: validation failed")

// DataLoadError reports input that could be parsed neither comma- nor
// semicolon-delimited.
type DataLoadError struct {
	Err error
}

func (e *DataLoadError) Error() string {
	return "ingest: CSV could not be read: " + e.Err.Error()
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}
