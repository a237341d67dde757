package services

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"jet-tracker/ingest"
	"jet-tracker/locale"
	"jet-tracker/models"
	"jet-tracker/utils"
)

// ErrNoSession marks a request for an upload session that does not exist
// (never created, deleted or expired).
var ErrNoSession = errors.New("upload session not found")

// Selection describes the dataset a request asks for.
type Selection struct {
	Source models.DataSource
	// Outcome is the latest mapping result of the upload session; nil when
	// no mapping has been confirmed yet.
	Outcome *ingest.Outcome
	// Err is set when the upload could not be used at all.
	Err error
}

// DatasetService decides which flights the reporting layer gets. It never
// fails: whenever the requested data is unusable it substitutes the
// placeholder dataset and says why in the notices.
type DatasetService struct {
	logger      *utils.Logger
	messages    *locale.Printer
	defaultPath string

	placeholderOnce sync.Once
	placeholder     []*models.Flight
	seed            int64
	rows            int
}

// NewDatasetService creates a DatasetService reading the default dataset
// from defaultPath and generating rows placeholder flights from seed.
func NewDatasetService(logger *utils.Logger, messages *locale.Printer, defaultPath string, seed int64, rows int) *DatasetService {
	return &DatasetService{
		logger:      logger.With("dataset"),
		messages:    messages,
		defaultPath: defaultPath,
		seed:        seed,
		rows:        rows,
	}
}

// Resolve returns the dataset for sel.
func (s *DatasetService) Resolve(sel Selection) models.Dataset {
	var ds models.Dataset
	switch sel.Source {
	case models.SourceUpload:
		ds = s.fromUpload(sel)
	case models.SourcePlaceholder:
		ds = s.Placeholder(s.messages.Sprintf("Demo data active."))
	default:
		ds = s.fromDefault()
	}

	if len(ds.Flights) == 0 {
		s.logger.Warn("Dataset %s is empty, falling back to placeholder", ds.Source)
		ds = s.Placeholder(append(ds.Notices, s.messages.Sprintf("No data available, demo data loaded."))...)
	}
	return ds
}

// Placeholder returns the synthetic dataset with the given notices.
func (s *DatasetService) Placeholder(notices ...string) models.Dataset {
	s.placeholderOnce.Do(func() {
		s.placeholder = ingest.Placeholder(s.seed, s.rows)
	})
	return models.Dataset{Source: models.SourcePlaceholder, Flights: s.placeholder, Notices: notices}
}

// DefaultPath is where the default dataset is read from.
func (s *DatasetService) DefaultPath() string {
	return s.defaultPath
}

func (s *DatasetService) fromDefault() models.Dataset {
	flights, err := ingest.LoadDefault(s.defaultPath)
	if err != nil {
		s.logger.Warn("Default CSV unavailable: %v", err)
		return s.Placeholder(s.messages.Sprintf("Default CSV could not be loaded, demo data active."))
	}
	name := strings.TrimSuffix(filepath.Base(s.defaultPath), filepath.Ext(s.defaultPath))
	return models.Dataset{
		Source:  models.SourceDefault,
		Flights: flights,
		Notices: []string{s.messages.Sprintf("Default dataset: %s", name)},
	}
}

func (s *DatasetService) fromUpload(sel Selection) models.Dataset {
	p := s.messages
	switch {
	case errors.Is(sel.Err, ErrNoSession):
		return s.Placeholder(p.Sprintf("Upload session not found, demo data active."))
	case sel.Err != nil:
		return s.Placeholder(p.Sprintf("Error while loading: %s", sel.Err.Error()))
	case sel.Outcome == nil:
		return s.Placeholder(p.Sprintf("No mapping confirmed yet for the uploaded CSV."))
	case !sel.Outcome.Result.Passed:
		notices := []string{p.Sprintf("CSV recognised but not yet valid.")}
		notices = append(notices, sel.Outcome.Result.Diagnostics...)
		notices = append(notices, p.Sprintf("Please fix the mapping or CSV, or switch to demo data."))
		return s.Placeholder(notices...)
	}

	flights := sel.Outcome.Flights
	return models.Dataset{
		Source:  models.SourceUpload,
		Flights: flights,
		Notices: []string{p.Sprintf("CSV loaded: %d flights", len(flights))},
	}
}
