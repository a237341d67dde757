package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jet-tracker/ingest"
	"jet-tracker/models"
	"jet-tracker/services"
	"jet-tracker/storage"
)

// handleUpload reads a CSV, proposes a mapping and validates the proposal
// right away.
// POST /api/uploads (multipart, field "file")
func (s *Server) handleUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes())

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	draft, err := s.pipeline.Prepare(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": s.messages.Sprintf("Error while loading: %s", err.Error())})
		return
	}

	outcome, err := s.pipeline.Run(draft, draft.Guess)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sess := &uploadSession{
		Filename: header.Filename,
		Draft:    draft,
		Mapping:  draft.Guess.Clone(),
		Outcome:  outcome,
	}
	id := s.sessions.Create(sess)
	s.logger.Info("Upload %s (%s): %d rows, passed=%t", id, header.Filename, draft.Rows(), outcome.Result.Passed)

	c.JSON(http.StatusCreated, sessionView(id, sess))
}

// GET /api/uploads/:id
func (s *Server) handleGetUpload(c *gin.Context) {
	id := c.Param("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNoSession.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(id, sess))
}

// handlePutMapping applies manual overrides on top of the session's current
// mapping. An empty column name unassigns the target. The merge runs under
// the session lock so concurrent edits accumulate.
// PUT /api/uploads/:id/mapping
func (s *Server) handlePutMapping(c *gin.Context) {
	id := c.Param("id")
	if _, ok := s.sessions.Get(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNoSession.Error()})
		return
	}

	var overrides models.Mapping
	if err := c.ShouldBindJSON(&overrides); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mapping body"})
		return
	}

	var (
		next   *uploadSession
		runErr error
	)
	ok := s.sessions.Update(id, func(cur *uploadSession) *uploadSession {
		mapping := ingest.CompleteMapping(cur.Mapping, overrides)
		outcome, err := s.pipeline.Run(cur.Draft, mapping)
		if err != nil {
			runErr = err
			return cur
		}
		next = &uploadSession{
			Filename: cur.Filename,
			Draft:    cur.Draft,
			Mapping:  mapping,
			Outcome:  outcome,
		}
		return next
	})
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrNoSession.Error()})
		return
	}
	if runErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": runErr.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionView(id, next))
}

// DELETE /api/uploads/:id
func (s *Server) handleDeleteUpload(c *gin.Context) {
	s.sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// handleDashboard returns the full report for the selected dataset.
// GET /api/dashboard?source=&session=&year=
func (s *Server) handleDashboard(c *gin.Context) {
	ds, year, ok := s.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.reports.Generate(ds, year))
}

// GET /api/export.csv
func (s *Server) handleExportCSV(c *gin.Context) {
	s.export(c, "flights.csv", "text/csv; charset=utf-8", func(w io.Writer) storage.FlightWriter {
		return storage.NewCSVWriter(w)
	})
}

// GET /api/export.xlsx
func (s *Server) handleExportXLSX(c *gin.Context) {
	s.export(c, "flights.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(w io.Writer) storage.FlightWriter {
		return storage.NewXLSXWriter(w)
	})
}

func (s *Server) export(c *gin.Context, filename, contentType string, newWriter func(io.Writer) storage.FlightWriter) {
	ds, year, ok := s.resolve(c)
	if !ok {
		return
	}
	flights, _ := services.SelectYear(ds.Flights, year)

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	w := newWriter(c.Writer)
	if err := w.Write(flights); err != nil {
		s.logger.Error("Export %s failed: %v", filename, err)
		return
	}
	if err := w.Close(); err != nil {
		s.logger.Error("Export %s failed: %v", filename, err)
	}
}

// handleSources returns the raw default CSV and what each column means.
// GET /api/sources
func (s *Server) handleSources(c *gin.Context) {
	table, err := s.sourceTable()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, table)
}

// resolve picks the dataset and year a dashboard or export request asks for.
// It writes a 400 response and returns ok=false on bad parameters.
func (s *Server) resolve(c *gin.Context) (ds models.Dataset, year int, ok bool) {
	sel, err := s.selection(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ds, 0, false
	}
	ds = s.datasets.Resolve(sel)

	year, err = parseYear(c.Query("year"), ds.Flights)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return ds, 0, false
	}
	return ds, year, true
}

func (s *Server) selection(c *gin.Context) (services.Selection, error) {
	id := c.Query("session")
	source := models.DataSource(c.Query("source"))
	if source == "" {
		source = models.SourceDefault
		if id != "" {
			source = models.SourceUpload
		}
	}

	switch source {
	case models.SourceDefault, models.SourcePlaceholder:
		return services.Selection{Source: source}, nil
	case models.SourceUpload:
		sess, ok := s.sessions.Get(id)
		if !ok {
			return services.Selection{Source: source, Err: services.ErrNoSession}, nil
		}
		return services.Selection{Source: source, Outcome: sess.Outcome}, nil
	default:
		return services.Selection{}, fmt.Errorf("invalid source %q", source)
	}
}

// parseYear reads the year parameter: empty or "all" for every year,
// "latest" for the newest year in flights, or a calendar year.
func parseYear(raw string, flights []*models.Flight) (int, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "all":
		return 0, nil
	case "latest":
		years, _ := services.YearsOf(flights)
		return years.Max, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func sessionView(id string, sess *uploadSession) gin.H {
	return gin.H{
		"session_id":    id,
		"filename":      sess.Filename,
		"columns":       sess.Draft.Columns,
		"row_count":     sess.Draft.Rows(),
		"mapping_guess": sess.Draft.Guess,
		"mapping":       sess.Mapping,
		"targets":       models.TargetFields,
		"result":        sess.Outcome.Result,
	}
}
