package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jet-tracker/ingest"
	"jet-tracker/models"
	"jet-tracker/services"
)

// SourceColumn explains one column of the default dataset.
type SourceColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SourceTable is the raw default CSV as shown on the data sources page.
type SourceTable struct {
	Path    string         `json:"path"`
	Header  []string       `json:"header"`
	Rows    [][]string     `json:"rows"`
	Columns []SourceColumn `json:"columns"`
}

var columnDescriptions = [][2]string{
	{models.FieldDate, "Flight date"},
	{models.FieldOrigin, "Departure airport"},
	{models.FieldDestination, "Destination airport"},
	{models.FieldDistanceKm, "Flight distance in kilometres"},
	{models.FieldFlightTimeMin, "Flight duration in minutes"},
	{models.FieldCO2Kg, "Estimated CO₂ emissions in kilograms"},
	{models.FieldOrigLat + " / " + models.FieldOrigLon, "Coordinates of the departure airport"},
	{models.FieldDestLat + " / " + models.FieldDestLon, "Coordinates of the destination airport"},
}

type pageData struct {
	Lang  string
	Page  string
	Title string
}

func (s *Server) page(name, title string) pageData {
	return pageData{Lang: s.messages.Lang(), Page: name, Title: title}
}

// GET /
func (s *Server) handleDashboardPage(c *gin.Context) {
	ds, year := s.resolvePage(c)
	report := s.reports.Generate(ds, year)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"P":         s.page("dashboard", s.messages.Sprintf("Dashboard")),
		"Report":    report,
		"Source":    string(ds.Source),
		"Session":   c.Query("session"),
		"YearValue": yearValue(report),
		"Targets":   models.TargetFields,
	})
}

// GET /sources
func (s *Server) handleSourcesPage(c *gin.Context) {
	table, err := s.sourceTable()
	c.HTML(http.StatusOK, "sources.html", gin.H{
		"P":     s.page("sources", s.messages.Sprintf("Data sources")),
		"Table": table,
		"Error": err,
		"Path":  s.datasets.DefaultPath(),
	})
}

// GET /methodology
func (s *Server) handleMethodologyPage(c *gin.Context) {
	th := s.pipeline.Validator().Thresholds
	c.HTML(http.StatusOK, "methodology.html", gin.H{
		"P":             s.page("methodology", s.messages.Sprintf("Methodology")),
		"Thresholds":    th,
		"Ranges":        ingest.PlausibleRanges,
		"SmallCityTons": s.cfg.SmallCityTons,
	})
}

// GET /about
func (s *Server) handleAboutPage(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", gin.H{
		"P": s.page("about", s.messages.Sprintf("About")),
	})
}

// resolvePage is resolve for HTML pages: bad parameters fall back to the
// defaults instead of failing the page.
func (s *Server) resolvePage(c *gin.Context) (models.Dataset, int) {
	sel, err := s.selection(c)
	if err != nil {
		s.logger.Debug("Ignoring bad selection: %v", err)
		sel = services.Selection{Source: models.SourceDefault}
	}
	ds := s.datasets.Resolve(sel)
	year, err := parseYear(c.Query("year"), ds.Flights)
	if err != nil {
		s.logger.Debug("Ignoring bad year: %v", err)
		year = 0
	}
	return ds, year
}

// yearValue is where the year slider starts: the selected year, or the
// newest one when all years are shown.
func yearValue(r *models.DashboardReport) int {
	if r.SelectedYear != 0 {
		return r.SelectedYear
	}
	return r.Years.Max
}

func (s *Server) sourceTable() (*SourceTable, error) {
	path := s.datasets.DefaultPath()
	df, err := ingest.ReadFile(path)
	if err != nil {
		s.logger.Warn("Default CSV unavailable: %v", err)
		return nil, errors.New(s.messages.Sprintf("The CSV file could not be found. Make sure it is located at %s.", path))
	}

	records := df.Records()
	table := &SourceTable{Path: path, Header: records[0], Rows: records[1:]}
	for _, row := range table.Rows {
		for i, cell := range row {
			if cell == "NaN" {
				row[i] = ""
			}
		}
	}
	for _, d := range columnDescriptions {
		table.Columns = append(table.Columns, SourceColumn{Name: d[0], Description: s.messages.Sprintf(d[1])})
	}
	return table, nil
}
