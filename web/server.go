package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jet-tracker/config"
	"jet-tracker/ingest"
	"jet-tracker/locale"
	"jet-tracker/models"
	"jet-tracker/services"
	"jet-tracker/utils"
)

//go:embed templates/*.html static/*
var assets embed.FS

// uploadSession is the state kept between an upload and later requests.
// Values are replaced as a whole on every change, never mutated.
type uploadSession struct {
	Filename string
	Draft    *ingest.Draft
	Mapping  models.Mapping
	Outcome  *ingest.Outcome
}

// Server bundles the router and the ingestion and reporting services.
type Server struct {
	cfg      *config.Config
	logger   *utils.Logger
	messages *locale.Printer
	pipeline *ingest.Pipeline
	datasets *services.DatasetService
	reports  *services.ReportService
	sessions *utils.SessionStore[*uploadSession]
	engine   *gin.Engine
}

// New constructs a server with routes, middleware and page templates.
func New(cfg *config.Config, logger *utils.Logger) *Server {
	messages := locale.New(cfg.Language)
	validator := ingest.NewValidator(ingest.Thresholds{
		DateInvalidMax:    cfg.DateInvalidMax,
		NumericInvalidMax: cfg.NumericInvalidMax,
		BelowRangeMax:     cfg.BelowRangeMax,
		AboveRangeMax:     cfg.AboveRangeMax,
	}, messages)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.LoggerWithWriter(logger.Writer(), "/healthz"))
	engine.MaxMultipartMemory = cfg.MaxUploadBytes()

	s := &Server{
		cfg:      cfg,
		logger:   logger.With("web"),
		messages: messages,
		pipeline: ingest.NewPipeline(validator, logger),
		datasets: services.NewDatasetService(logger, messages, cfg.DefaultCSVPath, cfg.PlaceholderSeed, cfg.PlaceholderRows),
		reports:  services.NewReportService(logger, messages, cfg.SmallCityTons, cfg.MapSampleSize),
		sessions: utils.NewSessionStore[*uploadSession](cfg.SessionTTL, cfg.MaxSessions),
		engine:   engine,
	}

	pages := template.Must(template.New("").Funcs(template.FuncMap{
		"t":       messages.Sprintf,
		"percent": locale.Percent,
		"round":   messages.Round,
	}).ParseFS(assets, "templates/*.html"))
	engine.SetHTMLTemplate(pages)

	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	static, _ := fs.Sub(assets, "static")
	s.engine.StaticFS("/static", http.FS(static))

	s.engine.GET("/", s.handleDashboardPage)
	s.engine.GET("/sources", s.handleSourcesPage)
	s.engine.GET("/methodology", s.handleMethodologyPage)
	s.engine.GET("/about", s.handleAboutPage)

	api := s.engine.Group("/api")
	api.POST("/uploads", s.handleUpload)
	api.GET("/uploads/:id", s.handleGetUpload)
	api.PUT("/uploads/:id/mapping", s.handlePutMapping)
	api.DELETE("/uploads/:id", s.handleDeleteUpload)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/export.csv", s.handleExportCSV)
	api.GET("/export.xlsx", s.handleExportXLSX)
	api.GET("/sources", s.handleSources)
}
