package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"jet-tracker/config"
	"jet-tracker/locale"
	"jet-tracker/models"
	"jet-tracker/services"
	"jet-tracker/snapshot"
	"jet-tracker/storage"
	"jet-tracker/utils"
	"jet-tracker/web"
)

func main() {
	snapshotOut := flag.String("snapshot", "", "render the dashboard to this PNG file and exit")
	exportOut := flag.String("export", "", "write the default dataset to this .csv or .xlsx file and exit")
	year := flag.Int("year", 0, "restrict -snapshot and -export to one year (0 = all years)")
	flag.Parse()

	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	logger.Info("=== Private Jet Tracker starting ===")
	logger.Info("Config: port %d | language %s | default CSV %s | upload limit %d MB",
		cfg.Port, cfg.Language, cfg.DefaultCSVPath, cfg.MaxUploadMB)

	if *exportOut != "" {
		if err := export(cfg, logger, *exportOut, *year); err != nil {
			logger.Error("Export failed: %v", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.New(cfg, logger)

	if *snapshotOut != "" {
		if err := captureDashboard(ctx, cfg, logger, server, *snapshotOut, *year); err != nil {
			logger.Error("Snapshot failed: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := server.Run(ctx); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("Bye.")
}

// export writes the default dataset (or its placeholder fallback) to path.
func export(cfg *config.Config, logger *utils.Logger, path string, year int) error {
	messages := locale.New(cfg.Language)
	datasets := services.NewDatasetService(logger, messages, cfg.DefaultCSVPath, cfg.PlaceholderSeed, cfg.PlaceholderRows)
	ds := datasets.Resolve(services.Selection{Source: models.SourceDefault})
	for _, n := range ds.Notices {
		logger.Info("%s", n)
	}

	flights, applied := services.SelectYear(ds.Flights, year)

	w, err := storage.NewFileWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(flights); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	logger.Info("Wrote %d %s flights (year %d) to %s", len(flights), ds.Source, applied, path)
	return nil
}

// captureDashboard serves the dashboard in the background, screenshots it
// and shuts the server down again.
func captureDashboard(ctx context.Context, cfg *config.Config, logger *utils.Logger, server *web.Server, out string, year int) error {
	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Run(serveCtx) }()

	base := "http://localhost:" + strconv.Itoa(cfg.Port)
	wait := &utils.RetryConfig{MaxAttempts: 8, BaseDelay: 100 * time.Millisecond, Logger: logger}
	err := wait.Do(ctx, "wait-for-server", func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/healthz", nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("healthz returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		return err
	}

	url := base + "/"
	if year != 0 {
		url += "?year=" + strconv.Itoa(year)
	}
	result, err := snapshot.New(logger, 3).Capture(ctx, snapshot.Options{
		URL:       url,
		Out:       out,
		ChromeBin: cfg.ChromeBin,
		Timeout:   cfg.SnapshotTimeout,
	})
	if err != nil {
		return err
	}
	for _, tile := range result.Tiles {
		logger.Info("%s: %s", tile.Title, tile.Value)
	}

	cancel()
	if err := <-serveErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
