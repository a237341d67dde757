// Package snapshot renders the dashboard in headless Chrome and saves a
// full-page screenshot together with the KPI tiles it displayed.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"jet-tracker/models"
	"jet-tracker/utils"
)

// Options controls a single capture.
type Options struct {
	URL       string
	Out       string
	ChromeBin string
	Timeout   time.Duration
	Width     int64
	Height    int64
	// Quality is the PNG/JPEG quality passed to Chrome; 100 keeps PNG output.
	Quality int
}

// Result describes what was captured.
type Result struct {
	Path  string
	Bytes int
	Tiles []models.KPITile
}

// Capturer drives the browser.
type Capturer struct {
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a Capturer that retries a failed page load up to attempts times.
func New(logger *utils.Logger, attempts int) *Capturer {
	logger = logger.With("snapshot")
	return &Capturer{
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: attempts,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

const tilesScript = `
	Array.from(document.querySelectorAll('.kpi-tile')).map(function(el) {
		return {
			key:   el.dataset.key || '',
			title: (el.querySelector('.kpi-title') || el).innerText.trim(),
			value: (el.querySelector('.kpi-value') || el).innerText.trim()
		};
	})
`

// Capture loads opts.URL, waits for the KPI tiles and writes a full-page
// screenshot to opts.Out.
func (c *Capturer) Capture(ctx context.Context, opts Options) (*Result, error) {
	if opts.URL == "" || opts.Out == "" {
		return nil, errors.New("snapshot: url and output path are required")
	}
	opts = withDefaults(opts)

	chromeBin := findChromeBinary(opts.ChromeBin)
	c.logger.Info("Using browser binary: %s", chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(chromeBin)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var (
		shot  []byte
		tiles []models.KPITile
	)
	err := c.retry.Do(ctx, "capture-dashboard", func(context.Context) error {
		tabCtx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, opts.Timeout)
		defer cancelTimeout()

		tiles = nil
		err := chromedp.Run(tabCtx,
			chromedp.EmulateViewport(opts.Width, opts.Height),
			chromedp.Navigate(opts.URL),
			chromedp.WaitVisible(".kpi-tile", chromedp.ByQuery),
			// charts and map tiles render asynchronously
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(tilesScript, &tiles),
			chromedp.FullScreenshot(&shot, opts.Quality),
		)
		if err != nil {
			return fmt.Errorf("chromedp run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Out), 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(opts.Out, shot, 0o644); err != nil {
		return nil, fmt.Errorf("snapshot: write %s: %w", opts.Out, err)
	}

	c.logger.Info("Saved %s (%d bytes, %d tiles)", opts.Out, len(shot), len(tiles))
	return &Result{Path: opts.Out, Bytes: len(shot), Tiles: tiles}, nil
}

func withDefaults(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Width <= 0 {
		opts.Width = 1440
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 100
	}
	return opts
}

func allocatorOptions(chromeBin string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}
	return opts
}

// findChromeBinary returns configured if set, otherwise the first Chrome or
// Chromium found on PATH or in a well-known location. An empty result lets
// chromedp use its own lookup.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
