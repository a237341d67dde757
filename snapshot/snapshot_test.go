package snapshot

import (
	"bytes"
	"context"
	"testing"
	"time"

	"jet-tracker/utils"
)

func newTestLogger() *utils.Logger {
	var buf bytes.Buffer
	return utils.NewLoggerTo(&buf, &buf, utils.LevelDebug)
}

func TestCaptureRequiresURLAndOutput(t *testing.T) {
	c := New(newTestLogger(), 1)
	tests := []Options{
		{},
		{URL: "http://localhost:8080/"},
		{Out: "out.png"},
	}
	for _, opts := range tests {
		if _, err := c.Capture(context.Background(), opts); err == nil {
			t.Errorf("Capture(%+v) succeeded; want error", opts)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	got := withDefaults(Options{Quality: 250})
	if got.Timeout != 60*time.Second || got.Width != 1440 || got.Height != 900 || got.Quality != 100 {
		t.Errorf("withDefaults = %+v", got)
	}

	kept := withDefaults(Options{Timeout: time.Second, Width: 800, Height: 600, Quality: 80})
	if kept.Timeout != time.Second || kept.Width != 800 || kept.Height != 600 || kept.Quality != 80 {
		t.Errorf("withDefaults overwrote explicit values: %+v", kept)
	}
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	if got := findChromeBinary("/opt/custom/chrome"); got != "/opt/custom/chrome" {
		t.Errorf("findChromeBinary = %q; want the configured path", got)
	}
}

func TestAllocatorOptions(t *testing.T) {
	without := allocatorOptions("")
	with := allocatorOptions("/usr/bin/chromium")
	if len(with) != len(without)+1 {
		t.Errorf("ExecPath not appended: %d vs %d options", len(with), len(without))
	}
}
