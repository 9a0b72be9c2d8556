package snapshot

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"laptop-price/utils"
)

func newTestCapturer(t *testing.T, base string) *Capturer {
	t.Helper()
	c, err := New(Options{BaseURL: base, OutputDir: t.TempDir()}, utils.NewLoggerTo(io.Discard))
	if err != nil {
		t.Fatalf("New(%q): %v", base, err)
	}
	return c
}

func TestNewRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"empty base", Options{OutputDir: "out"}},
		{"relative base", Options{BaseURL: "/dashboard", OutputDir: "out"}},
		{"ftp base", Options{BaseURL: "ftp://example.com", OutputDir: "out"}},
		{"no output dir", Options{BaseURL: "http://localhost:8080"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts, utils.NewLoggerTo(io.Discard)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c := newTestCapturer(t, "http://localhost:8080")
	if c.opts.Concurrency != 1 {
		t.Errorf("Concurrency: got %d, want 1", c.opts.Concurrency)
	}
	if c.opts.Timeout != 60*time.Second || c.opts.Settle != 2*time.Second {
		t.Errorf("Timeout/Settle: got %v/%v", c.opts.Timeout, c.opts.Settle)
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://localhost:8080", "/", "http://localhost:8080/"},
		{"http://localhost:8080/", "/analysis", "http://localhost:8080/analysis"},
		{"https://example.com/laptops", "/predict", "https://example.com/laptops/predict"},
		{"https://example.com/laptops/", "analysis", "https://example.com/laptops/analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.base+tt.path, func(t *testing.T) {
			c := newTestCapturer(t, tt.base)
			if got := c.PageURL(Page{Path: tt.path}); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	c := newTestCapturer(t, "http://localhost:8080")
	for _, p := range DefaultPages {
		want := filepath.Join(c.opts.OutputDir, p.File)
		if got := c.OutputPath(p); got != want {
			t.Errorf("%s: got %q, want %q", p.Path, got, want)
		}
	}
}

func TestFindChromeBinaryPrefersConfigured(t *testing.T) {
	if got := findChromeBinary("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("got %q, want /custom/chrome", got)
	}
}
