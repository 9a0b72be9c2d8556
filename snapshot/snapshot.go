package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"laptop-price/utils"
)

// Page is one dashboard route and the file its screenshot is saved to.
type Page struct {
	Path string
	File string
}

// DefaultPages are the three dashboard views.
var DefaultPages = []Page{
	{Path: "/", File: "dashboard.png"},
	{Path: "/analysis", File: "analysis.png"},
	{Path: "/predict", File: "predict.png"},
}

type Options struct {
	BaseURL     string
	OutputDir   string
	Concurrency int
	RateLimitMs int
	MaxRetries  int
	ChromeBin   string
	// Timeout bounds a single capture attempt.
	Timeout time.Duration
	// Settle is how long to wait after load for charts to render.
	Settle time.Duration
}

// Capturer screenshots dashboard pages with headless Chrome.
type Capturer struct {
	opts   Options
	base   *url.URL
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New validates opts and fills in defaults.
func New(opts Options, logger *utils.Logger) (*Capturer, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("snapshot base url: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("snapshot base url %q must be an absolute http(s) url", opts.BaseURL)
	}
	if opts.OutputDir == "" {
		return nil, errors.New("snapshot output dir is empty")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Settle <= 0 {
		opts.Settle = 2 * time.Second
	}

	logger = logger.With("snapshot")
	return &Capturer{
		opts:   opts,
		base:   base,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}, nil
}

// PageURL resolves a page path against the base URL, keeping any path
// prefix the base carries.
func (c *Capturer) PageURL(p Page) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(p.Path, "/")
	u.RawPath = ""
	return u.String()
}

// OutputPath is where the screenshot of p is written.
func (c *Capturer) OutputPath(p Page) string {
	return filepath.Join(c.opts.OutputDir, p.File)
}

// Capture saves a full-page PNG of every page and returns the paths
// written. Pages that fail after all retries are reported in the error;
// the others are still saved.
func (c *Capturer) Capture(ctx context.Context, pages []Page) ([]string, error) {
	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	chromeBin := findChromeBinary(c.opts.ChromeBin)
	c.logger.Info("Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 900),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser once so pages open as tabs of the same process.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	saved := make([]string, len(pages))
	pool := utils.NewWorkerPool(c.opts.Concurrency, c.opts.RateLimitMs)
	for i, p := range pages {
		i, p := i, p
		pool.Submit(func() error {
			err := c.retry.Do(ctx, "snapshot "+p.Path, func(ctx context.Context) error {
				return c.capturePage(browserCtx, p)
			})
			if err != nil {
				c.logger.Error("Capture of %s failed: %v", p.Path, err)
				return err
			}
			saved[i] = c.OutputPath(p)
			c.logger.Info("Saved %s", saved[i])
			return nil
		})
	}
	errs := pool.Wait()

	out := make([]string, 0, len(pages))
	for _, s := range saved {
		if s != "" {
			out = append(out, s)
		}
	}
	return out, errors.Join(errs...)
}

func (c *Capturer) capturePage(browserCtx context.Context, p Page) error {
	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.opts.Timeout)
	defer cancelTimeout()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(c.PageURL(p)),
		chromedp.WaitVisible("main", chromedp.ByQuery),
		chromedp.Sleep(c.opts.Settle),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return fmt.Errorf("chromedp capture: %w", err)
	}
	return os.WriteFile(c.OutputPath(p), buf, 0o644)
}

// findChromeBinary prefers the configured binary, then well-known names on
// PATH, then common install locations. Empty means let chromedp decide.
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
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
