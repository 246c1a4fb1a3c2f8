// Package render drives a headless browser against the consultation site.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// Config captures the renderer settings.
type Config struct {
	// UserAgent is sent on every navigation.
	UserAgent string
	// NavTimeout bounds one page render.
	NavTimeout time.Duration
	// SettleDelay waits for the result cards to finish loading after the
	// document is ready; the listing populates them with scripts.
	SettleDelay time.Duration
}

// ChromedpRenderer renders listing pages using headless Chrome. It keeps
// one warm browser across scans and opens a fresh tab per page.
type ChromedpRenderer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	logger          *zap.Logger
	cfg             Config
}

// NewChromedpRenderer launches the browser and verifies it is usable.
func NewChromedpRenderer(cfg Config, logger *zap.Logger) (*ChromedpRenderer, error) {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 90 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 5 * time.Second
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocatorCancel()
		browserCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpRenderer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		logger:          logger,
		cfg:             cfg,
	}, nil
}

// Close tears down the browser and allocator contexts.
func (r *ChromedpRenderer) Close() error {
	if r == nil {
		return nil
	}
	r.browserCancel()
	r.allocatorCancel()
	return nil
}

var _ tender.Renderer = (*ChromedpRenderer)(nil)

// Render navigates to the listing page for the query and returns the
// rendered DOM. Timeouts and navigation failures surface as errors; the
// scan orchestrator treats them as attempt-level failures.
func (r *ChromedpRenderer) Render(ctx context.Context, q tender.SearchQuery) (string, error) {
	target := SearchURL(q)

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, r.cfg.NavTimeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	r.logger.Debug("rendering page",
		zap.String("url", target),
		zap.Int("page", q.Page),
	)

	var html string
	tasks := chromedp.Tasks{
		network.Enable(),
		emulation.SetUserAgentOverride(r.cfg.UserAgent),
		emulation.SetDeviceMetricsOverride(1920, 1080, 1.0, false),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.cfg.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return "", fmt.Errorf("render %s: %w", target, err)
	}
	return html, nil
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
