// Package scan implements the crawl, classify, dedupe and dispatch pipeline.
package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tenderwatch/tenderwatch/internal/classify"
	"github.com/tenderwatch/tenderwatch/internal/extract"
	"github.com/tenderwatch/tenderwatch/internal/metrics"
	"github.com/tenderwatch/tenderwatch/internal/rank"
	"github.com/tenderwatch/tenderwatch/internal/render"
	"github.com/tenderwatch/tenderwatch/internal/route"
	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// Config controls one scan attempt.
type Config struct {
	// WindowDays is the forward search window anchored at now.
	WindowDays int
	// PageSize is the fixed page size requested from the site.
	PageSize int
	// MaxPages caps the page loop regardless of the discovered count.
	MaxPages int
}

// Orchestrator drives one full multi-page crawl: pagination discovery,
// card extraction, classification, dedup and routed dispatch. It holds no
// state between attempts besides the injected seen store.
type Orchestrator struct {
	renderer   tender.Renderer
	store      tender.SeenStore
	hasher     tender.Hasher
	clock      tender.Clock
	classifier *classify.Classifier
	router     *route.Router
	ranker     *rank.Ranker
	notifier   tender.Notifier
	metrics    *metrics.Metrics
	cfg        Config
	logger     *zap.Logger
}

// New constructs an Orchestrator.
func New(
	renderer tender.Renderer,
	store tender.SeenStore,
	hasher tender.Hasher,
	clock tender.Clock,
	classifier *classify.Classifier,
	router *route.Router,
	ranker *rank.Ranker,
	notifier tender.Notifier,
	m *metrics.Metrics,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 60
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Orchestrator{
		renderer:   renderer,
		store:      store,
		hasher:     hasher,
		clock:      clock,
		classifier: classifier,
		router:     router,
		ranker:     ranker,
		notifier:   notifier,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run executes one scan attempt. Any page-level render failure aborts the
// whole attempt before the seen store is touched, so a failed attempt
// leaves dedup state as if it never happened. Per-card problems only skip
// that card. On success the store is persisted first, then alerts go out
// in ranked order; delivery failures are logged and swallowed.
func (o *Orchestrator) Run(ctx context.Context) (tender.ScanReport, error) {
	started := o.clock.Now()
	report := tender.ScanReport{ScanID: uuid.NewString()}
	logger := o.logger.With(zap.String("scan_id", report.ScanID))
	o.metrics.ScanStarted()

	fail := func(err error) (tender.ScanReport, error) {
		o.metrics.ScanCompleted("error", o.clock.Now().Sub(started).Seconds())
		return report, err
	}

	seenList, err := o.store.Load(ctx)
	if err != nil {
		return fail(fmt.Errorf("load seen store: %w", err))
	}
	seenSet := make(map[string]struct{}, len(seenList))
	for _, id := range seenList {
		seenSet[id] = struct{}{}
	}
	logger.Info("scan started", zap.Int("seen", len(seenList)))

	var (
		newIDs     []string
		candidates []tender.Candidate
	)

	pageCount := 1
	for page := 1; page <= pageCount; page++ {
		q := render.NewSearchQuery(started, o.cfg.WindowDays, o.cfg.PageSize, page)
		html, err := o.renderer.Render(ctx, q)
		if err != nil {
			return fail(fmt.Errorf("render page %d: %w", page, err))
		}
		doc, err := extract.Parse(html)
		if err != nil {
			return fail(fmt.Errorf("parse page %d: %w", page, err))
		}

		if page == 1 {
			pageCount = o.discoverPageCount(doc, logger)
			report.Pages = pageCount
		}

		offers, skipped := extract.Cards(doc, render.ConsultationURL)
		report.CardsSeen += len(offers) + skipped
		report.CardsSkipped += skipped
		o.metrics.CardsObserved(len(offers)+skipped, skipped)
		if skipped > 0 {
			logger.Warn("cards skipped", zap.Int("page", page), zap.Int("count", skipped))
		}

		for _, offer := range offers {
			fp, err := o.hasher.Hash([]byte(offer.RawText))
			if err != nil {
				report.CardsSkipped++
				logger.Warn("fingerprint failed", zap.Error(err))
				continue
			}
			if _, dup := seenSet[fp]; dup {
				continue
			}
			offer.Fingerprint = fp
			seenSet[fp] = struct{}{}
			newIDs = append(newIDs, fp)
			report.NewOffers++
			o.metrics.NewOffer()

			c := o.classifier.Classify(offer.RawText)
			if c.Score > 0 {
				logger.Info("offer matched",
					zap.String("category", c.Category),
					zap.Int("score", c.Score),
					zap.String("title", offer.Title),
				)
				candidates = append(candidates, tender.Candidate{Offer: offer, Classification: c})
			} else {
				logger.Debug("offer rejected",
					zap.String("reason", c.RejectionReason),
					zap.String("title", offer.Title),
				)
			}
		}
	}

	alerts := o.buildAlerts(o.ranker.Rank(candidates))
	report.Alerts = len(alerts)

	if len(newIDs) > 0 {
		if err := o.store.Save(ctx, append(seenList, newIDs...)); err != nil {
			return fail(fmt.Errorf("save seen store: %w", err))
		}
	}

	report.Notifications = o.dispatch(ctx, alerts, logger)
	report.Duration = o.clock.Now().Sub(started)
	o.metrics.ScanCompleted("success", report.Duration.Seconds())
	logger.Info("scan complete",
		zap.Int("pages", report.Pages),
		zap.Int("new_offers", report.NewOffers),
		zap.Int("alerts", report.Alerts),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// discoverPageCount reads the total-result indicator once, on the first
// page. A missing or unparseable indicator falls back to a single page
// rather than failing the scan.
func (o *Orchestrator) discoverPageCount(doc *goquery.Document, logger *zap.Logger) int {
	total, ok := extract.TotalResults(doc)
	if !ok {
		logger.Warn("result count indicator missing, scanning first page only")
		return 1
	}
	pages := extract.PageCount(total, o.cfg.PageSize)
	if o.cfg.MaxPages > 0 && pages > o.cfg.MaxPages {
		logger.Warn("page count capped",
			zap.Int("discovered", pages),
			zap.Int("cap", o.cfg.MaxPages),
		)
		pages = o.cfg.MaxPages
	}
	logger.Info("pagination discovered", zap.Int("total", total), zap.Int("pages", pages))
	return pages
}

func (o *Orchestrator) buildAlerts(ranked []tender.Candidate) []tender.Alert {
	var alerts []tender.Alert
	for _, cand := range ranked {
		recipients := o.router.Route(cand.Classification.Category)
		if len(recipients) == 0 {
			// Nobody subscribes to this category; the offer stays
			// fingerprinted so it is never reconsidered.
			continue
		}
		alerts = append(alerts, tender.Alert{
			Offer:          cand.Offer,
			Classification: cand.Classification,
			Priority:       cand.Priority,
			Recipients:     recipients,
			Message:        BuildMessage(cand),
		})
		o.metrics.AlertBuilt()
	}
	return alerts
}

func (o *Orchestrator) dispatch(ctx context.Context, alerts []tender.Alert, logger *zap.Logger) int {
	delivered := 0
	for _, alert := range alerts {
		for _, recipient := range alert.Recipients {
			if err := o.notifier.Notify(ctx, recipient, alert.Message); err != nil {
				o.metrics.Notification(false)
				logger.Warn("notify failed",
					zap.String("recipient", recipient),
					zap.Error(err),
				)
				continue
			}
			o.metrics.Notification(true)
			delivered++
		}
	}
	return delivered
}

// BuildMessage formats one alert for delivery, in the Markdown shape the
// Telegram channel expects.
func BuildMessage(cand tender.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 **%s** (score %d)\n", cand.Classification.Category, cand.Classification.Score)
	fmt.Fprintf(&b, "%s\n", cand.Offer.Title)
	if cand.Offer.Reference != extract.FieldUnknown {
		fmt.Fprintf(&b, "Référence : %s\n", cand.Offer.Reference)
	}
	if cand.Offer.Deadline != extract.FieldUnknown {
		fmt.Fprintf(&b, "Date limite : %s\n", cand.Offer.Deadline)
	}
	if cand.Offer.Location != extract.FieldUnknown {
		fmt.Fprintf(&b, "Lieu : %s\n", cand.Offer.Location)
	}
	fmt.Fprintf(&b, "[Lien](%s)", cand.Offer.Link)
	return b.String()
}
