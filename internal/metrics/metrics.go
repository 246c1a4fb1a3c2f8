// Package metrics exports Prometheus counters for the scan pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics owns every collector for scan attempts, extracted offers and
// alert delivery. All methods are nil-safe so wiring stays optional.
type Metrics struct {
	scansStarted   prometheus.Counter
	scansCompleted *prometheus.CounterVec
	scanDuration   prometheus.Histogram
	cardsSeen      prometheus.Counter
	cardsSkipped   prometheus.Counter
	newOffers      prometheus.Counter
	alertsBuilt    prometheus.Counter
	notifications  *prometheus.CounterVec
}

// New registers the collectors against the provided registry.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		scansStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderwatch_scans_started_total",
			Help: "Total scan attempts started.",
		}),
		scansCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenderwatch_scans_completed_total",
			Help: "Total scan attempts completed partitioned by result.",
		}, []string{"result"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tenderwatch_scan_duration_seconds",
			Help:    "Wall time per completed scan attempt.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		cardsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderwatch_cards_seen_total",
			Help: "Consultation cards encountered across all pages.",
		}),
		cardsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderwatch_cards_skipped_total",
			Help: "Cards dropped because their text could not be extracted.",
		}),
		newOffers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderwatch_new_offers_total",
			Help: "Offers not present in the seen store.",
		}),
		alertsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tenderwatch_alerts_total",
			Help: "Alerts built and handed to the notifier.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tenderwatch_notifications_total",
			Help: "Notification deliveries partitioned by result.",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{
		m.scansStarted, m.scansCompleted, m.scanDuration,
		m.cardsSeen, m.cardsSkipped, m.newOffers,
		m.alertsBuilt, m.notifications,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// ScanStarted counts one attempt start.
func (m *Metrics) ScanStarted() {
	if m == nil {
		return
	}
	m.scansStarted.Inc()
}

// ScanCompleted counts one attempt end with its wall time.
func (m *Metrics) ScanCompleted(result string, seconds float64) {
	if m == nil {
		return
	}
	m.scansCompleted.WithLabelValues(result).Inc()
	m.scanDuration.Observe(seconds)
}

// CardsObserved records extraction volumes for one page.
func (m *Metrics) CardsObserved(seen, skipped int) {
	if m == nil {
		return
	}
	m.cardsSeen.Add(float64(seen))
	m.cardsSkipped.Add(float64(skipped))
}

// NewOffer counts one fingerprint absent from the seen store.
func (m *Metrics) NewOffer() {
	if m == nil {
		return
	}
	m.newOffers.Inc()
}

// AlertBuilt counts one routed alert.
func (m *Metrics) AlertBuilt() {
	if m == nil {
		return
	}
	m.alertsBuilt.Inc()
}

// Notification counts one delivery attempt.
func (m *Metrics) Notification(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.notifications.WithLabelValues(result).Inc()
}
