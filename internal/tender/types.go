// Package tender defines the core types shared across the scan pipeline.
package tender

import "time"

// SubscribeAll is the wildcard subscription that matches every category.
const SubscribeAll = "ALL"

// Offer is one structured listing record extracted from a rendered page.
// Immutable once built by the extractor.
type Offer struct {
	Fingerprint string
	RawText     string
	Title       string
	Reference   string
	Deadline    string
	Location    string
	Link        string
}

// Classification is the result of scoring an offer's text against the
// keyword rules. Score is zero iff the offer is not alert-worthy; Category
// is set only for a positive score, RejectionReason only for a zero score.
type Classification struct {
	Score           int
	Category        string
	RejectionReason string
}

// Candidate pairs a newly seen, positively classified offer with its
// dispatch priority. Priority is filled in by the ranker.
type Candidate struct {
	Offer          Offer
	Classification Classification
	Priority       int
}

// Subscriber is a configured recipient with the category names it wants
// alerted on, or the SubscribeAll wildcard. Loaded once, never mutated.
type Subscriber struct {
	ID            string
	Subscriptions []string
}

// Alert is a routed, ranked notification ready for dispatch. It is consumed
// once by the notifier and then discarded.
type Alert struct {
	Offer          Offer
	Classification Classification
	Priority       int
	Recipients     []string
	Message        string
}

// SearchQuery fully determines one crawl target page: a fixed forward date
// window, the site category code, the page size and the page index.
type SearchQuery struct {
	DateStart time.Time
	DateEnd   time.Time
	Category  string
	PageSize  int
	Page      int
}

// ScanReport summarizes one completed scan attempt.
type ScanReport struct {
	ScanID        string
	Pages         int
	CardsSeen     int
	CardsSkipped  int
	NewOffers     int
	Alerts        int
	Notifications int
	Duration      time.Duration
}
