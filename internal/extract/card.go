// Package extract parses rendered consultation pages into offer records.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// CardSelector matches one consultation card in the rendered listing.
const CardSelector = ".entreprise__card"

// FieldUnknown is the sentinel for card fields that could not be parsed.
const FieldUnknown = "inconnu"

// Field labels as they appear inside a card's text lines.
const (
	labelTitle     = "objet"
	labelReference = "référence"
	labelDeadline  = "date limite"
	labelLocation  = "lieu"
)

// Parse builds a goquery document from rendered page HTML.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return doc, nil
}

// Cards extracts one Offer per consultation card. Field parsing is
// best-effort: a card missing its deadline or location still yields an
// offer with the unknown sentinel. A card with no raw text at all cannot
// be fingerprinted and is counted as skipped instead.
func Cards(doc *goquery.Document, baseURL string) (offers []tender.Offer, skipped int) {
	doc.Find(CardSelector).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			skipped++
			return
		}
		offers = append(offers, cardOffer(sel, raw, baseURL))
	})
	return offers, skipped
}

func cardOffer(sel *goquery.Selection, raw, baseURL string) tender.Offer {
	offer := tender.Offer{
		RawText:   raw,
		Title:     FieldUnknown,
		Reference: FieldUnknown,
		Deadline:  FieldUnknown,
		Location:  FieldUnknown,
		Link:      baseURL,
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case matchesLabel(line, labelTitle):
			offer.Title = fieldValue(line)
		case matchesLabel(line, labelReference):
			offer.Reference = fieldValue(line)
		case matchesLabel(line, labelDeadline):
			offer.Deadline = fieldValue(line)
		case matchesLabel(line, labelLocation):
			offer.Location = fieldValue(line)
		}
	}

	if href, ok := sel.Find("a[href]").First().Attr("href"); ok && href != "" {
		offer.Link = absoluteLink(baseURL, href)
	}
	return offer
}

func matchesLabel(line, label string) bool {
	return strings.HasPrefix(strings.ToLower(line), label)
}

// fieldValue strips the "Label :" prefix from a card line, tolerating both
// French spacing variants around the colon.
func fieldValue(line string) string {
	if idx := strings.Index(line, ":"); idx >= 0 {
		if value := strings.TrimSpace(line[idx+1:]); value != "" {
			return value
		}
	}
	return strings.TrimSpace(line)
}

func absoluteLink(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}
