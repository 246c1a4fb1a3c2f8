package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resultCountSelector matches the "N résultats" indicator rendered above
// the first page of cards.
const resultCountSelector = ".content__resultat"

var firstIntExpr = regexp.MustCompile(`\d+`)

// TotalResults reads the total-result count from the first page. The
// second return is false when the indicator is missing or unparseable;
// callers fall back to scanning a single page.
func TotalResults(doc *goquery.Document) (int, bool) {
	text := strings.TrimSpace(doc.Find(resultCountSelector).First().Text())
	if text == "" {
		return 0, false
	}
	match := firstIntExpr.FindString(text)
	if match == "" {
		return 0, false
	}
	total, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return total, true
}

// PageCount computes how many pages must be visited to cover total results.
// A non-positive total yields the single-page fallback.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}
