package render

import (
	"net/url"
	"strconv"
	"time"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// ConsultationURL is the public consultation listing endpoint.
const ConsultationURL = "https://www.marchespublics.gov.ma/bdc/entreprise/consultation/"

// ServicesCategory is the site code for the "Services" tender category.
const ServicesCategory = "3"

const dateLayout = "2006-01-02"

// SearchURL renders a query into the listing URL. The five parameters
// fully determine the crawl target page.
func SearchURL(q tender.SearchQuery) string {
	params := url.Values{}
	params.Set("dateStart", q.DateStart.Format(dateLayout))
	params.Set("dateEnd", q.DateEnd.Format(dateLayout))
	params.Set("categorie", q.Category)
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("page", strconv.Itoa(q.Page))
	return ConsultationURL + "?" + params.Encode()
}

// NewSearchQuery builds the query for one page using the fixed forward
// date window anchored at now.
func NewSearchQuery(now time.Time, windowDays, pageSize, page int) tender.SearchQuery {
	return tender.SearchQuery{
		DateStart: now,
		DateEnd:   now.AddDate(0, 0, windowDays),
		Category:  ServicesCategory,
		PageSize:  pageSize,
		Page:      page,
	}
}
