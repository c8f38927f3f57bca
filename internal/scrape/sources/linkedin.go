package sources

import (
	"fmt"
	"net/url"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

// linkedin uses the guest listing endpoint: 25 cards per page, last 7 days.
func linkedin() board.Spec {
	return board.Spec{
		Name: "linkedin",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search?keywords=%s&location=%s&start=%d&f_TPR=r604800",
				url.QueryEscape(q), url.QueryEscape(loc), page*25)
		},
		Parser: &extract.HTMLParser{
			Cards: []string{"div.base-card", "div.job-search-card", "li"},
			Title: extract.First(
				extract.Text("h3.base-search-card__title"),
				extract.Text("h3"),
				extract.Text("a.base-card__full-link"),
			),
			Company: extract.First(
				extract.Text("h4.base-search-card__subtitle"),
				extract.Text("a.hidden-nested-link"),
				extract.Text("h4"),
			),
			Location: extract.First(
				extract.Text("span.job-search-card__location"),
				extract.Text(`span[class*="location"]`),
			),
			Link: extract.First(
				extract.Attr("a.base-card__full-link", "href"),
				extract.Attr("a[href]", "href"),
			),
			Posted:  extract.First(extract.Attr("time[datetime]", "datetime"), extract.Text("time")),
			Salary:  extract.Text("span.job-search-card__salary-info"),
			BaseURL: "https://www.linkedin.com",
		},
	}
}
