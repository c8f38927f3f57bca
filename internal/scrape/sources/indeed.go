package sources

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

// indeedViewURL builds the stable posting URL from the card's job key.
func indeedViewURL(card *goquery.Selection) string {
	jk := extract.First(extract.Attr("a[data-jk]", "data-jk"), extract.SelfAttr("data-jk"))(card)
	if jk == "" {
		return ""
	}
	return "https://in.indeed.com/viewjob?jk=" + url.QueryEscape(jk)
}

// indeed lists 10 cards per page, newest first, last 14 days.
func indeed() board.Spec {
	return board.Spec{
		Name: "indeed",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://in.indeed.com/jobs?q=%s&l=%s&start=%d&sort=date&fromage=14",
				url.QueryEscape(q), url.QueryEscape(loc), page*10)
		},
		Parser: &extract.HTMLParser{
			Cards: []string{"div.job_seen_beacon", `div[data-testid="job-card"]`, "td.resultContent"},
			Title: extract.First(
				extract.Attr("h2.jobTitle span[title]", "title"),
				extract.Text("h2.jobTitle"),
				extract.Text(`a[data-testid="job-title"]`),
				extract.Attr("span[title]", "title"),
				extract.Text("h2"),
			),
			Company: extract.First(
				extract.Text(`span[data-testid="company-name"]`),
				extract.Text("span.companyName"),
			),
			Location: extract.First(
				extract.Text(`div[data-testid="text-location"]`),
				extract.Text("div.companyLocation"),
			),
			Link: extract.First(
				indeedViewURL,
				extract.Attr("a.jcs-JobTitle", "href"),
				extract.Attr("h2 a[href]", "href"),
			),
			Posted: extract.First(extract.Text(`span[data-testid="myJobsStateDate"]`), extract.Text("span.date")),
			Salary: extract.First(
				extract.Text("div.salary-snippet-container"),
				extract.Text(`div[class*="salary"]`),
			),
			BaseURL: "https://in.indeed.com",
		},
	}
}
