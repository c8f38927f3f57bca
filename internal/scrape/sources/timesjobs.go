package sources

import (
	"fmt"
	"net/url"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

func timesjobs() board.Spec {
	return board.Spec{
		Name: "timesjobs",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.timesjobs.com/candidate/job-search.html?searchType=personal498&from=submit&searchTextSrc=as&searchTextText=%s&txtLocation=%s&sequence=%d&startPage=%d",
				url.QueryEscape(q), url.QueryEscape(loc), page+1, page+1)
		},
		Parser: &extract.HTMLParser{
			Cards: []string{"li.clearfix.job-bx", `li[class*="job-bx"]`},
			Title: extract.First(
				extract.Text("h2 a"),
				extract.Text("h2"),
			),
			Company: extract.First(
				extract.Text("h3.joblist-comp-name"),
				extract.Text(`[class*="comp-name"]`),
			),
			Location: extract.First(
				extract.Text(`span[title="Location"]`),
				extract.Text(`ul.top-jd-dtl li span`),
			),
			Link:       extract.First(extract.Attr("h2 a[href]", "href"), extract.Attr("a[href]", "href")),
			Experience: extract.Text(`span[title="Experience"]`),
			Posted:     extract.Text("span.sim-posted"),
			Skills:     extract.Text(`span.srp-skills`),
			BaseURL:    "https://www.timesjobs.com",
		},
	}
}
