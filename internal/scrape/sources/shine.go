package sources

import (
	"fmt"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/util"
)

func shine() board.Spec {
	return board.Spec{
		Name: "shine",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.shine.com/job-search/%s-jobs-in-%s-%d", util.Slug(q, "-"), util.Slug(loc, "-"), page+1)
		},
		Parser: &extract.HTMLParser{
			Cards: []string{"div.job_card_content", `div[class*="jobCard"]`},
			Title: extract.First(
				extract.Text("h3"),
				extract.Text("a.job_title"),
				extract.Text("h2"),
			),
			Company: extract.First(
				extract.Text("span.comp_name"),
				extract.Text(`[class*="companyName"]`),
			),
			Location: extract.First(
				extract.Text("span.loc"),
				extract.Text(`[class*="location"]`),
			),
			Link: extract.First(
				extract.Attr("h3 a[href]", "href"),
				extract.Attr("a.job_title", "href"),
				extract.Attr("a[href]", "href"),
			),
			Experience: extract.Text("span.exp"),
			Salary:     extract.Text("span.sal"),
			BaseURL:    "https://www.shine.com",
		},
	}
}
