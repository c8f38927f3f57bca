package sources

import (
	"fmt"
	"net/url"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/util"
)

// naukri pages are 1-based and carry query and city in the path.
func naukri() board.Spec {
	return board.Spec{
		Name: "naukri",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.naukri.com/%s-jobs-in-%s-%d?k=%s&l=%s",
				util.Slug(q, "-"), util.Slug(loc, "-"), page+1, url.QueryEscape(q), url.QueryEscape(loc))
		},
		Parser: &extract.HTMLParser{
			Cards: []string{
				"article.jobTuple",
				"div.srp-jobtuple-wrapper",
				`div[class*="cust-job-tuple"]`,
				`div[class*="job-tuple"]`,
			},
			Title: extract.First(
				extract.Text("a.title"),
				extract.Text(`a[class*="title"]`),
				extract.Text("h2"),
			),
			Company: extract.First(
				extract.Text("a.subTitle"),
				extract.Text(`a[class*="comp-name"]`),
				extract.Text(`span[class*="comp"]`),
			),
			Location: extract.First(
				extract.Text("li.location"),
				extract.Text("span.locWdth"),
				extract.Text(`span[class*="loc"]`),
			),
			Link: extract.First(
				extract.Attr("a.title", "href"),
				extract.Attr(`a[class*="title"]`, "href"),
			),
			Experience: extract.First(
				extract.Text("li.experience"),
				extract.Text("span.expwdth"),
				extract.Text(`span[class*="exp"]`),
			),
			Salary: extract.First(
				extract.Text("li.salary"),
				extract.Text(`span[class*="sal"]`),
			),
			Posted: extract.First(
				extract.Text("span.job-post-day"),
				extract.Text(`span[class*="post-day"]`),
			),
			Skills:  extract.Texts("ul.tags li, ul.tags-gt li", ", "),
			BaseURL: "https://www.naukri.com",
		},
	}
}
