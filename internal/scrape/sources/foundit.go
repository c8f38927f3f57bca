package sources

import (
	"fmt"
	"net/url"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

// foundit answers its search page with JSON when asked to, and with the
// rendered page otherwise.
func foundit() board.Spec {
	return board.Spec{
		Name: "foundit",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.foundit.in/srp/results?query=%s&locations=%s&sort=1&limit=50&page=%d",
				url.QueryEscape(q), url.QueryEscape(loc), page+1)
		},
		Accept:  "application/json",
		Referer: "https://www.foundit.in/",
		Parser: &extract.JSONParser{
			Lists:      []string{"jobDetails", "jobs", "data.jobDetails"},
			Title:      extract.Path("title", "designation"),
			Company:    extract.Path("companyName", "company"),
			Location:   extract.Path("locations", "location"),
			Link:       extract.FirstJSON(extract.Template("https://www.foundit.in/job/%s", "jobId"), extract.Path("jdUrl", "seoJdUrl")),
			Experience: extract.Path("experience", "exp"),
			Salary:     extract.Path("salary"),
			Posted:     extract.Path("postedAt", "createdAt", "freshness"),
			Skills:     extract.Path("skills"),
			BaseURL:    "https://www.foundit.in",
			Fallback: &extract.HTMLParser{
				Cards:      []string{"div.card-apply-content", `div[class*="srpResultCard"]`},
				Title:      extract.First(extract.Text("div.job-tittle h3"), extract.Text("h3")),
				Company:    extract.First(extract.Text("span.company-name"), extract.Text(`[class*="companyName"]`)),
				Location:   extract.First(extract.Text("div.details.location"), extract.Text(`[class*="location"]`)),
				Link:       extract.Attr("a[href]", "href"),
				Experience: extract.Text(`[class*="experience"]`),
				BaseURL:    "https://www.foundit.in",
			},
		},
	}
}
