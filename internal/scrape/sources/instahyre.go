package sources

import (
	"fmt"
	"net/url"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

func instahyre() board.Spec {
	return board.Spec{
		Name: "instahyre",
		URL: func(q, loc string, page int) string {
			return fmt.Sprintf("https://www.instahyre.com/api/v1/search_jobs/?job_type=fulltime&query=%s&location=%s&page=%d",
				url.QueryEscape(q), url.QueryEscape(loc), page+1)
		},
		Accept:  "application/json",
		Referer: "https://www.instahyre.com/search-jobs/",
		Parser: &extract.JSONParser{
			Lists:    []string{"jobs", "results", "objects"},
			Title:    extract.Path("title", "designation"),
			Company:  extract.Path("company.name", "company_name", "employer.company_name"),
			Location: extract.Path("locations", "location"),
			Link: extract.FirstJSON(
				extract.Template("https://www.instahyre.com/job/%s", "id"),
				extract.Path("public_url"),
			),
			Salary:     extract.Path("salary"),
			Experience: extract.Path("experience"),
			Skills:     extract.Path("keywords", "skills"),
			BaseURL:    "https://www.instahyre.com",
			Fallback: &extract.HTMLParser{
				Cards:    []string{"div.employer-row", `div[class*="opportunity"]`},
				Title:    extract.First(extract.Text("h4"), extract.Text("a.job-title")),
				Company:  extract.First(extract.Text("div.company-name"), extract.Text(`[class*="company"]`)),
				Location: extract.Text(`[class*="location"]`),
				Link:     extract.Attr("a[href]", "href"),
				BaseURL:  "https://www.instahyre.com",
			},
		},
	}
}
