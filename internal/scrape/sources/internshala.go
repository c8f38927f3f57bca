package sources

import (
	"fmt"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/util"
)

// internshala searches by role only; cards carry their own location.
func internshala() board.Spec {
	return board.Spec{
		Name: "internshala",
		URL: func(q, _ string, page int) string {
			return fmt.Sprintf("https://internshala.com/jobs/%s-jobs/page-%d", util.Slug(q, "-"), page+1)
		},
		Parser: &extract.HTMLParser{
			Cards: []string{"div.individual_internship", `div[class*="job-internship"]`},
			Title: extract.First(
				extract.Text("h3.job-internship-name"),
				extract.Text("a.view_detail_button"),
				extract.Text("h3"),
			),
			Company: extract.First(
				extract.Text("p.company-name"),
				extract.Text("h4.company_name"),
				extract.Text(`[class*="company"]`),
			),
			Location: extract.First(
				extract.Text("#location_names"),
				extract.Text("span.location_link"),
				extract.Text(`div[class*="location"]`),
			),
			Link: extract.First(
				extract.Attr("a.view_detail_button", "href"),
				extract.SelfAttr("data-href"),
				extract.Attr("a[href]", "href"),
			),
			Salary:     extract.First(extract.Text("span.stipend"), extract.Text("div.stipend")),
			Experience: extract.Text(`[class*="experience"]`),
			Posted:     extract.Text(`[class*="status-success"], [class*="posted"]`),
			BaseURL:    "https://internshala.com",
		},
	}
}
