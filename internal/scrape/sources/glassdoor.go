package sources

import (
	"fmt"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/util"
)

// glassdoor searches all of India; the keyword span in the path is
// KO<start>,<end> over "india-<query>".
func glassdoor() board.Spec {
	return board.Spec{
		Name: "glassdoor",
		URL: func(q, _ string, _ int) string {
			slug := util.Slug(q, "-")
			return fmt.Sprintf("https://www.glassdoor.co.in/Job/india-%s-jobs-SRCH_IL.0,5_IN115_KO6,%d.htm?fromAge=14&sortBy=date_desc",
				slug, 6+len(slug))
		},
		Unpaged: true,
		Parser: &extract.HTMLParser{
			Cards: []string{`li[data-test="jobListing"]`, "li.react-job-listing", `div[class*="JobCard"]`},
			Title: extract.First(
				extract.Text(`a[data-test="job-link"]`),
				extract.Text("a.jobLink"),
				extract.Text(`div[data-test="job-title"]`),
				extract.Text(`[class*="jobTitle"]`),
			),
			Company: extract.First(
				extract.Text(`div[data-test="employer-name"]`),
				extract.Text("div.employerName"),
				extract.Text(`[class*="EmployerProfile"] span`),
			),
			Location: extract.First(
				extract.Text(`span[data-test="emp-location"]`),
				extract.Text(`div[data-test="emp-location"]`),
				extract.Text("span.loc"),
			),
			Link: extract.First(
				extract.Attr(`a[data-test="job-link"]`, "href"),
				extract.Attr("a.jobLink", "href"),
				extract.Attr("a[href]", "href"),
			),
			Salary:  extract.Text(`[data-test="detailSalary"]`),
			Posted:  extract.Text(`[data-test="job-age"]`),
			BaseURL: "https://www.glassdoor.co.in",
		},
	}
}
