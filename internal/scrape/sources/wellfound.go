package sources

import (
	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
)

// wellfound has one role page for all of product management; the query and
// location do not change the URL.
func wellfound() board.Spec {
	return board.Spec{
		Name:    "wellfound",
		URL:     func(string, string, int) string { return "https://wellfound.com/role/product-manager" },
		Unpaged: true,
		Parser: &extract.HTMLParser{
			Cards: []string{`div[class*="styles_jobListing"]`, `div[class*="job-listing"]`, "div.job-link"},
			Title: extract.First(
				extract.Text(`a[class*="jobTitle"]`),
				extract.Text(`[class*="title"]`),
				extract.Text("h4"),
			),
			Company: extract.First(
				extract.Text(`[class*="companyName"]`),
				extract.Text("h2"),
			),
			Location: extract.First(
				extract.Text(`[class*="location"]`),
				extract.Labeled(),
			),
			Link: extract.First(
				extract.Attr(`a[href*="/jobs/"]`, "href"),
				extract.Attr("a[href]", "href"),
			),
			Salary:  extract.Text(`[class*="compensation"]`),
			BaseURL: "https://wellfound.com",
			Generic: true,
		},
	}
}
