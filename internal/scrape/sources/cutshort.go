package sources

import (
	"fmt"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/util"
)

// cutshort lists product roles per city on a single page.
func cutshort() board.Spec {
	return board.Spec{
		Name: "cutshort",
		URL: func(_, loc string, _ int) string {
			return fmt.Sprintf("https://cutshort.io/jobs/product-manager-jobs-in-%s", util.Slug(loc, "-"))
		},
		Unpaged: true,
		Parser: &extract.HTMLParser{
			Cards: []string{`div[class*="job-card"]`, `div[class*="JobCard"]`, "article"},
			Title: extract.First(
				extract.Text("h3"),
				extract.Text("h2"),
				extract.Text(`a[class*="title"]`),
			),
			Company: extract.First(
				extract.Text(`[class*="company"]`),
				extract.Text("h4"),
			),
			Location: extract.First(
				extract.Text(`[class*="location"]`),
				extract.Labeled(),
			),
			Link:       extract.Attr("a[href]", "href"),
			Experience: extract.Text(`[class*="experience"]`),
			Salary:     extract.Text(`[class*="salary"]`),
			Skills:     extract.Texts(`[class*="skill"] span, [class*="tag"]`, ", "),
			BaseURL:    "https://cutshort.io",
			Generic:    true,
		},
	}
}
