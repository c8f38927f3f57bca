package extract

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/scrape/types"
)

const primaryPage = `<html><body><ul>
<li class="card"><h3 class="title"> Senior Product Manager </h3><h4 class="co">Acme</h4>
  <span class="loc">Pune</span><a class="link" href="/jobs/view/1?utm_source=x">open</a>
  <time datetime="2024-05-01">2 days ago</time></li>
<li class="card"><h3 class="title"></h3><h4 class="co">NoTitle Inc</h4></li>
<li class="card"><h2>Product Owner</h2><a class="hidden-nested-link">Globex</a>
  <span class="job-location-text">Mumbai</span><a href="https://example.test/jobs/view/2">x</a></li>
</ul></body></html>`

func cardParser() *HTMLParser {
	p := &HTMLParser{
		Cards:    []string{"div.missing", "li.card"},
		Title:    First(Text("h3.title"), Text("h2")),
		Company:  First(Text("h4.co"), Text("a.hidden-nested-link")),
		Location: First(Text("span.loc"), Text(`span[class*="location"]`)),
		Link:     First(Attr("a.link", "href"), Attr("a[href]", "href")),
		Posted:   First(Attr("time", "datetime"), Text("time")),
		BaseURL:  "https://example.test/search",
	}
	return p
}

func TestHTMLParserFallbackChains(t *testing.T) {
	p := cardParser()
	require.NoError(t, p.Compile())

	page, err := p.Parse([]byte(primaryPage), "demo")
	require.NoError(t, err)
	assert.Equal(t, "li.card", page.Strategy)
	require.Len(t, page.Cards, 3)

	first := page.Cards[0].Record
	assert.Equal(t, "Senior Product Manager", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, "Pune", first.Location)
	assert.Equal(t, "https://example.test/jobs/view/1", first.URL)
	assert.Equal(t, "2024-05-01", first.Field(domain.RawPosted))
	assert.Equal(t, "demo", first.Source)

	assert.Equal(t, types.SkipNoTitle, page.Cards[1].Skip)

	third := page.Cards[2].Record
	assert.Equal(t, "Product Owner", third.Title)
	assert.Equal(t, "Globex", third.Company)
	assert.Equal(t, "Mumbai", third.Location)
	assert.Equal(t, "https://example.test/jobs/view/2", third.URL)
	assert.Nil(t, third.RawFields)
}

func TestHTMLParserNoMatchWithoutGeneric(t *testing.T) {
	p := cardParser()
	page, err := p.Parse([]byte(`<html><body><p>No results</p></body></html>`), "demo")
	require.NoError(t, err)
	assert.Empty(t, page.Cards)
}

func TestHTMLParserGenericScan(t *testing.T) {
	body := `<html><body>
<div class="row"><a href="/job/pm-123">Product Manager, Payments</a><span class="company-name">Initech</span> Location: Bengaluru | 4-8 yrs</div>
<div class="row"><a href="/job/pm-123">Product Manager, Payments</a></div>
<div class="row"><a href="/job/pm-456">Apply</a></div>
<a href="/about">About us</a>
</body></html>`
	p := cardParser()
	p.Generic = true

	page, err := p.Parse([]byte(body), "demo")
	require.NoError(t, err)
	assert.Equal(t, "generic", page.Strategy)
	require.Len(t, page.Cards, 1)
	rec := page.Cards[0].Record
	assert.Equal(t, "Product Manager, Payments", rec.Title)
	assert.Equal(t, "Initech", rec.Company)
	assert.Equal(t, "Bengaluru", rec.Location)
	assert.Equal(t, "https://example.test/job/pm-123", rec.URL)
}

func TestHTMLParserRecoversPanickingField(t *testing.T) {
	p := cardParser()
	p.Salary = func(*goquery.Selection) string { panic("boom") }
	page, err := p.Parse([]byte(primaryPage), "demo")
	require.NoError(t, err)
	require.Len(t, page.Cards, 3)
	assert.Equal(t, types.SkipParse, page.Cards[0].Skip)
	assert.Equal(t, types.SkipNoTitle, page.Cards[1].Skip)
}

func TestHTMLParserBadSelector(t *testing.T) {
	p := &HTMLParser{Cards: []string{"li[["}}
	_, err := p.Parse([]byte("<li></li>"), "demo")
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestTextsJoins(t *testing.T) {
	p := &HTMLParser{
		Cards:  []string{"div.c"},
		Title:  Text("b"),
		Skills: Texts("span.tag", ", "),
	}
	page, err := p.Parse([]byte(`<div class="c"><b>APM</b><span class="tag">SQL</span><span class="tag">Agile</span></div>`), "demo")
	require.NoError(t, err)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "SQL, Agile", page.Cards[0].Record.Field(domain.RawSkills))
}

func jsonParser() *JSONParser {
	return &JSONParser{
		Lists:      []string{"jobDetails", "jobs"},
		Title:      Path("title", "designation"),
		Company:    Path("companyName", "company"),
		Location:   Path("locations", "location"),
		Link:       FirstJSON(Path("url"), Template("https://www.foundit.in/job/%s", "jobId")),
		Experience: Path("experience"),
		Fallback:   cardParser(),
	}
}

func TestJSONParserPathsAndFallbacks(t *testing.T) {
	body := `{"jobs":[
	  {"designation":"Group Product Manager","company":{"name":"Hooli"},"locations":["Hyderabad","Pune"],"jobId":"987","experience":"8-12 Years"},
	  {"title":"","companyName":"Nobody"},
	  {"title":"Product Analyst","companyName":"Pied Piper","location":"Remote","url":"https://x.test/job/5?utm_medium=m"}
	]}`
	page, err := jsonParser().Parse([]byte(body), "foundit")
	require.NoError(t, err)
	assert.Equal(t, "jobs", page.Strategy)
	require.Len(t, page.Cards, 3)

	a := page.Cards[0].Record
	assert.Equal(t, "Group Product Manager", a.Title)
	assert.Equal(t, "Hooli", a.Company)
	assert.Equal(t, "Hyderabad", a.Location)
	assert.Equal(t, "https://www.foundit.in/job/987", a.URL)
	assert.Equal(t, "8-12 Years", a.Field(domain.RawExperience))

	assert.Equal(t, types.SkipNoTitle, page.Cards[1].Skip)
	assert.Equal(t, "https://x.test/job/5", page.Cards[2].Record.URL)
}

func TestJSONParserFallsBackToHTML(t *testing.T) {
	page, err := jsonParser().Parse([]byte(primaryPage), "foundit")
	require.NoError(t, err)
	assert.Equal(t, "li.card", page.Strategy)
	assert.Len(t, page.Cards, 3)
}

func TestJSONParserWithoutFallback(t *testing.T) {
	p := jsonParser()
	p.Fallback = nil
	_, err := p.Parse([]byte("<html>"), "foundit")
	assert.ErrorIs(t, err, types.ErrParse)

	page, err := p.Parse([]byte(`{"jobs":[]}`), "foundit")
	require.NoError(t, err)
	assert.Empty(t, page.Cards)
}
