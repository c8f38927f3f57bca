package extract

import (
	"fmt"

	"github.com/tidwall/gjson"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/scrape/types"
	"jobhub-engine/internal/scrape/util"
)

// JSONField reads one value from a job object.
type JSONField func(job gjson.Result) string

// Path returns the first non-empty of the gjson paths.
func Path(paths ...string) JSONField {
	return func(job gjson.Result) string {
		for _, p := range paths {
			r := job.Get(p)
			if !r.Exists() {
				continue
			}
			if r.IsArray() {
				r = r.Get("0")
			}
			if r.IsObject() {
				r = r.Get("name")
			}
			if v := util.CleanText(r.String()); v != "" {
				return v
			}
		}
		return ""
	}
}

// Template formats the value at path into format, or "" when it is absent.
func Template(format, path string) JSONField {
	return func(job gjson.Result) string {
		v := job.Get(path).String()
		if v == "" {
			return ""
		}
		return fmt.Sprintf(format, v)
	}
}

// FirstJSON is First for JSON fields.
func FirstJSON(fns ...JSONField) JSONField {
	return func(job gjson.Result) string {
		for _, fn := range fns {
			if v := fn(job); v != "" {
				return v
			}
		}
		return ""
	}
}

// JSONParser reads listings from an API response, trying each list path in
// order. Bodies that are not JSON go to Fallback.
type JSONParser struct {
	Lists      []string
	Title      JSONField
	Company    JSONField
	Location   JSONField
	Link       JSONField
	Posted     JSONField
	Salary     JSONField
	Experience JSONField
	Skills     JSONField
	BaseURL    string
	Fallback   *HTMLParser
}

func (p *JSONParser) Parse(body []byte, source string) (Page, error) {
	if !gjson.ValidBytes(body) {
		if p.Fallback != nil {
			return p.Fallback.Parse(body, source)
		}
		return Page{}, &types.ScrapeError{Kind: types.KindParse, Source: source, Err: fmt.Errorf("response is not json")}
	}

	root := gjson.ParseBytes(body)
	for _, path := range p.Lists {
		list := root.Get(path)
		if !list.IsArray() || len(list.Array()) == 0 {
			continue
		}
		page := Page{Strategy: path}
		list.ForEach(func(_, job gjson.Result) bool {
			page.Cards = append(page.Cards, p.card(job, source))
			return true
		})
		return page, nil
	}
	return Page{}, nil
}

func (p *JSONParser) card(job gjson.Result, source string) types.CardResult {
	call := func(fn JSONField) string {
		if fn == nil {
			return ""
		}
		return fn(job)
	}
	rec := domain.RawJobRecord{
		Title:    call(p.Title),
		Company:  call(p.Company),
		Location: call(p.Location),
		Source:   source,
	}
	if rec.Title == "" {
		return types.CardResult{Skip: types.SkipNoTitle}
	}
	rec.URL = util.CanonicalizeURL(util.ResolveURL(p.BaseURL, call(p.Link)))
	rec.RawFields = rawFields(map[string]string{
		domain.RawPosted:     call(p.Posted),
		domain.RawSalary:     call(p.Salary),
		domain.RawExperience: call(p.Experience),
		domain.RawSkills:     call(p.Skills),
	})
	return types.CardResult{Record: rec}
}
