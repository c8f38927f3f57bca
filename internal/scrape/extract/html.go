package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"jobhub-engine/internal/domain"
	"jobhub-engine/internal/scrape/types"
	"jobhub-engine/internal/scrape/util"
)

// Page is the result of parsing one listing page.
type Page struct {
	Cards    []types.CardResult
	Strategy string
}

// Parser turns a page body into card results for source.
type Parser interface {
	Parse(body []byte, source string) (Page, error)
}

// HTMLParser extracts cards with ordered selector strategies: the first card
// selector that matches anything wins, and each field is a First chain.
type HTMLParser struct {
	Cards      []string
	Title      FieldFunc
	Company    FieldFunc
	Location   FieldFunc
	Link       FieldFunc
	Posted     FieldFunc
	Salary     FieldFunc
	Experience FieldFunc
	Skills     FieldFunc
	BaseURL    string
	// Generic enables the structural fallback when no card selector matches.
	Generic bool

	compiled []cascadia.Selector
}

// Compile validates selectors up front; adapters call it at construction.
func (p *HTMLParser) Compile() error {
	p.compiled = p.compiled[:0]
	for _, sel := range p.Cards {
		m, err := cascadia.Compile(sel)
		if err != nil {
			return fmt.Errorf("card selector %q: %w", sel, err)
		}
		p.compiled = append(p.compiled, m)
	}
	return nil
}

func (p *HTMLParser) Parse(body []byte, source string) (Page, error) {
	if len(p.compiled) != len(p.Cards) {
		if err := p.Compile(); err != nil {
			return Page{}, &types.ScrapeError{Kind: types.KindConfiguration, Source: source, Err: err}
		}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Page{}, &types.ScrapeError{Kind: types.KindParse, Source: source, Err: err}
	}
	return p.ParseDocument(doc, source), nil
}

func (p *HTMLParser) ParseDocument(doc *goquery.Document, source string) Page {
	for i, m := range p.compiled {
		cards := doc.FindMatcher(m)
		if cards.Length() == 0 {
			continue
		}
		page := Page{Strategy: p.Cards[i]}
		cards.Each(func(_ int, card *goquery.Selection) {
			page.Cards = append(page.Cards, p.card(card, source))
		})
		return page
	}
	if p.Generic {
		return p.generic(doc, source)
	}
	return Page{}
}

func (p *HTMLParser) card(card *goquery.Selection, source string) (res types.CardResult) {
	defer func() {
		if r := recover(); r != nil {
			res = types.CardResult{Skip: types.SkipParse}
		}
	}()

	call := func(fn FieldFunc) string {
		if fn == nil {
			return ""
		}
		return fn(card)
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

// generic scans for anchors that look like postings and treats the nearest
// block ancestor as the card. Links are deduplicated.
func (p *HTMLParser) generic(doc *goquery.Document, source string) Page {
	page := Page{Strategy: "generic"}
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !util.LooksLikeJobLink(href) {
			return
		}
		title := util.CleanText(a.Text())
		if title == "" {
			title = util.CleanText(a.AttrOr("title", ""))
		}
		if util.LooksLikeJunkTitle(title) {
			return
		}
		link := util.CanonicalizeURL(util.ResolveURL(p.BaseURL, href))
		if link == "" || seen[link] {
			return
		}
		seen[link] = true

		card := a.Closest("li, article, tr, div")
		rec := domain.RawJobRecord{
			Title:  title,
			URL:    link,
			Source: source,
		}
		if card.Length() > 0 {
			rec.Location = util.ExtractLocationFromLabeledText(card.Text())
			rec.Company = genericCompany(card, title)
		}
		page.Cards = append(page.Cards, types.CardResult{Record: rec})
	})
	return page
}

var companyHints = cascadia.MustCompile(`[class*="company"], [class*="employer"], [class*="comp-name"], [data-testid*="company"]`)

func genericCompany(card *goquery.Selection, title string) string {
	var out string
	card.FindMatcher(companyHints).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := util.CleanText(s.Text())
		if t != "" && !strings.EqualFold(t, title) {
			out = t
			return false
		}
		return true
	})
	return out
}

func rawFields(in map[string]string) map[string]string {
	var out map[string]string
	for k, v := range in {
		if v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(in))
		}
		out[k] = v
	}
	return out
}
