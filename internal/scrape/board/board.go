package board

import (
	"context"
	"errors"
	"fmt"

	"jobhub-engine/internal/events"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/types"
)

// Spec declares one listing site: how to build a page URL and how to read
// cards from the response.
type Spec struct {
	Name string
	// URL builds the listing URL for a zero-based page index.
	URL    func(query, location string, page int) string
	Accept string
	Parser extract.Parser
	// Referer, when set, is sent instead of a search engine referer.
	Referer string
	// Unpaged sites return every listing on page 0.
	Unpaged bool
}

// Board is the generic paged adapter shared by all listing sites.
type Board struct {
	spec    Spec
	fetcher types.Fetcher
	filter  types.RoleMatcher
	sink    events.Sink
	runID   string
}

type Option func(*Board)

func WithSink(s events.Sink, runID string) Option {
	return func(b *Board) { b.sink, b.runID = s, runID }
}

func WithFilter(m types.RoleMatcher) Option { return func(b *Board) { b.filter = m } }

func New(spec Spec, f types.Fetcher, opts ...Option) *Board {
	b := &Board{spec: spec, fetcher: f, sink: events.Discard{}}
	for _, o := range opts {
		o(b)
	}
	return b
}

func (b *Board) Name() string { return b.spec.Name }

// Scrape walks pages 0..Pages-1 in order. It stops at the first page with no
// cards, the first failed fetch or the budget, and on cancellation between
// pages. The output always holds what was gathered before the stop; a
// non-nil error is the failure that ended paging.
func (b *Board) Scrape(ctx context.Context, req types.ScrapeRequest) (types.ScrapeOutput, error) {
	out := types.ScrapeOutput{Source: b.spec.Name}
	pages := req.Pages
	if pages <= 0 {
		return out, nil
	}
	if b.spec.Unpaged {
		pages = 1
	}

	for page := 0; page < pages; page++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		url := b.spec.URL(req.Query, req.Location, page)
		out.PagesAttempted++

		resp, err := b.fetcher.Fetch(ctx, types.Request{URL: url, Accept: b.spec.Accept, Referer: b.spec.Referer})
		if err != nil {
			err = types.WithSource(err, b.spec.Name)
			if !types.IsCancellation(err) {
				b.emit(events.PageFailed, req, page, events.Fields{"url": url, "kind": types.KindOf(err).String(), "error": err.Error()})
			}
			return out, fmt.Errorf("%s page %d: %w", b.spec.Name, page, err)
		}
		if resp.Empty() {
			b.emit(events.PageDone, req, page, events.Fields{"cards": 0})
			out.PagesSucceeded++
			return out, nil
		}

		parsed, err := b.spec.Parser.Parse(resp.Body, b.spec.Name)
		if err != nil {
			if errors.Is(err, types.ErrConfiguration) {
				return out, err
			}
			out.PageParseErrors++
			b.emit(events.PageFailed, req, page, events.Fields{"url": url, "kind": types.KindParse.String(), "error": err.Error()})
			return out, nil
		}
		out.PagesSucceeded++

		kept := b.collect(&out, parsed, req.Location)
		b.emit(events.PageDone, req, page, events.Fields{"cards": len(parsed.Cards), "kept": kept, "strategy": parsed.Strategy})

		if len(parsed.Cards) == 0 {
			return out, nil
		}
	}
	return out, nil
}

func (b *Board) collect(out *types.ScrapeOutput, page extract.Page, location string) int {
	kept := 0
	for _, c := range page.Cards {
		if c.Skip != "" {
			out.Skip(c.Skip)
			continue
		}
		rec := c.Record
		if b.filter != nil && !b.filter.IsRoleMatch(rec.Title) {
			out.Skip(types.SkipRoleFilter)
			continue
		}
		if rec.Location == "" {
			rec.Location = location
		}
		rec.Source = b.spec.Name
		out.Records = append(out.Records, rec)
		kept++
	}
	return kept
}

func (b *Board) emit(typ string, req types.ScrapeRequest, page int, f events.Fields) {
	f["source"] = b.spec.Name
	f["query"] = req.Query
	f["location"] = req.Location
	f["page"] = page
	b.sink.Emit(b.runID, typ, f)
}
