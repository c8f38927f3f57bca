package types

import (
	"context"
	"net/http"

	"jobhub-engine/internal/domain"
)

// Request is a single page fetch. Accept overrides the profile's Accept
// header (JSON endpoints).
type Request struct {
	URL     string
	Accept  string
	Referer string
}

type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// Empty reports a successful response that carries no content, such as a
// 404 past the last result page.
func (r *Response) Empty() bool { return r == nil || len(r.Body) == 0 }

// Fetcher is the HTTP capability handed to adapters.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (*Response, error)
}

type ScrapeRequest struct {
	Query    string
	Location string
	Pages    int
}

type SkipReason string

const (
	SkipNoTitle    SkipReason = "no_title"
	SkipRoleFilter SkipReason = "role_filter"
	SkipParse      SkipReason = "parse_error"
)

// CardResult is the outcome of extracting one listing card: either a record
// or the reason it was skipped.
type CardResult struct {
	Record domain.RawJobRecord
	Skip   SkipReason
}

// ScrapeOutput is what an adapter gathered for one (query, location). It is
// always populated, even when Scrape also returns a terminal error.
type ScrapeOutput struct {
	Source          string
	Records         []domain.RawJobRecord
	PagesAttempted  int
	PagesSucceeded  int
	PageParseErrors int
	Skipped         map[SkipReason]int
}

func (o *ScrapeOutput) Skip(reason SkipReason) {
	if o.Skipped == nil {
		o.Skipped = make(map[SkipReason]int)
	}
	o.Skipped[reason]++
}

// Adapter is one job site. Implementations fetch pages sequentially through
// their Fetcher and stop at the first empty page, failed response or the
// page budget.
type Adapter interface {
	Name() string
	Scrape(ctx context.Context, req ScrapeRequest) (ScrapeOutput, error)
}

// RoleMatcher decides whether a title belongs to the target role family.
type RoleMatcher interface {
	IsRoleMatch(title string) bool
}
