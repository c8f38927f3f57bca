package sources

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"jobhub-engine/internal/scrape/board"
	"jobhub-engine/internal/scrape/extract"
	"jobhub-engine/internal/scrape/types"
)

// SpecFunc builds a fresh board spec. Specs hold compiled selectors, so each
// adapter gets its own.
type SpecFunc func() board.Spec

var builtin = []struct {
	name string
	spec SpecFunc
}{
	{"linkedin", linkedin},
	{"indeed", indeed},
	{"naukri", naukri},
	{"glassdoor", glassdoor},
	{"foundit", foundit},
	{"internshala", internshala},
	{"instahyre", instahyre},
	{"wellfound", wellfound},
	{"cutshort", cutshort},
	{"timesjobs", timesjobs},
	{"shine", shine},
}

// Names lists every built-in source in its canonical order.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for _, b := range builtin {
		out = append(out, b.name)
	}
	return out
}

// FetcherFactory returns the request client for one source. Sources never
// share a client, so pacing and retry state are per source.
type FetcherFactory func(source string) types.Fetcher

// Registry resolves source names to adapters.
type Registry struct {
	mu         sync.RWMutex
	specs      map[string]SpecFunc
	order      []string
	defaults   []string
	newFetcher FetcherFactory
	filter     types.RoleMatcher
}

// NewRegistry holds the built-in sources. enabled is the default set used
// when a run asks for "all" or names nothing; unknown names in it are ignored.
func NewRegistry(enabled []string, newFetcher FetcherFactory, filter types.RoleMatcher) *Registry {
	r := &Registry{
		specs:      make(map[string]SpecFunc, len(builtin)),
		newFetcher: newFetcher,
		filter:     filter,
	}
	for _, b := range builtin {
		r.specs[b.name] = b.spec
		r.order = append(r.order, b.name)
	}
	for _, name := range enabled {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := r.specs[name]; ok && !slices.Contains(r.defaults, name) {
			r.defaults = append(r.defaults, name)
		}
	}
	return r
}

// Register adds or replaces a source. A new name is enabled by default.
func (r *Registry) Register(name string, fn SpecFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.ToLower(name)
	if _, ok := r.specs[name]; !ok {
		r.order = append(r.order, name)
		r.defaults = append(r.defaults, name)
	}
	r.specs[name] = fn
}

// Defaults returns the enabled sources in canonical order.
func (r *Registry) Defaults() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.defaults))
	for _, name := range r.order {
		if slices.Contains(r.defaults, name) {
			out = append(out, name)
		}
	}
	return out
}

// Known reports whether name is a registered source.
func (r *Registry) Known(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.specs[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Resolve maps requested names to sources. Empty or "all" means the defaults.
// Unknown names are reported as configuration errors and left out; duplicates
// collapse to the first occurrence.
func (r *Registry) Resolve(requested []string) ([]string, []error) {
	if len(requested) == 0 {
		return r.Defaults(), nil
	}
	var (
		out  []string
		errs []error
	)
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			for _, d := range r.Defaults() {
				if !slices.Contains(out, d) {
					out = append(out, d)
				}
			}
			continue
		}
		if !r.Known(name) {
			errs = append(errs, &types.ScrapeError{Kind: types.KindConfiguration, Source: raw, Err: fmt.Errorf("unknown source %q", raw)})
			continue
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out, errs
}

// Build constructs the adapter for name with its own fetcher. Card selectors
// are compiled here so a broken one fails the source before any request.
func (r *Registry) Build(name string, opts ...board.Option) (types.Adapter, error) {
	r.mu.RLock()
	fn, ok := r.specs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &types.ScrapeError{Kind: types.KindConfiguration, Source: name, Err: fmt.Errorf("unknown source %q", name)}
	}

	spec := fn()
	if spec.Name == "" {
		spec.Name = name
	}
	if err := compile(spec.Parser); err != nil {
		return nil, &types.ScrapeError{Kind: types.KindConfiguration, Source: name, Err: err}
	}
	if r.newFetcher == nil {
		return nil, &types.ScrapeError{Kind: types.KindConfiguration, Source: name, Err: fmt.Errorf("no fetcher configured")}
	}

	if r.filter != nil {
		opts = append([]board.Option{board.WithFilter(r.filter)}, opts...)
	}
	return board.New(spec, r.newFetcher(name), opts...), nil
}

func compile(p extract.Parser) error {
	switch p := p.(type) {
	case *extract.HTMLParser:
		return p.Compile()
	case *extract.JSONParser:
		if p.Fallback != nil {
			return p.Fallback.Compile()
		}
	case nil:
		return fmt.Errorf("no parser")
	}
	return nil
}
