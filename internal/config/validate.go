package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

// NormalizeAndValidate returns a copy with trimmed, deduplicated lists and
// lowercase source names, plus errors and warnings. knownSources are the
// registered adapter names.
func NormalizeAndValidate(cfg Config, knownSources []string) (Config, Validation) {
	out := cfg
	var res Validation

	out.Run.Locations = trimList(out.Run.Locations)
	out.Run.Queries = trimList(out.Run.Queries)
	out.Filters.RoleAllow = trimList(out.Filters.RoleAllow)
	out.Filters.RoleExclude = trimList(out.Filters.RoleExclude)
	out.Fetch.BlockMarkers = trimList(out.Fetch.BlockMarkers)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))

	if len(cfg.Sources) > 0 {
		out.Sources = make(map[string]SourceConfig, len(cfg.Sources))
		for name, sc := range cfg.Sources {
			out.Sources[strings.ToLower(strings.TrimSpace(name))] = sc
		}
	}

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(err.Error(), "\n- ")[1:] {
			res.addErr("%s", line)
		}
	}

	// pacing sanity
	if out.Fetch.MaxDelay > 0 && out.Fetch.MaxDelay < time.Second {
		res.addWarn("fetch.max_delay is very low (%s) and will likely trigger blocking.", out.Fetch.MaxDelay)
	}
	if out.Fetch.LongPauseEvery == 0 {
		res.addWarn("fetch.long_pause_every is 0; long pauses are disabled.")
	}
	if out.Run.PoolSize > 8 {
		res.addWarn("run.pool_size is %d; most sites are fetched sequentially anyway.", out.Run.PoolSize)
	}
	if out.Run.Timeout == 0 {
		res.addWarn("run.timeout is 0; runs have no watchdog.")
	}

	enabled := 0
	for name, sc := range out.Sources {
		if !slices.Contains(knownSources, name) {
			res.addWarn("sources.%s is not a known source and will be ignored.", name)
			continue
		}
		if sc.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		res.addErr("no sources enabled")
	}
	if len(out.Run.Locations) == 0 {
		res.addWarn("run.locations is empty; every submission must name locations.")
	}

	allow := map[string]bool{}
	for _, a := range out.Filters.RoleAllow {
		allow[strings.ToLower(a)] = true
	}
	for _, e := range out.Filters.RoleExclude {
		if allow[strings.ToLower(e)] {
			res.addWarn("role keyword appears in both allow and exclude: %q", e)
		}
	}

	return out, res
}
