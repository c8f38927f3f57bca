package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}

	f := cfg.Fetch
	if f.MinDelay < 0 || f.MaxDelay < f.MinDelay {
		errs = append(errs, "fetch.min_delay must be >= 0 and <= fetch.max_delay")
	}
	if f.LongPauseEvery < 0 {
		errs = append(errs, "fetch.long_pause_every must be >= 0")
	}
	if f.LongPauseMax < f.LongPauseMin {
		errs = append(errs, "fetch.long_pause_max must be >= fetch.long_pause_min")
	}
	if f.MaxRetries < 0 || f.MaxRetries > 10 {
		errs = append(errs, "fetch.max_retries must be 0..10")
	}
	if f.Timeout <= 0 {
		errs = append(errs, "fetch.timeout must be > 0")
	}
	switch f.TLSFingerprint {
	case "", "go", "chrome":
	default:
		errs = append(errs, fmt.Sprintf("fetch.tls_fingerprint %q must be go or chrome", f.TLSFingerprint))
	}

	if cfg.Run.PoolSize < 1 {
		errs = append(errs, "run.pool_size must be >= 1")
	}
	if cfg.Run.Pages < 0 || cfg.Run.Pages > 50 {
		errs = append(errs, "run.pages must be 0..50")
	}
	if cfg.Run.Timeout < 0 {
		errs = append(errs, "run.timeout must be >= 0")
	}

	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				errs = append(errs, fmt.Sprintf("%s[%d].tag is required", name, i))
			}
			if len(r.Any) == 0 {
				errs = append(errs, fmt.Sprintf("%s[%d].any must have at least 1 term", name, i))
			}
			for j, term := range r.Any {
				if term == "" {
					errs = append(errs, fmt.Sprintf("%s[%d].any[%d] cannot be empty", name, i, j))
				}
			}
		}
	}

	checkRules("scoring.title_rules", cfg.Scoring.TitleRules)
	checkRules("scoring.keyword_rules", cfg.Scoring.KeywordRules)
	for i, p := range cfg.Scoring.Penalties {
		if p.Reason == "" {
			errs = append(errs, fmt.Sprintf("scoring.penalties[%d].reason is required", i))
		}
		if len(p.Any) == 0 {
			errs = append(errs, fmt.Sprintf("scoring.penalties[%d].any must have at least 1 term", i))
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

// SaveAtomic validates cfg and replaces path, keeping the previous file as
// path.bak.
func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
