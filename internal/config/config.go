package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Rule struct {
	Tag    string   `yaml:"tag"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

type Penalty struct {
	Reason string   `yaml:"reason"`
	Weight int      `yaml:"weight"`
	Any    []string `yaml:"any"`
}

type FetchConfig struct {
	MinDelay       time.Duration `yaml:"min_delay"`
	MaxDelay       time.Duration `yaml:"max_delay"`
	LongPauseEvery int           `yaml:"long_pause_every"`
	LongPauseMin   time.Duration `yaml:"long_pause_min"`
	LongPauseMax   time.Duration `yaml:"long_pause_max"`
	MaxRetries     int           `yaml:"max_retries"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
	BackoffMax     time.Duration `yaml:"backoff_max"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	// TLSFingerprint is "go" (default) or "chrome".
	TLSFingerprint string   `yaml:"tls_fingerprint"`
	HostRPS        float64  `yaml:"host_rps"`
	BlockMarkers   []string `yaml:"block_markers"`
}

type RunConfig struct {
	PoolSize  int           `yaml:"pool_size"`
	Timeout   time.Duration `yaml:"timeout"`
	Pages     int           `yaml:"pages"`
	Locations []string      `yaml:"locations"`
	Queries   []string      `yaml:"queries"`
}

type SourceConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`

	Fetch FetchConfig `yaml:"fetch"`
	Run   RunConfig   `yaml:"run"`

	Sources map[string]SourceConfig `yaml:"sources"`

	Filters struct {
		RoleAllow   []string `yaml:"role_allow"`
		RoleExclude []string `yaml:"role_exclude"`
	} `yaml:"filters"`

	Scoring struct {
		Base         int       `yaml:"base"`
		TitleRules   []Rule    `yaml:"title_rules"`
		KeywordRules []Rule    `yaml:"keyword_rules"`
		Penalties    []Penalty `yaml:"penalties"`
	} `yaml:"scoring"`

	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`

	Store struct {
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"store"`
}

// DefaultSources are enabled when a config names no sources.
var DefaultSources = []string{"linkedin", "naukri", "indeed", "foundit", "timesjobs", "internshala"}

// DefaultQueries are the searches run when a submission names none.
var DefaultQueries = []string{
	"product manager",
	"senior product manager",
	"associate product manager",
	"technical product manager",
	"product owner",
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.Log.Level = "info"

	cfg.Fetch = FetchConfig{
		MinDelay:       1500 * time.Millisecond,
		MaxDelay:       4 * time.Second,
		LongPauseEvery: 10,
		LongPauseMin:   2 * time.Second,
		LongPauseMax:   5 * time.Second,
		MaxRetries:     3,
		BackoffBase:    2 * time.Second,
		BackoffMax:     30 * time.Second,
		Timeout:        20 * time.Second,
		MaxBodyBytes:   5 << 20,
		TLSFingerprint: "go",
	}
	cfg.Run = RunConfig{
		PoolSize:  3,
		Timeout:   30 * time.Minute,
		Pages:     2,
		Locations: []string{"Bangalore"},
		Queries:   append([]string(nil), DefaultQueries...),
	}
	cfg.Sources = map[string]SourceConfig{}
	for _, s := range DefaultSources {
		cfg.Sources[s] = SourceConfig{Enabled: true}
	}
	cfg.Scoring.Base = 50
	cfg.Store.RetentionDays = 60
	return cfg
}

// Load reads path over Default, so omitted keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// EnabledSources lists the enabled source names in order.
func (c Config) EnabledSources(order []string) []string {
	var out []string
	for _, name := range order {
		if sc, ok := c.Sources[name]; ok && sc.Enabled {
			out = append(out, name)
		}
	}
	return out
}
