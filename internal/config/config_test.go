package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var known = []string{"linkedin", "indeed", "naukri", "glassdoor", "foundit", "internshala", "instahyre", "wellfound", "cutshort", "timesjobs", "shine"}

func TestLoadRepoDefaultConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 1500*time.Millisecond, cfg.Fetch.MinDelay)
	assert.Equal(t, 30*time.Minute, cfg.Run.Timeout)
	assert.Len(t, cfg.Run.Queries, 5)
	assert.Equal(t, []string{"linkedin", "naukri", "indeed", "foundit", "timesjobs", "internshala"},
		cfg.EnabledSources([]string{"linkedin", "naukri", "indeed", "foundit", "timesjobs", "internshala", "shine"}))

	_, v := NormalizeAndValidate(cfg, known)
	assert.True(t, v.OK(), "errors: %v", v.Errors)
}

func TestLoadKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("run:\n  pool_size: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Run.PoolSize)
	assert.Equal(t, 2, cfg.Run.Pages)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.True(t, cfg.Sources["naukri"].Enabled)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.App.Port = 0
	cfg.Fetch.MinDelay = 5 * time.Second
	cfg.Fetch.MaxDelay = time.Second
	cfg.Fetch.TLSFingerprint = "firefox"
	cfg.Run.PoolSize = 0
	cfg.Scoring.TitleRules = []Rule{{Weight: 1}}

	err := Validate(cfg)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "app.port")
	assert.Contains(t, msg, "fetch.min_delay")
	assert.Contains(t, msg, "tls_fingerprint")
	assert.Contains(t, msg, "run.pool_size")
	assert.Contains(t, msg, "scoring.title_rules[0].tag is required")
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Run.Locations = []string{" Pune ", "pune", "", "Mumbai"}
	cfg.Sources = map[string]SourceConfig{"  LinkedIn ": {Enabled: true}, "monster": {Enabled: true}}
	cfg.Filters.RoleAllow = []string{"product manager"}
	cfg.Filters.RoleExclude = []string{"Product Manager"}
	cfg.Fetch.MaxDelay = 500 * time.Millisecond
	cfg.Fetch.MinDelay = 100 * time.Millisecond

	out, v := NormalizeAndValidate(cfg, known)
	assert.True(t, v.OK(), "errors: %v", v.Errors)
	assert.Equal(t, []string{"Pune", "Mumbai"}, out.Run.Locations)
	assert.Contains(t, out.Sources, "linkedin")
	assert.Len(t, v.Warnings, 3)

	cfg.Sources = map[string]SourceConfig{"linkedin": {Enabled: false}}
	_, v = NormalizeAndValidate(cfg, known)
	assert.False(t, v.OK())
	assert.Contains(t, v.Errors, "no sources enabled")
}

func TestSaveAtomicAndBootstrap(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir, filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Run.PoolSize, cfg.Run.PoolSize)

	cfg.Run.Pages = 4
	require.NoError(t, SaveAtomic(path, cfg))
	assert.FileExists(t, path+".bak")

	again, err := EnsureUserConfig(dir, "ignored.yml")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	reloaded, err := Load(again)
	require.NoError(t, err)
	assert.Equal(t, 4, reloaded.Run.Pages)
	assert.Equal(t, cfg.Fetch.MaxDelay, reloaded.Fetch.MaxDelay)

	bad := cfg
	bad.Run.PoolSize = 0
	assert.Error(t, SaveAtomic(path, bad))
}

func TestEnvOverlay(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JOBHUB_POOL_SIZE=6\nJOBHUB_TLS_FINGERPRINT=chrome\n"), 0o644))
	t.Setenv("JOBHUB_POOL_SIZE", "")
	t.Setenv("JOBHUB_TLS_FINGERPRINT", "")
	os.Unsetenv("JOBHUB_POOL_SIZE")
	os.Unsetenv("JOBHUB_TLS_FINGERPRINT")
	t.Setenv("JOBHUB_PORT", "9000")

	require.NoError(t, LoadDotEnv(envFile))
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, 6, cfg.Run.PoolSize)
	assert.Equal(t, "chrome", cfg.Fetch.TLSFingerprint)
	assert.Equal(t, 9000, cfg.App.Port)

	t.Setenv("JOBHUB_PAGES", "many")
	assert.Error(t, ApplyEnv(&cfg))
}

func TestBootstrapSeedsFromRepoConfig(t *testing.T) {
	dir := t.TempDir()
	path, err := EnsureUserConfig(dir, filepath.Join("..", "..", "config", "config.yml"))
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Run.Queries, 5)

	badSeed := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(badSeed, []byte("run: [not, a, map]\n"), 0o644))
	_, err = EnsureUserConfig(t.TempDir(), badSeed)
	assert.Error(t, err)
}
