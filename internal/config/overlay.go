package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overlays JOBHUB_* variables on cfg.
func ApplyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("JOBHUB_DATA_DIR", &cfg.App.DataDir)
	str("JOBHUB_LOG_LEVEL", &cfg.Log.Level)
	str("JOBHUB_TLS_FINGERPRINT", &cfg.Fetch.TLSFingerprint)
	str("JOBHUB_SCHEDULE", &cfg.Schedule.Cron)
	str("JOBHUB_DB_PATH", &cfg.Store.Path)

	if err := num("JOBHUB_PORT", &cfg.App.Port); err != nil {
		return err
	}
	if err := num("JOBHUB_POOL_SIZE", &cfg.Run.PoolSize); err != nil {
		return err
	}
	return num("JOBHUB_PAGES", &cfg.Run.Pages)
}
