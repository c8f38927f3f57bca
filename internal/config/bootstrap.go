package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureUserConfig returns <dataDir>/config.yml. On first start the file is
// seeded from defaultPath, or from Default when defaultPath is missing. A
// seed that does not parse or validate is refused rather than copied, so
// the engine never starts on a half-written config.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	seed, err := Load(defaultPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		seed = Default()
	case err != nil:
		return "", fmt.Errorf("seed config %s: %w", defaultPath, err)
	}
	if err := SaveAtomic(userPath, seed); err != nil {
		return "", fmt.Errorf("seed config %s: %w", defaultPath, err)
	}
	return userPath, nil
}
