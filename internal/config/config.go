package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from the first .env file found in dir or its
// parent. Variables already set in the environment are kept. It returns the
// file it loaded, or "" when there is none.
func LoadEnv(dir string) (string, error) {
	candidates := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, "..", ".env"),
	}

	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("error checking %s: %w", envFile, err)
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("error loading .env file: %w", err)
		}
		return envFile, nil
	}
	return "", nil
}
