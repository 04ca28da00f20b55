package config

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment. Variables already set win.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("[WARN] %s not found, using environment and config file only", f)
				continue
			}
			log.Printf("[WARN] failed to load %s: %v", f, err)
		}
	}
}

// GetEnv retrieves an environment variable or returns a default value if not found
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
