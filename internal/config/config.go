package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the working directory or its parent, once.
// It returns the file that was loaded, or "" when none was found.
func LoadEnv() (loaded string, err error) {
	envOnce.Do(func() {
		for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
			if _, statErr := os.Stat(candidate); statErr != nil {
				continue
			}
			if err = godotenv.Load(candidate); err == nil {
				loaded = candidate
			}
			return
		}
	})
	return loaded, err
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
