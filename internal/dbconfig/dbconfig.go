// Package dbconfig loads the handful of environment-driven settings the
// reldb command-line entry point needs. The storage core itself never
// reads the environment — every constructor takes its storage directory
// as an explicit argument.
package dbconfig

import "os"

// Config holds the reldb process's environment-derived settings.
type Config struct {
	StorageDir string
	LogLevel   string
}

// LoadFromEnv reads RELDB_DATA_DIR and RELDB_LOG_LEVEL, falling back to
// sensible defaults for local/manual use.
func LoadFromEnv() Config {
	return Config{
		StorageDir: getEnv("RELDB_DATA_DIR", "./reldb_data"),
		LogLevel:   getEnv("RELDB_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
