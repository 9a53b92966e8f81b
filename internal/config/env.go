package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvCrate  = "DOCRENDER_CRATE"
	EnvOutput = "DOCRENDER_OUTPUT"
)

// loadEnvFiles loads the first readable of .env and .env.local and returns
// its name, or "" when neither exists. Existing variables are not overwritten.
func loadEnvFiles() string {
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			return envPath
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvCrate); v != "" {
		cfg.Crate = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
}
