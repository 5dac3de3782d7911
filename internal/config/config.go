package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything the pipeline needs, constructed once per process
// start and passed in explicitly instead of read ad hoc from the environment.
type Config struct {
	CompletionAPIKey  string
	CompletionBaseURL string
	CompletionModels  []string
	// CompletionKeySSMParam, when set, names an SSM parameter holding the API
	// key; ResolveSecrets fills CompletionAPIKey from it.
	CompletionKeySSMParam string

	DatabaseURL string

	DefaultMaxTokens int

	LogLevel  string
	LogFormat string
}

// Load builds the configuration from the environment. A .env file is honored
// for local runs. Missing credentials are not an error here: handlers degrade
// to soft-failure envelopes instead of crashing.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		CompletionAPIKey:      strings.TrimSpace(os.Getenv("COMPLETION_API_KEY")),
		CompletionBaseURL:     strings.TrimSpace(os.Getenv("COMPLETION_BASE_URL")),
		CompletionKeySSMParam: strings.TrimSpace(os.Getenv("COMPLETION_API_KEY_SSM_PARAM")),
		DatabaseURL:           strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:              strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		LogFormat:             strings.TrimSpace(os.Getenv("LOG_FORMAT")),
		DefaultMaxTokens:      2000,
	}

	if v := strings.TrimSpace(os.Getenv("COMPLETION_MODELS")); v != "" {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				cfg.CompletionModels = append(cfg.CompletionModels, m)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("DEFAULT_MAX_TOKENS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultMaxTokens = n
		}
	}

	return cfg
}

// HasCompletionCredential reports whether a completion API key is available.
func (c *Config) HasCompletionCredential() bool {
	return c.CompletionAPIKey != ""
}

// HasRowStore reports whether row-store connection credentials are available.
func (c *Config) HasRowStore() bool {
	return c.DatabaseURL != ""
}
