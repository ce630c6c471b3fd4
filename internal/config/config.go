package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds process-wide settings. All fields are read once at startup
// and treated as read-only afterwards.
type Config struct {
	// GeminiAPIKey is the provider credential. The server starts without it
	// so the status endpoint stays reachable; the review service checks it
	// before every provider call.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	// Port the HTTP server listens on.
	Port string `mapstructure:"port"`

	// CORSOrigin is the allowed cross-origin value for browser clients.
	CORSOrigin string `mapstructure:"cors_origin"`

	// Environment controls whether error responses include internal
	// diagnostic detail ("production" substitutes a generic message).
	Environment string `mapstructure:"environment"`

	// Model is the Gemini model identifier used for review generation.
	Model string `mapstructure:"model"`

	// ServerURL is the base URL the terminal client talks to.
	ServerURL string `mapstructure:"server_url"`
}

// IsProduction reports whether diagnostic detail should be suppressed.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// HasAPIKey reports whether a provider credential is configured.
func (c Config) HasAPIKey() bool {
	return c.GeminiAPIKey != ""
}

// Load builds the effective configuration from defaults, an optional config
// file, and the environment. Environment variables use the CODELENS_ prefix
// (CODELENS_PORT, ...), with the upstream variable names kept as aliases so
// existing deployments keep working (GOOGLE_GEMINI_KEY, PORT, CORS_ORIGIN,
// GO_ENV).
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("port", "3000")
	v.SetDefault("cors_origin", "http://localhost:5173")
	v.SetDefault("environment", "development")
	v.SetDefault("model", "gemini-3-flash-preview")
	v.SetDefault("server_url", "http://localhost:3000")

	v.SetEnvPrefix("CODELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy variable names from the original deployment.
	for key, env := range map[string]string{
		"gemini_api_key": "GOOGLE_GEMINI_KEY",
		"port":           "PORT",
		"cors_origin":    "CORS_ORIGIN",
		"environment":    "GO_ENV",
	} {
		if err := v.BindEnv(key, "CODELENS_"+strings.ToUpper(key), env); err != nil {
			return Config{}, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
