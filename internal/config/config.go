// Package config loads service configuration from an optional YAML file with
// environment-variable overrides for secrets and deployment settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Service   Service   `yaml:"service"`
	Database  Database  `yaml:"database"`
	Redis     Redis     `yaml:"redis"`
	Models    Models    `yaml:"models"`
	Retrieval Retrieval `yaml:"retrieval"`
}

// Service holds HTTP server settings.
type Service struct {
	Port        int      `yaml:"port"`
	Environment string   `yaml:"environment"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Database holds the Postgres connection settings.
type Database struct {
	URL string `yaml:"url"`
}

// Redis holds the answer-cache settings. An empty address disables caching.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLHours int    `yaml:"ttl_hours"`
}

// Models holds provider credentials and model names.
type Models struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	ChatModel       string `yaml:"chat_model"`
	JSONModel       string `yaml:"json_model"`
	VoyageAPIKey    string `yaml:"voyage_api_key"`
	EmbeddingModel  string `yaml:"embedding_model"`
	TavilyAPIKey    string `yaml:"tavily_api_key"`
}

// Retrieval holds the workflow knobs.
type Retrieval struct {
	K                   int     `yaml:"k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	WebResultLimit      int     `yaml:"web_result_limit"`
	MaxRetries          int     `yaml:"max_retries"`
}

// Default returns the configuration before file and environment overrides.
func Default() Config {
	return Config{
		Service: Service{
			Port:        8000,
			Environment: "development",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:4000"},
		},
		Models: Models{
			ChatModel:      "claude-sonnet-4-20250514",
			JSONModel:      "claude-3-5-haiku-20241022",
			EmbeddingModel: "voyage-3-large",
		},
		Retrieval: Retrieval{
			K:                   5,
			SimilarityThreshold: 0.7,
			WebResultLimit:      3,
			MaxRetries:          3,
		},
	}
}

// Load reads the config file at path (skipped when path is empty or the file
// does not exist) and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; environment alone is a valid configuration.
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Models.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.Models.VoyageAPIKey, "VOYAGE_API_KEY")
	setString(&c.Models.TavilyAPIKey, "TAVILY_API_KEY")
	setInt(&c.Service.Port, "AI_SERVICE_PORT")
	setString(&c.Service.Environment, "ENVIRONMENT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
