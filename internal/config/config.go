package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port          int              `json:"port"`
	LogConfig     logger.LogConfig `json:"log_config"`
	Database      DatabaseConfig   `json:"database"`
	AI            AIConfig         `json:"ai"`
	FileStore     FileStoreConfig  `json:"file_store"`
	Query         QueryConfig      `json:"query"`
	Jobs          JobsConfig       `json:"jobs"`
	CORSAllowlist []string         `json:"cors_allowlist"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

type AIConfig struct {
	Provider             string            `json:"provider"`
	Data                 interface{}       `json:"data"`
	Model                string            `json:"model"`
	EmbedModel           string            `json:"embed_model"`
	EmbedCacheSize       int               `json:"embed_cache_size"`
	EmbedCacheTTLMinutes int               `json:"embed_cache_ttl_minutes"`
	Fallbacks            []AIProviderEntry `json:"fallbacks"`
}

// AIProviderEntry describes an extra provider tried when the primary
// one fails.
type AIProviderEntry struct {
	Provider   string      `json:"provider"`
	Data       interface{} `json:"data"`
	Model      string      `json:"model"`
	EmbedModel string      `json:"embed_model"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type QueryConfig struct {
	DefaultTopK             int `json:"default_top_k"`
	SynthesisTimeoutSeconds int `json:"synthesis_timeout_seconds"`
	SummaryInputMaxChars    int `json:"summary_input_max_chars"`
	// RateLimitSeconds throttles the LLM-backed endpoints; 0 disables.
	RateLimitSeconds int `json:"rate_limit_seconds"`
}

type JobsConfig struct {
	// Cron specs are standard 5-field; an empty spec disables the job.
	SummaryRefreshCron string `json:"summary_refresh_cron"`
	CacheCleanupCron   string `json:"cache_cleanup_cron"`
	CacheMaxAgeDays    int    `json:"cache_max_age_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.Database.DSN == "" && (cfg.Database.Host == "" || cfg.Database.DBName == "") {
		return nil, fmt.Errorf("database.dsn or database.host/db_name is required")
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.AI.Provider == "" {
		return nil, fmt.Errorf("ai.provider is required")
	}
	if cfg.AI.Model == "" {
		return nil, fmt.Errorf("ai.model is required")
	}
	if cfg.AI.EmbedModel == "" {
		return nil, fmt.Errorf("ai.embed_model is required")
	}
	if cfg.AI.EmbedCacheSize == 0 {
		cfg.AI.EmbedCacheSize = 10000
	}
	if cfg.AI.EmbedCacheTTLMinutes == 0 {
		cfg.AI.EmbedCacheTTLMinutes = 120
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
	}
	if cfg.FileStore.Type == "local" && cfg.FileStore.Data == nil {
		cfg.FileStore.Data = map[string]interface{}{"dir": "uploads"}
	}
	if cfg.Query.DefaultTopK == 0 {
		cfg.Query.DefaultTopK = 5
	}
	if cfg.Query.SynthesisTimeoutSeconds == 0 {
		cfg.Query.SynthesisTimeoutSeconds = 60
	}
	if cfg.Query.SummaryInputMaxChars == 0 {
		cfg.Query.SummaryInputMaxChars = 40000
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	return &cfg, nil
}
