package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Environment EnvironmentConfig
	HTTPServer  HTTPServerConfig
	Logger      LoggerConfig

	// Core agent
	Agent   AgentConfig
	Memory  MemoryConfig
	Session SessionConfig

	// LLM provider abstraction
	LLM LLMConfig

	// Vendors
	MediaGen  MediaGenConfig
	Publisher PublisherConfig

	// Storage and scheduling
	Storage   StorageConfig
	Scheduler SchedulerConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type AgentConfig struct {
	MaxIterations int
	ToolTimeout   time.Duration
	Timezone      string
}

type MemoryConfig struct {
	WindowSize int
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type LLMConfig struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      string
	MaxTotalTimeout string
	Providers       []ProviderConfig
}

// ProviderConfig describes one LLM provider entry in the priority list.
type ProviderConfig struct {
	Name     string
	Enabled  bool
	Priority int
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  string
}

type MediaGenConfig struct {
	APIKey  string
	BaseURL string
}

type PublisherConfig struct {
	Enabled        bool
	BaseURL        string
	ClientID       string
	ClientSecret   string
	TokenURL       string
	RequestsPerMin int
}

type StorageConfig struct {
	Path string // directory holding the SQLite database
}

type SchedulerConfig struct {
	Enabled      bool
	TickInterval time.Duration
}

// Load reads configuration from config.yaml and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	cfg.Agent.MaxIterations = viper.GetInt("agent.max_iterations")
	cfg.Agent.ToolTimeout = viper.GetDuration("agent.tool_timeout")
	cfg.Agent.Timezone = viper.GetString("agent.timezone")

	cfg.Memory.WindowSize = viper.GetInt("memory.window_size")

	cfg.Session.TTL = viper.GetDuration("session.ttl")
	cfg.Session.CleanupInterval = viper.GetDuration("session.cleanup_interval")

	cfg.LLM.FallbackEnabled = viper.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = viper.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = viper.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = viper.GetString("llm.max_total_timeout")

	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					provider := ProviderConfig{
						Name:     getStringFromMap(providerMap, "name"),
						Enabled:  getBoolFromMap(providerMap, "enabled"),
						Priority: getIntFromMap(providerMap, "priority"),
						APIKey:   expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL:  getStringFromMap(providerMap, "base_url"),
						Model:    getStringFromMap(providerMap, "model"),
						Timeout:  getStringFromMap(providerMap, "timeout"),
					}
					cfg.LLM.Providers = append(cfg.LLM.Providers, provider)
				}
			}
		}
	}

	if len(cfg.LLM.Providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	cfg.MediaGen.APIKey = expandEnvVar(viper.GetString("mediagen.api_key"))
	cfg.MediaGen.BaseURL = viper.GetString("mediagen.base_url")

	cfg.Publisher.Enabled = viper.GetBool("publisher.enabled")
	cfg.Publisher.BaseURL = viper.GetString("publisher.base_url")
	cfg.Publisher.ClientID = expandEnvVar(viper.GetString("publisher.client_id"))
	cfg.Publisher.ClientSecret = expandEnvVar(viper.GetString("publisher.client_secret"))
	cfg.Publisher.TokenURL = viper.GetString("publisher.token_url")
	cfg.Publisher.RequestsPerMin = viper.GetInt("publisher.requests_per_min")

	cfg.Storage.Path = viper.GetString("storage.path")

	cfg.Scheduler.Enabled = viper.GetBool("scheduler.enabled")
	cfg.Scheduler.TickInterval = viper.GetDuration("scheduler.tick_interval")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("agent.max_iterations", 25)
	viper.SetDefault("agent.tool_timeout", "120s")
	viper.SetDefault("agent.timezone", "UTC")

	viper.SetDefault("memory.window_size", 20)

	viper.SetDefault("session.ttl", "30m")
	viper.SetDefault("session.cleanup_interval", "5m")

	viper.SetDefault("llm.fallback_enabled", true)
	viper.SetDefault("llm.retry_attempts", 3)
	viper.SetDefault("llm.retry_delay", "1s")
	viper.SetDefault("llm.max_total_timeout", "120s")

	viper.SetDefault("publisher.requests_per_min", 10)

	viper.SetDefault("storage.path", ".content-pilot")

	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.tick_interval", "1m")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if v := viper.GetString(envVar); v != "" {
			return v
		}
		return os.Getenv(envVar)
	}

	return value
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
