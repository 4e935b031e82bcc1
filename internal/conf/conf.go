package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anthropics/whatsapp-chat-bridge/internal/biz/usecase"
)

// Config represents application configuration
type Config struct {
	// Bridge service configuration
	Bridge BridgeConfig

	// Generation backend configuration
	Generator GeneratorConfig

	// Relay loop configuration
	Relay RelayConfig

	// State persistence configuration
	State StateConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// Destination address seeded into the state store on startup (optional)
	Destination string

	// Debug mode
	Debug bool
}

// BridgeConfig contains bridge service configuration
type BridgeConfig struct {
	BaseURL     string
	ChannelName string
}

// GeneratorConfig contains generation backend configuration
type GeneratorConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// RelayConfig contains relay loop configuration
type RelayConfig struct {
	PollIntervalMs  int
	ReplyTimeoutSec int
	StatusPollSec   int
}

// StateConfig contains state persistence configuration
type StateConfig struct {
	DBPath string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	stateDBPath := os.Getenv("STATE_DB_PATH")
	if stateDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		stateDBPath = filepath.Join(homeDir, ".whatsapp-chat-bridge", "state.db")
	}

	bridgeURL := os.Getenv("BRIDGE_URL")
	if bridgeURL == "" {
		bridgeURL = "http://127.0.0.1:8477"
	}

	channelName := os.Getenv("CHANNEL_NAME")
	if channelName == "" {
		channelName = "whatsapp"
	}

	pollIntervalMs := envInt("POLL_INTERVAL_MS", 3000)
	replyTimeoutSec := envInt("REPLY_TIMEOUT_SEC", 120)
	statusPollSec := envInt("STATUS_POLL_SEC", 10)

	promptsConfig, _ := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))

	return &Config{
		Bridge: BridgeConfig{
			BaseURL:     bridgeURL,
			ChannelName: channelName,
		},
		Generator: GeneratorConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		},
		Relay: RelayConfig{
			PollIntervalMs:  pollIntervalMs,
			ReplyTimeoutSec: replyTimeoutSec,
			StatusPollSec:   statusPollSec,
		},
		State: StateConfig{
			DBPath: stateDBPath,
		},
		Prompts:     promptsConfig,
		Destination: os.Getenv("WHATSAPP_DESTINATION"),
		Debug:       os.Getenv("DEBUG") == "true",
	}
}

func envInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

// PollInterval returns the relay poll interval as a duration
func (c *RelayConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// ReplyTimeout returns the bounded reply wait as a duration
func (c *RelayConfig) ReplyTimeout() time.Duration {
	return time.Duration(c.ReplyTimeoutSec) * time.Second
}

// StatusPoll returns the status watch interval as a duration
func (c *RelayConfig) StatusPoll() time.Duration {
	return time.Duration(c.StatusPollSec) * time.Second
}

// ToPromptConfig converts to the usecase prompt configuration
func (c *Config) ToPromptConfig() usecase.PromptConfig {
	if c.Prompts == nil {
		return usecase.DefaultPromptConfig
	}
	cfg := usecase.PromptConfig{
		ReplySystemPrompt:     c.Prompts.Reply.SystemPrompt,
		ProactiveSystemPrompt: c.Prompts.Proactive.SystemPrompt,
		ProactiveTemplate:     c.Prompts.Proactive.Template,
		HistoryLimit:          c.Prompts.History.MaxCount,
	}
	if cfg.ReplySystemPrompt == "" {
		cfg.ReplySystemPrompt = usecase.DefaultPromptConfig.ReplySystemPrompt
	}
	if cfg.ProactiveSystemPrompt == "" {
		cfg.ProactiveSystemPrompt = usecase.DefaultPromptConfig.ProactiveSystemPrompt
	}
	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Generator.APIKey == "" {
		return &ConfigError{Field: "OPENAI_API_KEY", Message: "required"}
	}
	if c.Bridge.BaseURL == "" {
		return &ConfigError{Field: "BRIDGE_URL", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
