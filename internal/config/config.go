package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

// Config holds all configuration from environment variables.
type Config struct {
	Token        string `envconfig:"TELEGRAM_API_TOKEN" required:"true"`
	APIKey       string `envconfig:"AI_API_KEY" required:"true"`
	BaseURL      string `envconfig:"AI_BASE_URL" default:"https://openrouter.ai/api/v1"`
	Model        string `envconfig:"AI_MODEL" default:"google/gemini-pro"`
	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"10"`
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`

	// AI requests per second across all chats, 0 disables throttling
	AIRateLimit float64 `envconfig:"AI_RATE_LIMIT" default:"2"`
	AIBurst     int     `envconfig:"AI_BURST" default:"4"`

	// Network stats
	RPCURL       string        `envconfig:"MODE_RPC_URL" default:"https://mainnet.mode.network"`
	StatsTTL     time.Duration `envconfig:"STATS_TTL" default:"5m"`
	StatsTimeout time.Duration `envconfig:"STATS_TIMEOUT" default:"10s"`

	// Quiz sessions; a zero idle timeout keeps sessions until finished or exited
	QuizIdleTimeout   time.Duration `envconfig:"QUIZ_IDLE_TIMEOUT" default:"0"`
	QuizSweepInterval time.Duration `envconfig:"QUIZ_SWEEP_INTERVAL" default:"1m"`

	// Wallet variant only
	WalletAPIKey      string `envconfig:"WALLET_API_KEY"`
	WalletBaseURL     string `envconfig:"WALLET_BASE_URL" default:"https://api.circle.com/v1/w3s"`
	WalletBlockchain  string `envconfig:"WALLET_BLOCKCHAIN" default:"ETH-SEPOLIA"`
	WalletAccountType string `envconfig:"WALLET_ACCOUNT_TYPE" default:"SCA"`

	// Path to config.toml file
	ConfigFile string `envconfig:"CONFIG_FILE" default:"config.toml"`

	// Loaded from config.toml
	Prompts   Prompts
	Questions []Question
}

// Prompts holds system prompts loaded from config.toml.
type Prompts struct {
	System string `toml:"system"`
}

// Question is a quiz question as written in config.toml.
type Question struct {
	Prompt      string   `toml:"prompt"`
	Options     []string `toml:"options"`
	Correct     int      `toml:"correct"`
	Explanation string   `toml:"explanation"`
}

// FileConfig represents the structure of config.toml.
type FileConfig struct {
	Prompts   Prompts    `toml:"prompts"`
	Questions []Question `toml:"questions"`
}

// DefaultPrompts provides fallback prompts if config.toml is not found.
var DefaultPrompts = Prompts{
	System: "You are the Mode Network assistant. Provide helpful, accurate and concise answers about Mode Network. Do not use markdown formatting.",
}

// LoadEnv loads the configuration from environment variables.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := envconfig.Process("", &cfg); err != nil {
		return c, err
	}

	return cfg, nil
}

// LoadFile loads prompts and quiz questions from config.toml file.
// Questions are left empty when the file has none; the quiz package
// falls back to its built-in bank.
func (c *Config) LoadFile() error {
	// Try to find config file
	configPath := c.ConfigFile
	if !filepath.IsAbs(configPath) {
		// Try current directory first
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// Try executable directory
			execPath, err := os.Executable()
			if err == nil {
				execDir := filepath.Dir(execPath)
				configPath = filepath.Join(execDir, c.ConfigFile)
			}
		}
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		c.Prompts = DefaultPrompts
		return nil
	}

	var fileConfig FileConfig
	if _, err := toml.DecodeFile(configPath, &fileConfig); err != nil {
		return fmt.Errorf("failed to decode %s: %w", configPath, err)
	}

	c.Prompts = fileConfig.Prompts
	c.Questions = fileConfig.Questions

	if c.Prompts.System == "" {
		c.Prompts.System = DefaultPrompts.System
	}

	return nil
}

// Validate checks settings that envconfig can't express.
func (c *Config) Validate() error {
	if c.StatsTTL <= 0 {
		return fmt.Errorf("STATS_TTL must be positive, got %s", c.StatsTTL)
	}
	if c.QuizIdleTimeout < 0 {
		return fmt.Errorf("QUIZ_IDLE_TIMEOUT must not be negative, got %s", c.QuizIdleTimeout)
	}
	if c.QuizIdleTimeout > 0 && c.QuizSweepInterval <= 0 {
		return fmt.Errorf("QUIZ_SWEEP_INTERVAL must be positive when QUIZ_IDLE_TIMEOUT is set")
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("HISTORY_LIMIT must not be negative, got %d", c.HistoryLimit)
	}
	return nil
}

func NewConfig() (*Config, error) {
	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	if err := loadedCfg.Validate(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
