package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

const (
	EnvDiscordToken = "DISCORD_TOKEN"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

type Config struct {
	Discord struct {
		Token          string `yaml:"token"`
		Guild          string `yaml:"guild"`
		RemoveCommands bool   `yaml:"removeCommands"`
		CommandPrefix  string `yaml:"commandPrefix"`
	} `yaml:"discord"`
	OpenAI struct {
		APIKey       string        `yaml:"apiKey"`
		BaseURL      string        `yaml:"baseURL"`
		Model        string        `yaml:"model"`
		MaxTokens    int           `yaml:"maxTokens"`
		Temperature  *float32      `yaml:"temperature"`
		SystemPrompt string        `yaml:"systemPrompt"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"openAI"`
	Cache struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Default returns a Config with everything but the secrets filled in.
func Default() *Config {
	c := &Config{}
	c.Discord.CommandPrefix = "!"
	c.OpenAI.Model = provider.DefaultModel
	c.OpenAI.MaxTokens = provider.DefaultMaxTokens
	c.OpenAI.SystemPrompt = provider.DefaultSystemPrompt
	c.OpenAI.Timeout = 30 * time.Second
	c.Cache.Size = constants.DefaultAnswerCacheSize
	c.Log.Level = "info"
	return c
}

// ReadFromFile merges the YAML file into c. ${VAR} references in the file are
// expanded from the environment before parsing.
func (c *Config) ReadFromFile(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), c)
}

// ApplyEnv lets DISCORD_TOKEN and OPENAI_API_KEY override the file values.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvDiscordToken); ok && v != "" {
		c.Discord.Token = v
	}
	if v, ok := lookupEnv(EnvOpenAIAPIKey); ok && v != "" {
		c.OpenAI.APIKey = v
	}
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Discord.Token == "" {
		errs = append(errs, fmt.Errorf("discord token is missing (set discord.token or %s)", EnvDiscordToken))
	}
	if c.OpenAI.APIKey == "" {
		errs = append(errs, fmt.Errorf("openai api key is missing (set openAI.apiKey or %s)", EnvOpenAIAPIKey))
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size))
	}
	if c.OpenAI.Timeout < 0 {
		errs = append(errs, fmt.Errorf("openAI.timeout must not be negative, got %s", c.OpenAI.Timeout))
	}
	return errors.Join(errs...)
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A missing file is fine as long as the environment
// provides the secrets.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		err := cfg.ReadFromFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(lookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ProviderConfig returns the settings for the OpenAI answer provider.
func (c *Config) ProviderConfig() provider.Config {
	return provider.Config{
		APIKey:       c.OpenAI.APIKey,
		BaseURL:      c.OpenAI.BaseURL,
		Model:        c.OpenAI.Model,
		MaxTokens:    c.OpenAI.MaxTokens,
		Temperature:  c.OpenAI.Temperature,
		SystemPrompt: c.OpenAI.SystemPrompt,
	}
}
