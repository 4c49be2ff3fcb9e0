package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ekvall/depot"
	"github.com/ekvall/depot/mail"
	"github.com/ekvall/depot/yahoo"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is consulted when no -config flag is given.
const DefaultConfigFile = "depot.yaml"

// Config is the application configuration. Secrets are taken from the
// environment, never from the file or from source.
type Config struct {
	BaseCurrency string         `yaml:"base_currency"`
	HoldingsFile string         `yaml:"holdings_file"`
	Provider     ProviderConfig `yaml:"provider"`
	Mail         mail.Config    `yaml:"mail"`
	Assist       AssistConfig   `yaml:"assist"`
}

// ProviderConfig configures the market data client.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AssistConfig configures the optional AI commentary.
type AssistConfig struct {
	Model string `yaml:"model"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		BaseCurrency: depot.DefaultBaseCurrency,
		HoldingsFile: "holdings.json",
		Provider: ProviderConfig{
			Timeout: yahoo.DefaultTimeout,
		},
		Mail: mail.Config{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}

// Load reads the configuration file on top of Default. An empty path falls
// back to DefaultConfigFile when that exists, else to pure defaults. The SMTP
// password is always taken from the SMTP_PASSWORD environment variable.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
		}
	}

	cfg.Mail.Password = os.Getenv("SMTP_PASSWORD")
	return cfg, nil
}
