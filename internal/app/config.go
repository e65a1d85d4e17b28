package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the CLI configuration, loadable from environment variables
// (STOREFRONT_ prefix) or YAML config files.
type Config struct {
	BaseURL   string        `usage:"Storefront API base URL, including /api (STOREFRONT_BASE_URL)" flag:"base-url"`
	Timeout   time.Duration `default:"50s" usage:"Per-request timeout"`
	TokenFile string        `usage:"Path to the saved session token" flag:"token-file"`
	UserAgent string        `default:"bike-gear-cli" usage:"User-Agent header" flag:"user-agent"`
	Search    SearchConfig
	Health    HealthConfig
}

// SearchConfig controls the interactive search mode.
type SearchConfig struct {
	Debounce time.Duration `default:"500ms" usage:"Debounce interval for watch-mode search input"`
}

// HealthConfig controls the status subcommand's endpoint probes.
type HealthConfig struct {
	Timeout time.Duration `default:"5s" usage:"Per-probe timeout for the status command"`
}

// LoadConfig loads configuration from environment variables and YAML config
// files, and fills in the default token path.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		SkipFlags: true,
		Files:     []string{"storefront.yaml", filepath.Join(configDir(), "config.yaml")},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required: set STOREFRONT_BASE_URL")
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(configDir(), "token.json")
	}
	return &cfg, nil
}

func configDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bike-gear")
	}
	return "."
}
