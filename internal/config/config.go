package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is the production clinic backend
const DefaultServerURL = "https://backkathitorres-production.up.railway.app/api"

// Config holds the agent configuration
type Config struct {
	Server struct {
		URL string `yaml:"url"`
	} `yaml:"server"`
	Storage struct {
		// Backend selects where the session token lives: the OS
		// keyring, or a plain file for headless hosts.
		Backend string `yaml:"backend"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Dir returns the agent's configuration directory (~/.katy)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".katy"), nil
}

// Path returns the configuration file location
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// UserCachePath returns where the last-known user is cached between runs
func UserCachePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "user.json"), nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.URL = DefaultServerURL
	cfg.Storage.Backend = "keyring"
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads the config file if present, then applies environment
// variable overrides. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := Path()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	if url := os.Getenv("KATY_SERVER_URL"); url != "" {
		cfg.Server.URL = url
	}
	if backend := os.Getenv("KATY_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if level := os.Getenv("KATY_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to the config file
func Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("server URL cannot be empty")
	}
	switch c.Storage.Backend {
	case "keyring", "file":
	default:
		return fmt.Errorf("unknown storage backend %q (expected keyring or file)", c.Storage.Backend)
	}
	return nil
}
