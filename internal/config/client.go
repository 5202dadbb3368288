package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ClientConfig configures the suitekeep app core.
type ClientConfig struct {
	APIURL    string   `toml:"api_url"`
	AccountID int64    `toml:"account_id"`
	SuiteID   int64    `toml:"suite_id"`
	LogLevel  string   `toml:"log_level"`
	Timeout   Duration `toml:"timeout"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultClientPath returns ~/.config/suitekeep/config.toml.
func DefaultClientPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "suitekeep.toml"
	}
	return filepath.Join(dir, "suitekeep", "config.toml")
}

// LoadClient reads the client config at path. A missing file yields the
// defaults; a malformed one is an error.
func LoadClient(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ClientConfig{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}
	if cfg.APIURL == "" {
		cfg.APIURL = "http://localhost:8080"
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Timeout.Duration <= 0 {
		cfg.Timeout.Duration = 15 * time.Second
	}
	if cfg.AccountID < 0 {
		return ClientConfig{}, fmt.Errorf("config invalid (%s): account_id must be positive", path)
	}
	return cfg, nil
}
