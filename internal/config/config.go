package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/planr/internal/cal"
)

// Config is the top-level application configuration. Things the UI can
// change live here; the event and role data live in the SQLite store.
type Config struct {
	// DefaultView is the view opened on launch: "month", "week" or
	// "day". Anything else falls back to month.
	DefaultView string `yaml:"default_view"`

	// DBPath overrides the database location. Empty means the default
	// under the user config directory.
	DBPath string `yaml:"db_path"`

	// ShowAllDay toggles the all-day row in the week and day views.
	ShowAllDay bool `yaml:"show_all_day"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultView: "month",
		ShowAllDay:  true,
	}
}

// Normalize fills in missing or unknown values so that hand-edited or
// older config files still behave.
func (c *Config) Normalize() {
	switch c.DefaultView {
	case "month", "week", "day":
	default:
		c.DefaultView = "month"
	}
}

// Mode returns the configured default view as a view mode.
func (c *Config) Mode() cal.ViewMode {
	return cal.ParseMode(c.DefaultView)
}

// Load loads configuration from the given YAML path. A missing file is
// a first run: the default config is written there and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planr-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// DefaultPath returns ~/.config/planr/config.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "planr", "config.yaml"), nil
}
