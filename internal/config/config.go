// Package config loads pdfoutline settings from flags, PDFOUTLINE_* env vars
// and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	EnvPrefix = "PDFOUTLINE"
	FileName  = "pdfoutline"
	HomeDir   = ".pdfoutline"
)

type Config struct {
	ZoteroDir    string `mapstructure:"zotero_dir" json:"zotero_dir" yaml:"zotero_dir"`
	Editor       string `mapstructure:"editor" json:"editor" yaml:"editor"`
	Viewer       string `mapstructure:"viewer" json:"viewer" yaml:"viewer"`
	TrashCommand string `mapstructure:"trash_command" json:"trash_command" yaml:"trash_command"`
	KeepBackup   bool   `mapstructure:"keep_backup" json:"keep_backup" yaml:"keep_backup"`
	LogLevel     string `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		ZoteroDir:    "~/Zotero",
		Editor:       "",
		Viewer:       "xdg-open",
		TrashCommand: "trash-put",
		KeepBackup:   false,
		LogLevel:     "warn",
	}
}

// Manager owns a private viper instance so tests and commands do not share
// global state.
type Manager struct {
	v *viper.Viper
}

func NewManager(cfgFile string) (*Manager, error) {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("zotero_dir", d.ZoteroDir)
	v.SetDefault("editor", d.Editor)
	v.SetDefault("viewer", d.Viewer)
	v.SetDefault("trash_command", d.TrashCommand)
	v.SetDefault("keep_backup", d.KeepBackup)
	v.SetDefault("log_level", d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/" + HomeDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading %s: %w", cfgFile, err)
		}
	}
	return &Manager{v: v}, nil
}

// BindFlag lets an explicitly set flag override key. Unset flags keep the
// file/env value.
func (m *Manager) BindFlag(key string, f *pflag.Flag) error {
	if f == nil {
		return nil
	}
	return m.v.BindPFlag(key, f)
}

// File is the config file that was read, or "".
func (m *Manager) File() string { return m.v.ConfigFileUsed() }

func (m *Manager) Load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.ZoteroDir = ExpandHome(cfg.ZoteroDir)
	return &cfg, nil
}

// DefaultPath is where `config init` writes when no path is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, HomeDir, "config.yaml"), nil
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists", path)
		}
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	header := []byte(`# pdfoutline configuration
# Every key can be overridden with a PDFOUTLINE_<KEY> environment variable.
# An empty editor falls back to $VISUAL, $EDITOR, then vi.

`)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, append(header, data...), 0o644)
}

func ExpandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
