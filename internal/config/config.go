// Package config provides configuration management for Lux Console.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/ifor-lux/luxconsole/internal/constants"
)

// Config is the resolved runtime configuration shared by the CLI and the
// library packages.
//
// Config file location: ~/.config/luxconsole/config
//
// INI format:
//
//	[store]
//	repo = owner/name
//	branch = main
//	api_base = https://api.github.com
//	raw_base = https://raw.githubusercontent.com
//	token = <contents-api token>
//
//	[realtime]
//	database_url = https://<project>.firebasedatabase.app
//	secret = <database secret>
//
//	[proxy]
//	mode = no-proxy | system | basic | ntlm
//	host = proxy.corp.example
//	port = 8080
//	user =
//	password =
//	no_proxy = localhost,127.0.0.1
type Config struct {
	// Content store settings
	Token      string // contents API token
	Repo       string // "owner/name"
	Branch     string
	APIBaseURL string
	RawBaseURL string

	// Realtime database settings (admin records)
	DatabaseURL    string
	DatabaseSecret string

	// Proxy settings
	ProxyMode     string // "no-proxy", "system", "basic", "ntlm"
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string
	NoProxy       string // comma-separated bypass list
}

// Validation errors
var (
	ErrMissingRepo  = errors.New("store repo is required (owner/name)")
	ErrInvalidRepo  = errors.New("store repo must be in owner/name form")
	ErrMissingToken = errors.New("store token is required")
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Branch:     constants.DefaultBranch,
		APIBaseURL: constants.DefaultAPIBaseURL,
		RawBaseURL: constants.DefaultRawBaseURL,
		ProxyMode:  "no-proxy",
	}
}

// Validate checks the fields every store operation depends on.
func (c *Config) Validate() error {
	if c.Repo == "" {
		return ErrMissingRepo
	}
	if strings.Count(c.Repo, "/") != 1 {
		return ErrInvalidRepo
	}
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// DefaultConfigPath returns the default path for the config file
// (~/.config/luxconsole/config).
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "luxconsole", "config"), nil
}

// Load reads configuration from an INI file. A missing file yields defaults
// and no error; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store := iniFile.Section("store")
	cfg.Repo = store.Key("repo").String()
	cfg.Branch = store.Key("branch").MustString(cfg.Branch)
	cfg.APIBaseURL = store.Key("api_base").MustString(cfg.APIBaseURL)
	cfg.RawBaseURL = store.Key("raw_base").MustString(cfg.RawBaseURL)
	cfg.Token = store.Key("token").String()

	realtime := iniFile.Section("realtime")
	cfg.DatabaseURL = realtime.Key("database_url").String()
	cfg.DatabaseSecret = realtime.Key("secret").String()

	proxy := iniFile.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(0)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.ProxyPassword = proxy.Key("password").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()

	return cfg, nil
}

// Save writes configuration to an INI file, creating parent directories.
// The token is stored in the file, so the directory and file are 0700/0600.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	store, err := iniFile.NewSection("store")
	if err != nil {
		return fmt.Errorf("failed to create store section: %w", err)
	}
	store.Key("repo").SetValue(cfg.Repo)
	store.Key("branch").SetValue(cfg.Branch)
	store.Key("api_base").SetValue(cfg.APIBaseURL)
	store.Key("raw_base").SetValue(cfg.RawBaseURL)
	store.Key("token").SetValue(cfg.Token)

	realtime, err := iniFile.NewSection("realtime")
	if err != nil {
		return fmt.Errorf("failed to create realtime section: %w", err)
	}
	realtime.Key("database_url").SetValue(cfg.DatabaseURL)
	realtime.Key("secret").SetValue(cfg.DatabaseSecret)

	proxy, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxy.Key("mode").SetValue(cfg.ProxyMode)
	proxy.Key("host").SetValue(cfg.ProxyHost)
	proxy.Key("port").SetValue(fmt.Sprintf("%d", cfg.ProxyPort))
	proxy.Key("user").SetValue(cfg.ProxyUser)
	proxy.Key("password").SetValue(cfg.ProxyPassword)
	proxy.Key("no_proxy").SetValue(cfg.NoProxy)

	if err := iniFile.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}

// RepoOwnerName splits Repo into its owner and name parts.
func (c *Config) RepoOwnerName() (string, string) {
	owner, name, _ := strings.Cut(c.Repo, "/")
	return owner, name
}
