package config

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvToken is the environment variable checked as the last token source.
const EnvToken = "LUXCONSOLE_TOKEN"

// DefaultTokenPath returns the default token file path
// (~/.config/luxconsole/token), or "" if the home directory is unknown.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "luxconsole", "token")
}

// ReadTokenFile reads a token from a file, trimming surrounding whitespace.
func ReadTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteTokenFile stores a token at path with owner-only permissions,
// creating parent directories as needed.
func WriteTokenFile(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0600)
}

// ResolveToken returns a contents-API token by checking sources in priority
// order. Consistent resolution across every command.
//
// Priority (highest to lowest):
//  1. Provided token parameter (e.g. from --token flag)
//  2. Explicit token file (e.g. from --token-file flag)
//  3. Token stored in the loaded config file
//  4. Default token file (~/.config/luxconsole/token)
//  5. LUXCONSOLE_TOKEN environment variable
//
// Returns empty string if no token is found in any source.
func ResolveToken(token, tokenFile string, cfg *Config) string {
	if token != "" {
		return token
	}

	if tokenFile != "" {
		if t, err := ReadTokenFile(tokenFile); err == nil && t != "" {
			return t
		}
	}

	if cfg != nil && cfg.Token != "" {
		return cfg.Token
	}

	if path := DefaultTokenPath(); path != "" {
		if t, err := ReadTokenFile(path); err == nil && t != "" {
			return t
		}
	}

	return os.Getenv(EnvToken)
}
