// Package cli provides configuration management commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/config"
	"github.com/ifor-lux/luxconsole/internal/constants"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage luxconsole configuration",
		Long: `Configuration management commands.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup.

The configuration is saved to ~/.config/luxconsole/config.
Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", configPath)
					fmt.Println("Use --force to overwrite or run 'config show' to view it.")
					return nil
				}
			}

			fmt.Println("Luxconsole Configuration Setup")
			fmt.Println("==============================")
			fmt.Println()

			cfg := config.New()

			for cfg.Repo == "" {
				cfg.Repo = promptLine("Content repository (owner/name, required)", "")
				if cfg.Repo == "" {
					fmt.Println("  Error: repository is required")
				}
			}
			cfg.Branch = promptLine("Branch", constants.DefaultBranch)
			cfg.APIBaseURL = promptLine("Contents API base URL", constants.DefaultAPIBaseURL)
			cfg.RawBaseURL = promptLine("Raw content base URL", constants.DefaultRawBaseURL)

			token, err := promptSecret("Content store token (empty to use " + config.EnvToken + " or token file)")
			if err != nil {
				return err
			}
			cfg.Token = token

			fmt.Println()
			fmt.Println("Realtime database (optional, press Enter to skip)")
			fmt.Println("-------------------------------------------------")
			cfg.DatabaseURL = promptLine("Database URL", "")
			if cfg.DatabaseURL != "" {
				cfg.DatabaseSecret, err = promptSecret("Database secret")
				if err != nil {
					return err
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			fmt.Printf("\n✓ Configuration saved to %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Repository:   %s\n", cfg.Repo)
			fmt.Printf("Branch:       %s\n", cfg.Branch)
			fmt.Printf("API base:     %s\n", cfg.APIBaseURL)
			fmt.Printf("Raw base:     %s\n", cfg.RawBaseURL)
			fmt.Printf("Token:        %s\n", redact(cfg.Token))
			fmt.Printf("Database:     %s\n", valueOr(cfg.DatabaseURL, "(not configured)"))
			if cfg.DatabaseURL != "" {
				fmt.Printf("DB secret:    %s\n", redact(cfg.DatabaseSecret))
			}
			fmt.Printf("Proxy mode:   %s\n", cfg.ProxyMode)
			return nil
		},
	}
	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	return cmd
}

// redact shows only the tail of a secret, enough to tell tokens apart.
func redact(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
