// Package cli provides the command-line interface for luxconsole.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ifor-lux/luxconsole/internal/config"
	"github.com/ifor-lux/luxconsole/internal/logging"
	"github.com/ifor-lux/luxconsole/internal/realtime"
	"github.com/ifor-lux/luxconsole/internal/store"
	"github.com/ifor-lux/luxconsole/internal/version"
)

var (
	// Global flags
	cfgFile   string
	tokenFlag string
	tokenFile string
	verbose   bool
	debug     bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "luxconsole",
		Short: "Admin console for the content store and user database",
		Long: `Luxconsole ` + version.Version + ` - Built: ` + version.BuildTime + `
Administration console for the app's content repository and user database.

File commands browse and mutate the content repository; user, notify and
update commands manage the realtime database records client devices read.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose || debug {
				logging.SetGlobalLevel(-1) // zerolog.DebugLevel
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "Content store token (overrides all other sources)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path to file containing the content store token")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newNotifyCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// Cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadConfig loads the configuration file and resolves the token.
// Priority: flags > token file > config file > default token file > env.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("locating config: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Token = config.ResolveToken(tokenFlag, tokenFile, cfg)
	return cfg, nil
}

// getStoreClient loads configuration and creates a content store client.
// The standard way commands reach the store.
func getStoreClient() (*store.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := store.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to create store client: %w", err)
	}
	return client, nil
}

// getRealtimeClient loads configuration and creates a database client.
func getRealtimeClient() (*realtime.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := realtime.NewClient(cfg, GetLogger())
	if err != nil {
		return nil, err
	}
	return client, nil
}
