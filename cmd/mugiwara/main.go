package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/database"
	"github.com/mugiwarahub/mugiwara/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	noColor   bool
	debugMode bool

	cfg    *config.Config
	logger *slog.Logger
	a      *app
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mugiwara",
	Short: "Browse and stream anime from your terminal",
	Long: `mugiwara is a terminal client for browsing anime metadata from AniList and
streaming episodes through the Pahe and Zoro providers.

Run without arguments to open the interactive TUI, or use the subcommands to
search, inspect and play episodes directly.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init and version work without a loaded config
		if (cmd.Name() == "init" && cmd.Parent().Name() == "config") || cmd.Name() == "version" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		loaded, v, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		logger, err = config.InitLogger(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if err := database.Init(&cfg.Database); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}

		a = newApp(cfg, database.GetDB(), logger)
		a.watchConfig(v)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database.GetDB() == nil {
			return
		}
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("mugiwara starting", "version", version)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		go a.checkProviders(ctx)

		return tui.Start(ctx, a.tuiDeps())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/mugiwara/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging and verbose mpv output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(providersCmd)
}

// commandContext is cancelled on Ctrl+C
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mugiwara version %s\n", version)
		fmt.Fprintf(out, "Commit: %s\n", commit)
		fmt.Fprintf(out, "Built: %s\n", date)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = filepath.Join(config.GetConfigDir(), "config.yaml")
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s", configPath)
		}
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.SaveDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to save default configuration: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Default configuration generated at: %s\n", configPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n", configFileUsed())
		fmt.Fprintf(out, "Log level: %s (%s)\n", cfg.Logging.Level, cfg.Logging.File)
		fmt.Fprintf(out, "Database: %s\n", cfg.Database.Path)
		fmt.Fprintf(out, "Metadata: %s\n", cfg.API.MetadataURL)
		fmt.Fprintf(out, "Backend: %s\n", cfg.API.BackendURL)
		fmt.Fprintf(out, "Proxy: %s\n", cfg.API.ProxyURL)
		fmt.Fprintf(out, "Stream proxy: %s\n", cfg.API.StreamProxyURL)
		fmt.Fprintf(out, "Providers: %v (audio %s)\n", cfg.Providers.Order, cfg.Providers.AudioPreference)
		fmt.Fprintf(out, "Player: %s\n", cfg.Player.Backend)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Display configuration file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFileUsed())
	},
}

func configFileUsed() string {
	if a != nil && a.configFile != "" {
		return a.configFile
	}
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.GetConfigDir(), "config.yaml")
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List episode providers and check that they respond",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		names := a.providers.List()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No providers enabled")
			return nil
		}

		a.providers.CheckAllProviders(ctx)
		printProviderStatuses(cmd.OutOrStdout(), a.providers.Ordered(), a.providers.GetProviderStatuses())
		return nil
	},
}
