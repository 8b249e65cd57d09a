// Package cmd implements the csfloat CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/csfloat-tracker/internal/config"
	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
	"github.com/donaldgifford/csfloat-tracker/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "csfloat",
		Short: "Command-line client for the CSFloat marketplace API",
		Long: "csfloat queries and trades on the CSFloat marketplace from the terminal.\n" +
			"It searches listings, manages buy orders and offers, reads account\n" +
			"state and sale history, and can run a sale history watch daemon.\n\n" +
			"The API key is read from --api-key, CSF_API_KEY, a .env file, or the\n" +
			"csfloat.api_key field of --config.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file (see configs/config.example.yaml)")
	flags.String("api-key", "", "CSFloat API key")
	flags.String("base-url", "", "API root (default "+csfloat.DefaultBaseURL+")")
	flags.Duration("interval", 0, "minimum spacing between API requests (default 1s)")
	flags.String("output", "table", "output format (table, json)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	cobra.CheckErr(viper.BindPFlag("api_key", flags.Lookup("api-key")))
	cobra.CheckErr(viper.BindPFlag("base_url", flags.Lookup("base-url")))
	cobra.CheckErr(viper.BindPFlag("interval", flags.Lookup("interval")))
	cobra.CheckErr(viper.BindPFlag("output", flags.Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("log_level", flags.Lookup("log-level")))

	rootCmd.AddCommand(listingsCmd())
	rootCmd.AddCommand(buyOrdersCmd())
	rootCmd.AddCommand(offersCmd())
	rootCmd.AddCommand(meCmd())
	rootCmd.AddCommand(accountCmd())
	rootCmd.AddCommand(tradesCmd())
	rootCmd.AddCommand(metaCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(rawCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	viper.SetEnvPrefix("CSF")
	viper.AutomaticEnv()
}

// loadConfig returns the file config when --config is set, or the defaults
// otherwise, with flag and CSF_* environment overrides applied.
func loadConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if v := viper.GetString("api_key"); v != "" {
		cfg.CSFloat.APIKey = v
	}
	if v := viper.GetString("base_url"); v != "" {
		cfg.CSFloat.BaseURL = v
	}
	if v := viper.GetDuration("interval"); v > 0 {
		cfg.CSFloat.RequestInterval = v
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.Logging.Level = v
	}

	if cfg.CSFloat.APIKey == "" {
		return nil, fmt.Errorf("no API key: set --api-key, CSF_API_KEY or csfloat.api_key")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newClient() (*csfloat.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return clientFromConfig(cfg, newLogger(cfg))
}

func clientFromConfig(cfg *config.Config, log *slog.Logger) (*csfloat.Client, error) {
	opts := []csfloat.Option{
		csfloat.WithBaseURL(cfg.CSFloat.BaseURL),
		csfloat.WithRequestInterval(cfg.CSFloat.RequestInterval),
		csfloat.WithTimeout(cfg.CSFloat.Timeout),
		csfloat.WithLowQuotaThreshold(cfg.CSFloat.LowQuotaThreshold),
		csfloat.WithLogger(log),
	}

	if len(cfg.CSFloat.Proxies) > 0 {
		rotator, err := csfloat.NewProxyRotator(cfg.CSFloat.Proxies)
		if err != nil {
			return nil, fmt.Errorf("configuring proxies: %w", err)
		}
		opts = append(opts, csfloat.WithProxyRotator(rotator))
	}

	return csfloat.New(cfg.CSFloat.APIKey, opts...)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
