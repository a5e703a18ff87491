// Package main provides the CLI entry point for the station service.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/i474232898/meteobeguda/internal/config"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "meteobeguda",
		Short: "Weather station dashboard and archive",
		Long: `Downloads the La Beguda Alta station data and:
- serve: refreshes readings periodically and serves the dashboard and JSON API
- extract: writes past days to Parquet files`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("timezone", "Europe/Madrid", "IANA zone readings are reported in")
	rootCmd.PersistentFlags().String("source-base-url", "http://www.meteobeguda.cat", "station download base URL")
	rootCmd.PersistentFlags().Duration("http-timeout", 15*time.Second, "timeout for station downloads")

	// Bind flags to viper. A flag only overrides the environment when set.
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyTimezone, flags.Lookup("timezone"))
	_ = viper.BindPFlag(config.KeySourceBaseURL, flags.Lookup("source-base-url"))
	_ = viper.BindPFlag(config.KeyHTTPTimeout, flags.Lookup("http-timeout"))
}

// initConfig reads the optional config file. Defaults and environment
// lookup are registered by config.Load.
func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read config file %s: %v", cfgFile, err)
	}
	fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
}
