package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/i474232898/meteobeguda/internal/config"
	"github.com/i474232898/meteobeguda/internal/extract"
	"github.com/i474232898/meteobeguda/internal/weather"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Write past days to Parquet files",
	Long: `Download the station file once and write each of the last
lookback days (yesterday first) to DATA_DIR/YYYY/MM/meteolocal-YYYY-MM-DD.parquet.
Timestamps are kept as the station reports them.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Int("lookback", 1, "number of past days to extract (1-7)")
	extractCmd.Flags().String("data-dir", "data", "output directory")

	_ = viper.BindPFlag(config.KeyExtractLookback, extractCmd.Flags().Lookup("lookback"))
	_ = viper.BindPFlag(config.KeyDataDir, extractCmd.Flags().Lookup("data-dir"))
}

func runExtract(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Extraction never touches the store; the service only loads.
	service, err := weather.NewService(nil, a.source, weather.ServiceConfig{
		Location: a.loc,
		Logger:   a.logger,
		Metrics:  a.metrics,
	})
	if err != nil {
		return err
	}

	ex, err := extract.New(service, extract.Config{
		DataDir:  a.cfg.DataDir,
		Lookback: a.cfg.ExtractLookback,
		Logger:   a.logger,
		Metrics:  a.metrics,
	})
	if err != nil {
		return err
	}

	paths, err := ex.Run(ctx)
	if err != nil {
		a.logger.Error("extraction failed", "error", err, "written", len(paths))
		return err
	}
	a.logger.Info("extraction completed", "files", len(paths), "data_dir", a.cfg.DataDir)
	return nil
}
