// Package extract writes one Parquet file per past day of station readings.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/i474232898/meteobeguda/internal/metrics"
	"github.com/i474232898/meteobeguda/internal/weather"
)

const parallelism = 4

// Loader yields normalized, non-localized readings for a download window.
// *weather.Service satisfies it.
type Loader interface {
	Load(ctx context.Context, w weather.Window) ([]weather.Reading, error)
	Today() weather.Date
}

// Config controls an extraction run.
type Config struct {
	DataDir string `validate:"required"`
	// Lookback is how many past days, yesterday first, are written.
	Lookback int `validate:"min=1,max=7"`
	Logger   *slog.Logger
	Metrics  *metrics.PipelineMetrics
}

var validate = validator.New()

// Extractor downloads the smallest window covering Lookback days and writes
// each of those days to DataDir.
type Extractor struct {
	loader  Loader
	dataDir string
	days    int
	logger  *slog.Logger
	metrics *metrics.PipelineMetrics
}

func New(loader Loader, cfg Config) (*Extractor, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid extract config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		loader:  loader,
		dataDir: cfg.DataDir,
		days:    cfg.Lookback,
		logger:  logger,
		metrics: cfg.Metrics,
	}, nil
}

// Path returns DATA_DIR/YYYY/MM/meteolocal-YYYY-MM-DD.parquet for day.
func Path(dataDir string, day weather.Date) string {
	return filepath.Join(
		dataDir,
		fmt.Sprintf("%04d", day.Year),
		fmt.Sprintf("%02d", int(day.Month)),
		"meteolocal-"+day.String()+".parquet",
	)
}

// Run writes yesterday back to today-Lookback and returns the written paths
// in that order. Days without readings are skipped. A write failure stops
// the run; files already written stay on disk.
func (e *Extractor) Run(ctx context.Context) ([]string, error) {
	w := weather.WindowFor(e.days)
	readings, err := e.loader.Load(ctx, w)
	if err != nil {
		return nil, err
	}

	today := e.loader.Today()
	paths := make([]string, 0, e.days)
	for i := 1; i <= e.days; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		day := today.AddDays(-i)
		daily := weather.OnlyOneDay(readings, day)
		if len(daily) == 0 {
			e.logger.Warn("no readings for day, skipping", "date", day.String(), "window", int(w))
			continue
		}

		path := Path(e.dataDir, day)
		err := WriteFile(path, daily)
		e.metrics.ExtractFile(err)
		if err != nil {
			return paths, fmt.Errorf("extract %s: %w", day, err)
		}
		e.logger.Info("day extracted", "date", day.String(), "rows", len(daily), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFile stores readings at path with SNAPPY compression, creating parent
// directories as needed. An existing file is replaced.
func WriteFile(path string, readings []weather.Reading) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(Row), parallelism)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range readings {
		if err := pw.Write(RowFromReading(r)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}

// ReadFile loads every reading stored at path.
func ReadFile(path string) (readings []weather.Reading, err error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, fr.Close())
	}()

	pr, err := reader.NewParquetReader(fr, new(Row), parallelism)
	if err != nil {
		return nil, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	rows := make([]Row, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	readings = make([]weather.Reading, len(rows))
	for i, row := range rows {
		readings[i] = row.Reading()
	}
	return readings, nil
}
