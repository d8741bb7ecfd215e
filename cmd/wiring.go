package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/invoicegen/internal/config"
	"github.com/invoicegen/internal/logger"
	"github.com/invoicegen/pkg/invoice"
	"github.com/invoicegen/pkg/storage"
)

// deps is what every command builds from settings.
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	generator *invoice.Generator
	sink      storage.Sink
	closers   []func() error
}

func (d *deps) Close() {
	for _, closeFn := range d.closers {
		_ = closeFn()
	}
	_ = d.logger.Sync()
}

func setup(c *cli.Context) (*deps, error) {
	cfg, err := config.Load(c.String("config"), settingsOverrides(c))
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, err
	}

	d := &deps{cfg: cfg, logger: log}

	numbering, err := newNumbering(c.Context, cfg.Numbering, cfg.OutputDir)
	if err != nil {
		d.Close()
		return nil, err
	}
	if closer, ok := numbering.(interface{ Close() error }); ok {
		d.closers = append(d.closers, closer.Close)
	}

	sink, err := newSink(c.Context, cfg, log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.sink = sink

	d.generator = &invoice.Generator{
		Now:               now,
		Numbering:         numbering,
		Labels:            invoice.LabelsFor(cfg.Locale),
		HoursPerDay:       cfg.HoursPerDay,
		DefaultHourlyRate: cfg.DefaultHourlyRate,
		Logger:            log,
	}
	return d, nil
}

func newNumbering(ctx context.Context, cfg config.NumberingConfig, outputDir string) (invoice.NumberingSource, error) {
	switch cfg.Backend {
	case "", "dir":
		return invoice.DirCounter{Dir: outputDir, Prefix: cfg.Prefix}, nil
	case "sqlite", "postgres":
		counter, err := invoice.OpenSQLCounter(invoice.Dialect(cfg.Backend), cfg.DSN, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		if err := counter.Init(ctx); err != nil {
			_ = counter.Close()
			return nil, err
		}
		return counter, nil
	default:
		return nil, fmt.Errorf("%w: %q", invoice.ErrUnknownBackend, cfg.Backend)
	}
}

func newSink(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Sink, error) {
	local := storage.LocalSink{Dir: cfg.OutputDir}
	if cfg.Storage.S3.Bucket == "" {
		return local, nil
	}

	s3Sink, err := storage.NewS3SinkFromConfig(ctx, storage.S3Config{
		Bucket:       cfg.Storage.S3.Bucket,
		Prefix:       cfg.Storage.S3.Prefix,
		Region:       cfg.Storage.S3.Region,
		Endpoint:     cfg.Storage.S3.Endpoint,
		UsePathStyle: cfg.Storage.S3.UsePathStyle,
	}, log)
	if err != nil {
		return nil, err
	}
	return storage.MultiSink{local, s3Sink}, nil
}
