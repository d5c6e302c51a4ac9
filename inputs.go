package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/pivolan/carbon_analyzer/config"
	"github.com/pivolan/carbon_analyzer/dataset"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/geo"
)

// inputs is one loaded dataset and, when available, the boundary reference.
type inputs struct {
	Name    string
	Records []models.Record
	Geo     *geo.Reference
	GeoErr  error
}

// datasetSource picks the SQL table when a DSN and a table are configured,
// the dataset file otherwise.
func datasetSource(cfg *config.Config) (dataset.Source, error) {
	if cfg.DbDsn != "" && cfg.DbTable != "" {
		db, err := dataset.OpenSQL(cfg.DbDsn)
		if err != nil {
			return nil, &dataset.LoadError{Source: "sql:" + cfg.DbTable, Err: fmt.Errorf("connect: %w", err)}
		}
		return dataset.SQLSource{DB: db, Table: cfg.DbTable}, nil
	}
	return dataset.CSVSource{Path: cfg.DataPath, Separator: cfg.CSVSeparator}, nil
}

// loadInputs loads the dataset and, with withGeo, the boundary reference,
// concurrently and once. A dataset failure is fatal; a reference failure only
// disables the map.
func loadInputs(ctx context.Context, cfg *config.Config, withGeo bool) (*inputs, error) {
	src, err := datasetSource(cfg)
	if err != nil {
		return nil, err
	}

	in := &inputs{Name: src.Name()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := dataset.Load(gctx, src)
		if err != nil {
			return err
		}
		in.Records = records
		return nil
	})
	if withGeo {
		g.Go(func() error {
			ref, err := geo.LoadReference(gctx, cfg.GeoPath)
			if err != nil {
				in.GeoErr = err
				return nil
			}
			in.Geo = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if in.GeoErr != nil {
		slog.Error("world map disabled", "error", in.GeoErr)
	}
	slog.Info("dataset ready", "source", in.Name, "records", len(in.Records))
	return in, nil
}
