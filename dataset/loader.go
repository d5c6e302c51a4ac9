package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

// LoadError reports an unreadable or malformed dataset. No partial dataset
// accompanies it.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Stats counts what the loader dropped or could not coerce.
type Stats struct {
	Rows      int
	Kept      int
	Dropped   int
	Malformed map[string]int // field -> cells present but not numeric
}

// Load reads src and returns the canonical records that have both a site and
// a country, in source order.
func Load(ctx context.Context, src Source) ([]models.Record, error) {
	records, stats, err := LoadWithStats(ctx, src)
	if err != nil {
		return nil, err
	}
	slog.Debug("dataset loaded",
		"source", src.Name(),
		"rows", stats.Rows,
		"kept", stats.Kept,
		"dropped", stats.Dropped,
		"malformed", stats.Malformed)
	return records, nil
}

func LoadWithStats(ctx context.Context, src Source) ([]models.Record, Stats, error) {
	rows, err := src.ReadRows(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, Stats{}, err
		}
		return nil, Stats{}, &LoadError{Source: src.Name(), Err: err}
	}

	stats := Stats{Rows: len(rows), Malformed: map[string]int{}}
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec := Normalize(row)
		countMalformed(stats.Malformed, rec)
		if rec.Site == "" || rec.Country == "" {
			stats.Dropped++
			continue
		}
		records = append(records, rec)
	}
	stats.Kept = len(records)
	return records, stats, nil
}

func countMalformed(into map[string]int, rec models.Record) {
	fields := map[string]models.Measure{
		FieldCO2GridGrams:      rec.CO2GridGrams,
		FieldEnergyKWh:         rec.EnergyKWh,
		FieldSizeBytes:         rec.SizeBytes,
		FieldCleanerThan:       rec.CleanerThan,
		FieldCO2RenewableGrams: rec.CO2RenewableGrams,
	}
	for name, m := range fields {
		if m.State() == models.MeasureMalformed {
			into[name]++
		}
	}
}
