package dataset

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

const importBatch = 5000

// importColumns is the canonical table layout, in insert order.
var importColumns = []struct {
	name string
	typ  string
}{
	{FieldSite, "String"},
	{FieldCountry, "String"},
	{FieldCategory, "String"},
	{FieldGreenHost, "UInt8"},
	{FieldCO2GridGrams, "Nullable(Float64)"},
	{FieldEnergyKWh, "Nullable(Float64)"},
	{FieldSizeBytes, "Nullable(Float64)"},
	{FieldCleanerThan, "Nullable(Float64)"},
	{FieldCO2RenewableGrams, "Nullable(Float64)"},
}

var specialSymbols = regexp.MustCompile("[^a-zA-Z0-9]+")

func getMD5String(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

func replaceSpecialSymbols(input string) string {
	return strings.Trim(specialSymbols.ReplaceAllString(input, "_"), "_")
}

// TableName derives a stable table name for a dataset file from its base
// name and a hash of the full path.
func TableName(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	name := strings.ToLower(replaceSpecialSymbols(base))
	if name == "" {
		return "websites_" + getMD5String(filePath)[:6]
	}
	return "websites_" + name + "_" + getMD5String(filePath)[:6]
}

func createTableSQL(table string) string {
	fields := make([]string, len(importColumns))
	for i, c := range importColumns {
		fields[i] = fmt.Sprintf("%s %s", c.name, c.typ)
	}
	return "CREATE TABLE " + table + " (\n" + strings.Join(fields, ",\n") +
		"\n) ENGINE = MergeTree ORDER BY (country, site) SETTINGS index_granularity = 8192"
}

// recordCSV renders one record as a ClickHouse CSV line. Missing measures
// are written as \N so they read back as NULL and resolve as absent.
func recordCSV(w *csv.Writer, r models.Record) error {
	green := "0"
	if r.GreenHost {
		green = "1"
	}
	return w.Write([]string{
		r.Site, r.Country, r.Category, green,
		measureCSV(r.CO2GridGrams),
		measureCSV(r.EnergyKWh),
		measureCSV(r.SizeBytes),
		measureCSV(r.CleanerThan),
		measureCSV(r.CO2RenewableGrams),
	})
}

func measureCSV(m models.Measure) string {
	v, ok := m.Get()
	if !ok {
		return `\N`
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ImportSQL replaces table with the canonical records, inserting in batches.
func ImportSQL(ctx context.Context, db *gorm.DB, table string, records []models.Record) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	db = db.WithContext(ctx)
	if err := db.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	if err := db.Exec(createTableSQL(table)).Error; err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	b := &bytes.Buffer{}
	csvWriter := csv.NewWriter(b)
	flush := func() error {
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			return err
		}
		if b.Len() == 0 {
			return nil
		}
		sql := fmt.Sprintf("INSERT INTO %s FORMAT CSV \n%s", table, b.String())
		b.Reset()
		return db.Exec(sql).Error
	}

	for i, r := range records {
		if err := recordCSV(csvWriter, r); err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		if (i+1)%importBatch == 0 {
			if err := flush(); err != nil {
				return fmt.Errorf("insert into %s: %w", table, err)
			}
		}
	}
	if err := flush(); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	slog.Info("dataset imported", "table", table, "rows", len(records))
	return nil
}
