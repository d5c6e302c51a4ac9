package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

const SEPARATOR = ','

// Source yields the raw rows of a dataset.
type Source interface {
	Name() string
	ReadRows(ctx context.Context) ([]models.RawRow, error)
}

// CSVSource reads a delimited file, possibly archived (see OpenArchive).
type CSVSource struct {
	Path      string
	Separator rune
}

func (s CSVSource) Name() string { return s.Path }

func (s CSVSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	f, err := OpenArchive(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(ctx, f, s.Separator)
}

// ReaderSource reads delimited text from an already opened stream.
type ReaderSource struct {
	Label     string
	R         io.Reader
	Separator rune
}

func (s ReaderSource) Name() string { return s.Label }

func (s ReaderSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	return readCSV(ctx, s.R, s.Separator)
}

func readCSV(ctx context.Context, in io.Reader, sep rune) ([]models.RawRow, error) {
	if sep == 0 {
		sep = SEPARATOR
	}
	r := csv.NewReader(in)
	r.Comma = sep
	r.LazyQuotes = true

	first, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	analysis := AnalyzeHeaders(first)
	if analysis.FirstRowIsData {
		return nil, errors.New("first row does not look like a header")
	}
	headers := analysis.Headers

	var rows []models.RawRow
	for line := 2; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		values, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		row := make(models.RawRow, len(headers))
		for i, v := range values {
			row[headers[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// SQLSource reads every row of a table through gorm, the way imported CSVs
// are queried from ClickHouse over its MySQL interface.
type SQLSource struct {
	DB    *gorm.DB
	Table string
}

func (s SQLSource) Name() string { return "sql:" + s.Table }

func (s SQLSource) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	if !tableNamePattern.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}
	var result []map[string]interface{}
	if err := s.DB.WithContext(ctx).Raw("SELECT * FROM " + s.Table).Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	return rowsFromMaps(result), nil
}

// OpenSQL connects to a MySQL-protocol database.
func OpenSQL(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// rowsFromMaps converts scanned SQL rows to raw rows. NULL columns are left
// out so they resolve as absent.
func rowsFromMaps(result []map[string]interface{}) []models.RawRow {
	rows := make([]models.RawRow, 0, len(result))
	for _, m := range result {
		row := make(models.RawRow, len(m))
		for k, v := range m {
			if s, ok := cellString(v); ok {
				row[k] = s
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case []byte:
		return string(t), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		if t {
			return "1", true
		}
		return "0", true
	default:
		return fmt.Sprint(t), true
	}
}
