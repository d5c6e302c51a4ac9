package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DataPath     string
	GeoPath      string
	DbDsn        string
	DbTable      string
	CSVSeparator rune
	OutDir       string
	ListenAddr   string
	UploadDir    string
	TopN         int
	RadarMax     int
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the process-wide configuration, loaded on first use.
// A broken configuration is logged and the defaults are used instead.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			slog.Error("invalid configuration, using defaults", "error", err)
			cfg = Defaults()
		}
		config = cfg
	})
	return config
}

func Defaults() *Config {
	return &Config{
		DataPath:     "./data/website_pollut_clean.csv",
		GeoPath:      "./data/world.geojson",
		CSVSeparator: ',',
		OutDir:       "out",
		ListenAddr:   ":8005",
		UploadDir:    "uploads",
		TopN:         15,
		RadarMax:     4,
	}
}

// Load reads the environment, primed from a .env file when there is one.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := Defaults()
	setString(&cfg.DataPath, "DATA_PATH")
	setString(&cfg.GeoPath, "GEO_PATH")
	setString(&cfg.DbDsn, "DB_DSN")
	setString(&cfg.DbTable, "DB_TABLE")
	setString(&cfg.OutDir, "OUT_DIR")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.UploadDir, "UPLOAD_DIR")

	if v := os.Getenv("CSV_SEPARATOR"); v != "" {
		sep, err := ParseSeparator(v)
		if err != nil {
			return nil, err
		}
		cfg.CSVSeparator = sep
	}
	if err := setInt(&cfg.TopN, "TOP_N"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.RadarMax, "RADAR_MAX"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseSeparator accepts a single character or the words "tab" and "semicolon".
func ParseSeparator(v string) (rune, error) {
	switch v {
	case "tab", `\t`:
		return '\t', nil
	case "semicolon":
		return ';', nil
	}
	r := []rune(v)
	if len(r) != 1 {
		return 0, fmt.Errorf("CSV_SEPARATOR must be a single character, got %q", v)
	}
	return r[0], nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	*dst = n
	return nil
}
