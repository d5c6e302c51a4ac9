package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"DATA_PATH", "GEO_PATH", "DB_DSN", "DB_TABLE", "CSV_SEPARATOR", "OUT_DIR", "LISTEN_ADDR", "UPLOAD_DIR", "TOP_N", "RADAR_MAX"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_PATH", "/tmp/data.csv.gz")
	t.Setenv("CSV_SEPARATOR", ";")
	t.Setenv("TOP_N", "20")
	t.Setenv("LISTEN_ADDR", ":9000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data.csv.gz", cfg.DataPath)
	assert.Equal(t, ';', cfg.CSVSeparator)
	assert.Equal(t, 20, cfg.TopN)
	assert.Equal(t, 4, cfg.RadarMax)
	assert.Equal(t, ":9000", cfg.ListenAddr)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEO_PATH=/srv/world.geojson\nRADAR_MAX=3\n"), 0o644))
	// godotenv never overrides variables that are already set
	require.NoError(t, os.Unsetenv("GEO_PATH"))
	require.NoError(t, os.Unsetenv("RADAR_MAX"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/world.geojson", cfg.GeoPath)
	assert.Equal(t, 3, cfg.RadarMax)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TOP_N", "many"},
		{"RADAR_MAX", "-1"},
		{"CSV_SEPARATOR", ";;"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestParseSeparator(t *testing.T) {
	for in, want := range map[string]rune{",": ',', "tab": '\t', `\t`: '\t', "semicolon": ';', "|": '|'} {
		got, err := ParseSeparator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
