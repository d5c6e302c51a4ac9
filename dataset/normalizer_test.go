package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

func TestNormalize(t *testing.T) {
	rec := Normalize(models.RawRow{
		"url":            "https://a.com",
		"pays":           "France",
		"co2":            "0.25",
		"energy":         "0.0004",
		"taille_octets":  "2048",
		"bytes":          "999",
		"cleaner_than":   "0.7",
		"green":          "1",
		"something_else": "x",
	})

	assert.Equal(t, "https://a.com", rec.Site)
	assert.Equal(t, "France", rec.Country)
	assert.Equal(t, UnknownCategory, rec.Category)
	assert.True(t, rec.GreenHost)

	co2, ok := rec.CO2GridGrams.Get()
	assert.True(t, ok)
	assert.Equal(t, 0.25, co2)

	size, _ := rec.SizeBytes.Get()
	assert.Equal(t, 2048.0, size, "taille_octets outranks bytes")

	assert.Equal(t, models.MeasureAbsent, rec.CO2RenewableGrams.State())
}

func TestNormalize_AliasOrder(t *testing.T) {
	tests := []struct {
		name string
		row  models.RawRow
		want string
	}{
		{"first alias wins", models.RawRow{"site": "a", "url": "b", "website": "c"}, "a"},
		{"empty text falls through", models.RawRow{"site": " ", "url": "b"}, "b"},
		{"last alias", models.RawRow{"website": "c"}, "c"},
		{"case-insensitive header", models.RawRow{"Site": "d"}, "d"},
		{"none", models.RawRow{"name": "x"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.row).Site)
		})
	}
}

func TestNormalize_NumericPresentAliasWins(t *testing.T) {
	// A present-but-empty first alias is missing; later aliases are not consulted.
	rec := Normalize(models.RawRow{"co2_grid_grams": "", "co2": "5"})
	assert.False(t, rec.CO2GridGrams.Valid())
	assert.Equal(t, models.MeasureAbsent, rec.CO2GridGrams.State())
}

func TestNormalize_MissingEveryAlias(t *testing.T) {
	rec := Normalize(models.RawRow{"site": "a.com", "country": "France"})

	for name, m := range map[string]models.Measure{
		"co2":       rec.CO2GridGrams,
		"energy":    rec.EnergyKWh,
		"size":      rec.SizeBytes,
		"cleaner":   rec.CleanerThan,
		"renewable": rec.CO2RenewableGrams,
	} {
		assert.False(t, m.Valid(), name)
		assert.Equal(t, models.MeasureAbsent, m.State(), name)
	}
	assert.False(t, rec.GreenHost)
	assert.Equal(t, "Unknown", rec.Category)
}

func TestParseMeasure(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
		want    float64
		state   models.MeasureState
	}{
		{"0", true, 0, models.MeasurePresent},
		{" 1.5 ", true, 1.5, models.MeasurePresent},
		{"1e3", true, 1000, models.MeasurePresent},
		{"-2", true, -2, models.MeasurePresent},
		{"", true, 0, models.MeasureAbsent},
		{"5", false, 0, models.MeasureAbsent},
		{"x", true, 0, models.MeasureMalformed},
		{"Inf", true, 0, models.MeasureMalformed},
		{"NaN", true, 0, models.MeasureMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m := ParseMeasure(tt.raw, tt.present)
			assert.Equal(t, tt.state, m.State())
			v, ok := m.Get()
			assert.Equal(t, tt.state == models.MeasurePresent, ok)
			if ok {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestParseGreen(t *testing.T) {
	tests := []struct {
		raw     string
		present bool
		want    bool
	}{
		{"1", true, true},
		{"0", true, false},
		{"0.0", true, false},
		{"-3", true, true},
		{"true", true, true},
		{"TRUE", true, true},
		{"yes", true, true},
		{"false", true, false},
		{"no", true, false},
		{"", true, false},
		{"abc", true, false},
		{"1", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGreen(tt.raw, tt.present))
		})
	}
}

func TestFieldRules_Unique(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range FieldRules {
		assert.False(t, seen[r.Field], "duplicate rule for %s", r.Field)
		seen[r.Field] = true
		assert.NotEmpty(t, r.Aliases)
	}
}

func TestNormalize_CaseVariantHeadersAreStable(t *testing.T) {
	row := models.RawRow{"SITE": "upper.com", "Site": "title.com", "country": "FR"}
	for i := 0; i < 200; i++ {
		assert.Equal(t, "upper.com", Normalize(row).Site)
	}

	// an exact match still beats case variants
	row["site"] = "exact.com"
	assert.Equal(t, "exact.com", Normalize(row).Site)
}
