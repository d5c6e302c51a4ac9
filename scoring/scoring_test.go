package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

func co2(v models.Measure) models.Record {
	return models.Record{Site: "s", CO2GridGrams: v}
}

func TestExtents(t *testing.T) {
	tests := []struct {
		name string
		base []models.Record
		want Extent
	}{
		{"range", []models.Record{co2(models.Present(2)), co2(models.Present(6)), co2(models.Absent())}, Extent{2, 6}},
		{"no finite values", []models.Record{co2(models.Malformed())}, Extent{0, 1}},
		{"empty", nil, Extent{0, 1}},
		{"flat", []models.Record{co2(models.Present(3)), co2(models.Present(3))}, Extent{3, 4}},
		{"negative kept", []models.Record{co2(models.Present(-2)), co2(models.Present(2))}, Extent{-2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := Extents(tt.base, []metric.Metric{metric.CO2})
			assert.Equal(t, tt.want, ext[metric.CO2.Key])
		})
	}
}

func TestScore(t *testing.T) {
	ext := Extent{Min: 0, Max: 10}
	tests := []struct {
		name string
		m    metric.Metric
		v    models.Measure
		want float64
	}{
		{"lower better min", metric.CO2, models.Present(0), 1},
		{"lower better max", metric.CO2, models.Present(10), 0},
		{"lower better mid", metric.CO2, models.Present(2.5), 0.75},
		{"clamped above", metric.CO2, models.Present(50), 0},
		{"clamped below", metric.CO2, models.Present(-5), 1},
		{"missing", metric.CO2, models.Absent(), 0},
		{"malformed", metric.CO2, models.Malformed(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(ext, tt.m, co2(tt.v)), 1e-9)
		})
	}
}

func TestScore_HigherIsBetter(t *testing.T) {
	r := models.Record{CO2GridGrams: models.Present(1), CO2RenewableGrams: models.Present(0.25)}
	assert.InDelta(t, 0.75, Score(Extent{0, 1}, metric.GreenSaving, r), 1e-9)

	missing := models.Record{CO2GridGrams: models.Present(1)}
	assert.Equal(t, 0.0, Score(Extent{0, 1}, metric.GreenSaving, missing))
}

func TestScorer_ProfileInRange(t *testing.T) {
	base := []models.Record{
		{Site: "a", CO2GridGrams: models.Present(1), EnergyKWh: models.Present(0.1), SizeBytes: models.Present(1e6), CO2RenewableGrams: models.Present(0.5)},
		{Site: "b", CO2GridGrams: models.Present(3), EnergyKWh: models.Present(0.3), SizeBytes: models.Present(5e6), CO2RenewableGrams: models.Present(2)},
		{Site: "c", CO2GridGrams: models.Malformed()},
	}
	s := NewScorer(base, metric.Radar)

	for _, p := range s.Profiles(base) {
		require.Len(t, p.Scores, len(metric.Radar))
		for _, sc := range p.Scores {
			assert.GreaterOrEqual(t, sc.Score, 0.0)
			assert.LessOrEqual(t, sc.Score, 1.0)
		}
	}

	a := s.Profile(base[0])
	assert.Equal(t, "a", a.Site)
	assert.Equal(t, metric.CO2.Key, a.Scores[0].Metric)
	assert.Equal(t, 1.0, a.Scores[0].Score)

	c := s.Profile(base[2])
	for _, sc := range c.Scores {
		assert.Equal(t, 0.0, sc.Score)
		assert.False(t, sc.Raw.Valid())
	}

	ext, ok := s.Extent(metric.CO2.Key)
	require.True(t, ok)
	assert.Equal(t, Extent{1, 3}, ext)
}

func TestScorer_AxesStableAcrossSubsets(t *testing.T) {
	base := []models.Record{co2(models.Present(0)), co2(models.Present(10))}
	s := NewScorer(base, []metric.Metric{metric.CO2})
	subset := []models.Record{co2(models.Present(5))}
	assert.InDelta(t, 0.5, s.Profiles(subset)[0].Scores[0].Score, 1e-9)
}
