// Package scoring maps raw metric values onto a 0..1 "goodness" scale so
// sites can be compared on a radar chart regardless of each metric's unit.
package scoring

import (
	"math"

	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

// Extent is the value range of one metric over the comparison set.
type Extent struct {
	Min float64
	Max float64
}

// Extents computes the range of every metric over base. A metric with no
// finite value gets [0,1]; a flat range is widened to [min,min+1].
func Extents(base []models.Record, metrics []metric.Metric) map[string]Extent {
	out := make(map[string]Extent, len(metrics))
	for _, m := range metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range base {
			v, ok := m.Value(r).Get()
			if !ok {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if math.IsInf(lo, 1) {
			lo, hi = 0, 1
		}
		if lo == hi {
			hi = lo + 1
		}
		out[m.Key] = Extent{Min: lo, Max: hi}
	}
	return out
}

// Score returns the polarity-adjusted position of r's value for m inside
// ext, clamped to [0,1]. Missing values score 0.
func Score(ext Extent, m metric.Metric, r models.Record) float64 {
	v, ok := m.Value(r).Get()
	if !ok {
		return 0
	}
	t := (v - ext.Min) / (ext.Max - ext.Min)
	t = math.Max(0, math.Min(1, t))
	if m.Better == metric.LowerIsBetter {
		return 1 - t
	}
	return t
}

// Scorer holds extents computed once for a comparison set.
type Scorer struct {
	metrics []metric.Metric
	extents map[string]Extent
}

// NewScorer fixes the axes on base, usually the full unfiltered dataset,
// so they stay stable while the inspected subset changes.
func NewScorer(base []models.Record, metrics []metric.Metric) *Scorer {
	return &Scorer{metrics: metrics, extents: Extents(base, metrics)}
}

func (s *Scorer) Metrics() []metric.Metric { return s.metrics }

func (s *Scorer) Extent(key string) (Extent, bool) {
	e, ok := s.extents[key]
	return e, ok
}

// Profile scores r on every axis, in metric order.
func (s *Scorer) Profile(r models.Record) models.Profile {
	p := models.Profile{Site: r.Site, Scores: make([]models.AxisScore, 0, len(s.metrics))}
	for _, m := range s.metrics {
		p.Scores = append(p.Scores, models.AxisScore{
			Metric: m.Key,
			Label:  m.Label,
			Score:  Score(s.extents[m.Key], m, r),
			Raw:    m.Value(r),
		})
	}
	return p
}

func (s *Scorer) Profiles(records []models.Record) []models.Profile {
	out := make([]models.Profile, len(records))
	for i, r := range records {
		out[i] = s.Profile(r)
	}
	return out
}
