// Package aggregate groups records and derives the summary views.
package aggregate

import (
	"fmt"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/carbon_analyzer/country"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

// GlobalCountry is the pseudo-country some datasets use for worldwide rows.
const GlobalCountry = "Global"

// GroupBy maps each group key to its aggregate for metric m. Records whose
// metric value is missing or negative are left out; groups without usable
// records are absent from the result.
func GroupBy(records []models.Record, key func(models.Record) string, m metric.Metric, mode models.AggregateMode) map[string]models.GroupAggregate {
	type acc struct {
		worst      models.Record
		worstValue float64
		sum        float64
		count      int
	}
	groups := map[string]*acc{}

	for _, r := range records {
		mv := m.Value(r)
		if !mv.Usable() {
			continue
		}
		v, _ := mv.Get()
		k := key(r)
		a, ok := groups[k]
		if !ok {
			groups[k] = &acc{worst: r, worstValue: v, sum: v, count: 1}
			continue
		}
		a.sum += v
		a.count++
		if v > a.worstValue {
			a.worst, a.worstValue = r, v
		}
	}

	out := make(map[string]models.GroupAggregate, len(groups))
	for k, a := range groups {
		agg := models.GroupAggregate{
			Key:        k,
			Mode:       mode,
			Count:      a.count,
			Worst:      a.worst,
			WorstValue: a.worstValue,
			Value:      a.worstValue,
		}
		if mode == models.ModeAvg {
			agg.Value = a.sum / float64(a.count)
		}
		out[k] = agg
	}
	return out
}

// CountryKey groups by canonical country name.
func CountryKey(r models.Record) string {
	return country.Canonical(r.Country)
}

func ByCountry(records []models.Record, m metric.Metric, mode models.AggregateMode) map[string]models.GroupAggregate {
	return GroupBy(records, CountryKey, m, mode)
}

// ExcludeGlobal drops rows attributed to the worldwide pseudo-country, which
// has no boundary on the map.
func ExcludeGlobal(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if strings.EqualFold(strings.TrimSpace(r.Country), GlobalCountry) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// MapRows keeps the records the world map aggregates: a site and a country
// are set, the country is not the Global pseudo-country and CO₂ is a finite
// number, whichever metric is painted.
func MapRows(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range ExcludeGlobal(records) {
		if r.Site == "" || strings.TrimSpace(r.Country) == "" || !r.CO2GridGrams.Valid() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ParseMode accepts WORST or AVG in any case; empty means WORST.
func ParseMode(s string) (models.AggregateMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return models.ModeWorst, nil
	}
	if !go_utils.InArray(s, []string{string(models.ModeWorst), string(models.ModeAvg)}) {
		return "", fmt.Errorf("unknown aggregation mode %q", s)
	}
	return models.AggregateMode(s), nil
}
