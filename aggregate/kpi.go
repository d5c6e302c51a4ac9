package aggregate

import (
	"math"

	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

// ComputeKPIs derives the headline numbers. Distinct counts use raw values;
// the CO₂ mean covers every record with a finite value (0 when none).
func ComputeKPIs(records []models.Record) models.KPIs {
	sites := map[string]struct{}{}
	countries := map[string]struct{}{}
	categories := map[string]struct{}{}
	green := 0
	sum, n := 0.0, 0

	for _, r := range records {
		sites[r.Site] = struct{}{}
		countries[r.Country] = struct{}{}
		categories[r.Category] = struct{}{}
		if r.GreenHost {
			green++
		}
		if v, ok := r.CO2GridGrams.Get(); ok {
			sum += v
			n++
		}
	}

	k := models.KPIs{
		Sites:                len(sites),
		Countries:            len(countries),
		Categories:           len(categories),
		MostPollutingCountry: MostPollutingCountry(records),
	}
	if len(records) > 0 {
		k.GreenPercent = int(math.Round(float64(green) / float64(len(records)) * 100))
	}
	if n > 0 {
		k.MeanCO2Grams = sum / float64(n)
	}
	return k
}

// MostPollutingCountry returns the raw country name with the highest mean
// CO₂, or "" when no country has a usable value. Ties keep the first seen.
func MostPollutingCountry(records []models.Record) string {
	means := GroupBy(records, func(r models.Record) string { return r.Country }, metric.CO2, models.ModeAvg)

	worst, worstValue := "", math.Inf(-1)
	seen := map[string]bool{}
	for _, r := range records {
		if seen[r.Country] {
			continue
		}
		seen[r.Country] = true
		agg, ok := means[r.Country]
		if ok && agg.Value > worstValue {
			worst, worstValue = r.Country, agg.Value
		}
	}
	return worst
}
