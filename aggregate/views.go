package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/pivolan/carbon_analyzer/country"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

const (
	DefaultTopN    = 15
	MaxSlices      = 25
	OthersLabel    = "Others"
	AllCountries   = "ALL"
	DefaultRadar   = 4
	previewPerCtry = 2
	previewRows    = 12
)

type Ranked struct {
	Record models.Record
	Value  float64
}

// TopN returns the n records with the highest finite value of m, highest
// first. Equal values keep dataset order.
func TopN(records []models.Record, m metric.Metric, n int) []Ranked {
	ranked := make([]Ranked, 0, len(records))
	for _, r := range records {
		if v, ok := m.Value(r).Get(); ok {
			ranked = append(ranked, Ranked{Record: r, Value: v})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Countries lists the distinct raw country names, sorted.
func Countries(records []models.Record) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range records {
		if r.Country == "" {
			continue
		}
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// DonutSlices returns one slice per site of the given country, largest
// first. Beyond MaxSlices the remainder is summed into a single Others slice.
func DonutSlices(records []models.Record, countryName string, m metric.Metric) []models.ValueCount {
	key := country.Canonical(countryName)
	var slices []models.ValueCount
	for _, r := range records {
		if country.Canonical(r.Country) != key {
			continue
		}
		mv := m.Value(r)
		if !mv.Usable() {
			continue
		}
		v, _ := mv.Get()
		slices = append(slices, models.ValueCount{Label: r.Site, Value: v})
	}
	sort.SliceStable(slices, func(i, j int) bool { return slices[i].Value > slices[j].Value })

	if len(slices) <= MaxSlices {
		return slices
	}
	rest := 0.0
	for _, s := range slices[MaxSlices:] {
		rest += s.Value
	}
	return append(slices[:MaxSlices:MaxSlices], models.ValueCount{Label: OthersLabel, Value: rest, IsOther: true})
}

type ScatterPoint struct {
	Record  models.Record
	SizeMB  float64
	CO2     float64
	Energy  float64
	Radius  float64
	Outlier bool
}

type ScatterView struct {
	Green      []ScatterPoint
	NotGreen   []ScatterPoint
	Categories []string
	Threshold  float64
}

func (v ScatterView) Empty() bool {
	return len(v.Green) == 0 && len(v.NotGreen) == 0
}

const (
	minRadius = 4.0
	maxRadius = 12.0
)

// Scatter prepares the page-weight vs CO₂ view. countryName filters by raw
// country unless it is empty or ALL. Outliers are the top decile of CO₂.
func Scatter(records []models.Record, countryName string) ScatterView {
	var view ScatterView
	var points []ScatterPoint
	seenCat := map[string]bool{}

	for _, r := range records {
		if countryName != "" && countryName != AllCountries && r.Country != countryName {
			continue
		}
		size, okS := r.SizeBytes.Get()
		co2, okC := r.CO2GridGrams.Get()
		energy, okE := r.EnergyKWh.Get()
		if !okS || size <= 0 || !okC || !okE {
			continue
		}
		points = append(points, ScatterPoint{Record: r, SizeMB: size / 1e6, CO2: co2, Energy: energy})
		if !seenCat[r.Category] {
			seenCat[r.Category] = true
			view.Categories = append(view.Categories, r.Category)
		}
	}
	if len(points) == 0 {
		return view
	}

	co2s := make([]float64, len(points))
	minE, maxE := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		co2s[i] = p.CO2
		minE = math.Min(minE, p.Energy)
		maxE = math.Max(maxE, p.Energy)
	}
	view.Threshold = Quantile(co2s, 0.9)

	for _, p := range points {
		p.Radius = sqrtScale(p.Energy, minE, maxE, minRadius, maxRadius)
		p.Outlier = p.CO2 >= view.Threshold
		if p.Record.GreenHost {
			view.Green = append(view.Green, p)
		} else {
			view.NotGreen = append(view.NotGreen, p)
		}
	}
	return view
}

// sqrtScale maps v from [lo,hi] onto [r0,r1] on a square-root scale. A
// degenerate domain maps to the middle of the range.
func sqrtScale(v, lo, hi, r0, r1 float64) float64 {
	sv, slo, shi := signedSqrt(v), signedSqrt(lo), signedSqrt(hi)
	if shi == slo {
		return (r0 + r1) / 2
	}
	t := (sv - slo) / (shi - slo)
	return r0 + t*(r1-r0)
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// DurableScore rates a site by CO₂, energy and page weight; higher is more
// sustainable. ok is false when any input is missing.
func DurableScore(r models.Record) (float64, bool) {
	co2, ok1 := r.CO2GridGrams.Get()
	energy, ok2 := r.EnergyKWh.Get()
	size, ok3 := r.SizeBytes.Get()
	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}
	return -(co2 + energy*500 + size/(1024*1024)*0.1), true
}

// TopDurable picks the n most sustainable sites. Unscorable sites come last.
func TopDurable(records []models.Record, n int) []models.Record {
	return pickByScore(records, n, true)
}

// TopPolluting picks the n least sustainable sites. Unscorable sites come last.
func TopPolluting(records []models.Record, n int) []models.Record {
	return pickByScore(records, n, false)
}

func pickByScore(records []models.Record, n int, best bool) []models.Record {
	type scored struct {
		r     models.Record
		score float64
		ok    bool
	}
	all := make([]scored, len(records))
	for i, r := range records {
		s, ok := DurableScore(r)
		all[i] = scored{r, s, ok}
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.ok != b.ok {
			return a.ok
		}
		if best {
			return a.score > b.score
		}
		return a.score < b.score
	})
	out := make([]models.Record, len(all))
	for i, s := range all {
		out[i] = s.r
	}
	return LimitRadar(out, n)
}

// LimitRadar caps a radar selection at max sites.
func LimitRadar(records []models.Record, max int) []models.Record {
	if max < 0 || len(records) <= max {
		return records
	}
	return records[:max]
}

// SelectSites returns the records for the requested sites in request order,
// skipping unknown sites and duplicates, capped at max.
func SelectSites(records []models.Record, sites []string, max int) []models.Record {
	bySite := make(map[string]models.Record, len(records))
	for _, r := range records {
		if _, ok := bySite[r.Site]; !ok {
			bySite[r.Site] = r
		}
	}
	var out []models.Record
	used := map[string]bool{}
	for _, s := range sites {
		s = strings.TrimSpace(s)
		r, ok := bySite[s]
		if !ok || used[s] {
			continue
		}
		used[s] = true
		out = append(out, r)
	}
	return LimitRadar(out, max)
}

// Preview samples up to two records per country, in dataset order, for at
// most twelve rows.
func Preview(records []models.Record) []models.Record {
	perCountry := map[string]int{}
	var out []models.Record
	for _, r := range records {
		if perCountry[r.Country] >= previewPerCtry {
			continue
		}
		perCountry[r.Country]++
		out = append(out, r)
		if len(out) == previewRows {
			break
		}
	}
	return out
}
