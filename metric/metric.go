// Package metric describes the per-record numeric metrics the views work on.
package metric

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

// Polarity tells whether a lower or a higher raw value is better.
type Polarity int

const (
	LowerIsBetter Polarity = iota
	HigherIsBetter
)

const bytesPerMiB = 1024 * 1024

type Metric struct {
	Key    string
	Label  string
	Unit   string
	Better Polarity
	Digits int
	Value  func(models.Record) models.Measure
}

// Format renders v with the metric's precision, or an em dash for missing values.
func (m Metric) Format(v models.Measure) string {
	f, ok := v.Get()
	if !ok {
		return "—"
	}
	return strconv.FormatFloat(f, 'f', m.Digits, 64)
}

func (m Metric) AxisLabel() string {
	dir := "↓"
	if m.Better == HigherIsBetter {
		dir = "↑"
	}
	return fmt.Sprintf("%s (%s) %s", m.Label, m.Unit, dir)
}

var CO2 = Metric{
	Key:    "co2_grid_grams",
	Label:  "CO₂ (g) / visit",
	Unit:   "g",
	Better: LowerIsBetter,
	Digits: 4,
	Value:  func(r models.Record) models.Measure { return r.CO2GridGrams },
}

var Energy = Metric{
	Key:    "energy_kWh",
	Label:  "Energy (kWh) / visit",
	Unit:   "kWh",
	Better: LowerIsBetter,
	Digits: 5,
	Value:  func(r models.Record) models.Measure { return r.EnergyKWh },
}

var SizeMB = Metric{
	Key:    "size_mb",
	Label:  "Page weight (MB)",
	Unit:   "MB",
	Better: LowerIsBetter,
	Digits: 2,
	Value: func(r models.Record) models.Measure {
		return r.SizeBytes.Map(func(b float64) float64 { return b / bytesPerMiB })
	},
}

// GreenSaving is the grid CO₂ a site would save on renewable hosting.
var GreenSaving = Metric{
	Key:    "green_saving_g",
	Label:  "Green saving",
	Unit:   "g",
	Better: HigherIsBetter,
	Digits: 3,
	Value: func(r models.Record) models.Measure {
		g, okG := r.CO2GridGrams.Get()
		rn, okR := r.CO2RenewableGrams.Get()
		if !okG || !okR {
			return models.Absent()
		}
		return models.Present(math.Max(0, g-rn))
	},
}

var GreenReduction = Metric{
	Key:    "green_reduction_pct",
	Label:  "Reduction",
	Unit:   "%",
	Better: HigherIsBetter,
	Digits: 1,
	Value: func(r models.Record) models.Measure {
		g, okG := r.CO2GridGrams.Get()
		rn, okR := r.CO2RenewableGrams.Get()
		if !okG || !okR || g <= 0 {
			return models.Absent()
		}
		return models.Present(math.Max(0, math.Min(100, (1-rn/g)*100)))
	},
}

// Selectable are the metrics offered by the map, donut and bar views.
var Selectable = []Metric{CO2, Energy, SizeMB}

// Radar are the axes of the sustainability profile.
var Radar = []Metric{CO2, Energy, SizeMB, GreenSaving, GreenReduction}

// ByKey looks a selectable metric up by key. size_bytes is accepted as an
// alias of size_mb.
func ByKey(key string) (Metric, bool) {
	if key == "size_bytes" {
		key = SizeMB.Key
	}
	for _, m := range Selectable {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}
