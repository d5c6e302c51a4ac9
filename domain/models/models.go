package models

import (
	"encoding/json"
	"math"
)

// RawRow is one dataset row keyed by its (cleaned) header names.
type RawRow map[string]string

type MeasureState int

const (
	MeasureAbsent    MeasureState = iota // no source column, or an empty cell
	MeasureMalformed                     // present but not a finite number
	MeasurePresent
)

// Measure is an optional number. Only a present measure takes part in
// arithmetic; absent and malformed values are both "missing".
type Measure struct {
	value float64
	state MeasureState
}

func Present(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Malformed()
	}
	return Measure{value: v, state: MeasurePresent}
}

func Absent() Measure    { return Measure{state: MeasureAbsent} }
func Malformed() Measure { return Measure{state: MeasureMalformed} }

func (m Measure) Get() (float64, bool) {
	return m.value, m.state == MeasurePresent
}

func (m Measure) Valid() bool         { return m.state == MeasurePresent }
func (m Measure) State() MeasureState { return m.state }

// Usable reports whether the value is finite and non-negative.
func (m Measure) Usable() bool {
	return m.state == MeasurePresent && m.value >= 0
}

// Map applies fn to a present value; missing stays missing.
func (m Measure) Map(fn func(float64) float64) Measure {
	if !m.Valid() {
		return m
	}
	return Present(fn(m.value))
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON reads null as absent.
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Absent()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Present(v)
	return nil
}

// Record is the canonical representation of one website row.
type Record struct {
	Site              string  `json:"site"`
	Country           string  `json:"country"`
	Category          string  `json:"category"`
	GreenHost         bool    `json:"green_host"`
	CO2GridGrams      Measure `json:"co2_grid_grams"`
	EnergyKWh         Measure `json:"energy_kWh"`
	SizeBytes         Measure `json:"size_bytes"`
	CleanerThan       Measure `json:"cleaner_than"`
	CO2RenewableGrams Measure `json:"co2_renewable_grams"`
}

type GreenMode string

const (
	GreenAll      GreenMode = "ALL"
	GreenOnly     GreenMode = "GREEN"
	GreenNotGreen GreenMode = "NOT_GREEN"
)

type SiteMode string

const (
	SitesAll    SiteMode = "ALL"
	SitesCustom SiteMode = "CUSTOM"
	SitesNone   SiteMode = "NONE"
)

// FilterState is an immutable filter configuration. Build it with
// filter.NewState so an empty CUSTOM selection collapses to NONE.
type FilterState struct {
	Green    GreenMode
	SiteMode SiteMode
	Selected []string
}

type AggregateMode string

const (
	ModeWorst AggregateMode = "WORST"
	ModeAvg   AggregateMode = "AVG"
)

// GroupAggregate is the per-group result of the aggregation engine.
// Value is the worst record's value in WORST mode and the mean in AVG mode.
type GroupAggregate struct {
	Key        string        `json:"key"`
	Mode       AggregateMode `json:"mode"`
	Value      float64       `json:"value"`
	Count      int           `json:"n_sites"`
	Worst      Record        `json:"worst"`
	WorstValue float64       `json:"worst_value"`
}

type KPIs struct {
	Sites                int     `json:"sites"`
	Countries            int     `json:"countries"`
	Categories           int     `json:"categories"`
	GreenPercent         int     `json:"green_percent"`
	MeanCO2Grams         float64 `json:"mean_co2_grams"`
	MostPollutingCountry string  `json:"most_polluting_country"`
}

type AxisScore struct {
	Metric string  `json:"metric"`
	Label  string  `json:"label"`
	Score  float64 `json:"score"`
	Raw    Measure `json:"raw"`
}

type Profile struct {
	Site   string      `json:"site"`
	Scores []AxisScore `json:"scores"`
}

type ValueCount struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	IsOther bool    `json:"is_other,omitempty"`
}
