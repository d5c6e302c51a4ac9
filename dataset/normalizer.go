package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

const UnknownCategory = "Unknown"

// Normalize turns one raw row into a canonical record. It never fails:
// unresolvable numeric fields become missing measures.
func Normalize(row models.RawRow) models.Record {
	category := text(row, FieldCategory)
	if category == "" {
		category = UnknownCategory
	}
	greenRaw, greenOK := rulesByField[FieldGreenHost].Resolve(row)

	return models.Record{
		Site:              text(row, FieldSite),
		Country:           text(row, FieldCountry),
		Category:          category,
		GreenHost:         ParseGreen(greenRaw, greenOK),
		CO2GridGrams:      measure(row, FieldCO2GridGrams),
		EnergyKWh:         measure(row, FieldEnergyKWh),
		SizeBytes:         measure(row, FieldSizeBytes),
		CleanerThan:       measure(row, FieldCleanerThan),
		CO2RenewableGrams: measure(row, FieldCO2RenewableGrams),
	}
}

func text(row models.RawRow, field string) string {
	v, _ := rulesByField[field].Resolve(row)
	return strings.TrimSpace(v)
}

func measure(row models.RawRow, field string) models.Measure {
	v, ok := rulesByField[field].Resolve(row)
	return ParseMeasure(v, ok)
}

// ParseMeasure coerces a raw cell. A missing column or an empty cell is
// absent; anything that is not a finite number is malformed. Zero is a value.
func ParseMeasure(raw string, present bool) models.Measure {
	s := strings.TrimSpace(raw)
	if !present || s == "" {
		return models.Absent()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return models.Malformed()
	}
	return models.Present(f)
}

// ParseGreen coerces the hosting flag: finite non-zero numbers and
// true/yes are green, everything else is not.
func ParseGreen(raw string, present bool) bool {
	if !present {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes":
		return true
	case "false", "no", "":
		return false
	}
	f, ok := ParseMeasure(raw, true).Get()
	return ok && f != 0
}
