package dataset

import (
	"strings"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

const (
	FieldSite              = "site"
	FieldCountry           = "country"
	FieldCategory          = "category"
	FieldGreenHost         = "green_host"
	FieldCO2GridGrams      = "co2_grid_grams"
	FieldEnergyKWh         = "energy_kWh"
	FieldSizeBytes         = "size_bytes"
	FieldCleanerThan       = "cleaner_than"
	FieldCO2RenewableGrams = "co2_renewable_grams"
)

// FieldRule lists, in priority order, the source columns a logical field may
// arrive in. Text fields skip empty cells and fall through to the next alias;
// numeric fields take the first alias whose column exists.
type FieldRule struct {
	Field     string
	Aliases   []string
	SkipEmpty bool
}

var FieldRules = []FieldRule{
	{Field: FieldSite, Aliases: []string{"site", "url", "website"}, SkipEmpty: true},
	{Field: FieldCountry, Aliases: []string{"country", "pays"}, SkipEmpty: true},
	{Field: FieldCategory, Aliases: []string{"category", "categorie"}, SkipEmpty: true},
	{Field: FieldGreenHost, Aliases: []string{"green_host", "green", "host_green"}},
	{Field: FieldCO2GridGrams, Aliases: []string{"co2_grid_grams", "co2_grid", "co2"}},
	{Field: FieldEnergyKWh, Aliases: []string{"energy_kWh", "energy"}},
	{Field: FieldSizeBytes, Aliases: []string{"taille(octets)", "taille_octets", "size_bytes", "bytes"}},
	{Field: FieldCleanerThan, Aliases: []string{"cleaner_than"}},
	{Field: FieldCO2RenewableGrams, Aliases: []string{"co2_renewable_grams"}},
}

var rulesByField = indexRules(FieldRules)

func indexRules(rules []FieldRule) map[string]FieldRule {
	idx := make(map[string]FieldRule, len(rules))
	for _, r := range rules {
		idx[r.Field] = r
	}
	return idx
}

// Resolve returns the raw value for the rule and whether any alias matched.
func (r FieldRule) Resolve(row models.RawRow) (string, bool) {
	for _, alias := range r.Aliases {
		v, ok := lookup(row, alias)
		if !ok {
			continue
		}
		if r.SkipEmpty && strings.TrimSpace(v) == "" {
			continue
		}
		return v, true
	}
	return "", false
}

// lookup matches the column name exactly first, then ignoring case. When
// several columns match ignoring case, the smallest name wins.
func lookup(row models.RawRow, key string) (string, bool) {
	if v, ok := row[key]; ok {
		return v, true
	}
	match, found := "", false
	for k := range row {
		if strings.EqualFold(k, key) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return "", false
	}
	return row[match], true
}
