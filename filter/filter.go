// Package filter selects the visible subset of the dataset.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

// NewState builds a filter state. A CUSTOM selection with no sites
// collapses to NONE.
func NewState(green models.GreenMode, mode models.SiteMode, selected []string) models.FilterState {
	if mode == models.SitesCustom && len(selected) == 0 {
		mode = models.SitesNone
	}
	sel := make([]string, len(selected))
	copy(sel, selected)
	return models.FilterState{Green: green, SiteMode: mode, Selected: sel}
}

// Default passes every record.
func Default() models.FilterState {
	return NewState(models.GreenAll, models.SitesAll, nil)
}

// Apply returns a fresh slice with the records passing both predicates.
func Apply(records []models.Record, state models.FilterState) []models.Record {
	out := make([]models.Record, 0, len(records))
	if state.SiteMode == models.SitesNone {
		return out
	}

	var selected map[string]struct{}
	if state.SiteMode == models.SitesCustom {
		selected = make(map[string]struct{}, len(state.Selected))
		for _, s := range state.Selected {
			selected[s] = struct{}{}
		}
	}

	for _, r := range records {
		if !greenPasses(state.Green, r) {
			continue
		}
		if selected != nil {
			if _, ok := selected[r.Site]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func greenPasses(mode models.GreenMode, r models.Record) bool {
	switch mode {
	case models.GreenOnly:
		return r.GreenHost
	case models.GreenNotGreen:
		return !r.GreenHost
	default:
		return true
	}
}

// ParseGreenMode accepts ALL, GREEN or NOT_GREEN in any case; empty means ALL.
func ParseGreenMode(s string) (models.GreenMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return models.GreenAll, nil
	}
	if !go_utils.InArray(s, []string{string(models.GreenAll), string(models.GreenOnly), string(models.GreenNotGreen)}) {
		return "", fmt.Errorf("unknown green filter %q", s)
	}
	return models.GreenMode(s), nil
}

// ParseSiteMode accepts ALL, CUSTOM or NONE in any case; empty means ALL.
func ParseSiteMode(s string) (models.SiteMode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return models.SitesAll, nil
	}
	if !go_utils.InArray(s, []string{string(models.SitesAll), string(models.SitesCustom), string(models.SitesNone)}) {
		return "", fmt.Errorf("unknown site filter %q", s)
	}
	return models.SiteMode(s), nil
}

// Sites lists the distinct site identifiers in sorted order.
func Sites(records []models.Record) []string {
	seen := make(map[string]struct{}, len(records))
	var sites []string
	for _, r := range records {
		if _, ok := seen[r.Site]; ok {
			continue
		}
		seen[r.Site] = struct{}{}
		sites = append(sites, r.Site)
	}
	sort.Strings(sites)
	return sites
}
