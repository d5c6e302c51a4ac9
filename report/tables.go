// Package report renders the dashboard views as terminal tables and as an
// HTML page.
package report

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pivolan/carbon_analyzer/aggregate"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/metric"
)

func KPITable(k models.KPIs) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Indicator", "Value"})
	most := k.MostPollutingCountry
	if most == "" {
		most = "—"
	}
	t.AppendRows([]table.Row{
		{"Sites", k.Sites},
		{"Countries", k.Countries},
		{"Categories", k.Categories},
		{"Green hosting", fmt.Sprintf("%d%%", k.GreenPercent)},
		{"Mean CO₂ / visit", metric.CO2.Format(models.Present(k.MeanCO2Grams)) + " g"},
		{"Most polluting country", most},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// SortedAggregates orders country aggregates by value, highest first, then
// by key.
func SortedAggregates(aggs map[string]models.GroupAggregate) []models.GroupAggregate {
	out := make([]models.GroupAggregate, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// CountryTable lists one row per country aggregate for metric m.
func CountryTable(aggs map[string]models.GroupAggregate, m metric.Metric, mode models.AggregateMode) string {
	if len(aggs) == 0 {
		return NoDataNotice
	}
	valueHeader := "Worst " + m.Label
	if mode == models.ModeAvg {
		valueHeader = "Mean " + m.Label
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Country", valueHeader, "Sites", "Worst site", "Category", "Green"})
	for _, a := range SortedAggregates(aggs) {
		t.AppendRow(table.Row{
			a.Key,
			m.Format(models.Present(a.Value)),
			a.Count,
			PrettySite(a.Worst.Site),
			a.Worst.Category,
			ColorGreenHost(a.Worst.GreenHost),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

func PreviewTable(records []models.Record) string {
	if len(records) == 0 {
		return NoDataNotice
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Site", "Country", "Category", "Green", "CO₂ (g)", "Energy (kWh)", "Size (MB)"})
	for _, r := range records {
		t.AppendRow(table.Row{
			PrettySite(r.Site),
			r.Country,
			r.Category,
			ColorGreenHost(r.GreenHost),
			metric.CO2.Format(metric.CO2.Value(r)),
			metric.Energy.Format(metric.Energy.Value(r)),
			metric.SizeMB.Format(metric.SizeMB.Value(r)),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// TopTable lists the top-N ranking for metric m.
func TopTable(ranked []aggregate.Ranked, m metric.Metric) string {
	if len(ranked) == 0 {
		return NoDataNotice
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Site", "Country", m.Label})
	for i, r := range ranked {
		t.AppendRow(table.Row{i + 1, PrettySite(r.Record.Site), r.Record.Country, m.Format(models.Present(r.Value))})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, Align: text.AlignRight}})
	t.SetStyle(table.StyleLight)
	return t.Render()
}
