package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/carbon_analyzer/aggregate"
	"github.com/pivolan/carbon_analyzer/config"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/filter"
	"github.com/pivolan/carbon_analyzer/metric"
	"github.com/pivolan/carbon_analyzer/report"
	"github.com/pivolan/carbon_analyzer/scoring"
)

const (
	pickDurable   = "durable"
	pickPolluting = "polluting"
)

// viewQuery is the unparsed view selection, from flags or a query string.
type viewQuery struct {
	Green          string
	SiteMode       string
	Sites          []string
	Metric         string
	Mode           string
	Country        string
	ScatterCountry string
	Radar          []string
	RadarPick      string
}

type viewParams struct {
	Filter         models.FilterState
	Metric         metric.Metric
	Mode           models.AggregateMode
	Country        string
	ScatterCountry string
	Radar          []string
	RadarPick      string
	TopN           int
	RadarMax       int
}

func (q viewQuery) parse(cfg *config.Config) (viewParams, error) {
	p := viewParams{TopN: cfg.TopN, RadarMax: cfg.RadarMax, Country: q.Country, ScatterCountry: q.ScatterCountry}

	green, err := filter.ParseGreenMode(q.Green)
	if err != nil {
		return p, err
	}
	sites := splitList(q.Sites)
	siteMode := q.SiteMode
	if siteMode == "" && len(sites) > 0 {
		siteMode = string(models.SitesCustom)
	}
	mode, err := filter.ParseSiteMode(siteMode)
	if err != nil {
		return p, err
	}
	p.Filter = filter.NewState(green, mode, sites)

	key := q.Metric
	if key == "" {
		key = metric.CO2.Key
	}
	m, ok := metric.ByKey(key)
	if !ok {
		return p, fmt.Errorf("unknown metric %q", q.Metric)
	}
	p.Metric = m

	if p.Mode, err = aggregate.ParseMode(q.Mode); err != nil {
		return p, err
	}

	p.RadarPick = strings.ToLower(strings.TrimSpace(q.RadarPick))
	if p.RadarPick == "" {
		p.RadarPick = pickDurable
	}
	if !go_utils.InArray(p.RadarPick, []string{pickDurable, pickPolluting}) {
		return p, fmt.Errorf("unknown radar pick %q", q.RadarPick)
	}
	p.Radar = splitList(q.Radar)
	return p, nil
}

// splitList accepts repeated values as well as comma-separated ones.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// view is every derived snapshot for one filter state. The filters narrow
// the bar chart, the scatter and the record list; KPIs, the map, the donut,
// the radar and the preview always describe the whole dataset.
type view struct {
	Filtered  []models.Record
	KPIs      models.KPIs
	Top       []aggregate.Ranked
	Countries map[string]models.GroupAggregate
	Unmatched []string
	Map       []report.MapValue
	Country   string
	Donut     []models.ValueCount
	Radar     []models.Profile
	Scatter   aggregate.ScatterView
	Preview   []models.Record
}

func buildView(in *inputs, p viewParams) view {
	v := view{Filtered: filter.Apply(in.Records, p.Filter)}
	v.Top = aggregate.TopN(v.Filtered, p.Metric, p.TopN)
	v.Scatter = aggregate.Scatter(v.Filtered, p.ScatterCountry)

	v.KPIs = aggregate.ComputeKPIs(in.Records)
	v.Countries = aggregate.ByCountry(aggregate.MapRows(in.Records), p.Metric, p.Mode)
	if in.Geo != nil {
		joined, unmatched := in.Geo.Join(v.Countries)
		v.Map, v.Unmatched = report.MapValues(joined), unmatched
		if len(unmatched) > 0 {
			slog.Debug("countries without a boundary", "countries", unmatched)
		}
	}

	v.Country = p.Country
	if v.Country == "" {
		if countries := aggregate.Countries(in.Records); len(countries) > 0 {
			v.Country = countries[0]
		}
	}
	v.Donut = aggregate.DonutSlices(in.Records, v.Country, p.Metric)

	// radar axes stay fixed to the whole dataset
	scorer := scoring.NewScorer(in.Records, metric.Radar)
	var picked []models.Record
	switch {
	case len(p.Radar) > 0:
		picked = aggregate.SelectSites(in.Records, p.Radar, p.RadarMax)
	case p.RadarPick == pickPolluting:
		picked = aggregate.TopPolluting(in.Records, p.RadarMax)
	default:
		picked = aggregate.TopDurable(in.Records, p.RadarMax)
	}
	v.Radar = scorer.Profiles(picked)

	v.Preview = aggregate.Preview(in.Records)
	return v
}

func (v view) dashboard(title string, p viewParams) report.Dashboard {
	return report.Dashboard{
		Title:        title,
		KPIs:         v.KPIs,
		Metric:       p.Metric,
		Mode:         p.Mode,
		Top:          v.Top,
		DonutCountry: v.Country,
		Donut:        v.Donut,
		Map:          v.Map,
		Profiles:     v.Radar,
		Scatter:      v.Scatter,
	}
}
