package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/pivolan/carbon_analyzer/aggregate"
	"github.com/pivolan/carbon_analyzer/domain/models"
	"github.com/pivolan/carbon_analyzer/geo"
	"github.com/pivolan/carbon_analyzer/metric"
)

const (
	greenHex    = "#2e7d32"
	notGreenHex = "#c62828"
	outlierHex  = "#000000"
	othersHex   = "#9e9e9e"
	chartWidth  = "1100px"
	chartHeight = "520px"
)

// MapValue is the value painted on one country of the world map.
type MapValue struct {
	Name  string
	Value float64
	Site  string
}

// MapValues keeps the features that received an aggregate.
func MapValues(matches []geo.Match) []MapValue {
	var out []MapValue
	for _, m := range matches {
		if m.Aggregate == nil {
			continue
		}
		out = append(out, MapValue{Name: m.Feature.Name, Value: m.Aggregate.Value, Site: m.Aggregate.Worst.Site})
	}
	return out
}

// Dashboard is everything one page render needs. Empty views render with a
// "no data" subtitle.
type Dashboard struct {
	Title        string
	KPIs         models.KPIs
	Metric       metric.Metric
	Mode         models.AggregateMode
	Top          []aggregate.Ranked
	DonutCountry string
	Donut        []models.ValueCount
	Map          []MapValue
	Profiles     []models.Profile
	Scatter      aggregate.ScatterView
}

// RenderDashboard writes the dashboard as a standalone HTML page.
func RenderDashboard(w io.Writer, d Dashboard) error {
	page := components.NewPage()
	page.PageTitle = d.Title
	page.AddCharts(
		d.topBar(),
		d.worldMap(),
		d.donut(),
		d.radar(),
		d.scatter(),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func (d Dashboard) kpiLine() string {
	return fmt.Sprintf("%d sites · %d countries · %d categories · %d%% green hosting · mean %s g CO₂/visit",
		d.KPIs.Sites, d.KPIs.Countries, d.KPIs.Categories, d.KPIs.GreenPercent,
		metric.CO2.Format(models.Present(d.KPIs.MeanCO2Grams)))
}

func subtitle(empty bool, s string) string {
	if empty {
		return NoDataNotice
	}
	return s
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight})
}

func (d Dashboard) topBar() *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Top %d sites by %s", len(d.Top), d.Metric.Label),
			Subtitle: subtitle(len(d.Top) == 0, d.kpiLine()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: d.Metric.AxisLabel()}),
	)

	labels := make([]string, 0, len(d.Top))
	data := make([]opts.BarData, 0, len(d.Top))
	for _, r := range d.Top {
		color := notGreenHex
		if r.Record.GreenHost {
			color = greenHex
		}
		labels = append(labels, CleanDomain(r.Record.Site))
		data = append(data, opts.BarData{
			Name:      PrettySite(r.Record.Site),
			Value:     r.Value,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}
	bar.SetXAxis(labels).AddSeries(d.Metric.Label, data)
	return bar
}

func (d Dashboard) worldMap() *charts.Map {
	title := "Worst site per country"
	if d.Mode == models.ModeAvg {
		title = "Average per country"
	}

	lo, hi := 0.0, 1.0
	if len(d.Map) > 0 {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range d.Map {
			lo = math.Min(lo, v.Value)
			hi = math.Max(hi, v.Value)
		}
		if lo == hi {
			hi = lo + 1
		}
	}

	mc := charts.NewMap()
	mc.RegisterMapType("world")
	mc.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle(len(d.Map) == 0, d.Metric.Label)}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: float32(lo),
			Max: float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#fff5eb", "#fd8d3c", "#7f2704"},
			},
		}),
	)

	data := make([]opts.MapData, 0, len(d.Map))
	for _, v := range d.Map {
		data = append(data, opts.MapData{Name: v.Name, Value: v.Value})
	}
	mc.AddSeries(d.Metric.Label, data)
	return mc
}

func (d Dashboard) donut() *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sites in " + d.DonutCountry,
			Subtitle: subtitle(len(d.Donut) == 0, d.Metric.Label),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
	)

	data := make([]opts.PieData, 0, len(d.Donut))
	for _, s := range d.Donut {
		item := opts.PieData{Name: PrettySite(s.Label), Value: s.Value}
		if s.IsOther {
			item.Name = s.Label
			item.ItemStyle = &opts.ItemStyle{Color: othersHex}
		}
		data = append(data, item)
	}
	pie.AddSeries(d.Metric.Label, data).
		SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}))
	return pie
}

func (d Dashboard) radar() *charts.Radar {
	indicators := make([]*opts.Indicator, 0, len(metric.Radar))
	for _, m := range metric.Radar {
		indicators = append(indicators, &opts.Indicator{Name: m.AxisLabel(), Min: 0, Max: 1})
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sustainability profile",
			Subtitle: subtitle(len(d.Profiles) == 0, "1 = best in dataset"),
		}),
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	for _, p := range d.Profiles {
		scores := make([]float64, len(p.Scores))
		for i, s := range p.Scores {
			scores[i] = s.Score
		}
		radar.AddSeries(PrettySite(p.Site), []opts.RadarData{{Name: PrettySite(p.Site), Value: scores}})
	}
	return radar
}

// categoryPalette colours scatter categories in first-seen order.
var categoryPalette = []string{
	"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f", "#edc949", "#af7aa1", "#ff9da7",
	"#9c755f", "#bab0ab",
}

const (
	greenSymbol    = "diamond"
	notGreenSymbol = "circle"
)

// CategoryColor returns the scatter colour of the i-th category.
func CategoryColor(i int) string {
	return categoryPalette[i%len(categoryPalette)]
}

type scatterGroup struct {
	Name  string
	Color string
	Data  []opts.ScatterData
}

// scatterGroups splits the scatter into one series per category. Green sites
// are drawn as diamonds, the others as circles. Outliers also get a black
// ring in a leading series.
func scatterGroups(v aggregate.ScatterView) []scatterGroup {
	byCategory := make(map[string][]opts.ScatterData, len(v.Categories))
	var outliers []opts.ScatterData
	add := func(points []aggregate.ScatterPoint, symbol string) {
		for _, p := range points {
			item := opts.ScatterData{
				Name:       PrettySite(p.Record.Site),
				Value:      []interface{}{p.SizeMB, p.CO2},
				Symbol:     symbol,
				SymbolSize: int(math.Round(p.Radius * 2)),
			}
			if p.Outlier {
				ring := item
				ring.SymbolSize += 6
				outliers = append(outliers, ring)
			}
			byCategory[p.Record.Category] = append(byCategory[p.Record.Category], item)
		}
	}
	add(v.Green, greenSymbol)
	add(v.NotGreen, notGreenSymbol)

	groups := []scatterGroup{{Name: "top 10% CO₂", Color: outlierHex, Data: outliers}}
	for i, cat := range v.Categories {
		groups = append(groups, scatterGroup{Name: cat, Color: CategoryColor(i), Data: byCategory[cat]})
	}
	return groups
}

func (d Dashboard) scatter() *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title: "Page weight vs CO₂",
			Subtitle: subtitle(d.Scatter.Empty(), fmt.Sprintf("◆ green hosting · ● not green · top 10%% CO₂ from %s g",
				metric.CO2.Format(models.Present(d.Scatter.Threshold)))),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Page weight (MB)", Type: "log"}),
		charts.WithYAxisOpts(opts.YAxis{Name: metric.CO2.AxisLabel(), Type: "value"}),
	)
	for _, g := range scatterGroups(d.Scatter) {
		sc.AddSeries(g.Name, g.Data, charts.WithItemStyleOpts(opts.ItemStyle{Color: g.Color}))
	}
	return sc
}
