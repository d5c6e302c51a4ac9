package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pivolan/carbon_analyzer/metric"
	"github.com/pivolan/carbon_analyzer/report"
)

var summaryQuery viewQuery

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print KPIs, country aggregates and a preview of the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := settings()
		if err != nil {
			return err
		}
		p, err := summaryQuery.parse(cfg)
		if err != nil {
			return err
		}
		in, err := loadInputs(cmd.Context(), cfg, false)
		if err != nil {
			return err
		}
		return printSummary(cmd.OutOrStdout(), buildView(in, p), p)
	},
}

func init() {
	bindViewFlags(summaryCmd, &summaryQuery)
}

func bindViewFlags(cmd *cobra.Command, q *viewQuery) {
	f := cmd.Flags()
	f.StringVar(&q.Green, "green", "", "green hosting filter: ALL, GREEN or NOT_GREEN")
	f.StringVar(&q.SiteMode, "site-mode", "", "site filter: ALL, CUSTOM or NONE (CUSTOM when --site is given)")
	f.StringSliceVar(&q.Sites, "site", nil, "sites to keep in CUSTOM mode")
	f.StringVar(&q.Metric, "metric", metric.CO2.Key, "metric: co2_grid_grams, energy_kWh or size_mb")
	f.StringVar(&q.Mode, "mode", "", "country aggregation: WORST or AVG")
	f.StringVar(&q.Country, "country", "", "country of the donut view")
	f.StringVar(&q.ScatterCountry, "scatter-country", "", "restrict the scatter view to one country")
	f.StringSliceVar(&q.Radar, "radar", nil, "sites to compare on the radar")
	f.StringVar(&q.RadarPick, "radar-pick", pickDurable, "radar selection when --radar is empty: durable or polluting")
}

func printSummary(w io.Writer, v view, p viewParams) error {
	if len(v.Preview) == 0 {
		return report.PrintNoData(w)
	}
	sections := []struct {
		title string
		body  string
	}{
		{"Key figures", report.KPITable(v.KPIs)},
		{fmt.Sprintf("Top %d by %s", p.TopN, p.Metric.Label), report.TopTable(v.Top, p.Metric)},
		{"Countries (" + string(p.Mode) + ")", report.CountryTable(v.Countries, p.Metric, p.Mode)},
		{"Preview", report.PreviewTable(v.Preview)},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", report.SectionTitle(s.title), s.body); err != nil {
			return err
		}
	}
	return nil
}
