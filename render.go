package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pivolan/carbon_analyzer/plot"
	"github.com/pivolan/carbon_analyzer/report"
)

const dashboardTitle = "Website carbon footprint"

var (
	renderQuery viewQuery
	outDir      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the HTML dashboard and PNG charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := settings()
		if err != nil {
			return err
		}
		if outDir != "" {
			cfg.OutDir = outDir
		}
		p, err := renderQuery.parse(cfg)
		if err != nil {
			return err
		}
		in, err := loadInputs(cmd.Context(), cfg, true)
		if err != nil {
			return err
		}
		files, err := renderFiles(cfg.OutDir, buildView(in, p), p)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	bindViewFlags(renderCmd, &renderQuery)
	renderCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory; overrides OUT_DIR")
}

// renderFiles writes the dashboard and the PNG charts into dir and returns
// the paths written. Charts without data are skipped.
func renderFiles(dir string, v view, p viewParams) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(dir, "dashboard.html")
	f, err := os.Create(htmlPath)
	if err != nil {
		return nil, err
	}
	if err := report.RenderDashboard(f, v.dashboard(dashboardTitle, p)); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	written := []string{htmlPath}

	labels := make([]string, len(v.Top))
	values := make([]float64, len(v.Top))
	green := make([]bool, len(v.Top))
	for i, r := range v.Top {
		labels[i] = report.CleanDomain(r.Record.Site)
		values[i] = r.Value
		green[i] = r.Record.GreenHost
	}
	charts := []struct {
		name string
		draw func() ([]byte, error)
	}{
		{"top_sites.png", func() ([]byte, error) {
			return plot.DrawTopSites(labels, values, green, p.Metric.AxisLabel(), fmt.Sprintf("Top %d sites", len(labels)))
		}},
		{"scatter.png", func() ([]byte, error) { return plot.DrawScatter(v.Scatter) }},
	}
	for _, c := range charts {
		png, err := c.draw()
		if errors.Is(err, plot.ErrNoData) {
			slog.Warn("chart skipped, no data", "chart", c.name)
			continue
		}
		if err != nil {
			return written, fmt.Errorf("%s: %w", c.name, err)
		}
		path := filepath.Join(dir, c.name)
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
