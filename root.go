package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pivolan/carbon_analyzer/config"
	applog "github.com/pivolan/carbon_analyzer/log"
)

// Global flag values.
var (
	verbose   bool
	quiet     bool
	noColor   bool
	dataPath  string
	geoPath   string
	separator string
	dbDsn     string
	dbTable   string
)

var rootCmd = &cobra.Command{
	Use:   "carbon_analyzer",
	Short: "Explore the carbon footprint of websites",
	Long: `carbon_analyzer loads a dataset of per-website carbon measurements
(CO₂ per visit, energy, page weight, green hosting) and turns it into
country aggregates, rankings, sustainability profiles and a dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		applog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "dataset file (.csv, .gz, .lz4 or .zip); overrides DATA_PATH")
	rootCmd.PersistentFlags().StringVar(&geoPath, "geo", "", "world boundaries GeoJSON; overrides GEO_PATH")
	rootCmd.PersistentFlags().StringVar(&separator, "separator", "", "CSV separator; overrides CSV_SEPARATOR")
	rootCmd.PersistentFlags().StringVar(&dbDsn, "db-dsn", "", "MySQL/ClickHouse DSN; overrides DB_DSN")
	rootCmd.PersistentFlags().StringVar(&dbTable, "db-table", "", "read the dataset from this table instead of a file; overrides DB_TABLE")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

// settings returns the configuration with command-line overrides applied.
func settings() (*config.Config, error) {
	cfg := *config.GetConfig()
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if geoPath != "" {
		cfg.GeoPath = geoPath
	}
	if separator != "" {
		sep, err := config.ParseSeparator(separator)
		if err != nil {
			return nil, err
		}
		cfg.CSVSeparator = sep
	}
	if dbDsn != "" {
		cfg.DbDsn = dbDsn
	}
	if dbTable != "" {
		cfg.DbTable = dbTable
	}
	return &cfg, nil
}
