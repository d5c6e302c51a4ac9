package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pivolan/carbon_analyzer/dataset"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the dataset file into a ClickHouse table",
	Long: `import normalizes the dataset file and writes the canonical records into a
table reachable through DB_DSN. Later runs read it back with --db-table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := settings()
		if err != nil {
			return err
		}
		if cfg.DbDsn == "" {
			return errors.New("import needs DB_DSN or --db-dsn")
		}
		table := cfg.DbTable
		if table == "" {
			table = dataset.TableName(cfg.DataPath)
		}

		records, err := dataset.Load(cmd.Context(), dataset.CSVSource{Path: cfg.DataPath, Separator: cfg.CSVSeparator})
		if err != nil {
			return err
		}
		db, err := dataset.OpenSQL(cfg.DbDsn)
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		if err := dataset.ImportSQL(cmd.Context(), db, table, records); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		return nil
	},
}
