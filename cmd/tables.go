package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/db"
	"github.com/spf13/cobra"
)

var tablesSchema string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in the configured warehouse",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Source.Kind != config.SourceWarehouse {
			return fmt.Errorf("source kind is %q; tables needs source.kind: warehouse", cfg.Source.Kind)
		}

		conn, err := db.Connect(cmd.Context(), cfg.Source.Warehouse)
		if err != nil {
			return err
		}
		defer conn.Close()

		tables, err := conn.ListTables(cmd.Context(), tablesSchema)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SCHEMA\tTABLE\tROWS (EST.)")
		for _, t := range tables {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Schema, t.Name, db.FormatRowCount(t.RowCount))
		}
		return w.Flush()
	},
}

func init() {
	tablesCmd.Flags().StringVar(&tablesSchema, "schema", "public", "schema to list")
	rootCmd.AddCommand(tablesCmd)
}
