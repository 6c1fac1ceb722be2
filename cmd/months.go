package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/DachengChen/liturgiAI/dataset"
	"github.com/spf13/cobra"
)

var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Print the number of services per month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		ds, err := env.svc.Dataset(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		counts := dataset.MonthCounts(ds)
		if len(counts) == 0 {
			fmt.Fprintf(out, "%s: %d rows, no %s column\n", env.svc.SourceLabel(), ds.Len(), dataset.DateColumn)
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MONTH\tSERVICES")
		for _, m := range counts {
			fmt.Fprintf(w, "%s\t%d\n", m.Month, m.Count)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}
