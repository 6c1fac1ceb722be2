package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/history"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit  int
	asJSON bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent questions and answers, newest first",
	Long: `List recent questions and answers, newest first.

Only persistent backends (sqlite, postgres) keep entries between runs; with
the default memory backend the list is always empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		store, err := history.Open(cfg.History)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyFlags.limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyFlags.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Fprintf(out, "no history (backend: %s)\n", cfg.History.Backend)
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tASKED AT\tMODEL\tROWS\tINSTRUCTION")
		for _, e := range entries {
			rows := "-"
			if e.RowLimit != nil {
				rows = fmt.Sprint(*e.RowLimit)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				e.ID, e.AskedAt.Local().Format(time.DateTime), e.Model, rows, oneLine(e.Instruction, 60))
		}
		return w.Flush()
	},
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "number of entries (0 = all)")
	historyCmd.Flags().BoolVar(&historyFlags.asJSON, "json", false, "print entries as JSON")
	rootCmd.AddCommand(historyCmd)
}
