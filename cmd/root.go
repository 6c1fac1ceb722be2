// Package cmd contains all Cobra commands for liturgi.
//
// Design decision: the root command launches the TUI directly.
// Running `liturgi` with no arguments loads the configured dataset and
// opens the Data/Ask/History views. The subcommands expose the same
// flow for scripts.
package cmd

import (
	"fmt"

	"github.com/DachengChen/liturgiAI/applog"
	"github.com/DachengChen/liturgiAI/config"
	"github.com/DachengChen/liturgiAI/history"
	"github.com/DachengChen/liturgiAI/session"
	"github.com/DachengChen/liturgiAI/tui"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "liturgi",
	Short: "Liturgy dataset dashboard with an AI assistant",
	Long: `liturgi browses a table of past worship-service liturgies and asks an
AI assistant questions about it, in Indonesian:
  • Data view with month-by-month service counts
  • Ask view that sends the instruction plus a CSV excerpt to the model
  • History of every question asked (in memory, SQLite or PostgreSQL)
  • CSV file or PostgreSQL warehouse source, optional SSH tunnel

Configuration lives in ~/.liturgi/config.yaml (see 'liturgi init').`,
	SilenceUsage: true,
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		return tui.Start(env.svc, env.sess, env.cfg.Prompt.RowLimit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.liturgi/config.yaml)")
}

// Execute runs the root command.
func Execute() error {
	defer applog.Close()
	return rootCmd.Execute()
}

// runtimeEnv is everything a command needs for one session.
type runtimeEnv struct {
	cfg   *config.AppConfig
	svc   *session.Service
	sess  *session.Session
	store history.Store
}

func (e *runtimeEnv) Close() {
	if err := e.store.Close(); err != nil {
		applog.Warn("close history: %v", err)
	}
}

func setup() (*runtimeEnv, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := session.NewService(cfg)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	applog.Info("start: source=%s provider=%s model=%s history=%s",
		svc.SourceLabel(), svc.Assistant.Name(), svc.Assistant.Model(), cfg.History.Backend)

	return &runtimeEnv{
		cfg:   cfg,
		svc:   svc,
		sess:  session.New(store),
		store: store,
	}, nil
}
