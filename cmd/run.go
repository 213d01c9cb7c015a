package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-travel/places-cli/internal/fetcher"
)

var runKeywords string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation loop over a keyword list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		source := runKeywords
		if source == "" {
			source = cfg.Run.Keywords
		}
		if source == "" {
			return eris.New("no keyword source configured (run.keywords or --keywords)")
		}

		keywords, err := fetcher.LoadKeywords(ctx, source)
		if err != nil {
			return err
		}
		zap.L().Info("keywords loaded",
			zap.String("source", source), zap.Int("count", len(keywords)))

		eng, err := initEngine(ctx, st)
		if err != nil {
			return err
		}

		report, err := eng.Run(ctx, keywords)
		if err != nil {
			return err
		}
		if report.Blocked {
			zap.L().Warn("run blocked on quota; re-run once the source refreshes",
				zap.String("source", report.BlockedSource),
				zap.Int("remaining", report.Remaining))
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runKeywords, "keywords", "", "keyword list path or http(s)/ftp URL")
	rootCmd.AddCommand(runCmd)
}
