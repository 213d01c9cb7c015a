package main

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show per-source quota usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		sources := make([]string, 0, len(cfg.Quota))
		for source := range cfg.Quota {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			limit := cfg.Quota[source]
			state, err := st.GetQuotaState(ctx, source)
			if err != nil {
				return err
			}
			if state == nil {
				fmt.Printf("%-20s 0/%d (unused)\n", source, limit.DailyLimit)
				continue
			}
			fmt.Printf("%-20s %d/%d since %s\n",
				source, state.UsageCount, limit.DailyLimit,
				state.LastReset.Format("2006-01-02"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}
