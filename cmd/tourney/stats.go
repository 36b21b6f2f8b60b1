package main

import (
	"github.com/spf13/cobra"

	"github.com/park285/cheese-tourney/internal/adapter/tourneypresenter"
)

func newStatsCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show tournament totals and the top players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := a.cfg.TopLimit
			if cmd.Flags().Changed("top") {
				limit = top
			}
			a.showStats(limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "ranking size (default TOP_LIMIT)")
	return cmd
}

func (a *app) showStats(limit int) {
	a.show(a.formatter.Stats(tourneypresenter.ToDTOStats(a.players, a.matches, limit)))
}
