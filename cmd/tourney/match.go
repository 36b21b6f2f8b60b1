package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/park285/cheese-tourney/internal/adapter/tourneypresenter"
)

func newMatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Record and list matches",
	}

	create := &cobra.Command{
		Use:   "create <player1-id> <player2-id> <score1> <score2>",
		Short: "Record a match dated today",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := []string{"player1 id", "player2 id", "score1", "score2"}
			vals := make([]int, len(args))
			for i, raw := range args {
				n, err := parseIntArg(names[i], raw)
				if err != nil {
					return err
				}
				vals[i] = n
			}
			return a.createMatch(cmd.Context(), vals[0], vals[1], vals[2], vals[3])
		},
	}

	var playerID int
	list := &cobra.Command{
		Use:   "list",
		Short: "List matches in the order they were recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := a.matches.ListAll()
			if cmd.Flags().Changed("player") {
				if _, err := a.players.FindByID(playerID); err != nil {
					return a.failLookup(playerID, err)
				}
				all = a.matches.MatchesForPlayer(playerID)
			}
			a.show(a.formatter.MatchList(tourneypresenter.ToDTOMatches(a.matches, all)))
			return nil
		},
	}
	list.Flags().IntVar(&playerID, "player", 0, "only matches involving this player id")

	cmd.AddCommand(create, list)
	return cmd
}

func (a *app) createMatch(ctx context.Context, p1, p2, s1, s2 int) error {
	m, err := a.matches.CreateMatch(ctx, p1, p2, s1, s2)
	if err != nil {
		return a.fail(err)
	}
	view, err := a.matches.Describe(m)
	if err != nil {
		return a.fail(err)
	}
	a.show(a.formatter.MatchCreated(tourneypresenter.ToDTOMatch(view)))
	a.warnPersist(a.matches.LastPersistError())
	return nil
}
