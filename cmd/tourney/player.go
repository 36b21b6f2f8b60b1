package main

import (
	"github.com/spf13/cobra"

	"github.com/park285/cheese-tourney/internal/adapter/tourneypresenter"
)

func newPlayerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Manage players",
	}

	add := &cobra.Command{
		Use:   "add <nickname> <level> <score>",
		Short: "Register a player",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseIntArg("level", args[1])
			if err != nil {
				return err
			}
			score, err := parseIntArg("score", args[2])
			if err != nil {
				return err
			}
			p, err := a.players.AddPlayer(cmd.Context(), args[0], level, score)
			if err != nil {
				return a.fail(err)
			}
			a.show(a.formatter.PlayerAdded(tourneypresenter.ToDTOPlayer(p)))
			a.warnPersist(a.players.LastPersistError())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List players by score, highest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.show(a.formatter.PlayerList(tourneypresenter.ToDTOPlayers(a.players.ListSortedByRawScoreDescending())))
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a player with their matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIntArg("id", args[0])
			if err != nil {
				return err
			}
			p, err := a.players.FindByID(id)
			if err != nil {
				return a.failLookup(id, err)
			}
			a.show(a.formatter.PlayerProfile(tourneypresenter.ToDTOProfile(p, a.matches)))
			return nil
		},
	}

	cmd.AddCommand(add, list, show)
	return cmd
}
