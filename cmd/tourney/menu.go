package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/adapter/tourneypresenter"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context())
		},
	}
}

// menuSession reads answers line by line from the app input.
type menuSession struct {
	a  *app
	sc *bufio.Scanner
}

// runMenu loops until the user quits or input ends.
func (a *app) runMenu(ctx context.Context) error {
	s := &menuSession{a: a, sc: bufio.NewScanner(a.in)}
	f := a.formatter

	a.show(f.Text("app.banner"))
	for {
		a.show(f.Text("menu.body"))
		choice, err := s.readInt("menu.prompt")
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case 1:
			err = s.addPlayer(ctx)
		case 2:
			a.show(f.PlayerList(tourneypresenter.ToDTOPlayers(a.players.ListSortedByRawScoreDescending())))
		case 3:
			err = s.createMatch(ctx)
		case 4:
			a.show(f.MatchList(tourneypresenter.ToDTOMatches(a.matches, a.matches.ListAll())))
		case 5:
			a.showStats(a.cfg.TopLimit)
		case 0:
			a.show(f.Text("app.goodbye"))
			a.logger.Info("menu_quit")
			return nil
		default:
			a.show(f.Text("menu.invalid_choice"))
			a.logger.Warn("menu_invalid_choice", zap.Int("choice", choice))
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// finish ends the session. Running out of input counts as quitting.
func (s *menuSession) finish(err error) error {
	if errors.Is(err, io.EOF) {
		tourneypresenter.Prompt(s.a.out, "\n")
		s.a.show(s.a.formatter.Text("app.goodbye"))
		return nil
	}
	return err
}

func (s *menuSession) readLine(promptKey string) (string, error) {
	tourneypresenter.Prompt(s.a.out, s.a.formatter.Text(promptKey))
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.sc.Text()), nil
}

// readInt asks again until the answer parses as an integer.
func (s *menuSession) readInt(promptKey string) (int, error) {
	for {
		line, err := s.readLine(promptKey)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		s.a.show(s.a.formatter.Text("input.invalid_int"))
	}
}

func (s *menuSession) addPlayer(ctx context.Context) error {
	a, f := s.a, s.a.formatter
	a.show(f.Text("player.add_header"))

	nickname, err := s.readLine("player.prompt_nickname")
	if err != nil {
		return err
	}
	if nickname == "" {
		a.show(f.Text("player.empty_nickname"))
		return nil
	}
	level, err := s.readInt("player.prompt_level")
	if err != nil {
		return err
	}
	score, err := s.readInt("player.prompt_score")
	if err != nil {
		return err
	}

	p, err := a.players.AddPlayer(ctx, nickname, level, score)
	if err != nil {
		a.show(f.Error(err))
		return nil
	}
	a.show(f.PlayerAdded(tourneypresenter.ToDTOPlayer(p)))
	a.warnPersist(a.players.LastPersistError())
	return nil
}

func (s *menuSession) createMatch(ctx context.Context) error {
	a, f := s.a, s.a.formatter
	a.show(f.Text("match.create_header"))

	players := a.players.ListAll()
	if len(players) < 2 {
		a.show(f.Text("match.need_two_players"))
		return nil
	}
	a.show(f.AvailablePlayers(tourneypresenter.ToDTOPlayers(players)))

	var vals [4]int
	for i, key := range []string{"match.prompt_player1", "match.prompt_player2", "match.prompt_score1", "match.prompt_score2"} {
		n, err := s.readInt(key)
		if err != nil {
			return err
		}
		vals[i] = n
	}
	if err := a.createMatch(ctx, vals[0], vals[1], vals[2], vals[3]); err != nil && !errors.Is(err, errReported) {
		return err
	}
	return nil
}
