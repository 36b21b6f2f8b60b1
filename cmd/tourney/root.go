package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/adapter/tourneypresenter"
	"github.com/park285/cheese-tourney/internal/config"
	"github.com/park285/cheese-tourney/internal/msgcat"
	"github.com/park285/cheese-tourney/internal/obslog"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"github.com/park285/cheese-tourney/internal/storebuilder"
	"github.com/park285/cheese-tourney/pkg/tourneydto"
)

// errReported marks a failure already shown to the user.
var errReported = errors.New("reported")

type app struct {
	cfg       *config.AppConfig
	logger    *zap.Logger
	deps      *storebuilder.Deps
	players   *tournament.PlayerRegistry
	matches   *tournament.MatchRegistry
	formatter *tourneypresenter.Formatter
	presenter *tourneypresenter.Presenter
	out       io.Writer
	in        io.Reader
}

// run builds the command tree, executes args and releases the store.
func run(ctx context.Context, version string, args []string, in io.Reader, out io.Writer) error {
	a := &app{}
	root := newRootCmd(a, version)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(a *app, version string) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tourney",
		Short:         "Track players and matches of an e-sport tournament",
		Long:          `Registers players, records head-to-head matches and reports rankings. Running without a subcommand starts the interactive menu.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd, envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMenu(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newPlayerCmd(a), newMatchCmd(a), newStatsCmd(a), newMenuCmd(a))
	return root
}

func (a *app) open(cmd *cobra.Command, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger := obslog.L()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return fmt.Errorf("messages: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	deps, err := storebuilder.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	players, matches, err := storebuilder.Registries(ctx, deps, logger)
	if err != nil {
		_ = deps.Close()
		return err
	}

	a.cfg, a.logger, a.deps = cfg, logger, deps
	a.players, a.matches = players, matches
	a.out, a.in = cmd.OutOrStdout(), cmd.InOrStdin()
	a.formatter = tourneypresenter.NewFormatter(cat)
	a.presenter = tourneypresenter.NewWriterPresenter(a.out)
	logger.Info("tourney_start", zap.String("command", cmd.CommandPath()), zap.String("backend", deps.Backend))
	return nil
}

func (a *app) close() error {
	if a.deps == nil {
		return nil
	}
	defer obslog.Sync()
	err := a.deps.Close()
	a.deps = nil
	return err
}

func (a *app) show(message string) {
	if err := a.presenter.Show(message); err != nil {
		a.logger.Warn("output_failed", zap.Error(err))
	}
}

// fail shows a registry failure and marks it reported.
// Validation failures the user can correct are logged below error level.
func (a *app) fail(err error) error {
	if de := tourneypresenter.ToDomainError(err); de != nil {
		if de.Retryable {
			a.logger.Info("command_rejected", zap.String("code", de.Code), zap.Error(err))
		} else {
			a.logger.Error("command_failed", zap.String("code", de.Code), zap.Error(err))
		}
	}
	a.show(a.formatter.Error(err))
	return errReported
}

// failLookup reports an unknown player id, or falls back to fail.
func (a *app) failLookup(id int, err error) error {
	if !errors.Is(err, tournament.ErrPlayerNotFound) {
		return a.fail(err)
	}
	a.logger.Info("command_rejected", zap.String("code", tourneydto.CodePlayerNotFound), zap.Int("player_id", id))
	a.show(a.formatter.PlayerNotFound(id))
	return errReported
}

// warnPersist surfaces a snapshot write failure after a successful mutation.
func (a *app) warnPersist(err error) {
	if err != nil {
		a.show(a.formatter.PersistWarning(err))
	}
}

func parseIntArg(name, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, raw)
	}
	return n, nil
}
