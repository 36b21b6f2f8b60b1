package storebuilder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/config"
	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"github.com/park285/cheese-tourney/internal/store/csvstore"
	"github.com/park285/cheese-tourney/internal/store/redisstore"
	"github.com/park285/cheese-tourney/internal/store/sqlstore"
)

// Deps carries the gateways for the configured backend.
type Deps struct {
	Backend  string
	Players  tournament.PlayerGateway
	Matches  tournament.MatchGateway
	closeFns []func() error
}

// Close releases backend connections.
func (d *Deps) Close() error {
	if d == nil {
		return nil
	}
	var first error
	for _, fn := range d.closeFns {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	d.closeFns = nil
	return first
}

// New opens the gateways named by cfg.StoreBackend.
func New(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("backend", cfg.StoreBackend))

	deps := &Deps{Backend: cfg.StoreBackend}
	switch cfg.StoreBackend {
	case config.BackendCSV, "":
		ps, err := csvstore.NewPlayerStore(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("init players file: %w", err)
		}
		ms, err := csvstore.NewMatchStore(cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("init matches file: %w", err)
		}
		deps.Backend = config.BackendCSV
		deps.Players, deps.Matches = ps, ms
		logger.Info("store_ready", zap.String("players", ps.Path()), zap.String("matches", ms.Path()))

	case config.BackendMemory:
		deps.Players = tournament.NewMemoryGateway[domain.Player]()
		deps.Matches = tournament.NewMemoryGateway[domain.Match]()
		logger.Info("store_ready")

	case config.BackendRedis:
		store, err := redisstore.Open(ctx, cfg.RedisURL, cfg.RedisKeyPrefix, logger)
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
		deps.Players, deps.Matches = store.Players(), store.Matches()
		deps.closeFns = append(deps.closeFns, store.Close)
		logger.Info("store_ready", zap.String("prefix", cfg.RedisKeyPrefix))

	case config.BackendPostgres:
		repo, err := sqlstore.OpenPostgres(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		deps.Players, deps.Matches = repo.Players(), repo.Matches()
		deps.closeFns = append(deps.closeFns, repo.Close)
		logger.Info("store_ready")

	case config.BackendSQLite:
		repo, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		deps.Players, deps.Matches = repo.Players(), repo.Matches()
		deps.closeFns = append(deps.closeFns, repo.Close)
		logger.Info("store_ready", zap.String("path", cfg.SQLitePath))

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	return deps, nil
}

// Registries loads both snapshots from deps. Players load first so matches can resolve them.
func Registries(ctx context.Context, deps *Deps, logger *zap.Logger, opts ...tournament.MatchOption) (*tournament.PlayerRegistry, *tournament.MatchRegistry, error) {
	players, err := tournament.NewPlayerRegistry(ctx, deps.Players, logger)
	if err != nil {
		return nil, nil, err
	}
	matches, err := tournament.NewMatchRegistry(ctx, deps.Matches, players, logger, opts...)
	if err != nil {
		return nil, nil, err
	}
	return players, matches, nil
}
