package tournament

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/park285/cheese-tourney/internal/domain"
	"go.uber.org/zap"
)

// PlayerLookup resolves player ids. MatchRegistry depends only on this.
type PlayerLookup interface {
	FindByID(id int) (domain.Player, error)
}

// PlayerRegistry owns the authoritative player set and its id sequence.
type PlayerRegistry struct {
	mu sync.Mutex

	gateway PlayerGateway
	logger  *zap.Logger

	players        []domain.Player
	byID           map[int]int // id -> index into players
	nextID         int
	lastPersistErr error
}

// NewPlayerRegistry loads the players snapshot from gw and seeds the registry.
// A failing load is returned rather than starting empty, so a later save
// cannot overwrite an unreadable store.
func NewPlayerRegistry(ctx context.Context, gw PlayerGateway, logger *zap.Logger) (*PlayerRegistry, error) {
	if gw == nil {
		return nil, fmt.Errorf("player gateway is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	records, err := gw.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	r := &PlayerRegistry{gateway: gw, logger: logger}
	r.seed(records)
	r.logger.Info("player_registry_init",
		zap.Int("players", len(r.players)),
		zap.Int("next_id", r.nextID),
	)
	return r, nil
}

func (r *PlayerRegistry) seed(records []domain.Player) {
	r.players = make([]domain.Player, 0, len(records))
	r.byID = make(map[int]int, len(records))
	maxID := 0
	for _, p := range records {
		p.Nickname = strings.TrimSpace(p.Nickname)
		if reason := r.rejectLoaded(p); reason != "" {
			r.logger.Warn("player_load_skip",
				zap.Int("player_id", p.ID),
				zap.String("nickname", p.Nickname),
				zap.String("reason", reason),
				zap.Error(ErrMalformedRecord),
			)
			continue
		}
		r.byID[p.ID] = len(r.players)
		r.players = append(r.players, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
}

func (r *PlayerRegistry) rejectLoaded(p domain.Player) string {
	if p.Nickname == "" {
		return "empty nickname"
	}
	if _, dup := r.byID[p.ID]; dup {
		return "duplicate id"
	}
	if r.nicknameTaken(p.Nickname) {
		return "duplicate nickname"
	}
	return ""
}

func (r *PlayerRegistry) nicknameTaken(nickname string) bool {
	for _, p := range r.players {
		if strings.EqualFold(p.Nickname, nickname) {
			return true
		}
	}
	return false
}

// AddPlayer registers a new player. level and rawScore are stored as given.
func (r *PlayerRegistry) AddPlayer(ctx context.Context, nickname string, level, rawScore int) (domain.Player, error) {
	nickname = strings.TrimSpace(nickname)
	r.logger.Debug("player_add_attempt", zap.String("nickname", nickname))

	r.mu.Lock()
	defer r.mu.Unlock()

	if nickname == "" {
		return domain.Player{}, ErrEmptyNickname
	}
	if r.nicknameTaken(nickname) {
		r.logger.Warn("player_add_duplicate", zap.String("nickname", nickname))
		return domain.Player{}, fmt.Errorf("%w: %q", ErrDuplicateNickname, nickname)
	}

	p := domain.Player{ID: r.nextID, Nickname: nickname, Level: level, RawScore: rawScore}
	r.nextID++
	r.byID[p.ID] = len(r.players)
	r.players = append(r.players, p)

	r.persist(ctx)
	r.logger.Info("player_add", zap.Int("player_id", p.ID), zap.String("nickname", p.Nickname))
	return p, nil
}

func (r *PlayerRegistry) persist(ctx context.Context) {
	snapshot := append([]domain.Player(nil), r.players...)
	if err := r.gateway.SaveAll(ctx, snapshot); err != nil {
		r.lastPersistErr = fmt.Errorf("%w: players: %v", ErrPersistence, err)
		r.logger.Error("snapshot_save_failed", zap.String("kind", "players"), zap.Error(err))
		return
	}
	r.lastPersistErr = nil
}

// LastPersistError returns the failure of the most recent snapshot write, or nil.
func (r *PlayerRegistry) LastPersistError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPersistErr
}

func (r *PlayerRegistry) FindByID(id int) (domain.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byID[id]; ok {
		return r.players[idx], nil
	}
	r.logger.Debug("player_not_found", zap.Int("player_id", id))
	return domain.Player{}, fmt.Errorf("%w: id %d", ErrPlayerNotFound, id)
}

// ListAll returns a copy in insertion order.
func (r *PlayerRegistry) ListAll() []domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Player{}, r.players...)
}

func (r *PlayerRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// ListSortedByRawScoreDescending keeps insertion order among equal scores.
func (r *PlayerRegistry) ListSortedByRawScoreDescending() []domain.Player {
	items := r.ListAll()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RawScore > items[j].RawScore
	})
	return items
}

// Top returns at most n players by calculated score, ties kept in insertion order.
func (r *PlayerRegistry) Top(n int) []domain.Player {
	if n <= 0 {
		return []domain.Player{}
	}
	items := r.ListAll()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CalculatedScore() > items[j].CalculatedScore()
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func (r *PlayerRegistry) TotalRawScore() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalLocked()
}

// AverageRawScore is 0 for an empty registry.
func (r *PlayerRegistry) AverageRawScore() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.players) == 0 {
		return 0
	}
	return float64(r.totalLocked()) / float64(len(r.players))
}

func (r *PlayerRegistry) totalLocked() int {
	total := 0
	for _, p := range r.players {
		total += p.RawScore
	}
	return total
}

var _ PlayerLookup = (*PlayerRegistry)(nil)
