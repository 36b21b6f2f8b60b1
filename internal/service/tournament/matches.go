package tournament

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/park285/cheese-tourney/internal/domain"
	"go.uber.org/zap"
)

// MatchOption customizes a MatchRegistry.
type MatchOption func(*MatchRegistry)

// WithClock overrides the time source used to date new matches.
func WithClock(now func() time.Time) MatchOption {
	return func(r *MatchRegistry) {
		if now != nil {
			r.now = now
		}
	}
}

// MatchRegistry owns the match set. Participants are resolved through players on use.
type MatchRegistry struct {
	mu sync.Mutex

	gateway MatchGateway
	players PlayerLookup
	logger  *zap.Logger
	now     func() time.Time

	matches        []domain.Match
	nextID         int
	lastPersistErr error
}

// MatchView is a match with its participants resolved for display.
type MatchView struct {
	Match    domain.Match
	Player1  domain.Player
	Player2  domain.Player
	Winner   *domain.Player
	IsTie    bool
	DateText string
}

// NewMatchRegistry loads the matches snapshot, dropping records whose players
// cannot be resolved through players.
func NewMatchRegistry(ctx context.Context, gw MatchGateway, players PlayerLookup, logger *zap.Logger, opts ...MatchOption) (*MatchRegistry, error) {
	if gw == nil {
		return nil, fmt.Errorf("match gateway is required")
	}
	if players == nil {
		return nil, fmt.Errorf("player lookup is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &MatchRegistry{gateway: gw, players: players, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	records, err := gw.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	r.seed(records)
	r.logger.Info("match_registry_init",
		zap.Int("matches", len(r.matches)),
		zap.Int("skipped", len(records)-len(r.matches)),
		zap.Int("next_id", r.nextID),
	)
	return r, nil
}

func (r *MatchRegistry) seed(records []domain.Match) {
	r.matches = make([]domain.Match, 0, len(records))
	seen := make(map[int]struct{}, len(records))
	maxID := 0
	for _, m := range records {
		if err := r.checkLoaded(m, seen); err != nil {
			r.logger.Warn("match_load_skip",
				zap.Int("match_id", m.ID),
				zap.Int("player1_id", m.Player1ID),
				zap.Int("player2_id", m.Player2ID),
				zap.Error(err),
			)
			continue
		}
		seen[m.ID] = struct{}{}
		r.matches = append(r.matches, m)
		if m.ID > maxID {
			maxID = m.ID
		}
	}
	r.nextID = maxID + 1
}

func (r *MatchRegistry) checkLoaded(m domain.Match, seen map[int]struct{}) error {
	if _, dup := seen[m.ID]; dup {
		return fmt.Errorf("%w: duplicate match id %d", ErrMalformedRecord, m.ID)
	}
	if m.Player1ID == m.Player2ID {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, ErrSelfMatch)
	}
	if m.ScorePlayer1 < 0 || m.ScorePlayer2 < 0 {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, ErrNegativeScore)
	}
	if _, err := r.players.FindByID(m.Player1ID); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if _, err := r.players.FindByID(m.Player2ID); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return nil
}

// CreateMatch validates, records and persists a new match dated today.
// Checks run in order: self match, negative score, player1, player2.
func (r *MatchRegistry) CreateMatch(ctx context.Context, player1ID, player2ID, score1, score2 int) (domain.Match, error) {
	r.logger.Debug("match_create_attempt", zap.Int("player1_id", player1ID), zap.Int("player2_id", player2ID))

	if player1ID == player2ID {
		r.logger.Warn("match_invalid", zap.Int("player_id", player1ID), zap.Error(ErrSelfMatch))
		return domain.Match{}, ErrSelfMatch
	}
	if score1 < 0 || score2 < 0 {
		r.logger.Warn("match_invalid", zap.Int("score1", score1), zap.Int("score2", score2), zap.Error(ErrNegativeScore))
		return domain.Match{}, fmt.Errorf("%w: %d, %d", ErrNegativeScore, score1, score2)
	}
	p1, err := r.players.FindByID(player1ID)
	if err != nil {
		return domain.Match{}, err
	}
	p2, err := r.players.FindByID(player2ID)
	if err != nil {
		return domain.Match{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := domain.Match{
		ID:           r.nextID,
		Player1ID:    p1.ID,
		Player2ID:    p2.ID,
		ScorePlayer1: score1,
		ScorePlayer2: score2,
		Date:         domain.Today(r.now()),
	}
	r.nextID++
	r.matches = append(r.matches, m)

	r.persist(ctx)
	r.logger.Info("match_create",
		zap.Int("match_id", m.ID),
		zap.String("player1", p1.Nickname),
		zap.String("player2", p2.Nickname),
	)
	return m, nil
}

func (r *MatchRegistry) persist(ctx context.Context) {
	snapshot := append([]domain.Match(nil), r.matches...)
	if err := r.gateway.SaveAll(ctx, snapshot); err != nil {
		r.lastPersistErr = fmt.Errorf("%w: matches: %v", ErrPersistence, err)
		r.logger.Error("snapshot_save_failed", zap.String("kind", "matches"), zap.Error(err))
		return
	}
	r.lastPersistErr = nil
}

// LastPersistError returns the failure of the most recent snapshot write, or nil.
func (r *MatchRegistry) LastPersistError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPersistErr
}

// ListAll returns a copy in insertion order.
func (r *MatchRegistry) ListAll() []domain.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Match{}, r.matches...)
}

func (r *MatchRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches)
}

func (r *MatchRegistry) MatchesForPlayer(playerID int) []domain.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Match{}
	for _, m := range r.matches {
		if m.Involves(playerID) {
			out = append(out, m)
		}
	}
	return out
}

func (r *MatchRegistry) TotalPointsPlayed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, m := range r.matches {
		total += m.TotalPoints()
	}
	return total
}

// WinsForPlayer counts decided matches won by playerID. Ties count for nobody.
func (r *MatchRegistry) WinsForPlayer(playerID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	wins := 0
	for _, m := range r.matches {
		if id, ok := m.Winner(); ok && id == playerID {
			wins++
		}
	}
	return wins
}

// Describe resolves the participants of m for rendering.
func (r *MatchRegistry) Describe(m domain.Match) (MatchView, error) {
	p1, err := r.players.FindByID(m.Player1ID)
	if err != nil {
		return MatchView{}, err
	}
	p2, err := r.players.FindByID(m.Player2ID)
	if err != nil {
		return MatchView{}, err
	}
	view := MatchView{Match: m, Player1: p1, Player2: p2, IsTie: m.IsTie(), DateText: m.DateString()}
	if id, ok := m.Winner(); ok {
		if id == p1.ID {
			view.Winner = &p1
		} else {
			view.Winner = &p2
		}
	}
	return view, nil
}
