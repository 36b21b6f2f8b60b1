package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
)

const defaultPrefix = "tourney"

// Store keeps each snapshot as a Redis list of JSON records, one list per entity kind.
type Store struct {
	rdb    *redis.Client
	prefix string
	logger *zap.Logger

	playersSkipped atomic.Int64
	matchesSkipped atomic.Int64
}

type playerRecord struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	Score    int    `json:"score"`
}

type matchRecord struct {
	ID           int    `json:"id"`
	Player1ID    int    `json:"player1_id"`
	Player2ID    int    `json:"player2_id"`
	ScorePlayer1 int    `json:"score_player1"`
	ScorePlayer2 int    `json:"score_player2"`
	Date         string `json:"date"`
}

// Open connects to redisURL (redis:// or rediss://) and pings it.
func Open(ctx context.Context, redisURL, prefix string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis store")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewStore(rdb, prefix, logger), nil
}

func NewStore(rdb *redis.Client, prefix string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, logger: logger}
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *Store) keyPlayers() string { return s.prefix + ":players" }
func (s *Store) keyMatches() string { return s.prefix + ":matches" }

// Players returns the players gateway backed by this store.
func (s *Store) Players() tournament.PlayerGateway { return playerGateway{s} }

// Matches returns the matches gateway backed by this store.
func (s *Store) Matches() tournament.MatchGateway { return matchGateway{s} }

// replace swaps the list at key for items inside one MULTI/EXEC.
func (s *Store) replace(ctx context.Context, key string, items []any) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key)
	if len(items) > 0 {
		pipe.RPush(ctx, key, items...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadRaw(ctx context.Context, key string) ([]string, error) {
	raw, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return raw, nil
}

func (s *Store) skip(key string, idx int, raw string, err error) {
	s.logger.Warn("redis_record_skip",
		zap.String("key", key),
		zap.Int("index", idx),
		zap.String("raw", raw),
		zap.Error(err),
	)
}

type playerGateway struct{ s *Store }

func (g playerGateway) LoadAll(ctx context.Context) ([]domain.Player, error) {
	key := g.s.keyPlayers()
	raw, err := g.s.loadRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Player, 0, len(raw))
	skipped := 0
	defer func() { g.s.playersSkipped.Store(int64(skipped)) }()
	for i, item := range raw {
		var rec playerRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			skipped++
			g.s.skip(key, i, item, fmt.Errorf("%w: %v", tournament.ErrMalformedRecord, err))
			continue
		}
		out = append(out, domain.Player{ID: rec.ID, Nickname: rec.Nickname, Level: rec.Level, RawScore: rec.Score})
	}
	return out, nil
}

func (g playerGateway) LastLoadSkipped() int { return int(g.s.playersSkipped.Load()) }

func (g playerGateway) SaveAll(ctx context.Context, players []domain.Player) error {
	items := make([]any, 0, len(players))
	for _, p := range players {
		b, err := json.Marshal(playerRecord{ID: p.ID, Nickname: p.Nickname, Level: p.Level, Score: p.RawScore})
		if err != nil {
			return fmt.Errorf("marshal player %d: %w", p.ID, err)
		}
		items = append(items, b)
	}
	return g.s.replace(ctx, g.s.keyPlayers(), items)
}

type matchGateway struct{ s *Store }

func (g matchGateway) LoadAll(ctx context.Context) ([]domain.Match, error) {
	key := g.s.keyMatches()
	raw, err := g.s.loadRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Match, 0, len(raw))
	skipped := 0
	defer func() { g.s.matchesSkipped.Store(int64(skipped)) }()
	for i, item := range raw {
		var rec matchRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			skipped++
			g.s.skip(key, i, item, fmt.Errorf("%w: %v", tournament.ErrMalformedRecord, err))
			continue
		}
		date, err := time.ParseInLocation(domain.DateLayout, rec.Date, time.Local)
		if err != nil {
			skipped++
			g.s.skip(key, i, item, fmt.Errorf("%w: date: %v", tournament.ErrMalformedRecord, err))
			continue
		}
		out = append(out, domain.Match{
			ID:           rec.ID,
			Player1ID:    rec.Player1ID,
			Player2ID:    rec.Player2ID,
			ScorePlayer1: rec.ScorePlayer1,
			ScorePlayer2: rec.ScorePlayer2,
			Date:         date,
		})
	}
	return out, nil
}

func (g matchGateway) LastLoadSkipped() int { return int(g.s.matchesSkipped.Load()) }

func (g matchGateway) SaveAll(ctx context.Context, matches []domain.Match) error {
	items := make([]any, 0, len(matches))
	for _, m := range matches {
		b, err := json.Marshal(matchRecord{
			ID:           m.ID,
			Player1ID:    m.Player1ID,
			Player2ID:    m.Player2ID,
			ScorePlayer1: m.ScorePlayer1,
			ScorePlayer2: m.ScorePlayer2,
			Date:         m.DateString(),
		})
		if err != nil {
			return fmt.Errorf("marshal match %d: %w", m.ID, err)
		}
		items = append(items, b)
	}
	return g.s.replace(ctx, g.s.keyMatches(), items)
}

var (
	_ tournament.LoadReporter = playerGateway{}
	_ tournament.LoadReporter = matchGateway{}
)
