package csvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"go.uber.org/zap"
)

// PlayerStore is the players.csv gateway: id,nickname,level,score.
type PlayerStore struct {
	file        snapshotFile
	lastSkipped atomic.Int64
}

func NewPlayerStore(dataDir string, logger *zap.Logger) (*PlayerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := EnsureDir(dataDir); err != nil {
		return nil, err
	}
	return &PlayerStore{file: snapshotFile{
		path:   filepath.Join(dataDir, PlayersFile),
		header: playersHeader,
		fields: 4,
		logger: logger,
	}}, nil
}

func (s *PlayerStore) Path() string { return s.file.path }

func (s *PlayerStore) LoadAll(ctx context.Context) ([]domain.Player, error) {
	players := []domain.Player{}
	_, skipped, err := s.file.load(func(fields []string) error {
		p, err := ParsePlayer(fields)
		if err != nil {
			return err
		}
		players = append(players, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.lastSkipped.Store(int64(skipped))
	s.file.logger.Info("csv_players_loaded", zap.Int("players", len(players)), zap.Int("skipped", skipped))
	return players, nil
}

// LastLoadSkipped reports how many records the latest LoadAll could not decode.
func (s *PlayerStore) LastLoadSkipped() int { return int(s.lastSkipped.Load()) }

func (s *PlayerStore) SaveAll(ctx context.Context, players []domain.Player) error {
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, FormatPlayer(p))
	}
	return s.file.save(rows)
}

// ParsePlayer decodes id,nickname,level,score.
func ParsePlayer(fields []string) (domain.Player, error) {
	if len(fields) != 4 {
		return domain.Player{}, fmt.Errorf("%w: want 4 columns, got %d", tournament.ErrMalformedRecord, len(fields))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return domain.Player{}, fmt.Errorf("%w: id: %v", tournament.ErrMalformedRecord, err)
	}
	level, err := strconv.Atoi(fields[2])
	if err != nil {
		return domain.Player{}, fmt.Errorf("%w: level: %v", tournament.ErrMalformedRecord, err)
	}
	score, err := strconv.Atoi(fields[3])
	if err != nil {
		return domain.Player{}, fmt.Errorf("%w: score: %v", tournament.ErrMalformedRecord, err)
	}
	return domain.Player{ID: id, Nickname: fields[1], Level: level, RawScore: score}, nil
}

func FormatPlayer(p domain.Player) []string {
	return []string{
		strconv.Itoa(p.ID),
		p.Nickname,
		strconv.Itoa(p.Level),
		strconv.Itoa(p.RawScore),
	}
}

var (
	_ tournament.PlayerGateway = (*PlayerStore)(nil)
	_ tournament.LoadReporter  = (*PlayerStore)(nil)
)
