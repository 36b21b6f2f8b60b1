package csvstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"go.uber.org/zap"
)

// MatchStore is the matches.csv gateway: id,player1Id,player2Id,scorePlayer1,scorePlayer2,date.
// Player references are stored as ids; resolving them is the match registry's job.
type MatchStore struct {
	file        snapshotFile
	lastSkipped atomic.Int64
}

func NewMatchStore(dataDir string, logger *zap.Logger) (*MatchStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := EnsureDir(dataDir); err != nil {
		return nil, err
	}
	return &MatchStore{file: snapshotFile{
		path:   filepath.Join(dataDir, MatchesFile),
		header: matchesHeader,
		fields: 6,
		logger: logger,
	}}, nil
}

func (s *MatchStore) Path() string { return s.file.path }

func (s *MatchStore) LoadAll(ctx context.Context) ([]domain.Match, error) {
	matches := []domain.Match{}
	_, skipped, err := s.file.load(func(fields []string) error {
		m, err := ParseMatch(fields)
		if err != nil {
			return err
		}
		matches = append(matches, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.lastSkipped.Store(int64(skipped))
	s.file.logger.Info("csv_matches_loaded", zap.Int("matches", len(matches)), zap.Int("skipped", skipped))
	return matches, nil
}

// LastLoadSkipped reports how many records the latest LoadAll could not decode.
func (s *MatchStore) LastLoadSkipped() int { return int(s.lastSkipped.Load()) }

func (s *MatchStore) SaveAll(ctx context.Context, matches []domain.Match) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, FormatMatch(m))
	}
	return s.file.save(rows)
}

// ParseMatch decodes id,player1Id,player2Id,scorePlayer1,scorePlayer2,date.
func ParseMatch(fields []string) (domain.Match, error) {
	if len(fields) != 6 {
		return domain.Match{}, fmt.Errorf("%w: want 6 columns, got %d", tournament.ErrMalformedRecord, len(fields))
	}
	names := [5]string{"id", "player1Id", "player2Id", "scorePlayer1", "scorePlayer2"}
	var nums [5]int
	for i := range nums {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return domain.Match{}, fmt.Errorf("%w: %s: %v", tournament.ErrMalformedRecord, names[i], err)
		}
		nums[i] = n
	}
	date, err := time.ParseInLocation(domain.DateLayout, fields[5], time.Local)
	if err != nil {
		return domain.Match{}, fmt.Errorf("%w: date: %v", tournament.ErrMalformedRecord, err)
	}
	return domain.Match{
		ID:           nums[0],
		Player1ID:    nums[1],
		Player2ID:    nums[2],
		ScorePlayer1: nums[3],
		ScorePlayer2: nums[4],
		Date:         date,
	}, nil
}

func FormatMatch(m domain.Match) []string {
	return []string{
		strconv.Itoa(m.ID),
		strconv.Itoa(m.Player1ID),
		strconv.Itoa(m.Player2ID),
		strconv.Itoa(m.ScorePlayer1),
		strconv.Itoa(m.ScorePlayer2),
		m.DateString(),
	}
}

var (
	_ tournament.MatchGateway = (*MatchStore)(nil)
	_ tournament.LoadReporter = (*MatchStore)(nil)
)
