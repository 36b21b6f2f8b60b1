// Package sqlstore keeps registry snapshots in SQL tables through database/sql.
// PostgreSQL and SQLite share the same schema and statements.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
)

// position keeps the registry's insertion order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tourney_players (
		position  INTEGER NOT NULL,
		id        INTEGER NOT NULL,
		nickname  TEXT,
		level     INTEGER,
		score     INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS tourney_matches (
		position       INTEGER NOT NULL,
		id             INTEGER NOT NULL,
		player1_id     INTEGER,
		player2_id     INTEGER,
		score_player1  INTEGER,
		score_player2  INTEGER,
		played_on      TEXT
	)`,
}

// Repository stores each snapshot as the full contents of one table.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger

	playersSkipped atomic.Int64
	matchesSkipped atomic.Int64
}

// NewRepository pings db and ensures the schema exists. The repository owns db.
func NewRepository(ctx context.Context, db *sql.DB, logger *zap.Logger) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Players() tournament.PlayerGateway { return playerTable{r} }
func (r *Repository) Matches() tournament.MatchGateway  { return matchTable{r} }

// replace clears table and inserts rows in one transaction.
func (r *Repository) replace(ctx context.Context, table, insert string, rows [][]any) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

func (r *Repository) skip(table string, id int64, err error) {
	r.logger.Warn("sql_record_skip", zap.String("table", table), zap.Int64("id", id), zap.Error(err))
}

type playerTable struct{ r *Repository }

func (t playerTable) LoadAll(ctx context.Context) ([]domain.Player, error) {
	const query = `
		SELECT id, nickname, level, score
		FROM tourney_players
		ORDER BY position`
	rows, err := t.r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}
	defer rows.Close()

	out := []domain.Player{}
	skipped := 0
	for rows.Next() {
		var (
			id       int64
			nickname sql.NullString
			level    sql.NullInt64
			score    sql.NullInt64
		)
		if err := rows.Scan(&id, &nickname, &level, &score); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		if !nickname.Valid || !level.Valid || !score.Valid {
			skipped++
			t.r.skip("tourney_players", id, tournament.ErrMalformedRecord)
			continue
		}
		out = append(out, domain.Player{ID: int(id), Nickname: nickname.String, Level: int(level.Int64), RawScore: int(score.Int64)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	t.r.playersSkipped.Store(int64(skipped))
	return out, nil
}

func (t playerTable) LastLoadSkipped() int { return int(t.r.playersSkipped.Load()) }

func (t playerTable) SaveAll(ctx context.Context, players []domain.Player) error {
	const insert = `INSERT INTO tourney_players (position, id, nickname, level, score) VALUES ($1, $2, $3, $4, $5)`
	rows := make([][]any, 0, len(players))
	for i, p := range players {
		rows = append(rows, []any{i, p.ID, p.Nickname, p.Level, p.RawScore})
	}
	return t.r.replace(ctx, "tourney_players", insert, rows)
}

type matchTable struct{ r *Repository }

func (t matchTable) LoadAll(ctx context.Context) ([]domain.Match, error) {
	const query = `
		SELECT id, player1_id, player2_id, score_player1, score_player2, played_on
		FROM tourney_matches
		ORDER BY position`
	rows, err := t.r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	defer rows.Close()

	out := []domain.Match{}
	skipped := 0
	for rows.Next() {
		var (
			id       int64
			p1, p2   sql.NullInt64
			s1, s2   sql.NullInt64
			playedOn sql.NullString
		)
		if err := rows.Scan(&id, &p1, &p2, &s1, &s2, &playedOn); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if !p1.Valid || !p2.Valid || !s1.Valid || !s2.Valid || !playedOn.Valid {
			skipped++
			t.r.skip("tourney_matches", id, tournament.ErrMalformedRecord)
			continue
		}
		date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(playedOn.String), time.Local)
		if err != nil {
			skipped++
			t.r.skip("tourney_matches", id, fmt.Errorf("%w: date %q", tournament.ErrMalformedRecord, playedOn.String))
			continue
		}
		out = append(out, domain.Match{
			ID:           int(id),
			Player1ID:    int(p1.Int64),
			Player2ID:    int(p2.Int64),
			ScorePlayer1: int(s1.Int64),
			ScorePlayer2: int(s2.Int64),
			Date:         date,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	t.r.matchesSkipped.Store(int64(skipped))
	return out, nil
}

func (t matchTable) LastLoadSkipped() int { return int(t.r.matchesSkipped.Load()) }

func (t matchTable) SaveAll(ctx context.Context, matches []domain.Match) error {
	const insert = `
		INSERT INTO tourney_matches (position, id, player1_id, player2_id, score_player1, score_player2, played_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	rows := make([][]any, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []any{i, m.ID, m.Player1ID, m.Player2ID, m.ScorePlayer1, m.ScorePlayer2, m.DateString()})
	}
	return t.r.replace(ctx, "tourney_matches", insert, rows)
}

var (
	_ tournament.LoadReporter = playerTable{}
	_ tournament.LoadReporter = matchTable{}
)
