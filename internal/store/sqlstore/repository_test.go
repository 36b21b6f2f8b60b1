package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
)

func openTestSQLite(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "tourney.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLite_EmptyLoad(t *testing.T) {
	repo := openTestSQLite(t)
	players, err := repo.Players().LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, players)
	matches, err := repo.Matches().LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestSQLite_SaveAllReplacesInOrder(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, repo.Players().SaveAll(ctx, []domain.Player{{ID: 1, Nickname: "Old", Level: 1, RawScore: 1}}))
	players := []domain.Player{
		{ID: 9, Nickname: "Bram", Level: 2, RawScore: 40},
		{ID: 2, Nickname: "Aria", Level: 5, RawScore: 100},
	}
	require.NoError(t, repo.Players().SaveAll(ctx, players))

	got, err := repo.Players().LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, players, got)
}

func TestSQLite_SkipsBadRows(t *testing.T) {
	repo := openTestSQLite(t)
	ctx := context.Background()
	_, err := repo.db.ExecContext(ctx, `INSERT INTO tourney_players (position, id, nickname, level, score) VALUES (0, 1, NULL, 1, 1), (1, 2, 'Aria', 1, 1)`)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, `INSERT INTO tourney_matches (position, id, player1_id, player2_id, score_player1, score_player2, played_on)
		VALUES (0, 1, 1, 2, 1, 0, '02/03/2024'), (1, 2, 1, 2, 1, 0, '2024-03-02')`)
	require.NoError(t, err)

	players, err := repo.Players().LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, players, 1)
	require.Equal(t, "Aria", players[0].Nickname)

	matches, err := repo.Matches().LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 2, matches[0].ID)

	require.Equal(t, 1, tournament.LoadSkipped(repo.Players()))
	require.Equal(t, 1, tournament.LoadSkipped(repo.Matches()))
}

func TestSQLite_RegistriesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tourney.db")
	clock := tournament.WithClock(func() time.Time { return time.Date(2024, time.March, 2, 9, 0, 0, 0, time.Local) })

	repo, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	players, err := tournament.NewPlayerRegistry(ctx, repo.Players(), nil)
	require.NoError(t, err)
	matches, err := tournament.NewMatchRegistry(ctx, repo.Matches(), players, nil, clock)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, "Aria", 5, 100)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, "Bram", 2, 40)
	require.NoError(t, err)
	_, err = matches.CreateMatch(ctx, 1, 2, 15, 5)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo2, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer repo2.Close()
	players2, err := tournament.NewPlayerRegistry(ctx, repo2.Players(), nil)
	require.NoError(t, err)
	matches2, err := tournament.NewMatchRegistry(ctx, repo2.Matches(), players2, nil)
	require.NoError(t, err)

	require.Equal(t, players.ListAll(), players2.ListAll())
	got := matches2.ListAll()
	require.Len(t, got, 1)
	require.Equal(t, "2024-03-02", got[0].DateString())
	require.Equal(t, 1, matches2.WinsForPlayer(1))
}

func TestOpen_RequiresLocation(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "  ", nil)
	require.Error(t, err)
	_, err = OpenSQLite(context.Background(), "", nil)
	require.Error(t, err)
}

// Runs only when TEST_DATABASE_URL points at a disposable database.
func TestPostgres_RoundTrip(t *testing.T) {
	url := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	repo, err := OpenPostgres(ctx, url, nil)
	require.NoError(t, err)
	defer repo.Close()

	players := []domain.Player{
		{ID: 2, Nickname: "Bram", Level: 2, RawScore: 40},
		{ID: 1, Nickname: "Aria", Level: 5, RawScore: 100},
	}
	require.NoError(t, repo.Players().SaveAll(ctx, players))
	got, err := repo.Players().LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, players, got)

	matches := []domain.Match{
		{ID: 1, Player1ID: 1, Player2ID: 2, ScorePlayer1: 15, ScorePlayer2: 5, Date: time.Date(2024, time.March, 2, 0, 0, 0, 0, time.Local)},
	}
	require.NoError(t, repo.Matches().SaveAll(ctx, matches))
	gotMatches, err := repo.Matches().LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, gotMatches, 1)
	require.Equal(t, "2024-03-02", gotMatches[0].DateString())
}
