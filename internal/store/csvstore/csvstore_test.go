package csvstore

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

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestLoadAll_MissingFileIsEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err, "data dir is created on first use")
	require.True(t, info.IsDir())

	players, err := ps.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, players)

	ms, err := NewMatchStore(dir, nil)
	require.NoError(t, err)
	matches, err := ms.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestSaveAll_WritesHeaderAndRecords(t *testing.T) {
	dir := t.TempDir()
	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	ms, err := NewMatchStore(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ps.SaveAll(ctx, []domain.Player{
		{ID: 3, Nickname: "Aria", Level: 5, RawScore: 100},
		{ID: 4, Nickname: "Bram", Level: 2, RawScore: 40},
	}))
	require.NoError(t, ms.SaveAll(ctx, []domain.Match{
		{ID: 7, Player1ID: 3, Player2ID: 4, ScorePlayer1: 15, ScorePlayer2: 5, Date: day(2024, time.March, 2)},
	}))

	raw, err := os.ReadFile(filepath.Join(dir, PlayersFile))
	require.NoError(t, err)
	require.Equal(t, "id,nickname,level,score\n3,Aria,5,100\n4,Bram,2,40\n", string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, MatchesFile))
	require.NoError(t, err)
	require.Equal(t, "id,player1Id,player2Id,scorePlayer1,scorePlayer2,date\n7,3,4,15,5,2024-03-02\n", string(raw))
}

func TestLoadAll_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	content := "id,nickname,level,score\n" +
		"1,Aria,5,100\n" +
		"two,Bram,1,1\n" +
		"\n" +
		"3,Cleo,1\n" +
		" 4 , Dana , 2 , 8 \n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PlayersFile), []byte(content), 0o644))

	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	players, err := ps.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Player{
		{ID: 1, Nickname: "Aria", Level: 5, RawScore: 100},
		{ID: 4, Nickname: "Dana", Level: 2, RawScore: 8},
	}, players)
	require.Equal(t, 2, ps.LastLoadSkipped())
}

func TestLoadAll_SkipsMalformedMatches(t *testing.T) {
	dir := t.TempDir()
	content := "id,player1Id,player2Id,scorePlayer1,scorePlayer2,date\n" +
		"1,3,4,15,5,2024-03-02\n" +
		"2,3,4,15,5,02/03/2024\n" +
		"3,3,x,1,1,2024-03-02\n" +
		"4,4,3,0,0,2024-03-03\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, MatchesFile), []byte(content), 0o644))

	ms, err := NewMatchStore(dir, nil)
	require.NoError(t, err)
	matches, err := ms.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, 1, matches[0].ID)
	require.Equal(t, 4, matches[1].ID)
	require.Equal(t, "2024-03-03", matches[1].DateString())
}

func TestParsePlayer_MalformedRecord(t *testing.T) {
	_, err := ParsePlayer([]string{"1", "Aria", "x", "3"})
	require.ErrorIs(t, err, tournament.ErrMalformedRecord)
	_, err = ParsePlayer([]string{"1", "Aria"})
	require.ErrorIs(t, err, tournament.ErrMalformedRecord)
}

func TestNicknameWithCommaSurvivesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	in := []domain.Player{
		{ID: 1, Nickname: "Smith, J", Level: 1, RawScore: 2},
		{ID: 2, Nickname: "Aria\nBram", Level: 3, RawScore: 4},
		{ID: 3, Nickname: `Cleo "the" Quick`, Level: 5, RawScore: 6},
		{ID: 4, Nickname: "Dana", Level: 7, RawScore: 8},
	}
	require.NoError(t, ps.SaveAll(context.Background(), in))
	out, err := ps.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, in, out)
	require.Zero(t, ps.LastLoadSkipped())
}

func TestMultilineNicknameSurvivesRegistryReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)

	players, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, "Aria\nBram", 1, 1)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, "Cleo", 1, 1)
	require.NoError(t, err)
	require.NoError(t, players.LastPersistError())

	reloaded, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Count())
	p, err := reloaded.FindByID(1)
	require.NoError(t, err)
	require.Equal(t, "Aria\nBram", p.Nickname)
	p, err = reloaded.FindByID(2)
	require.NoError(t, err)
	require.Equal(t, "Cleo", p.Nickname)
}

func TestLongNicknameSurvivesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)

	long := strings.Repeat("x", 70000)
	players, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, long, 2, 20)
	require.NoError(t, err)
	_, err = players.AddPlayer(ctx, "Bram", 1, 10)
	require.NoError(t, err)

	reloaded, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	require.Equal(t, players.ListAll(), reloaded.ListAll())
	require.Zero(t, ps.LastLoadSkipped())
}

func TestLoadAll_BrokenQuoteSkipsRecord(t *testing.T) {
	dir := t.TempDir()
	content := "id,nickname,level,score\n" +
		"1,Aria,5,100\n" +
		"2,Br\"am,1,1\n" +
		"3,Cleo,2,8\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PlayersFile), []byte(content), 0o644))

	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	players, err := ps.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Player{
		{ID: 1, Nickname: "Aria", Level: 5, RawScore: 100},
		{ID: 3, Nickname: "Cleo", Level: 2, RawScore: 8},
	}, players)
	require.Equal(t, 1, ps.LastLoadSkipped())
}

// Registries saved through the CSV gateways and reloaded must reproduce the same records in order.
func TestRegistryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	clock := tournament.WithClock(func() time.Time { return time.Date(2024, time.March, 2, 21, 0, 0, 0, time.Local) })

	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	ms, err := NewMatchStore(dir, nil)
	require.NoError(t, err)

	players, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	matches, err := tournament.NewMatchRegistry(ctx, ms, players, nil, clock)
	require.NoError(t, err)

	for _, nick := range []string{"Aria", "Bram", "Cleo"} {
		_, err := players.AddPlayer(ctx, nick, 3, 30)
		require.NoError(t, err)
	}
	_, err = matches.CreateMatch(ctx, 1, 2, 15, 5)
	require.NoError(t, err)
	_, err = matches.CreateMatch(ctx, 3, 1, 7, 7)
	require.NoError(t, err)

	players2, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	matches2, err := tournament.NewMatchRegistry(ctx, ms, players2, nil, clock)
	require.NoError(t, err)

	require.Equal(t, players.ListAll(), players2.ListAll())

	before, after := matches.ListAll(), matches2.ListAll()
	require.Len(t, after, len(before))
	for i := range before {
		require.Equal(t, FormatMatch(before[i]), FormatMatch(after[i]))
		require.True(t, before[i].Date.Equal(after[i].Date))
	}

	p, err := players2.AddPlayer(ctx, "Dana", 1, 1)
	require.NoError(t, err)
	require.Equal(t, 4, p.ID)
	m, err := matches2.CreateMatch(ctx, 4, 2, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 3, m.ID)
}

func TestOrphanedMatchOnDiskIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PlayersFile),
		[]byte("id,nickname,level,score\n1,Aria,1,1\n2,Bram,1,1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, MatchesFile),
		[]byte("id,player1Id,player2Id,scorePlayer1,scorePlayer2,date\n"+
			"1,1,2,3,1,2024-03-02\n"+
			"5,1,9,3,1,2024-03-02\n"+
			"2,2,1,0,4,2024-03-02\n"), 0o644))

	ps, err := NewPlayerStore(dir, nil)
	require.NoError(t, err)
	ms, err := NewMatchStore(dir, nil)
	require.NoError(t, err)
	players, err := tournament.NewPlayerRegistry(ctx, ps, nil)
	require.NoError(t, err)
	matches, err := tournament.NewMatchRegistry(ctx, ms, players, nil)
	require.NoError(t, err)

	require.Equal(t, 2, matches.Count())
	m, err := matches.CreateMatch(ctx, 1, 2, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 3, m.ID)
}
