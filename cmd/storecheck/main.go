package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/cheese-tourney/internal/config"
	"github.com/park285/cheese-tourney/internal/msgcat"
	"github.com/park285/cheese-tourney/internal/obslog"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"github.com/park285/cheese-tourney/internal/storebuilder"
)

// report holds loaded versus stored record counts for one backend.
// Stored counts include records the gateway could not decode; those are
// also broken out as Unreadable.
type report struct {
	Backend           string
	Players           int
	StoredPlayers     int
	UnreadablePlayers int
	Matches           int
	StoredMatches     int
	UnreadableMatches int
}

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer obslog.Sync()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r, err := check(ctx, cfg)
	if err != nil {
		log.Printf("%s check failed: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	fmt.Println(cat.Text("storecheck.report", r))
	if r.Players != r.StoredPlayers || r.Matches != r.StoredMatches {
		log.Printf("some stored records were skipped; see the log for csv_record_skip, redis_record_skip, sql_record_skip, player_load_skip and match_load_skip")
	}
}

// check opens the configured backend and loads both snapshots the way the CLI does.
func check(ctx context.Context, cfg *config.AppConfig) (report, error) {
	logger := obslog.L()
	deps, err := storebuilder.New(ctx, cfg, logger)
	if err != nil {
		return report{}, err
	}
	defer deps.Close()

	rawPlayers, err := deps.Players.LoadAll(ctx)
	if err != nil {
		return report{}, fmt.Errorf("load players: %w", err)
	}
	rawMatches, err := deps.Matches.LoadAll(ctx)
	if err != nil {
		return report{}, fmt.Errorf("load matches: %w", err)
	}
	badPlayers := tournament.LoadSkipped(deps.Players)
	badMatches := tournament.LoadSkipped(deps.Matches)

	players, matches, err := storebuilder.Registries(ctx, deps, logger)
	if err != nil {
		return report{}, err
	}
	return report{
		Backend:           deps.Backend,
		Players:           players.Count(),
		StoredPlayers:     len(rawPlayers) + badPlayers,
		UnreadablePlayers: badPlayers,
		Matches:           matches.Count(),
		StoredMatches:     len(rawMatches) + badMatches,
		UnreadableMatches: badMatches,
	}, nil
}
