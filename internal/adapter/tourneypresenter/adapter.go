package tourneypresenter

import (
	"errors"

	"github.com/park285/cheese-tourney/internal/domain"
	"github.com/park285/cheese-tourney/internal/service/tournament"
	"github.com/park285/cheese-tourney/pkg/tourneydto"
)

func ToDTOPlayer(p domain.Player) tourneydto.PlayerSummary {
	return tourneydto.PlayerSummary{
		ID:              p.ID,
		Nickname:        p.Nickname,
		Level:           p.Level,
		RawScore:        p.RawScore,
		CalculatedScore: p.CalculatedScore(),
	}
}

func ToDTOPlayers(players []domain.Player) []tourneydto.PlayerSummary {
	out := make([]tourneydto.PlayerSummary, 0, len(players))
	for _, p := range players {
		out = append(out, ToDTOPlayer(p))
	}
	return out
}

func ToDTOMatch(v tournament.MatchView) tourneydto.MatchSummary {
	s := tourneydto.MatchSummary{
		ID:        v.Match.ID,
		Player1ID: v.Player1.ID,
		Player2ID: v.Player2.ID,
		Player1:   v.Player1.Nickname,
		Player2:   v.Player2.Nickname,
		Score1:    v.Match.ScorePlayer1,
		Score2:    v.Match.ScorePlayer2,
		Date:      v.DateText,
		Tie:       v.IsTie,
	}
	if v.Winner != nil {
		s.Winner = v.Winner.Nickname
	}
	return s
}

// ToDTOMatches resolves each match through matches. Matches whose players
// cannot be resolved are left out.
func ToDTOMatches(matches *tournament.MatchRegistry, list []domain.Match) []tourneydto.MatchSummary {
	out := make([]tourneydto.MatchSummary, 0, len(list))
	for _, m := range list {
		view, err := matches.Describe(m)
		if err != nil {
			continue
		}
		out = append(out, ToDTOMatch(view))
	}
	return out
}

func ToDTOProfile(p domain.Player, matches *tournament.MatchRegistry) tourneydto.PlayerProfile {
	history := ToDTOMatches(matches, matches.MatchesForPlayer(p.ID))
	return tourneydto.PlayerProfile{
		Player:  ToDTOPlayer(p),
		Matches: len(history),
		Wins:    matches.WinsForPlayer(p.ID),
		History: history,
	}
}

// ToDTOStats aggregates both registries. limit bounds the ranking.
func ToDTOStats(players *tournament.PlayerRegistry, matches *tournament.MatchRegistry, limit int) tourneydto.TournamentStats {
	top := players.Top(limit)
	ranked := make([]tourneydto.RankedPlayer, 0, len(top))
	for i, p := range top {
		ranked = append(ranked, tourneydto.RankedPlayer{Rank: i + 1, PlayerSummary: ToDTOPlayer(p)})
	}
	return tourneydto.TournamentStats{
		Players:      players.Count(),
		TotalScore:   players.TotalRawScore(),
		AverageScore: players.AverageRawScore(),
		Matches:      matches.Count(),
		PointsPlayed: matches.TotalPointsPlayed(),
		Limit:        limit,
		Top:          ranked,
	}
}

// ToDomainError maps a registry failure to a coded error for the presentation layer.
func ToDomainError(err error) *tourneydto.DomainError {
	if err == nil {
		return nil
	}
	code := tourneydto.CodeInternal
	switch {
	case errors.Is(err, tournament.ErrEmptyNickname):
		code = tourneydto.CodeEmptyNickname
	case errors.Is(err, tournament.ErrDuplicateNickname):
		code = tourneydto.CodeDuplicateNickname
	case errors.Is(err, tournament.ErrPlayerNotFound):
		code = tourneydto.CodePlayerNotFound
	case errors.Is(err, tournament.ErrSelfMatch):
		code = tourneydto.CodeSelfMatch
	case errors.Is(err, tournament.ErrNegativeScore):
		code = tourneydto.CodeNegativeScore
	}
	return &tourneydto.DomainError{Code: code, Message: err.Error(), Retryable: tournament.IsValidation(err)}
}
