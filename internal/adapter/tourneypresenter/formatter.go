package tourneypresenter

import (
	"strings"

	"github.com/park285/cheese-tourney/internal/msgcat"
	"github.com/park285/cheese-tourney/pkg/tourneydto"
)

var medalKeys = []string{"stats.medals.first", "stats.medals.second", "stats.medals.third"}

// Formatter renders tournament DTOs into terminal text through the message catalog.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

// Text renders a fixed catalog entry.
func (f *Formatter) Text(key string) string {
	return f.cat.Text(key, nil)
}

func (f *Formatter) PlayerAdded(p tourneydto.PlayerSummary) string {
	return f.cat.Text("player.added", p)
}

func (f *Formatter) PlayerList(players []tourneydto.PlayerSummary) string {
	var sb strings.Builder
	sb.WriteString(f.cat.Text("player.list_header", nil))
	sb.WriteByte('\n')
	if len(players) == 0 {
		sb.WriteString(f.cat.Text("player.none", nil))
		return sb.String()
	}
	sb.WriteString(f.cat.Text("player.list_columns", nil))
	sb.WriteByte('\n')
	sb.WriteString(f.cat.Text("player.list_rule", nil))
	for _, p := range players {
		sb.WriteByte('\n')
		sb.WriteString(f.cat.Text("player.list_row", p))
	}
	return sb.String()
}

func (f *Formatter) PlayerProfile(profile tourneydto.PlayerProfile) string {
	var sb strings.Builder
	sb.WriteString(f.cat.Text("player.show", profile))
	for _, m := range profile.History {
		sb.WriteByte('\n')
		sb.WriteString(f.cat.Text("match.row", m))
	}
	return sb.String()
}

// AvailablePlayers lists match candidates in insertion order.
func (f *Formatter) AvailablePlayers(players []tourneydto.PlayerSummary) string {
	var sb strings.Builder
	sb.WriteString(f.cat.Text("match.available_header", nil))
	for _, p := range players {
		sb.WriteByte('\n')
		sb.WriteString(f.cat.Text("match.available_row", p))
	}
	return sb.String()
}

func (f *Formatter) MatchCreated(m tourneydto.MatchSummary) string {
	return f.cat.Text("match.created", m)
}

func (f *Formatter) MatchList(matches []tourneydto.MatchSummary) string {
	var sb strings.Builder
	sb.WriteString(f.cat.Text("match.list_header", nil))
	sb.WriteByte('\n')
	if len(matches) == 0 {
		sb.WriteString(f.cat.Text("match.none", nil))
		return sb.String()
	}
	for i, m := range matches {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(f.cat.Text("match.row", m))
	}
	return sb.String()
}

func (f *Formatter) Stats(s tourneydto.TournamentStats) string {
	var sb strings.Builder
	sb.WriteString(f.cat.Text("stats.header", nil))
	sb.WriteByte('\n')
	sb.WriteString(f.cat.Text("stats.body", s))
	sb.WriteByte('\n')
	sb.WriteString(f.cat.Text("stats.top_header", s))
	if len(s.Top) == 0 {
		sb.WriteByte('\n')
		sb.WriteString(f.cat.Text("stats.top_none", nil))
		return sb.String()
	}
	for _, p := range s.Top {
		sb.WriteByte('\n')
		sb.WriteString(f.cat.Text("stats.top_row", map[string]any{
			"Medal":           f.medal(p.Rank),
			"Nickname":        p.Nickname,
			"CalculatedScore": p.CalculatedScore,
			"RawScore":        p.RawScore,
			"Level":           p.Level,
		}))
	}
	return sb.String()
}

func (f *Formatter) medal(rank int) string {
	if rank >= 1 && rank <= len(medalKeys) {
		return f.cat.Text(medalKeys[rank-1], nil)
	}
	return f.cat.Text("stats.medals.other", map[string]any{"Rank": rank})
}

// Error maps a registry failure to its catalog message.
// PlayerNotFound reports an unknown player id.
func (f *Formatter) PlayerNotFound(id int) string {
	return f.cat.Text("player.not_found", map[string]any{"ID": id})
}

func (f *Formatter) Error(err error) string {
	de := ToDomainError(err)
	if de == nil {
		return ""
	}
	data := map[string]any{"Error": de.Message}
	switch de.Code {
	case tourneydto.CodeEmptyNickname:
		return f.cat.Text("player.empty_nickname", nil)
	case tourneydto.CodeDuplicateNickname:
		return f.cat.Text("player.duplicate", data)
	case tourneydto.CodePlayerNotFound:
		return f.cat.Text("match.player_not_found", data)
	case tourneydto.CodeSelfMatch, tourneydto.CodeNegativeScore:
		return f.cat.Text("match.invalid", data)
	default:
		return f.cat.Text("app.generic_error", data)
	}
}

// PersistWarning is shown when a mutation succeeded but its snapshot write did not.
func (f *Formatter) PersistWarning(err error) string {
	if err == nil {
		return ""
	}
	return f.cat.Text("app.persist_warning", map[string]any{"Error": err.Error()})
}
