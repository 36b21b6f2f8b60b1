package domain

import "time"

// DateLayout is the calendar-date form used for match dates in snapshots and output.
const DateLayout = "2006-01-02"

// Scorable exposes the ranking metric of a competitor.
type Scorable interface {
	CalculatedScore() int
}

type Player struct {
	ID       int
	Nickname string
	Level    int
	RawScore int
}

// CalculatedScore is rawScore * level.
func (p Player) CalculatedScore() int {
	return p.RawScore * p.Level
}

var _ Scorable = Player{}

// Match refers to its participants by player id only.
type Match struct {
	ID           int
	Player1ID    int
	Player2ID    int
	ScorePlayer1 int
	ScorePlayer2 int
	Date         time.Time
}

// Winner returns the id of the higher-scoring side. ok is false on a tie.
func (m Match) Winner() (id int, ok bool) {
	switch {
	case m.ScorePlayer1 > m.ScorePlayer2:
		return m.Player1ID, true
	case m.ScorePlayer2 > m.ScorePlayer1:
		return m.Player2ID, true
	default:
		return 0, false
	}
}

func (m Match) IsTie() bool {
	return m.ScorePlayer1 == m.ScorePlayer2
}

func (m Match) Involves(playerID int) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

func (m Match) TotalPoints() int {
	return m.ScorePlayer1 + m.ScorePlayer2
}

// DateString renders Date in DateLayout.
func (m Match) DateString() string {
	return m.Date.Format(DateLayout)
}

// Today truncates t to a calendar date in its own location.
func Today(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
