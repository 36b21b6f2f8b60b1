package tourneydto

type MatchSummary struct {
	ID        int
	Player1ID int
	Player2ID int
	Player1   string
	Player2   string
	Score1    int
	Score2    int
	Date      string
	Winner    string // empty on a tie
	Tie       bool
}
