package tourneydto

type PlayerSummary struct {
	ID              int
	Nickname        string
	Level           int
	RawScore        int
	CalculatedScore int
}

// PlayerProfile is a player with their match record.
type PlayerProfile struct {
	Player  PlayerSummary
	Matches int
	Wins    int
	History []MatchSummary
}
