package tourneydto

type RankedPlayer struct {
	Rank int
	PlayerSummary
}

type TournamentStats struct {
	Players      int
	TotalScore   int
	AverageScore float64
	Matches      int
	PointsPlayed int
	Limit        int
	Top          []RankedPlayer
}
