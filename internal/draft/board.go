package draft

const (
	OrderLinear = "linear"
	OrderSnake  = "snake"
)

// BuildBoard generates the full pick order for a session: totalRounds passes
// over teamIDs, with even rounds reversed when the order is snake.
func BuildBoard(teamIDs []string, totalRounds int, orderType string) []Pick {
	board := make([]Pick, 0, len(teamIDs)*totalRounds)
	pickNumber := 1
	for round := 1; round <= totalRounds; round++ {
		order := teamIDs
		if orderType == OrderSnake && round%2 == 0 {
			order = reversed(teamIDs)
		}
		for roundPick, teamID := range order {
			board = append(board, Pick{
				PickNumber: pickNumber,
				Round:      round,
				RoundPick:  roundPick + 1,
				TeamID:     teamID,
			})
			pickNumber++
		}
	}
	return board
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
