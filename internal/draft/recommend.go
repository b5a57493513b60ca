package draft

import (
	"fmt"
	"sort"
)

// Scoring weights: VORP dominates, projections second, ADP value as a
// tiebreaker, all multiplied by how badly the team needs the position.
const (
	weightVORP      = 0.6
	weightProjected = 0.3
	weightADPValue  = 0.1

	needStarter = 2.0
	needFlex    = 1.5
	needNone    = 1.0
)

// Recommend scores the available pool for the given team and returns the top
// n entries. Returns nil when the team is unknown or the pool is empty.
func Recommend(s State, teamID string, structure map[string]int, n int) []Recommendation {
	team, ok := s.Teams[teamID]
	if !ok || len(s.Available) == 0 {
		return nil
	}
	needs := TeamNeeds(team, structure)
	currentPickNumber := float64(s.CurrentPickIndex + 1)

	recs := make([]Recommendation, 0, len(s.Available))
	for _, p := range s.Available {
		adpValue := p.ADP - currentPickNumber
		score := (p.VORP*weightVORP + p.ProjectedPoints*weightProjected + adpValue*weightADPValue) * needFactor(needs, p.Position)
		recs = append(recs, Recommendation{
			Player: p,
			Score:  score,
			Reason: fmt.Sprintf("VORP %.1f, ADP value %+.0f, position need %s", p.VORP, adpValue, p.Position),
		})
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Player.PlayerID < recs[j].Player.PlayerID
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

func needFactor(needs map[string]int, position string) float64 {
	if needs[position] > 0 && position != "FLEX" && position != "BENCH" {
		return needStarter
	}
	if needs["FLEX"] > 0 && flexEligible[position] {
		return needFlex
	}
	return needNone
}
