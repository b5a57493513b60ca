package draft

// flexEligible lists the positions that can fill a FLEX slot.
var flexEligible = map[string]bool{"RB": true, "WR": true, "TE": true}

// TeamNeeds calculates a team's remaining positional needs against the league
// roster structure. Direct positions count open starter slots; FLEX counts
// RB/WR/TE overflow beyond the required starters; BENCH is a plain total.
func TeamNeeds(team *Team, structure map[string]int) map[string]int {
	needs := make(map[string]int, len(structure))

	for pos, wanted := range structure {
		if pos == "FLEX" || pos == "BENCH" {
			continue
		}
		have := len(team.Roster[pos])
		needs[pos] = max(0, wanted-have)
	}

	flexCandidates := len(team.Roster["RB"]) + len(team.Roster["WR"]) + len(team.Roster["TE"])
	requiredStarters := structure["RB"] + structure["WR"] + structure["TE"]
	flexFilled := max(0, flexCandidates-requiredStarters)
	needs["FLEX"] = max(0, structure["FLEX"]-flexFilled)

	rostered := 0
	for _, players := range team.Roster {
		rostered += len(players)
	}
	needs["BENCH"] = max(0, structure["BENCH"]-rostered)

	return needs
}
