package draft

import "encoding/json"

// Player is the consolidated player record as delivered by the draft server.
// Identity is PlayerID; everything past Position is enrichment data used for
// needs and recommendation scoring.
type Player struct {
	PlayerID        string  `json:"player_id"`
	PlayerName      string  `json:"player_name"`
	Position        string  `json:"position"`
	TeamAbbr        string  `json:"team_abbr,omitempty"`
	ProjectedPoints float64 `json:"projected_points,omitempty"`
	ADP             float64 `json:"adp,omitempty"`
	ByeWeek         int     `json:"bye_week,omitempty"`
	Tier            int     `json:"tier,omitempty"`
	VORP            float64 `json:"vorp,omitempty"`
}

// Pick is one slot on the board. Player is nil until the pick is made and is
// never cleared afterwards.
type Pick struct {
	PickNumber int     `json:"pick_number"`
	Round      int     `json:"round"`
	RoundPick  int     `json:"round_pick"`
	TeamID     string  `json:"team_id"`
	Player     *Player `json:"player"`
}

// Team is one fantasy team; the roster maps position -> players in draft order.
type Team struct {
	TeamID    string              `json:"team_id"`
	TeamName  string              `json:"team_name"`
	OwnerName string              `json:"owner_name"`
	Roster    map[string][]Player `json:"roster"`
}

// AddPlayer appends to the position's roster slot, creating it lazily.
func (t *Team) AddPlayer(p Player) {
	if t.Roster == nil {
		t.Roster = make(map[string][]Player)
	}
	t.Roster[p.Position] = append(t.Roster[p.Position], p)
}

// Recommendation is one advisory entry, either pushed by the server or
// produced by the local scorer.
type Recommendation struct {
	Player Player  `json:"player"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// History is the opaque per-player history payload. We never interpret it;
// it is fetched and attached to the selection as-is.
type History = json.RawMessage

// SelectedPlayerDetail exists only while a player is under inspection.
type SelectedPlayerDetail struct {
	Player  Player  `json:"player"`
	History History `json:"history,omitempty"`
	Loading bool    `json:"loading"`
	Err     string  `json:"error,omitempty"`
}

// Snapshot is the bulk fetch payload.
type Snapshot struct {
	Board            []Pick           `json:"board"`
	Teams            map[string]*Team `json:"teams"`
	AvailablePlayers []Player         `json:"available_players"`
	CurrentPickIndex int              `json:"current_pick_index"`
	TotalPicks       int              `json:"total_picks"`
}

// PickEvent is one "pick made" push event.
type PickEvent struct {
	PickNumber int    `json:"pick_number"`
	Player     Player `json:"player"`
}
