package draft

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is the canonical view of one draft session. It is owned by a single
// session loop; nothing outside that loop mutates it. Board, Teams and
// Available are the coupled partition: every known player lives in exactly one
// of {Available, one team's roster}.
type State struct {
	Board            []Pick
	Teams            map[string]*Team
	Available        map[string]Player
	Status           Status
	LoadError        string
	CurrentPickIndex int
	TotalPicks       int
	Selected         *SelectedPlayerDetail
	Recommendations  []Recommendation
}

func NewEmptyState() State {
	return State{
		Teams:     map[string]*Team{},
		Available: map[string]Player{},
		Status:    StatusIdle,
	}
}

// Clone deep-copies the partition containers so a projection handed to an
// observer never aliases the maps the owning loop keeps mutating.
func (s State) Clone() State {
	out := s
	out.Board = append([]Pick(nil), s.Board...)
	out.Teams = make(map[string]*Team, len(s.Teams))
	for id, team := range s.Teams {
		t := *team
		t.Roster = make(map[string][]Player, len(team.Roster))
		for pos, players := range team.Roster {
			t.Roster[pos] = append([]Player(nil), players...)
		}
		out.Teams[id] = &t
	}
	out.Available = make(map[string]Player, len(s.Available))
	for id, p := range s.Available {
		out.Available[id] = p
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	out.Recommendations = append([]Recommendation(nil), s.Recommendations...)
	return out
}

// FindPlayer looks a player up by identity: available pool first, then every
// team roster. Used to seed a selection with whatever partial record we hold.
func (s State) FindPlayer(id string) (Player, bool) {
	if p, ok := s.Available[id]; ok {
		return p, true
	}
	for _, team := range s.Teams {
		for _, players := range team.Roster {
			for _, p := range players {
				if p.PlayerID == id {
					return p, true
				}
			}
		}
	}
	return Player{}, false
}

// NextPick returns the slot the draft is currently on: the lowest-numbered
// unfilled pick. Late-arriving events can leave holes below CurrentPickIndex,
// so this scans rather than indexing.
func (s State) NextPick() (Pick, bool) {
	if s.Status != StatusSucceeded {
		return Pick{}, false
	}
	for _, pick := range s.Board {
		if pick.Player == nil {
			return pick, true
		}
	}
	return Pick{}, false
}
