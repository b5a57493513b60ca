package draft

import (
	"errors"
	"fmt"
)

var ErrNotLoaded = errors.New("draft not loaded")
var ErrAlreadyLoaded = errors.New("draft already loaded")
var ErrUnknownPickNumber = errors.New("unknown pick number")
var ErrBadSnapshot = errors.New("malformed snapshot")

type EventType string

const (
	EvtPickApplied   EventType = "PickApplied"
	EvtPickDuplicate EventType = "PickDuplicate"
	EvtIndexAdvanced EventType = "IndexAdvanced"
	EvtUnknownTeam   EventType = "UnknownTeam"
)

// Event describes one observable effect of a reconciliation step. The session
// uses these for logging, metrics and broadcast decisions; they carry no state.
type Event struct {
	Type       EventType
	PickNumber int
	PlayerID   string
	TeamID     string
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// ApplyPick reconciles one pick event against the state. Board, pool and
// roster are updated together or not at all; observers between calls never see
// a half-applied pick.
//
// Duplicate deliveries (slot already filled, or player already gone from the
// pool) are a no-op: the push channel has no delivery-once guarantee.
// An unknown team skips only the roster append; board and pool still update,
// and the omission is surfaced as EvtUnknownTeam rather than an error so later
// events keep flowing.
func ApplyPick(s State, ev PickEvent) ([]Event, State, error) {
	if s.Status != StatusSucceeded {
		return nil, s, ErrNotLoaded
	}
	if ev.PickNumber < 1 || ev.PickNumber > len(s.Board) {
		return nil, s, fmt.Errorf("pick %d of %d: %w", ev.PickNumber, len(s.Board), ErrUnknownPickNumber)
	}

	slot := &s.Board[ev.PickNumber-1]
	if slot.Player != nil {
		return []Event{{Type: EvtPickDuplicate, PickNumber: ev.PickNumber, PlayerID: ev.Player.PlayerID}}, s, nil
	}
	if _, ok := s.Available[ev.Player.PlayerID]; !ok {
		// Already drafted through another channel; same no-op as a filled slot.
		return []Event{{Type: EvtPickDuplicate, PickNumber: ev.PickNumber, PlayerID: ev.Player.PlayerID}}, s, nil
	}

	newState := s
	player := ev.Player
	slot.Player = &player
	delete(newState.Available, player.PlayerID)

	events := []Event{{Type: EvtPickApplied, PickNumber: ev.PickNumber, PlayerID: player.PlayerID, TeamID: slot.TeamID}}

	if team, ok := newState.Teams[slot.TeamID]; ok {
		team.AddPlayer(player)
	} else {
		events = append(events, Event{Type: EvtUnknownTeam, PickNumber: ev.PickNumber, PlayerID: player.PlayerID, TeamID: slot.TeamID})
	}

	// Monotonic advance: a late lower-numbered event fills its slot above but
	// must not drag the index backwards.
	if ev.PickNumber > newState.CurrentPickIndex {
		newState.CurrentPickIndex = ev.PickNumber
		events = append(events, Event{Type: EvtIndexAdvanced, PickNumber: ev.PickNumber})
	}

	return events, newState, nil
}

// ApplySnapshot validates and installs a bulk snapshot wholesale. Valid until
// the session has loaded once; a second install on a succeeded state is
// rejected (catch-up after reconnect replays picks instead, see session).
// On any validation failure nothing is written.
func ApplySnapshot(s State, snap Snapshot) (State, error) {
	if s.Status == StatusSucceeded {
		return s, ErrAlreadyLoaded
	}
	if err := ValidateSnapshot(snap); err != nil {
		return s, err
	}

	newState := s
	newState.Board = make([]Pick, len(snap.Board))
	copy(newState.Board, snap.Board)

	newState.Teams = make(map[string]*Team, len(snap.Teams))
	for id, team := range snap.Teams {
		t := *team
		t.Roster = make(map[string][]Player, len(team.Roster))
		for pos, players := range team.Roster {
			t.Roster[pos] = append([]Player(nil), players...)
		}
		newState.Teams[id] = &t
	}

	newState.Available = make(map[string]Player, len(snap.AvailablePlayers))
	for _, p := range snap.AvailablePlayers {
		newState.Available[p.PlayerID] = p
	}

	// Recomputed from the board rather than trusted from the wire.
	newState.CurrentPickIndex = highestApplied(newState.Board)
	newState.TotalPicks = snap.TotalPicks
	newState.Status = StatusSucceeded
	newState.LoadError = ""
	return newState, nil
}

// ValidateSnapshot checks structural completeness before any data is admitted:
// a dense 1..total_picks board, every slot's team resolving, and no player
// sitting in the pool and on the board at once.
func ValidateSnapshot(snap Snapshot) error {
	if snap.TotalPicks != len(snap.Board) {
		return fmt.Errorf("total_picks=%d but board has %d slots: %w", snap.TotalPicks, len(snap.Board), ErrBadSnapshot)
	}
	drafted := make(map[string]int, len(snap.Board))
	for i, pick := range snap.Board {
		if pick.PickNumber != i+1 {
			return fmt.Errorf("board slot %d has pick_number %d: %w", i, pick.PickNumber, ErrBadSnapshot)
		}
		if _, ok := snap.Teams[pick.TeamID]; !ok {
			return fmt.Errorf("pick %d references unknown team %q: %w", pick.PickNumber, pick.TeamID, ErrBadSnapshot)
		}
		if pick.Player != nil {
			if pick.Player.PlayerID == "" {
				return fmt.Errorf("pick %d has a player without an id: %w", pick.PickNumber, ErrBadSnapshot)
			}
			if prev, dup := drafted[pick.Player.PlayerID]; dup {
				return fmt.Errorf("player %q drafted at picks %d and %d: %w", pick.Player.PlayerID, prev, pick.PickNumber, ErrBadSnapshot)
			}
			drafted[pick.Player.PlayerID] = pick.PickNumber
		}
	}
	seen := make(map[string]bool, len(snap.AvailablePlayers))
	for _, p := range snap.AvailablePlayers {
		if p.PlayerID == "" {
			return fmt.Errorf("available player without an id: %w", ErrBadSnapshot)
		}
		if seen[p.PlayerID] {
			return fmt.Errorf("player %q listed twice in the pool: %w", p.PlayerID, ErrBadSnapshot)
		}
		seen[p.PlayerID] = true
		if at, dup := drafted[p.PlayerID]; dup {
			return fmt.Errorf("player %q both available and drafted at pick %d: %w", p.PlayerID, at, ErrBadSnapshot)
		}
	}
	return nil
}

func highestApplied(board []Pick) int {
	highest := 0
	for _, pick := range board {
		if pick.Player != nil && pick.PickNumber > highest {
			highest = pick.PickNumber
		}
	}
	return highest
}

// CatchUpEvents turns a snapshot's filled slots into pick events so a re-sync
// after reconnect can flow through the reconciler like live picks do.
func CatchUpEvents(snap Snapshot) []PickEvent {
	var events []PickEvent
	for _, pick := range snap.Board {
		if pick.Player != nil {
			events = append(events, PickEvent{PickNumber: pick.PickNumber, Player: *pick.Player})
		}
	}
	return events
}
