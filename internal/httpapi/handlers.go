package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/Incarcer/FFA/internal/draft"
	"github.com/Incarcer/FFA/internal/session"
)

// stateResponse is the read-only projection handed to the UI collaborator,
// shaped like the server's own snapshot plus version and selection detail.
type stateResponse struct {
	Version          int                         `json:"version"`
	Status           draft.Status                `json:"status"`
	Error            string                      `json:"error,omitempty"`
	Board            []draft.Pick                `json:"board"`
	Teams            map[string]*draft.Team      `json:"teams"`
	AvailablePlayers []draft.Player              `json:"available_players"`
	CurrentPickIndex int                         `json:"current_pick_index"`
	TotalPicks       int                         `json:"total_picks"`
	CurrentPickInfo  *draft.Pick                 `json:"current_pick_info"`
	SelectedPlayer   *draft.SelectedPlayerDetail `json:"selected_player,omitempty"`
	Recommendations  []draft.Recommendation      `json:"recommendations,omitempty"`
}

func GetState(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := currentView(s)
		writeJSON(w, http.StatusOK, toStateResponse(view))
	}
}

func GetRecommendations(s *session.Session, structure map[string]int, topN int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := currentView(s)
		if view.State.Status != draft.StatusSucceeded {
			http.Error(w, "draft session not loaded", http.StatusNotFound)
			return
		}
		next, ok := view.State.NextPick()
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"message": "draft complete", "recommendations": []draft.Recommendation{}})
			return
		}
		recs := draft.Recommend(view.State, next.TeamID, structure, topN)
		writeJSON(w, http.StatusOK, map[string]any{"team_id": next.TeamID, "recommendations": recs})
	}
}

func SelectPlayer(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		if playerID == "" {
			http.Error(w, "missing player id", http.StatusBadRequest)
			return
		}
		s.Inbox() <- session.Select{PlayerID: playerID}
		w.WriteHeader(http.StatusAccepted)
	}
}

func ClearSelection(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Inbox() <- session.ClearSelection{}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func currentView(s *session.Session) session.View {
	reply := make(chan session.View, 1)
	s.Inbox() <- session.GetView{Reply: reply}
	return <-reply
}

func toStateResponse(view session.View) stateResponse {
	state := view.State

	available := make([]draft.Player, 0, len(state.Available))
	for _, p := range state.Available {
		available = append(available, p)
	}
	sort.Slice(available, func(i, j int) bool { return available[i].PlayerID < available[j].PlayerID })

	resp := stateResponse{
		Version:          view.Version,
		Status:           state.Status,
		Error:            state.LoadError,
		Board:            state.Board,
		Teams:            state.Teams,
		AvailablePlayers: available,
		CurrentPickIndex: state.CurrentPickIndex,
		TotalPicks:       state.TotalPicks,
		SelectedPlayer:   state.Selected,
		Recommendations:  state.Recommendations,
	}
	if next, ok := state.NextPick(); ok {
		resp.CurrentPickInfo = &next
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
