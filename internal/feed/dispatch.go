package feed

import (
	"encoding/json"
	"fmt"

	"github.com/Incarcer/FFA/internal/draft"
	"github.com/Incarcer/FFA/internal/session"
)

// Push message types emitted by the draft server.
const (
	msgDraftUpdate          = "draft_update"
	msgRecommendationUpdate = "recommendation_update"
	msgError                = "error"
)

type envelope struct {
	Type            string                 `json:"type"`
	PickNumber      int                    `json:"pick_number"`
	Player          *draft.Player          `json:"player"`
	Recommendations []draft.Recommendation `json:"recommendations"`
	Message         string                 `json:"message"`
}

func parseEnvelope(data []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", errBadMessage, err)
	}
	if env.Type == "" {
		return envelope{}, fmt.Errorf("%w: missing type", errBadMessage)
	}
	return env, nil
}

// sessionMsg validates the envelope against its type's schema and converts it.
// Payloads that fail validation never reach the state container.
func (e envelope) sessionMsg() (session.Msg, error) {
	switch e.Type {
	case msgDraftUpdate:
		if e.PickNumber < 1 {
			return nil, fmt.Errorf("%w: draft_update with pick_number %d", errBadMessage, e.PickNumber)
		}
		if e.Player == nil || e.Player.PlayerID == "" || e.Player.Position == "" {
			return nil, fmt.Errorf("%w: draft_update with incomplete player", errBadMessage)
		}
		return session.PickMade{Event: draft.PickEvent{PickNumber: e.PickNumber, Player: *e.Player}}, nil

	case msgRecommendationUpdate:
		return session.RecommendationsUpdated{Recommendations: e.Recommendations}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", errBadMessage, e.Type)
	}
}
