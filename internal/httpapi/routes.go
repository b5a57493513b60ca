package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Incarcer/FFA/internal/session"
)

const defaultTopN = 5

// SetupRoutes builds the local surface the UI collaborator reads from.
func SetupRoutes(s *session.Session, rosterStructure map[string]int) http.Handler {
	r := chi.NewRouter()

	r.Get("/state", GetState(s))
	r.Get("/recommendations", GetRecommendations(s, rosterStructure, defaultTopN))
	r.Post("/players/{playerID}/select", SelectPlayer(s))
	r.Delete("/players/select", ClearSelection(s))
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
