package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// TargetRequest is the body of PUT /targets/{slug}
type TargetRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	Columns  int    `json:"columns"`
	Position int    `json:"position"`
	Enabled  *bool  `json:"enabled"`
}

// RegisterTargetsEndpoints registers the target endpoints
func RegisterTargetsEndpoints(s *server.Server) {
	// GET /targets - List targets (no auth required)
	s.Router.HandleFunc("/targets", handleListTargets(s.TargetsStore)).Methods("GET")

	// GET /targets/{slug} - Target details
	s.Router.HandleFunc("/targets/{slug}", handleGetTarget(s.TargetsStore)).Methods("GET")

	// PUT /targets/{slug} - Create or update a target (guarded)
	s.Router.Handle("/targets/{slug}", s.Guard(handleUpsertTarget(s.TargetsStore))).Methods("PUT")
}

func handleListTargets(targetsStore store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targets, err := targetsStore.ListTargets()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, targets)
	}
}

func handleGetTarget(targetsStore store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		target, err := targetsStore.GetTarget(slug)
		if err != nil {
			if errors.Is(err, store.ErrTargetNotFound) {
				respondWithError(w, http.StatusNotFound, "target not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, target)
	}
}

func handleUpsertTarget(targetsStore store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		var body TargetRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.URL == "" {
			respondWithError(w, http.StatusUnprocessableEntity, "url is required")
			return
		}
		if body.Columns < 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "columns must not be negative")
			return
		}

		enabled := true
		if body.Enabled != nil {
			enabled = *body.Enabled
		}

		target := &store.Target{
			Slug:     slug,
			Name:     body.Name,
			URL:      body.URL,
			Kind:     body.Kind,
			Columns:  body.Columns,
			Position: body.Position,
			Enabled:  enabled,
		}
		if err := targetsStore.UpsertTarget(target); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, target)
	}
}
