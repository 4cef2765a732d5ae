package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// RegisterRunsEndpoints registers the run endpoints
func RegisterRunsEndpoints(s *server.Server) {
	// GET /runs - Run history (no auth required)
	s.Router.HandleFunc("/runs", handleListRuns(s.RunsStore)).Methods("GET")

	// POST /runs - Dispatch a manual run (guarded)
	s.Router.Handle("/runs", s.Guard(handleDispatchRun(s.Collector))).Methods("POST")

	// GET /runs/{id} - Run details
	s.Router.HandleFunc("/runs/{id}", handleGetRun(s.RunsStore)).Methods("GET")

	// GET /runs/{id}/rows - Collected rows of a run
	s.Router.HandleFunc("/runs/{id}/rows", handleListRunRows(s.RunsStore, s.RowsStore)).Methods("GET")

	// GET /runs/{id}/artifacts - Captured artifact metadata of a run
	s.Router.HandleFunc("/runs/{id}/artifacts", handleListRunArtifacts(s.RunsStore, s.ArtifactsStore)).Methods("GET")

	// GET /runs/{id}/artifacts/{name} - Download one artifact
	s.Router.HandleFunc("/runs/{id}/artifacts/{name}", handleDownloadArtifact(s.ArtifactsStore, s.Files)).Methods("GET")
}

func runID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func handleListRuns(runsStore store.RunsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRunsLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				respondWithError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = parsed
		}
		if limit > maxRunsLimit {
			limit = maxRunsLimit
		}

		offset := 0
		if v := r.URL.Query().Get("offset"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				respondWithError(w, http.StatusBadRequest, "invalid offset")
				return
			}
			offset = parsed
		}

		runs, err := runsStore.ListRuns(limit, offset)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, runs)
	}
}

func handleDispatchRun(c *collector.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the run outlives the request, it is not bound by the server's
		// write timeout; the run slot is claimed before responding, so
		// the conflict answer is authoritative
		err := c.Dispatch(context.Background(), model.TriggerManual)
		if errors.Is(err, collector.ErrRunInProgress) {
			respondWithError(w, http.StatusConflict, "a collection run is already in progress")
			return
		}

		respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
	}
}

func handleGetRun(runsStore store.RunsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := runID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid run id")
			return
		}

		run, err := runsStore.GetRun(id)
		if err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				respondWithError(w, http.StatusNotFound, "run not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, run)
	}
}

func handleListRunRows(runsStore store.RunsStore, rowsStore store.RowsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := runID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid run id")
			return
		}

		if _, err := runsStore.GetRun(id); err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				respondWithError(w, http.StatusNotFound, "run not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rows, err := rowsStore.ListRowsByRun(id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, rows)
	}
}

func handleListRunArtifacts(runsStore store.RunsStore, artifactsStore store.ArtifactsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := runID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid run id")
			return
		}

		if _, err := runsStore.GetRun(id); err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				respondWithError(w, http.StatusNotFound, "run not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		artifacts, err := artifactsStore.ListArtifactsByRun(id)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, artifacts)
	}
}

func handleDownloadArtifact(artifactsStore store.ArtifactsStore, files artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := runID(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid run id")
			return
		}
		name := mux.Vars(r)["name"]

		meta, err := artifactsStore.GetArtifact(id, name)
		if err != nil {
			if errors.Is(err, store.ErrArtifactNotFound) {
				respondWithError(w, http.StatusNotFound, "artifact not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		data, err := files.Get(id, name)
		if err != nil {
			if errors.Is(err, artifact.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "artifact not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", meta.ContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
