package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

// StatusResponse represents the response from GET /
type StatusResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version"`
	LatestRun *store.Run `json:"latest_run,omitempty"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status (no auth required)
	s.Router.HandleFunc("/", handleStatus(s.HealthStore, s.RunsStore)).Methods("GET")
}

func handleStatus(healthStore store.HealthStore, runsStore store.RunsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("RANKWATCH_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		accept := r.Header.Get("Accept")
		format := r.URL.Query().Get("format")
		wantJSON := format == "json" || strings.Contains(accept, "application/json")

		if err := healthStore.CheckConnectivity(); err != nil {
			if wantJSON {
				respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
					Status:  "error",
					Version: version,
				})
				return
			}
			respondWithHTML(w, http.StatusServiceUnavailable, statusPage(version, "error", nil))
			return
		}

		latest, err := runsStore.LatestRun()
		if err != nil && !errors.Is(err, store.ErrRunNotFound) {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if wantJSON {
			respondWithJSON(w, http.StatusOK, StatusResponse{
				Status:    "ok",
				Version:   version,
				LatestRun: latest,
			})
			return
		}
		respondWithHTML(w, http.StatusOK, statusPage(version, "ok", latest))
	}
}

func statusPage(version, status string, latest *store.Run) string {
	body := "<p>Your rankwatch server is running!</p>"
	if status != "ok" {
		body = "<p>The database is unreachable.</p>"
	}

	latestLine := "<p>No runs recorded yet.</p>"
	if latest != nil {
		latestLine = fmt.Sprintf("<p>Latest run: %d (%s)</p>", latest.ID, latest.Status)
	}

	return `<!DOCTYPE html>
<html>
  <head>
    <title>Rankwatch Status</title>
  </head>
  <body>
    <h1>Status</h1>
    ` + body + `
    ` + latestLine + `
    <p>Version: ` + version + `</p>
  </body>
</html>`
}

func respondWithHTML(w http.ResponseWriter, code int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(html))
}
