package endpoints

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

const reportRunsLimit = 20

var reportMarkdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RegisterReportEndpoint registers the report endpoint
func RegisterReportEndpoint(s *server.Server) {
	// GET /report - Recent run report, HTML by default, ?format=md for the
	// markdown source (no auth required)
	s.Router.HandleFunc("/report", handleReport(s.RunsStore)).Methods("GET")
}

func handleReport(runsStore store.RunsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := runsStore.ListRuns(reportRunsLimit, 0)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		markdown := buildReport(runs, time.Now().UTC())

		if r.URL.Query().Get("format") == "md" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte(markdown))
			return
		}

		var body bytes.Buffer
		if err := reportMarkdown.Convert([]byte(markdown), &body); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Rankwatch Report</title></head>\n<body>\n%s</body>\n</html>\n", body.String())
	}
}

func buildReport(runs []store.Run, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Rankwatch Report\n\n")
	sb.WriteString("Generated at " + now.Format(time.RFC3339) + "\n\n")

	if len(runs) == 0 {
		sb.WriteString("No collection runs recorded yet.\n")
		return sb.String()
	}

	sb.WriteString("## Recent Runs\n\n")
	sb.WriteString("| Run | Trigger | Status | Started | Row |\n")
	sb.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, run := range runs {
		detail := run.RowPreview
		if run.Error != "" {
			detail = run.Error
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			run.ID,
			run.Trigger,
			run.Status,
			run.StartedAt.Format(time.RFC3339),
			escapeTableCell(detail),
		))
	}
	return sb.String()
}

func escapeTableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
