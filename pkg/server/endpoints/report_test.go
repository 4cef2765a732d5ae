package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankwatch/rankwatch/pkg/model"
)

func TestReportHTML(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("schedule")
	require.NoError(t, err)
	require.NoError(t, ts.runs.FinishRun(run.ID, model.RunStatusSucceeded, "", "2024/05/17 12:00 | 12位"))

	req := httptest.NewRequest("GET", "/report", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "succeeded")
	assert.Contains(t, rec.Body.String(), "2024/05/17 12:00")
}

func TestReportMarkdown(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("manual")
	require.NoError(t, err)
	require.NoError(t, ts.runs.FinishRun(run.ID, model.RunStatusFailed, "quota exceeded", ""))

	req := httptest.NewRequest("GET", "/report?format=md", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Rankwatch Report")
	assert.Contains(t, rec.Body.String(), "| failed |")
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestReportEmpty(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/report?format=md", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No collection runs recorded yet")
}
