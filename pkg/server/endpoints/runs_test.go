package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

func TestListRuns(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("manual")
	require.NoError(t, err)
	require.NoError(t, ts.runs.FinishRun(run.ID, model.RunStatusSucceeded, "", "2024/05/17 12:00 | 12位"))

	req := httptest.NewRequest("GET", "/runs", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var runs []store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusSucceeded, runs[0].Status)
	assert.Equal(t, "2024/05/17 12:00 | 12位", runs[0].RowPreview)
}

func TestListRunsBadLimit(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/runs?limit=zero", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRun(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("schedule")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/runs/1", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "schedule", got.Trigger)
}

func TestGetRunNotFound(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/runs/99", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRunInvalidID(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/runs/abc", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRunRows(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("manual")
	require.NoError(t, err)
	require.NoError(t, ts.rows.CreateRow(&store.Row{
		RunID:      run.ID,
		TargetSlug: "paper",
		RecordedAt: time.Now().UTC(),
		Cells:      []string{"12位コンピュータ・IT", "-"},
	}))

	req := httptest.NewRequest("GET", "/runs/1/rows", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []store.Row
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "paper", rows[0].TargetSlug)
	assert.Equal(t, []string{"12位コンピュータ・IT", "-"}, rows[0].Cells)
}

func TestListRunRowsRunNotFound(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/runs/5/rows", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadArtifact(t *testing.T) {
	ts := newTestServer()
	run, err := ts.runs.CreateRun("manual")
	require.NoError(t, err)

	_, err = ts.files.Save(run.ID, "paper.html", []byte("<html>snapshot</html>"))
	require.NoError(t, err)
	require.NoError(t, ts.artifacts.CreateArtifact(&store.Artifact{
		RunID:       run.ID,
		Name:        "paper.html",
		ContentType: "text/html; charset=utf-8",
		SizeBytes:   21,
	}))

	req := httptest.NewRequest("GET", "/runs/1/artifacts/paper.html", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<html>snapshot</html>", rec.Body.String())
}

func TestDownloadArtifactNotFound(t *testing.T) {
	ts := newTestServer()
	_, err := ts.runs.CreateRun("manual")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/runs/1/artifacts/missing.png", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDispatchRun(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("POST", "/runs", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	// the dispatched run finishes in the background; with no enabled
	// targets it ends up skipped
	require.Eventually(t, func() bool {
		latest, err := ts.runs.LatestRun()
		return err == nil && latest.Status == model.RunStatusSkipped
	}, time.Second, 10*time.Millisecond)

	latest, err := ts.runs.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, model.TriggerManual, latest.Trigger)
}

func TestDispatchRunConflict(t *testing.T) {
	ts := newTestServer()
	hold := make(chan struct{})
	ts.targets.hold = hold

	req := httptest.NewRequest("POST", "/runs", nil)
	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// the first run is parked inside the collector, so the run slot is
	// already claimed when the second dispatch arrives
	rec = httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, httptest.NewRequest("POST", "/runs", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(hold)
	require.Eventually(t, func() bool {
		latest, err := ts.runs.LatestRun()
		return err == nil && latest.Status == model.RunStatusSkipped
	}, time.Second, 10*time.Millisecond)

	// only the accepted dispatch recorded a run
	runs, err := ts.runs.ListRuns(10, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
