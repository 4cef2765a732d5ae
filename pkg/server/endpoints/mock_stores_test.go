package endpoints

import (
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/audit"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/middleware"
	"github.com/rankwatch/rankwatch/pkg/server/store"
)

func init() {
	audit.SetEnabled(false)
}

// mockRuns is an in-memory store.RunsStore.
type mockRuns struct {
	mu     sync.Mutex
	nextID int64
	runs   []*store.Run
	err    error
}

func (m *mockRuns) CreateRun(trigger string) (*store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	run := &store.Run{ID: m.nextID, Trigger: trigger, Status: model.RunStatusRunning, StartedAt: time.Now().UTC()}
	m.runs = append(m.runs, run)
	return &store.Run{ID: run.ID, Trigger: run.Trigger, Status: run.Status, StartedAt: run.StartedAt}, nil
}

func (m *mockRuns) FinishRun(id int64, status model.RunStatus, errMsg, rowPreview string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, run := range m.runs {
		if run.ID == id {
			now := time.Now().UTC()
			run.Status = status
			run.FinishedAt = &now
			run.Error = errMsg
			run.RowPreview = rowPreview
			return nil
		}
	}
	return store.ErrRunNotFound
}

func (m *mockRuns) GetRun(id int64) (*store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, run := range m.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, store.ErrRunNotFound
}

func (m *mockRuns) ListRuns(limit, offset int) ([]store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	// newest-first
	var out []store.Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, *m.runs[i])
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRuns) LatestRun() (*store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil, store.ErrRunNotFound
	}
	return m.runs[len(m.runs)-1], nil
}

// mockRows is an in-memory store.RowsStore.
type mockRows struct {
	mu   sync.Mutex
	rows []store.Row
}

func (m *mockRows) CreateRow(row *store.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *row)
	return nil
}

func (m *mockRows) MarkAppended(runID int64) error { return nil }

func (m *mockRows) ListRowsByRun(runID int64) ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Row
	for _, row := range m.rows {
		if row.RunID == runID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (m *mockRows) ListRows() ([]store.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Row(nil), m.rows...), nil
}

// mockArtifacts is an in-memory store.ArtifactsStore.
type mockArtifacts struct {
	mu        sync.Mutex
	artifacts []store.Artifact
}

func (m *mockArtifacts) CreateArtifact(a *store.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = int64(len(m.artifacts) + 1)
	m.artifacts = append(m.artifacts, *a)
	return nil
}

func (m *mockArtifacts) ListArtifactsByRun(runID int64) ([]store.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Artifact
	for _, a := range m.artifacts {
		if a.RunID == runID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockArtifacts) GetArtifact(runID int64, name string) (*store.Artifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.artifacts {
		if m.artifacts[i].RunID == runID && m.artifacts[i].Name == name {
			return &m.artifacts[i], nil
		}
	}
	return nil, store.ErrArtifactNotFound
}

// mockTargets is an in-memory store.TargetsStore.
type mockTargets struct {
	mu      sync.Mutex
	targets []store.Target

	// when set, ListEnabledTargets parks until the channel is closed,
	// keeping a collection run in flight
	hold chan struct{}
}

func (m *mockTargets) UpsertTarget(t *store.Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.targets {
		if m.targets[i].Slug == t.Slug {
			t.ID = m.targets[i].ID
			m.targets[i] = *t
			return nil
		}
	}
	t.ID = int64(len(m.targets) + 1)
	m.targets = append(m.targets, *t)
	return nil
}

func (m *mockTargets) ListTargets() ([]store.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Target(nil), m.targets...), nil
}

func (m *mockTargets) ListEnabledTargets() ([]store.Target, error) {
	if m.hold != nil {
		<-m.hold
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Target
	for _, t := range m.targets {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTargets) GetTarget(slug string) (*store.Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.targets {
		if m.targets[i].Slug == slug {
			return &m.targets[i], nil
		}
	}
	return nil, store.ErrTargetNotFound
}

func (m *mockTargets) SetEnabled(slug string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.targets {
		if m.targets[i].Slug == slug {
			m.targets[i].Enabled = enabled
			return nil
		}
	}
	return store.ErrTargetNotFound
}

// mockHealth is a store.HealthStore with a switchable failure.
type mockHealth struct {
	err error
}

func (m *mockHealth) CheckConnectivity() error { return m.err }

// mockFiles is an in-memory artifact.Store.
type mockFiles struct {
	mu    sync.Mutex
	saved map[string][]byte
}

func newMockFiles() *mockFiles { return &mockFiles{saved: map[string][]byte{}} }

func (m *mockFiles) Save(runID int64, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[name] = data
	return "/artifacts/" + name, nil
}

func (m *mockFiles) Get(runID int64, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.saved[name]
	if !ok {
		return nil, artifact.ErrNotFound
	}
	return data, nil
}

func (m *mockFiles) List(runID int64) ([]string, error) { return nil, nil }

// testServer bundles a server wired to mocks.
type testServer struct {
	srv       *server.Server
	runs      *mockRuns
	rows      *mockRows
	artifacts *mockArtifacts
	targets   *mockTargets
	health    *mockHealth
	files     *mockFiles
}

func newTestServer() *testServer {
	return newTestServerWithToken(nil)
}

func newTestServerWithToken(auth *middleware.TokenAuthenticator) *testServer {
	ts := &testServer{
		runs:      &mockRuns{},
		rows:      &mockRows{},
		artifacts: &mockArtifacts{},
		targets:   &mockTargets{},
		health:    &mockHealth{},
		files:     newMockFiles(),
	}

	c := collector.New(collector.Options{
		Runs:      ts.runs,
		Rows:      ts.rows,
		Artifacts: ts.artifacts,
		Targets:   ts.targets,
		Files:     ts.files,
	})

	ts.srv = &server.Server{
		Router:          mux.NewRouter().UseEncodedPath(),
		Collector:       c,
		TokenMiddleware: auth,
		Files:           ts.files,
		RunsStore:       ts.runs,
		RowsStore:       ts.rows,
		ArtifactsStore:  ts.artifacts,
		TargetsStore:    ts.targets,
		HealthStore:     ts.health,
	}
	RegisterAll(ts.srv)
	return ts
}
