package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/audit"
	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/config"
	"github.com/rankwatch/rankwatch/pkg/fetch"
	"github.com/rankwatch/rankwatch/pkg/server"
	"github.com/rankwatch/rankwatch/pkg/server/endpoints"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	ServerURL   string
	DatabaseURL string
	HTTPClient  *http.Client
	Server      *server.Server
	Fetcher     *StubFetcher
	Sheet       *StubSheet
}

// StubFetcher serves canned page HTML by URL so runs don't reach the network.
type StubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
}

func NewStubFetcher() *StubFetcher {
	return &StubFetcher{pages: map[string]string{}}
}

func (f *StubFetcher) SetPage(url, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[url] = html
}

func (f *StubFetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = map[string]string{}
}

func (f *StubFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page registered for %s", url)
	}
	return &fetch.Result{HTML: html}, nil
}

// StubSheet records appended rows instead of calling the Sheets API.
type StubSheet struct {
	mu   sync.Mutex
	rows [][]string
}

func NewStubSheet() *StubSheet {
	return &StubSheet{}
}

func (s *StubSheet) EnsureWorksheet(ctx context.Context) error { return nil }

func (s *StubSheet) AppendRow(ctx context.Context, cells []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, append([]string(nil), cells...))
	return nil
}

func (s *StubSheet) SortByFirstColumnDesc(ctx context.Context) error { return nil }

func (s *StubSheet) Rows() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *StubSheet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
}

// NewTestContext creates a new test context with a PostgreSQL testcontainer
// and an in-process server wired to stub fetch and sheet backends.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	audit.SetEnabled(false)

	// Find project root and migrations directory
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	// Start PostgreSQL container
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("rankwatch_test"),
		tcpostgres.WithUsername("rankwatch"),
		tcpostgres.WithPassword("rankwatch"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://rankwatch:rankwatch@%s:%s/rankwatch_test?sslmode=disable", host, port.Port())

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := applyMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tc := &TestContext{
		DB:          db,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Fetcher:     NewStubFetcher(),
		Sheet:       NewStubSheet(),
	}

	serverPort := "18080"
	tc.ServerURL = fmt.Sprintf("http://127.0.0.1:%s", serverPort)

	if err := tc.startInlineServer(serverPort); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start inline server: %w", err)
	}

	if err := waitForServer(tc.ServerURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return tc, nil
}

// startInlineServer starts the server in-process against the test database.
func (tc *TestContext) startInlineServer(port string) error {
	artifactDir, err := os.MkdirTemp("", "rankwatch-artifacts")
	if err != nil {
		return err
	}
	files := artifact.NewFSStore(artifactDir)

	c := collector.New(collector.Options{
		Runs:        gormstore.NewRunsStore(tc.DB),
		Rows:        gormstore.NewRowsStore(tc.DB),
		Artifacts:   gormstore.NewArtifactsStore(tc.DB),
		Targets:     gormstore.NewTargetsStore(tc.DB),
		Fetcher:     tc.Fetcher,
		Sheet:       tc.Sheet,
		Files:       files,
		FetcherName: "stub",

		SpreadsheetID: "integration-sheet",
		Worksheet:     "rank",
	})

	tc.Server = server.NewServer(tc.DB, config.Get(), c, files, "127.0.0.1", port)
	endpoints.RegisterAll(tc.Server)

	go func() {
		_ = tc.Server.Start()
	}()

	return nil
}

// ResetData truncates the collection tables and clears the stubs, so each
// scenario starts from a clean slate on the shared database.
func (tc *TestContext) ResetData() error {
	tc.Fetcher.Reset()
	tc.Sheet.Reset()
	return tc.DB.Exec(`TRUNCATE targets, runs, ranking_rows, artifacts RESTART IDENTITY CASCADE`).Error
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// applyMigrations executes the up migrations in filename order
func applyMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(file), err)
		}
	}

	return nil
}
