package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/rankwatch/rankwatch/pkg/server/store"
	gormstore "github.com/rankwatch/rankwatch/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	latestRun    *store.Run
	nextPosition int
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.ResetData()
	})

	// Background steps
	sc.Step(`^a Rankwatch server is running$`, s.aRankwatchServerIsRunning)
	sc.Step(`^a target "([^"]*)" with (\d+) ranking columns serving:$`, s.aTargetServingPage)
	sc.Step(`^a target "([^"]*)" with (\d+) ranking columns and no page$`, s.aTargetWithoutPage)

	// Run steps
	sc.Step(`^I dispatch a collection run and wait for it to finish$`, s.iDispatchACollectionRun)
	sc.Step(`^the latest run status should be "([^"]*)"$`, s.theLatestRunStatusShouldBe)
	sc.Step(`^the run should record (\d+) rows$`, s.theRunShouldRecordRows)
	sc.Step(`^the run should record an artifact "([^"]*)"$`, s.theRunShouldRecordArtifact)

	// Sheet steps
	sc.Step(`^the appended sheet row should have (\d+) cells$`, s.theAppendedRowShouldHaveCells)
	sc.Step(`^cell (\d+) of the appended row should be "([^"]*)"$`, s.cellOfAppendedRowShouldBe)
	sc.Step(`^no sheet row should be appended$`, s.noSheetRowShouldBeAppended)

	// HTTP steps
	sc.Step(`^I request the status endpoint$`, s.iRequestTheStatusEndpoint)
	sc.Step(`^I request the report$`, s.iRequestTheReport)
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
}

// Background steps

func (s *StepsContext) aRankwatchServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aTargetServingPage(slug string, columns int, page *godog.DocString) error {
	url := "https://stub.invalid/" + slug
	s.tc.Fetcher.SetPage(url, page.Content)
	return s.upsertTarget(slug, url, columns)
}

func (s *StepsContext) aTargetWithoutPage(slug string, columns int) error {
	// No page registered, so the stub fetcher fails for this target
	return s.upsertTarget(slug, "https://stub.invalid/"+slug, columns)
}

// upsertTarget records a target, keeping the order targets were declared in.
func (s *StepsContext) upsertTarget(slug, url string, columns int) error {
	position := s.nextPosition
	s.nextPosition++
	return gormstore.NewTargetsStore(s.tc.DB).UpsertTarget(&store.Target{
		Slug:     slug,
		URL:      url,
		Columns:  columns,
		Position: position,
		Enabled:  true,
	})
}

// Run steps

func (s *StepsContext) iDispatchACollectionRun() error {
	resp, err := s.tc.HTTPClient.Post(s.tc.ServerURL+"/runs", "application/json", nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("expected 202 dispatching run, got %d", resp.StatusCode)
	}

	// the run finishes in the background; poll until it reaches a
	// terminal status
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		run, err := s.fetchLatestRun()
		if err == nil && run != nil && run.Status.Terminal() {
			s.latestRun = run
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("run did not finish within 10s")
}

func (s *StepsContext) fetchLatestRun() (*store.Run, error) {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + "/runs?limit=1")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d listing runs", resp.StatusCode)
	}

	var runs []store.Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *StepsContext) theLatestRunStatusShouldBe(want string) error {
	if s.latestRun == nil {
		return fmt.Errorf("no run recorded")
	}
	if got := s.latestRun.Status.String(); got != want {
		return fmt.Errorf("expected run status %q, got %q (error: %s)", want, got, s.latestRun.Error)
	}
	return nil
}

func (s *StepsContext) theRunShouldRecordRows(count int) error {
	if s.latestRun == nil {
		return fmt.Errorf("no run recorded")
	}

	rows, err := gormstore.NewRowsStore(s.tc.DB).ListRowsByRun(s.latestRun.ID)
	if err != nil {
		return err
	}
	if len(rows) != count {
		return fmt.Errorf("expected %d rows, got %d", count, len(rows))
	}
	return nil
}

func (s *StepsContext) theRunShouldRecordArtifact(name string) error {
	if s.latestRun == nil {
		return fmt.Errorf("no run recorded")
	}

	url := fmt.Sprintf("%s/runs/%d/artifacts", s.tc.ServerURL, s.latestRun.ID)
	resp, err := s.tc.HTTPClient.Get(url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var artifacts []store.Artifact
	if err := json.NewDecoder(resp.Body).Decode(&artifacts); err != nil {
		return err
	}
	for _, a := range artifacts {
		if a.Name == name {
			return nil
		}
	}
	return fmt.Errorf("artifact %q not found among %d artifacts", name, len(artifacts))
}

// Sheet steps

func (s *StepsContext) theAppendedRowShouldHaveCells(count int) error {
	rows := s.tc.Sheet.Rows()
	if len(rows) == 0 {
		return fmt.Errorf("no rows appended to the sheet")
	}
	last := rows[len(rows)-1]
	if len(last) != count {
		return fmt.Errorf("expected %d cells, got %d: %v", count, len(last), last)
	}
	return nil
}

func (s *StepsContext) cellOfAppendedRowShouldBe(index int, want string) error {
	rows := s.tc.Sheet.Rows()
	if len(rows) == 0 {
		return fmt.Errorf("no rows appended to the sheet")
	}
	last := rows[len(rows)-1]
	if index >= len(last) {
		return fmt.Errorf("cell %d out of range, row has %d cells", index, len(last))
	}
	if last[index] != want {
		return fmt.Errorf("expected cell %d to be %q, got %q", index, want, last[index])
	}
	return nil
}

func (s *StepsContext) noSheetRowShouldBeAppended() error {
	if rows := s.tc.Sheet.Rows(); len(rows) != 0 {
		return fmt.Errorf("expected no appended rows, got %d", len(rows))
	}
	return nil
}

// HTTP steps

func (s *StepsContext) iRequestTheStatusEndpoint() error {
	return s.doGet("/")
}

func (s *StepsContext) iRequestTheReport() error {
	return s.doGet("/report")
}

func (s *StepsContext) doGet(path string) error {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + path)
	if err != nil {
		return err
	}
	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(want string) error {
	if !strings.Contains(string(s.responseBody), want) {
		return fmt.Errorf("response body does not contain %q: %s", want, string(s.responseBody))
	}
	return nil
}
