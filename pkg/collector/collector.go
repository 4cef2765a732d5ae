// Package collector orchestrates a collection run: fetch every enabled
// target, extract ranking columns, persist rows and artifacts, then append
// one combined row to the spreadsheet.
package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/rankwatch/rankwatch/pkg/artifact"
	"github.com/rankwatch/rankwatch/pkg/audit"
	"github.com/rankwatch/rankwatch/pkg/fetch"
	"github.com/rankwatch/rankwatch/pkg/model"
	"github.com/rankwatch/rankwatch/pkg/ranking"
	"github.com/rankwatch/rankwatch/pkg/server/store"
	"github.com/rankwatch/rankwatch/pkg/sheets"
)

// ErrRunInProgress is returned when a run is dispatched while another one
// is still going.
var ErrRunInProgress = errors.New("collection run already in progress")

const rowPreviewLimit = 200

// Options wires a Collector's dependencies.
type Options struct {
	Runs      store.RunsStore
	Rows      store.RowsStore
	Artifacts store.ArtifactsStore
	Targets   store.TargetsStore
	Fetcher   fetch.Fetcher
	Sheet     sheets.RowAppender
	Files     artifact.Store

	Location     *time.Location
	FetchTimeout time.Duration
	FetcherName  string

	// SpreadsheetID and Worksheet identify the append destination in
	// audit events.
	SpreadsheetID string
	Worksheet     string
}

// Collector runs the collection pipeline. At most one run is active at a
// time; concurrent dispatches get ErrRunInProgress.
type Collector struct {
	mu      sync.Mutex
	running bool

	opts Options
}

// New creates a Collector.
func New(opts Options) *Collector {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = time.Minute
	}
	return &Collector{opts: opts}
}

// Running reports whether a run is currently active.
func (c *Collector) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// reserve claims the single-run slot.
func (c *Collector) reserve() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrRunInProgress
	}
	c.running = true
	return nil
}

func (c *Collector) release() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

// Collect executes one collection run. The returned run reflects the
// recorded outcome; a non-nil error means the run failed or could not
// start.
func (c *Collector) Collect(ctx context.Context, trigger string) (*store.Run, error) {
	if err := c.reserve(); err != nil {
		return nil, err
	}
	defer c.release()
	return c.collect(ctx, trigger)
}

// Dispatch claims the run slot and executes the run in a background
// goroutine. A conflicting dispatch fails here with ErrRunInProgress,
// before the goroutine starts.
func (c *Collector) Dispatch(ctx context.Context, trigger string) error {
	if err := c.reserve(); err != nil {
		return err
	}
	go func() {
		defer c.release()
		run, err := c.collect(ctx, trigger)
		if err != nil {
			if run != nil {
				log.Printf("Dispatched collection run %d failed: %v", run.ID, err)
				return
			}
			log.Printf("Dispatched collection failed to start: %v", err)
		}
	}()
	return nil
}

func (c *Collector) collect(ctx context.Context, trigger string) (*store.Run, error) {
	run, err := c.opts.Runs.CreateRun(trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	targets, err := c.opts.Targets.ListEnabledTargets()
	if err != nil {
		return c.finish(run, model.RunStatusFailed, err, "", 0)
	}
	if len(targets) == 0 {
		return c.finish(run, model.RunStatusSkipped, errors.New("no enabled targets"), "", 0)
	}

	now := time.Now()
	timestamp := ranking.Timestamp(now, c.opts.Location)
	cells := []string{timestamp}

	for _, target := range targets {
		cols := c.collectTarget(ctx, run.ID, target)

		row := &store.Row{
			RunID:      run.ID,
			TargetSlug: target.Slug,
			RecordedAt: now.UTC(),
			Cells:      cols,
		}
		if err := c.opts.Rows.CreateRow(row); err != nil {
			return c.finish(run, model.RunStatusFailed, fmt.Errorf("failed to persist row for %s: %w", target.Slug, err), "", 0)
		}

		cells = append(cells, cols...)
	}

	preview := rowPreview(cells)

	if err := c.appendToSheet(ctx, run.ID, cells); err != nil {
		return c.finish(run, model.RunStatusFailed, err, preview, len(targets))
	}

	if err := c.opts.Rows.MarkAppended(run.ID); err != nil {
		return c.finish(run, model.RunStatusFailed, fmt.Errorf("failed to mark rows appended: %w", err), preview, len(targets))
	}

	return c.finish(run, model.RunStatusSucceeded, nil, preview, len(targets))
}

// collectTarget fetches one target and extracts its ranking columns. Fetch
// failures degrade to placeholder columns so the run's row keeps its shape.
func (c *Collector) collectTarget(ctx context.Context, runID int64, target store.Target) []string {
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	result, err := c.opts.Fetcher.Fetch(fetchCtx, target.URL)

	event := audit.FetchEvent{
		RunID:      runID,
		TargetSlug: target.Slug,
		URL:        target.URL,
		Fetcher:    c.opts.FetcherName,
		Success:    err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)

	// artifacts are saved regardless of the fetch outcome, a failed run's
	// page snapshot or screenshot is what makes it debuggable
	if result != nil {
		if result.HTML != "" {
			c.saveArtifact(runID, target.Slug+".html", "text/html; charset=utf-8", []byte(result.HTML))
		}
		if len(result.Screenshot) > 0 {
			c.saveArtifact(runID, target.Slug+"-debug.png", "image/png", result.Screenshot)
		}
	}

	if err != nil || result == nil {
		return ranking.Normalize(nil, target.Columns)
	}
	return ranking.Extract(result.HTML, target.Columns)
}

func (c *Collector) saveArtifact(runID int64, name, contentType string, data []byte) {
	path, err := c.opts.Files.Save(runID, name, data)

	event := audit.ArtifactEvent{
		RunID:     runID,
		Name:      name,
		SizeBytes: int64(len(data)),
		Success:   err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		return
	}

	if err := c.opts.Artifacts.CreateArtifact(&store.Artifact{
		RunID:       runID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		Path:        path,
	}); err != nil {
		event.Success = false
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
}

func (c *Collector) appendToSheet(ctx context.Context, runID int64, cells []string) error {
	var err error
	defer func() {
		event := audit.AppendEvent{
			RunID:         runID,
			SpreadsheetID: c.opts.SpreadsheetID,
			Worksheet:     c.opts.Worksheet,
			Cells:         len(cells),
			Success:       err == nil,
		}
		if err != nil {
			event.ErrorMessage = err.Error()
		}
		audit.Log(event)
	}()

	if err = c.opts.Sheet.EnsureWorksheet(ctx); err != nil {
		return fmt.Errorf("failed to ensure worksheet: %w", err)
	}
	if err = c.opts.Sheet.AppendRow(ctx, cells); err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	if err = c.opts.Sheet.SortByFirstColumnDesc(ctx); err != nil {
		return fmt.Errorf("failed to sort worksheet: %w", err)
	}
	return nil
}

// finish records the run outcome and emits the run audit event.
func (c *Collector) finish(run *store.Run, status model.RunStatus, cause error, preview string, rows int) (*store.Run, error) {
	errMsg := ""
	if cause != nil {
		errMsg = cause.Error()
	}

	if err := c.opts.Runs.FinishRun(run.ID, status, errMsg, preview); err != nil {
		// the original failure matters more than the bookkeeping one
		if cause == nil {
			cause = fmt.Errorf("failed to record run outcome: %w", err)
			status = model.RunStatusFailed
			errMsg = cause.Error()
		}
	}

	audit.Log(audit.RunEvent{
		RunID:        run.ID,
		Trigger:      run.Trigger,
		Rows:         rows,
		Success:      status == model.RunStatusSucceeded,
		ErrorMessage: errMsg,
	})

	now := time.Now().UTC()
	run.Status = status
	run.FinishedAt = &now
	run.Error = errMsg
	run.RowPreview = preview

	if status == model.RunStatusFailed {
		return run, cause
	}
	return run, nil
}

func rowPreview(cells []string) string {
	preview := strings.Join(cells, " | ")
	if runes := []rune(preview); len(runes) > rowPreviewLimit {
		preview = string(runes[:rowPreviewLimit])
	}
	return preview
}
