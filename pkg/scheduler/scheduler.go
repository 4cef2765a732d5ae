// Package scheduler triggers collection runs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rankwatch/rankwatch/pkg/collector"
	"github.com/rankwatch/rankwatch/pkg/model"
)

// Scheduler runs the collector on a cron expression. Overlapping ticks are
// absorbed by the collector's single-run guard.
type Scheduler struct {
	cron      *cron.Cron
	collector *collector.Collector
}

// New builds a scheduler for the given standard 5-field cron expression.
// The expression is evaluated in UTC regardless of the host timezone.
func New(spec string, c *collector.Collector) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		collector: c,
	}

	_, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) tick() {
	run, err := s.collector.Collect(context.Background(), model.TriggerSchedule)
	if errors.Is(err, collector.ErrRunInProgress) {
		log.Println("Skipping scheduled collection, a run is already in progress")
		return
	}
	if err != nil {
		if run == nil {
			log.Printf("Scheduled collection failed to start: %v", err)
			return
		}
		log.Printf("Scheduled collection run %d failed: %v", run.ID, err)
		return
	}
	log.Printf("Scheduled collection run %d finished with status %s", run.ID, run.Status)
}

// Start begins scheduling in a background goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
