// Package scheduler watches the registration page for new search results and
// annotates them, one pass at a time.
package scheduler

import (
	"context"
	"errors"
	"ratemyclass/internal/components/assert"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/ratings"
	"ratemyclass/internal/scanner"
	"ratemyclass/internal/settings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
)

const (
	report_scheduler_poll = "scheduler.poll"
	report_scheduler_pass = "scheduler.pass"

	DEFAULT_POLL_INTERVAL = 500 * time.Millisecond
)

var tracer = otel.Tracer("ratemyclass.internal.scheduler")

// Resolver looks up professors, implemented by *ratings.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, name string) (ratings.Record, error)
	Stats() ratings.Stats
	School() ratings.School
}

// SettingsStore is where toggles are read from and pass statistics go,
// implemented by settings.Store.
type SettingsStore interface {
	Get(ctx context.Context) (settings.Settings, error)
	RecordSearch(ctx context.Context, search settings.Search) error
}

type Options struct {
	PollInterval time.Duration
}

type Scheduler struct {
	scanner  scanner.Scanner
	resolver Resolver
	settings SettingsStore
	opts     Options
	tel      telemetry.API

	passes *sync.WaitGroup
}

func NewScheduler(
	scan scanner.Scanner,
	resolver Resolver,
	store SettingsStore,
	opts Options,
	tel telemetry.API,
) Scheduler {
	assert.NotNil(resolver)
	assert.NotNil(store)
	assert.NotNil(tel)

	if opts.PollInterval <= 0 {
		opts.PollInterval = DEFAULT_POLL_INTERVAL
	}

	return Scheduler{
		scanner:  scan,
		resolver: resolver,
		settings: store,
		opts:     opts,
		tel:      telemetry.NewScopedAPI("scheduler", tel),
		passes:   &sync.WaitGroup{},
	}
}

// Poll looks at the results label once and starts a pass in the background
// if it changed since the last pass and no pass is running. It reports
// whether a pass was started.
func (s Scheduler) Poll(ctx context.Context, state *State) bool {
	frame, err := s.scanner.ProbeResultsFrame(ctx)
	if errors.Is(err, scanner.ErrNotReady) {
		return false
	}
	if err != nil {
		s.tel.ReportWarning(report_scheduler_poll, err)
		return false
	}

	count, ok := scanner.ReadResultCount(frame.Doc)
	if !ok {
		return false
	}
	if !state.begin(count.Signal) {
		return false
	}

	s.tel.ReportDebug("search results changed, starting pass", count.Signal)

	s.passes.Add(1)
	go func() {
		defer s.passes.Done()
		defer state.end()
		s.runPass(ctx)
	}()
	return true
}

// Wait blocks until every pass started by Poll has finished.
func (s Scheduler) Wait() {
	s.passes.Wait()
}

// Run polls on every tick until ctx is done, then waits for the pass in
// flight to finish.
func (s Scheduler) Run(ctx context.Context, state *State) {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	defer s.Wait()

	for {
		select {
		case <-ticker.C:
			s.Poll(ctx, state)
		case <-ctx.Done():
			return
		}
	}
}
