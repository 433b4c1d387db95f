// Package worker runs the trial pipeline over a batch of dump files
// with a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/GallupGovt/ASIST/internal/cache"
	"github.com/GallupGovt/ASIST/internal/influx"
	"github.com/GallupGovt/ASIST/internal/logging"
	"github.com/GallupGovt/ASIST/internal/queue"
	"github.com/GallupGovt/ASIST/internal/storage"
	"github.com/GallupGovt/ASIST/internal/trial"
)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager
	Processor  *trial.Processor
	Influx     *influx.Manager // optional, nil disables metrics
}

// Manager fans a batch of trial files out over worker goroutines and
// records every outcome on the storage backend.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	processed cache.SafeCounter
	failed    cache.SafeCounter
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// DiscoverTrials returns the sorted trial dump paths under dir.
func DiscoverTrials(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.metadata"))
	if err != nil {
		return nil, fmt.Errorf("failed to list trial dir: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Run processes every trial file over the given number of workers,
// then finalizes the backend. Per-trial failures are recorded as trial
// errors and do not stop the batch.
func (m *Manager) Run(paths []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	start := time.Now()
	q := queue.New[string]()
	q.Push(paths...)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			m.work(id, q)
		}(i)
	}
	wg.Wait()

	m.deps.LogManager.Logger().Info("Batch complete",
		"trials", len(paths),
		"processed", m.processed.Value(),
		"failed", m.failed.Value())

	if m.deps.Influx != nil {
		point := influx.BatchPoint(len(paths), m.processed.Value(), m.failed.Value(), time.Since(start))
		if err := m.deps.Influx.WritePoint(context.Background(), influx.BucketBatchPerformance, point); err != nil {
			m.deps.LogManager.Logger().Warn("Failed to write batch metrics", "error", err)
		}
	}

	return m.backend.Finalize()
}

// Processed returns the number of trials recorded so far.
func (m *Manager) Processed() int {
	return m.processed.Value()
}

// Failed returns the number of trials that produced error markers.
func (m *Manager) Failed() int {
	return m.failed.Value()
}

// work drains the queue. The queue is fully loaded before workers
// start, so an empty pop means the batch is done.
func (m *Manager) work(id int, q *queue.Queue[string]) {
	// Every line a worker logs carries the running batch counters.
	handler := logging.NewContextHandler(m.deps.LogManager.Logger().Handler(), func() []slog.Attr {
		return []slog.Attr{
			slog.Int("processed", m.processed.Value()),
			slog.Int("failed", m.failed.Value()),
		}
	})
	log := slog.New(handler).With("worker", id)
	for {
		path := q.Pop()
		if path == "" {
			return
		}

		result, err := m.deps.Processor.Process(path)
		if err != nil {
			m.failed.Inc()
			log.Error("Trial failed",
				"file", filepath.Base(path),
				"error", err)
			if rerr := m.backend.RecordTrialError(trial.AsTrialError(path, err)); rerr != nil {
				log.Error("Failed to record trial error", "error", rerr)
			}
			continue
		}

		if err := m.backend.RecordTrial(result); err != nil {
			m.failed.Inc()
			log.Error("Failed to record trial",
				"file", filepath.Base(path),
				"error", err)
			continue
		}
		m.processed.Inc()

		if m.deps.Influx != nil {
			if err := m.deps.Influx.WritePoint(context.Background(), influx.BucketTrialData, influx.TrialPoint(result)); err != nil {
				log.Warn("Failed to write trial metrics", "error", err)
			}
		}
	}
}
