// Package monitor reports batch progress while a run is in flight:
// a periodically rewritten status file plus a log line per interval.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GallupGovt/ASIST/internal/logging"
	"github.com/GallupGovt/ASIST/internal/worker"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager    *logging.SlogManager
	WorkerManager *worker.Manager
	StatusDir     string
	TotalTrials   int
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	interval  time.Duration
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		interval: time.Second,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status is the snapshot written to the status file each interval.
type Status struct {
	Time      time.Time `json:"time"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	Remaining int       `json:"remaining"`
}

// GetStatus returns the current batch progress snapshot.
func (s *Service) GetStatus() Status {
	processed := s.deps.WorkerManager.Processed()
	failed := s.deps.WorkerManager.Failed()
	return Status{
		Time:      time.Now(),
		Total:     s.deps.TotalTrials,
		Processed: processed,
		Failed:    failed,
		Remaining: s.deps.TotalTrials - processed - failed,
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(s.interval)

				st := s.GetStatus()
				logger.Info("Batch progress",
					"processed", st.Processed,
					"failed", st.Failed,
					"remaining", st.Remaining)

				if statusFile != nil {
					line, err := json.MarshalIndent(st, "", "  ")
					if err != nil {
						line = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(append(line, '\n'))
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
