// Package memory accumulates trial results in memory, writes one JSON
// file per trial as results arrive, and exports the combined batch CSVs
// on Finalize.
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/model/core"
)

// Backend stores trial results in memory and exports to JSON and CSV.
type Backend struct {
	cfg config.MemoryConfig

	results  []*core.TrialResult
	exported []string

	mu sync.Mutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init creates the export directory.
func (b *Backend) Init() error {
	if err := os.MkdirAll(b.cfg.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// RecordTrial keeps the result for the combined export and writes its
// per-trial JSON file immediately.
func (b *Backend) RecordTrial(result *core.TrialResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.results = append(b.results, result)
	return b.exportTrialJSON(result)
}

// RecordTrialError writes the per-trial error marker file.
func (b *Backend) RecordTrialError(trialErr core.TrialError) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := fmt.Sprintf("member_%s_trial_%s_ERROR.txt", trialErr.MemberID, trialErr.TrialID)
	path := filepath.Join(b.cfg.ExportDir, name)
	return os.WriteFile(path, []byte(trialErr.Reason+"\n"), 0644)
}

// Finalize writes the combined scalar and event CSVs.
func (b *Backend) Finalize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.exportDataCSV(); err != nil {
		return err
	}
	return b.exportEventsCSV()
}

// ExportedFilePaths lists every file written so far.
func (b *Backend) ExportedFilePaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.exported))
	copy(out, b.exported)
	return out
}

// exportTrialJSON writes one trial's full result, gzipped when
// configured. Callers hold the lock.
func (b *Backend) exportTrialJSON(result *core.TrialResult) error {
	name := fmt.Sprintf("member_%s_trial_%s_results.json", result.MemberID, result.TrialID)
	if b.cfg.CompressOutput {
		name += ".gz"
	}
	path := filepath.Join(b.cfg.ExportDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		defer gz.Close()
		enc := json.NewEncoder(gz)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	}

	b.exported = append(b.exported, path)
	return nil
}
