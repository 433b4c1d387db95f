// Package storage defines the backend interface trial results are
// recorded through, plus the factory selecting an implementation from
// configuration.
package storage

import "github.com/GallupGovt/ASIST/internal/model/core"

// Backend is the interface all storage implementations must satisfy.
// Record methods are called concurrently by the trial workers.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// RecordTrial persists one fully processed trial.
	RecordTrial(result *core.TrialResult) error

	// RecordTrialError persists a fatal-per-trial marker. The batch
	// continues past it.
	RecordTrialError(trialErr core.TrialError) error

	// Finalize writes the combined batch artifacts after the last
	// trial has been recorded.
	Finalize() error
}

// Exportable is an optional interface for backends that produce files
// suitable for downstream analysis tooling.
type Exportable interface {
	ExportedFilePaths() []string
}
