// Package gormstore implements the storage.Backend interface on a
// relational database through GORM, with internal queues and a
// background DB writer goroutine. Postgres is preferred; when it is
// unreachable the backend falls back to an in-memory SQLite database
// that is dumped to disk on Finalize.
package gormstore

import (
	"fmt"
	"time"

	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/database"
	"github.com/GallupGovt/ASIST/internal/model"
	"github.com/GallupGovt/ASIST/internal/model/convert"
	"github.com/GallupGovt/ASIST/internal/model/core"
	"github.com/GallupGovt/ASIST/internal/queue"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// queues holds the write queues for batch DB insertion.
type queues struct {
	Trials      *queue.Queue[model.Trial]
	TrialErrors *queue.Queue[model.TrialErrorRecord]
}

func newQueues() *queues {
	return &queues{
		Trials:      queue.New[model.Trial](),
		TrialErrors: queue.New[model.TrialErrorRecord](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	cfg      config.GormConfig
	manager  *database.Manager
	queues   *queues
	logger   zerolog.Logger
	stopChan chan struct{}
	dbReady  bool
}

// New creates a new GORM storage backend.
func New(cfg config.GormConfig, log zerolog.Logger) *Backend {
	return &Backend{
		cfg:    cfg,
		logger: log,
	}
}

// Init connects to the database, runs schema migration, and starts the
// DB writer goroutine.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	b.manager = database.NewManager(b.logger)
	if err := b.manager.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if b.manager.ShouldSaveLocal {
		b.manager.SqliteFilePath = b.cfg.SqlitePath
	}

	if err := b.manager.Setup(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine and closes the connection.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	if b.manager != nil && b.manager.SqlDB != nil {
		return b.manager.SqlDB.Close()
	}
	return nil
}

// RecordTrial converts a trial result to GORM models and pushes it to
// the write queue. Event rows are inserted through the association.
func (b *Backend) RecordTrial(result *core.TrialResult) error {
	b.queues.Trials.Push(convert.CoreToTrial(result))
	return nil
}

// RecordTrialError converts and queues a trial error marker.
func (b *Backend) RecordTrialError(trialErr core.TrialError) error {
	b.queues.TrialErrors.Push(convert.CoreToTrialError(trialErr))
	return nil
}

// Finalize drains the remaining queues and, when running on the local
// SQLite fallback, dumps the in-memory database to disk.
func (b *Backend) Finalize() error {
	b.flush()

	if b.manager.ShouldSaveLocal {
		if err := b.manager.DumpMemoryToDisk(); err != nil {
			return fmt.Errorf("failed to dump SQLite DB to disk: %w", err)
		}
		b.logger.Info().Str("path", b.manager.SqliteFilePath).Msg("Wrote SQLite results database")
	}
	return nil
}

// writeQueue drains one queue into the DB inside a transaction,
// re-queueing the items on failure.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log zerolog.Logger) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.Drain()
	if err := tx.Create(&items).Error; err != nil {
		log.Error().Err(err).Msgf("Error creating %s", name)
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
	log.Debug().Int("count", len(items)).Msgf("Wrote %s", name)
}

func (b *Backend) flush() {
	writeQueue(b.manager.DB, b.queues.Trials, "trials", b.logger)
	writeQueue(b.manager.DB, b.queues.TrialErrors, "trial errors", b.logger)
}

// startDBWriter starts the background goroutine that periodically
// drains queues into the DB.
func (b *Backend) startDBWriter() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flush()
			time.Sleep(1 * time.Second)
		}
	}()
}
