// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/GallupGovt/ASIST/internal/config"
	"github.com/GallupGovt/ASIST/internal/storage/gormstore"
	"github.com/GallupGovt/ASIST/internal/storage/memory"

	"github.com/rs/zerolog"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "gorm", "postgres", "sqlite":
		return gormstore.New(cfg.Gorm, log), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
