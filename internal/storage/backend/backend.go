// Package backend picks a storage.Repository implementation by name.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/people-registry/internal/config"
	"github.com/aanand-mishra/people-registry/internal/storage"
	"github.com/aanand-mishra/people-registry/internal/storage/file"
	"github.com/aanand-mishra/people-registry/internal/storage/sqlite"
)

// New returns the repository for name ("file" or "sqlite").
func New(name string, log *slog.Logger) (storage.Repository, error) {
	switch name {
	case config.BackendFile:
		return file.New(log), nil
	case config.BackendSQLite:
		return sqlite.New(log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", name)
	}
}
