// Package storage archives uploaded source documents so import runs can be
// audited after the session is gone.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// DocumentInfo contains metadata about an archived document
type DocumentInfo struct {
	SessionID  uuid.UUID `json:"session_id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Path       string    `json:"path"` // Internal storage path
	ArchivedAt time.Time `json:"archived_at"`
}

// Archive stores one source document per import session
type Archive interface {
	// Save stores the raw document bytes under the session id
	Save(ctx context.Context, sessionID uuid.UUID, filename string, data []byte) (*DocumentInfo, error)

	// Open returns the archived document for a session
	Open(ctx context.Context, sessionID uuid.UUID) (io.ReadCloser, *DocumentInfo, error)

	// Delete removes the archived document for a session
	Delete(ctx context.Context, sessionID uuid.UUID) error

	// List returns metadata for all archived documents
	List(ctx context.Context) ([]*DocumentInfo, error)
}

// Config holds archive configuration
type Config struct {
	LocalPath string `yaml:"local_path" env:"STORAGE_LOCAL_PATH" envDefault:"./uploads"`
}

// New creates the archive for the given configuration
func New(cfg *Config) (Archive, error) {
	return NewLocalArchive(cfg.LocalPath)
}
