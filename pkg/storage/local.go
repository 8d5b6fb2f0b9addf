package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalArchive implements Archive using the local filesystem
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a new local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(filepath.Join(basePath, ".meta"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// Save stores the raw document bytes under the session id
func (a *LocalArchive) Save(_ context.Context, sessionID uuid.UUID, filename string, data []byte) (*DocumentInfo, error) {
	storedName := fmt.Sprintf("%s_%s", sessionID.String()[:8], sanitizeFilename(filename))
	filePath := filepath.Join(a.basePath, storedName)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	info := &DocumentInfo{
		SessionID:  sessionID,
		Name:       filename,
		Size:       int64(len(data)),
		Path:       storedName,
		ArchivedAt: time.Now(),
	}
	if err := a.saveMetadata(sessionID, info); err != nil {
		os.Remove(filePath)
		return nil, err
	}
	return info, nil
}

// Open returns the archived document for a session
func (a *LocalArchive) Open(ctx context.Context, sessionID uuid.UUID) (io.ReadCloser, *DocumentInfo, error) {
	info, err := a.getInfo(sessionID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(a.basePath, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document: %w", err)
	}
	return f, info, nil
}

// Delete removes the archived document for a session
func (a *LocalArchive) Delete(_ context.Context, sessionID uuid.UUID) error {
	info, err := a.getInfo(sessionID)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(a.basePath, info.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	os.Remove(a.metaPath(sessionID))
	return nil
}

// List returns metadata for all archived documents
func (a *LocalArchive) List(_ context.Context) ([]*DocumentInfo, error) {
	entries, err := os.ReadDir(filepath.Join(a.basePath, ".meta"))
	if err != nil {
		if os.IsNotExist(err) {
			return []*DocumentInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	docs := make([]*DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		info, err := a.getInfo(id)
		if err != nil {
			continue
		}
		docs = append(docs, info)
	}
	return docs, nil
}

func (a *LocalArchive) getInfo(sessionID uuid.UUID) (*DocumentInfo, error) {
	data, err := os.ReadFile(a.metaPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no archived document for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info DocumentInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &info, nil
}

func (a *LocalArchive) saveMetadata(sessionID uuid.UUID, info *DocumentInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(a.metaPath(sessionID), data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func (a *LocalArchive) metaPath(sessionID uuid.UUID) string {
	return filepath.Join(a.basePath, ".meta", sessionID.String()+".json")
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
