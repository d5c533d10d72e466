package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Archive keeps a copy of every generated artifact on disk, one directory
// per event. The HTTP response streams the bytes directly; the archive is
// the durable record auditors pull from later.
type Archive struct {
	baseDir string
	logger  *zap.Logger
}

// NewArchive creates an archive rooted at baseDir. The directory is created
// lazily on first save.
func NewArchive(baseDir string, logger *zap.Logger) *Archive {
	return &Archive{baseDir: baseDir, logger: logger}
}

// Save writes an artifact under the event's directory and returns the full
// path. File names are sanitized; a name that would escape the archive root
// is rejected.
func (a *Archive) Save(eventID, fileName string, content []byte) (string, error) {
	fullPath := filepath.Join(a.baseDir, sanitizeComponent(eventID), sanitizeComponent(fileName))
	if err := a.validatePath(fullPath); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	a.logger.Debug("Artifact archived",
		zap.String("event_id", eventID),
		zap.String("path", fullPath),
		zap.Int("size", len(content)))
	return fullPath, nil
}

// List returns the file names archived for an event, in directory order.
// A missing directory means no artifacts yet, not an error.
func (a *Archive) List(eventID string) ([]string, error) {
	dir := filepath.Join(a.baseDir, sanitizeComponent(eventID))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// validatePath ensures the resolved path stays inside the archive root.
func (a *Archive) validatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	absBase, err := filepath.Abs(a.baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve archive root: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path escapes archive root: %s", fullPath)
	}
	return nil
}

// sanitizeComponent strips path separators and traversal sequences from a
// single path component.
func sanitizeComponent(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
