package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"
)

// staleAfter is how old a lock file may be before it is treated as a
// leftover from a crashed session.
const staleAfter = 12 * time.Hour

// CatalogLock guards a catalog database against a second movieshelf
// instance writing to it at the same time.
type CatalogLock struct {
	path   string
	logger *slog.Logger
}

// New builds a lock for the catalog at dbPath. The lock file lives next to
// the database.
func New(dbPath string, logger *slog.Logger) *CatalogLock {
	return &CatalogLock{
		path:   filepath.Clean(dbPath + ".lock"),
		logger: logger,
	}
}

// Acquire takes the lock, removing a stale one if a previous session
// crashed. A live lock from another process is an error.
func (l *CatalogLock) Acquire() error {
	for {
		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			if _, err := fmt.Fprintf(file, "%d\n%d\n", time.Now().Unix(), os.Getpid()); err != nil {
				file.Close()
				return fmt.Errorf("failed to write lock file: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to close lock file: %w", err)
			}
			l.logger.Debug("Acquired catalog lock", slog.String("file", l.path))
			return nil
		}

		if !os.IsExist(err) {
			return fmt.Errorf("failed to create lock file: %w", err)
		}

		if l.isStale() {
			l.logger.Warn("Removing stale lock file", slog.String("file", l.path))
			if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove stale lock file: %w", err)
			}
			continue
		}

		return fmt.Errorf("catalog is in use by another movieshelf instance (lock file %s)", l.path)
	}
}

// Release removes the lock file. Releasing an already-released lock is a
// no-op.
func (l *CatalogLock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	l.logger.Debug("Released catalog lock", slog.String("file", l.path))
	return nil
}

func (l *CatalogLock) isStale() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) > staleAfter
}
