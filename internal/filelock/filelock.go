// Package filelock guards the documentation folder against concurrent runs and writes
// generated pages atomically.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("documentation folder is locked by another process")

const (
	errorCreateDirectoryFormat = "creating directory %s: %w"
	errorTryLockFormat         = "locking %s: %w"
	errorLockedFormat          = "%w: %s"
	errorUnlockFormat          = "releasing lock on %s: %w"
	errorCreateTempFormat      = "creating temporary file in %s: %w"
	errorWriteTempFormat       = "writing temporary file %s: %w"
	errorRenameFormat          = "renaming %s to %s: %w"
	temporaryFilePattern       = ".tmp-*"
	directoryPermissions       = 0o755
	filePermissions            = 0o644
)

// FileLock is an advisory, process-level lock backed by a lock file.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock returns a lock for path. Nothing is created until TryLock.
func NewFileLock(path string) *FileLock {
	return &FileLock{flock: flock.New(path), path: path}
}

// Path returns the lock file path.
func (fileLock *FileLock) Path() string {
	return fileLock.path
}

// TryLock acquires the lock without blocking, creating the parent directory when needed.
// ErrLocked is returned when another process holds it.
func (fileLock *FileLock) TryLock() error {
	lockDirectory := filepath.Dir(fileLock.path)
	if makeDirError := os.MkdirAll(lockDirectory, directoryPermissions); makeDirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, lockDirectory, makeDirError)
	}
	acquired, lockError := fileLock.flock.TryLock()
	if lockError != nil {
		return fmt.Errorf(errorTryLockFormat, fileLock.path, lockError)
	}
	if !acquired {
		return fmt.Errorf(errorLockedFormat, ErrLocked, fileLock.path)
	}
	return nil
}

// Unlock releases the lock and removes the lock file.
func (fileLock *FileLock) Unlock() error {
	if unlockError := fileLock.flock.Unlock(); unlockError != nil {
		return fmt.Errorf(errorUnlockFormat, fileLock.path, unlockError)
	}
	_ = os.Remove(fileLock.path)
	return nil
}

// AtomicWrite writes data to path through a temporary file in the same directory followed
// by a rename, so readers never observe a partial page.
func AtomicWrite(path string, data []byte) error {
	directory := filepath.Dir(path)
	if makeDirError := os.MkdirAll(directory, directoryPermissions); makeDirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, directory, makeDirError)
	}
	temporaryFile, createError := os.CreateTemp(directory, temporaryFilePattern)
	if createError != nil {
		return fmt.Errorf(errorCreateTempFormat, directory, createError)
	}
	temporaryPath := temporaryFile.Name()
	committed := false
	defer func() {
		if !committed {
			_ = temporaryFile.Close()
			_ = os.Remove(temporaryPath)
		}
	}()

	if _, writeError := temporaryFile.Write(data); writeError != nil {
		return fmt.Errorf(errorWriteTempFormat, temporaryPath, writeError)
	}
	if syncError := temporaryFile.Sync(); syncError != nil {
		return fmt.Errorf(errorWriteTempFormat, temporaryPath, syncError)
	}
	if closeError := temporaryFile.Close(); closeError != nil {
		return fmt.Errorf(errorWriteTempFormat, temporaryPath, closeError)
	}
	if chmodError := os.Chmod(temporaryPath, filePermissions); chmodError != nil {
		return fmt.Errorf(errorWriteTempFormat, temporaryPath, chmodError)
	}
	if renameError := os.Rename(temporaryPath, path); renameError != nil {
		return fmt.Errorf(errorRenameFormat, temporaryPath, path, renameError)
	}
	committed = true
	return nil
}
