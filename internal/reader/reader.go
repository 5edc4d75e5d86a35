// Package reader lists directory entries for the tree builder.
package reader

import (
	"fmt"
	"os"

	"github.com/temirov/vpdoc/internal/types"
)

// errorReadDirectoryFormat is used when a directory cannot be read.
const errorReadDirectoryFormat = "reading directory %s: %w"

// DirectoryReader lists the immediate entries of a directory.
type DirectoryReader interface {
	ListEntries(directoryPath string) ([]types.DirectoryEntity, error)
	IsDirectory(entity types.DirectoryEntity) bool
}

// OSDirectoryReader reads directories from the host file system. Every call re-reads the disk.
type OSDirectoryReader struct{}

// NewOSDirectoryReader returns a DirectoryReader backed by os.ReadDir.
func NewOSDirectoryReader() OSDirectoryReader {
	return OSDirectoryReader{}
}

// ListEntries returns the entries of directoryPath in the order reported by os.ReadDir.
func (OSDirectoryReader) ListEntries(directoryPath string) ([]types.DirectoryEntity, error) {
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}
	entities := make([]types.DirectoryEntity, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entities = append(entities, types.DirectoryEntity{
			Name:  directoryEntry.Name(),
			IsDir: directoryEntry.IsDir(),
		})
	}
	return entities, nil
}

// IsDirectory reports whether the entity is a directory.
func (OSDirectoryReader) IsDirectory(entity types.DirectoryEntity) bool {
	return entity.IsDir
}
