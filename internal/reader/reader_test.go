package reader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/vpdoc/internal/reader"
	"github.com/temirov/vpdoc/internal/types"
)

// TestListEntries verifies names and directory flags are reported for every entry.
func TestListEntries(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	if makeDirError := os.Mkdir(filepath.Join(rootDirectory, "sub"), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir: %v", makeDirError)
	}
	if writeError := os.WriteFile(filepath.Join(rootDirectory, "a.ts"), []byte("x"), 0o644); writeError != nil {
		testingHandle.Fatalf("write: %v", writeError)
	}

	directoryReader := reader.NewOSDirectoryReader()
	entities, listError := directoryReader.ListEntries(rootDirectory)
	if listError != nil {
		testingHandle.Fatalf("ListEntries error: %v", listError)
	}
	if len(entities) != 2 {
		testingHandle.Fatalf("expected 2 entries, got %d", len(entities))
	}
	byName := map[string]types.DirectoryEntity{}
	for _, entity := range entities {
		byName[entity.Name] = entity
	}
	if !directoryReader.IsDirectory(byName["sub"]) {
		testingHandle.Fatalf("expected sub to be a directory")
	}
	if directoryReader.IsDirectory(byName["a.ts"]) {
		testingHandle.Fatalf("expected a.ts to be a file")
	}
}

// TestListEntriesMissingDirectory verifies a missing directory yields an error.
func TestListEntriesMissingDirectory(testingHandle *testing.T) {
	missingPath := filepath.Join(testingHandle.TempDir(), "missing")
	if _, listError := reader.NewOSDirectoryReader().ListEntries(missingPath); listError == nil {
		testingHandle.Fatalf("expected error for missing directory")
	}
}
