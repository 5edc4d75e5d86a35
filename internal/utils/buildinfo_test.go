package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindGitDirectory(testingHandle *testing.T) {
	repositoryRoot := testingHandle.TempDir()
	nestedDirectory := filepath.Join(repositoryRoot, "src", "components")
	if makeError := os.MkdirAll(filepath.Join(repositoryRoot, GitDirectoryName), 0o755); makeError != nil {
		testingHandle.Fatalf("mkdir: %v", makeError)
	}
	if makeError := os.MkdirAll(nestedDirectory, 0o755); makeError != nil {
		testingHandle.Fatalf("mkdir: %v", makeError)
	}

	found, findError := findGitDirectory(nestedDirectory)
	if findError != nil {
		testingHandle.Fatalf("findGitDirectory error: %v", findError)
	}
	resolvedRoot, _ := filepath.EvalSymlinks(repositoryRoot)
	resolvedFound, _ := filepath.EvalSymlinks(found)
	if resolvedFound != resolvedRoot {
		testingHandle.Fatalf("expected %s, got %s", resolvedRoot, resolvedFound)
	}
}

func TestGetApplicationVersionIsNeverEmpty(testingHandle *testing.T) {
	if GetApplicationVersion() == "" {
		testingHandle.Fatal("expected a version or the unknown marker")
	}
}
