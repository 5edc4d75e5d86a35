package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develBuildVersion  = "(devel)"
	gitExecutable      = "git"
	errorAbsoluteStart = "resolving %s: %w"
	errorGitNotFound   = "%s directory not found in or above %s"
)

// gitDescribeArguments are tried in order; the first non-empty answer is the version.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion returns the module version stamped into the binary, or a git
// description of the surrounding checkout for development builds.
func GetApplicationVersion() string {
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if version := buildInfo.Main.Version; version != "" && version != develBuildVersion {
			return version
		}
	}
	repositoryRoot, findError := findGitDirectory(".")
	if findError != nil {
		return unknownVersion
	}
	for _, arguments := range gitDescribeArguments {
		if description := describeRepository(repositoryRoot, arguments); description != "" {
			return description
		}
	}
	return unknownVersion
}

func describeRepository(repositoryRoot string, arguments []string) string {
	// #nosec G204
	describeCommand := exec.Command(gitExecutable, arguments...)
	describeCommand.Dir = repositoryRoot
	describeOutput, describeError := describeCommand.Output()
	if describeError != nil {
		return ""
	}
	return strings.TrimSpace(string(describeOutput))
}

// findGitDirectory walks up from startDirectory to the first directory holding a .git folder.
func findGitDirectory(startDirectory string) (string, error) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(errorAbsoluteStart, startDirectory, absoluteError)
	}
	searchRoot := currentDirectory
	for {
		if info, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && info.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf(errorGitNotFound, GitDirectoryName, searchRoot)
		}
		currentDirectory = parentDirectory
	}
}
