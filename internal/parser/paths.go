package parser

import (
	"path/filepath"
	"strings"

	"github.com/temirov/vpdoc/internal/types"
)

// ComputePaths returns the destination folder relative to the working directory and its
// absolute form. The source folder prefix is removed from the file folder.
func ComputePaths(file types.DirectoryFile, config types.ParserConfig) (string, string) {
	folderInSource := file.Folder
	sourceFolder := filepath.Clean(config.SourceFolder)
	if config.SourceFolder != "" && sourceFolder != "." {
		folderInSource = strings.TrimPrefix(folderInSource, sourceFolder)
	}
	relativePathDest := filepath.Join(config.DocsFolder, folderInSource)
	workingDirectory := config.WorkingDirPath
	if filepath.IsAbs(relativePathDest) || workingDirectory == "" {
		return relativePathDest, relativePathDest
	}
	return relativePathDest, filepath.Join(workingDirectory, relativePathDest)
}

// newResult fills the path fields shared by every parser.
func newResult(file types.DirectoryFile, config types.ParserConfig, content string, success bool) *types.ParseResult {
	relativePathDest, folderInDest := ComputePaths(file, config)
	return &types.ParseResult{
		Content:          content,
		Success:          success,
		Empty:            !success,
		File:             file,
		RelativePathDest: relativePathDest,
		RelativePathSrc:  file.Folder,
		Dest:             folderInDest,
	}
}
