// Package commands contains the core traversal logic shared by generation and watch mode.
package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/vpdoc/internal/types"
)

const (
	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// errorEmptySourceFormat is used when no source path was configured.
	errorEmptySourceFormat = "building tree: source path is empty"
)

// Build walks Options.SourcePath depth first and returns eligible files, the tree and
// excluded files. A listing failure anywhere aborts the traversal.
func (treeBuilder *TreeBuilder) Build() (types.TraversalResult, error) {
	if treeBuilder.Options.SourcePath == "" {
		return types.TraversalResult{}, fmt.Errorf(errorEmptySourceFormat)
	}
	result, buildError := treeBuilder.buildLevel(treeBuilder.Options.SourcePath)
	if buildError != nil {
		return types.TraversalResult{}, fmt.Errorf(errorBuildTreeFormat, treeBuilder.Options.SourcePath, buildError)
	}
	return result, nil
}

// buildLevel processes one directory and composes the results of its subdirectories.
// The anchor path is threaded unchanged through every level.
func (treeBuilder *TreeBuilder) buildLevel(currentDirectoryPath string) (types.TraversalResult, error) {
	result := types.TraversalResult{
		Paths:    []types.DirectoryFile{},
		Tree:     []*types.FileTreeNode{},
		Excluded: []types.DirectoryFile{},
	}

	entities, listError := treeBuilder.Reader.ListEntries(currentDirectoryPath)
	if listError != nil {
		return types.TraversalResult{}, listError
	}

	for _, entity := range entities {
		directoryFile := NewDirectoryFile(currentDirectoryPath, entity, treeBuilder.Reader.IsDirectory(entity))
		if isReadme(directoryFile) {
			continue
		}

		if !treeBuilder.Filter.ShouldInclude(entity, currentDirectoryPath, treeBuilder.Options.MainPath) {
			result.Excluded = append(result.Excluded, directoryFile)
			continue
		}

		if directoryFile.IsDir {
			childResult, childError := treeBuilder.buildLevel(directoryFile.Path)
			if childError != nil {
				return types.TraversalResult{}, childError
			}
			result.Tree = append(result.Tree, &types.FileTreeNode{
				Name:     directoryFile.Name,
				Children: childResult.Tree,
			})
			result.Paths = append(result.Paths, childResult.Paths...)
			result.Excluded = append(result.Excluded, childResult.Excluded...)
			continue
		}

		result.Tree = append(result.Tree, newLeafNode(directoryFile))
		result.Paths = append(result.Paths, directoryFile)
	}

	return result, nil
}

// NewDirectoryFile classifies entity found in parentPath. Files lose their extension from
// the name and get Ext and Folder; a base name of "index" becomes the sentinel name.
func NewDirectoryFile(parentPath string, entity types.DirectoryEntity, isDirectory bool) types.DirectoryFile {
	fullPath := filepath.Join(parentPath, entity.Name)
	if isDirectory {
		return types.DirectoryFile{
			Name:  sentinelName(entity.Name),
			Path:  fullPath,
			IsDir: true,
		}
	}
	extension := fileExtension(entity.Name)
	return types.DirectoryFile{
		Name:   sentinelName(strings.TrimSuffix(entity.Name, extension)),
		Ext:    extension,
		Folder: filepath.Dir(fullPath) + string(filepath.Separator),
		Path:   fullPath,
	}
}

// fileExtension returns the extension of name. A leading dot starts the base name, so
// ".eslintrc" has no extension while ".eslintrc.js" has ".js".
func fileExtension(name string) string {
	extension := filepath.Ext(name)
	if extension == name {
		return ""
	}
	return extension
}

func sentinelName(name string) string {
	if name == types.IndexFileName {
		return types.IndexSentinelName
	}
	return name
}

func isReadme(directoryFile types.DirectoryFile) bool {
	return strings.EqualFold(directoryFile.Name, types.ReadmeBaseName)
}

func newLeafNode(directoryFile types.DirectoryFile) *types.FileTreeNode {
	return &types.FileTreeNode{
		Name:     directoryFile.Name,
		Path:     "/" + directoryFile.Name,
		FullPath: directoryFile.Path,
		Ext:      directoryFile.Ext,
	}
}

// CountTreeNodes returns the number of leaf and directory nodes in tree.
func CountTreeNodes(tree []*types.FileTreeNode) (int, int) {
	var leaves int
	var directories int
	for _, node := range tree {
		if node == nil {
			continue
		}
		if node.IsDirectory() {
			directories++
			childLeaves, childDirectories := CountTreeNodes(node.Children)
			leaves += childLeaves
			directories += childDirectories
			continue
		}
		leaves++
	}
	return leaves, directories
}
