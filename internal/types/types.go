// Package types defines every cross‑package data structure used by the vpdoc CLI.
package types

const (
	// IndexSentinelName replaces the base name of files literally named "index".
	IndexSentinelName = "__index__"
	// IndexFileName is the name restored for sentinel files when output names are computed.
	IndexFileName = "index"
	// ReadmeBaseName is the case-insensitive base name skipped during traversal.
	ReadmeBaseName = "readme"
	// ReadmeFileName is the default README file name inside the source folder.
	ReadmeFileName = "README.md"
	// MarkdownExtension is appended to every generated page.
	MarkdownExtension = ".md"
)

// StatisticType classifies the outcome of generating one file.
type StatisticType string

const (
	StatisticEmpty   StatisticType = "EMPTY"
	StatisticError   StatisticType = "ERROR"
	StatisticExclude StatisticType = "EXCLUDE"
	StatisticInclude StatisticType = "INCLUDE"
)

// DirectoryEntity is a single directory listing entry.
type DirectoryEntity struct {
	Name  string
	IsDir bool
}

// DirectoryFile is a classified entry produced during traversal.
// Ext and Folder are empty for directories.
type DirectoryFile struct {
	Name   string `json:"name"`
	Ext    string `json:"ext,omitempty"`
	Folder string `json:"folder,omitempty"`
	Path   string `json:"path"`
	IsDir  bool   `json:"isDir"`
}

// FileName returns the on-disk file name including the extension.
func (file DirectoryFile) FileName() string {
	return OutputName(file) + file.Ext
}

// OutputName returns the file name without extension with the index sentinel restored.
func OutputName(file DirectoryFile) string {
	if file.Name == IndexSentinelName {
		return IndexFileName
	}
	return file.Name
}

// FileTreeNode is a node of the documentation tree.
// Directory nodes carry Children, leaf nodes carry Path, FullPath and Ext.
type FileTreeNode struct {
	Name     string          `json:"name"`
	Children []*FileTreeNode `json:"children,omitempty"`
	Path     string          `json:"path,omitempty"`
	FullPath string          `json:"fullPath,omitempty"`
	Ext      string          `json:"ext,omitempty"`
}

// IsDirectory reports whether the node has the directory shape.
func (node *FileTreeNode) IsDirectory() bool {
	return node.Children != nil
}

// TraversalOptions configures a single traversal.
type TraversalOptions struct {
	SourcePath string
	Include    []string
	Exclude    []string
	// MainPath anchors relative-path computation for pattern matching. When empty
	// every level matches against the entry name relative to its own directory.
	MainPath string
}

// TraversalResult holds the three collections produced by one traversal.
type TraversalResult struct {
	Paths    []DirectoryFile `json:"paths"`
	Tree     []*FileTreeNode `json:"tree"`
	Excluded []DirectoryFile `json:"excluded"`
}

// ParserConfig is the resolved configuration handed to content parsers.
type ParserConfig struct {
	SourceFolder   string
	DocsFolder     string
	JSDocConfig    string
	Partials       []string
	Helpers        []string
	WorkingDirPath string
}

// ParseResult is the output of a content parser, later annotated by the writer.
type ParseResult struct {
	Content          string
	Empty            bool
	Success          bool
	Excluded         bool
	File             DirectoryFile
	RelativePathDest string
	RelativePathSrc  string
	Dest             string
	Type             StatisticType
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}
