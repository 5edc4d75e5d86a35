package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/vpdoc/internal/output"
	"github.com/temirov/vpdoc/internal/types"
)

func parseResult(content string, empty bool) *types.ParseResult {
	return &types.ParseResult{
		Content:          content,
		Empty:            empty,
		Success:          !empty,
		File:             types.DirectoryFile{Name: types.IndexSentinelName, Ext: ".ts", Folder: "src/"},
		RelativePathDest: "docs",
		RelativePathSrc:  "src/",
		Dest:             "docs",
	}
}

func TestWriteClassifiesResults(t *testing.T) {
	testCases := []struct {
		name         string
		result       *types.ParseResult
		expectedType types.StatisticType
		expectFile   bool
	}{
		{name: "included", result: parseResult("# page", false), expectedType: types.StatisticInclude, expectFile: true},
		{name: "empty", result: parseResult("---\ntitle: index\n---\n", true), expectedType: types.StatisticEmpty, expectFile: true},
		{name: "no content", result: parseResult("", true), expectedType: types.StatisticError},
		{
			name: "excluded",
			result: func() *types.ParseResult {
				excluded := parseResult("", true)
				excluded.Excluded = true
				return excluded
			}(),
			expectedType: types.StatisticExclude,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workingDirectory := t.TempDir()
			writer := output.NewWriter(workingDirectory)

			annotated, writeError := writer.Write(testCase.result, "docs")
			require.NoError(t, writeError)
			assert.Equal(t, testCase.expectedType, annotated.Type)
			assert.Equal(t, types.StatisticType(""), testCase.result.Type, "input must not be mutated")

			pagePath := filepath.Join(workingDirectory, "docs", "index.md")
			content, readError := os.ReadFile(pagePath)
			if !testCase.expectFile {
				assert.ErrorIs(t, readError, os.ErrNotExist)
				return
			}
			require.NoError(t, readError)
			assert.Equal(t, testCase.result.Content, string(content))
		})
	}
}

func TestWriteRejectsMissingInput(t *testing.T) {
	writer := output.NewWriter(t.TempDir())

	_, writeError := writer.Write(nil, "docs")
	assert.ErrorIs(t, writeError, output.ErrMissingResult)

	withoutDestination := parseResult("# page", false)
	withoutDestination.Dest = ""
	_, writeError = writer.Write(withoutDestination, "docs")
	assert.ErrorIs(t, writeError, output.ErrMissingDestination)
}

func TestWriteFailureIsReportedAsError(t *testing.T) {
	workingDirectory := t.TempDir()
	blockingFile := filepath.Join(workingDirectory, "docs")
	require.NoError(t, os.WriteFile(blockingFile, []byte("not a directory"), 0o644))

	annotated, writeError := output.NewWriter(workingDirectory).Write(parseResult("# page", false), "docs")
	require.Error(t, writeError)
	require.NotNil(t, annotated)
	assert.Equal(t, types.StatisticError, annotated.Type)
}

func TestReporterPrintStats(t *testing.T) {
	var buffer bytes.Buffer
	reporter := output.NewReporter(&buffer, false)

	included := parseResult("# page", false)
	included.Type = types.StatisticInclude
	excluded := []types.DirectoryFile{{Name: "a.test", Ext: ".ts", Folder: "src/"}}

	reporter.PrintStats(excluded, []*types.ParseResult{included, nil})

	expected := " EXCLUDE src/a.test.ts\n\n INCLUDE src/index.ts -> " + filepath.Join("docs", "index.md") + "\n"
	assert.Equal(t, expected, buffer.String())
}

func TestReporterClearsLineOnlyWhenInteractive(t *testing.T) {
	file := types.DirectoryFile{Name: "a", Ext: ".ts"}

	var plain bytes.Buffer
	output.NewReporter(&plain, false).PrintUpdate(file)
	assert.Equal(t, "update a.ts\n", plain.String())

	var terminal bytes.Buffer
	output.NewReporter(&terminal, true).PrintUpdate(file)
	assert.Equal(t, "\r\x1b[2Kupdate a.ts\n", terminal.String())
}

func TestReporterReadmeLines(t *testing.T) {
	var buffer bytes.Buffer
	reporter := output.NewReporter(&buffer, false)

	reporter.PrintReadme("", "docs/README.md")
	reporter.PrintReadme("src/README.md", "docs/README.md")
	reporter.PrintElapsed(1.5)

	assert.Equal(t, "\n README  Add default README.md\n\n README  src/README.md -> docs/README.md\n\n Time elapsed: 1.50s\n", buffer.String())
}
