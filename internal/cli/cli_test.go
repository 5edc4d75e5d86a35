package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/vpdoc/internal/filelock"
	"github.com/temirov/vpdoc/internal/utils"
)

const documentedModule = "/**\n * Adds numbers.\n * @param {number} a first\n */\nexport function add(a) { return a }\n"

func writeTestFile(testingHandle *testing.T, path string, content string) {
	testingHandle.Helper()
	require.NoError(testingHandle, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testingHandle, os.WriteFile(path, []byte(content), 0o644))
}

// prepareWorkspace isolates the working and home directories of a command run.
func prepareWorkspace(testingHandle *testing.T) string {
	testingHandle.Helper()
	workspace := testingHandle.TempDir()
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	originalDirectory, getwdError := os.Getwd()
	require.NoError(testingHandle, getwdError)
	require.NoError(testingHandle, os.Chdir(workspace))
	testingHandle.Cleanup(func() { _ = os.Chdir(originalDirectory) })
	return workspace
}

func executeCommand(testingHandle *testing.T, arguments ...string) (string, error) {
	testingHandle.Helper()
	rootCommand := createRootCommand(zap.NewNop())
	outputBuffer := &bytes.Buffer{}
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(outputBuffer)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	executeError := rootCommand.Execute()
	return outputBuffer.String(), executeError
}

func TestGenerateCommandWritesPages(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "math.js"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "math.test.js"), documentedModule)

	commandOutput, executeError := executeCommand(testingHandle, "gen", "--exclude", "*.test.js", "--title", "Math")
	require.NoError(testingHandle, executeError)

	pageContent, readError := os.ReadFile(filepath.Join(workspace, "docs", "code", "math.md"))
	require.NoError(testingHandle, readError)
	assert.True(testingHandle, strings.HasPrefix(string(pageContent), "---\ntitle: math\n---\n"))
	assert.NoFileExists(testingHandle, filepath.Join(workspace, "docs", "code", "math.test.md"))

	readmeContent, readmeError := os.ReadFile(filepath.Join(workspace, "docs", "code", "README.md"))
	require.NoError(testingHandle, readmeError)
	assert.Contains(testingHandle, string(readmeContent), "Math")

	assert.Contains(testingHandle, commandOutput, " INCLUDE ")
	assert.Contains(testingHandle, commandOutput, " EXCLUDE ")
	assert.Contains(testingHandle, commandOutput, "Add default README.md")
	assert.NoFileExists(testingHandle, filepath.Join(workspace, "docs", utils.LockFileName))
}

func TestRootCommandUsesConfigurationFile(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "lib", "util.ts"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, utils.ConfigFileName), "source: ./lib\nfolder: api\ninclude: \"*.ts\"\n")

	_, executeError := executeCommand(testingHandle)
	require.NoError(testingHandle, executeError)
	assert.FileExists(testingHandle, filepath.Join(workspace, "docs", "api", "util.md"))

	_, overrideError := executeCommand(testingHandle, "-f", "reference")
	require.NoError(testingHandle, overrideError)
	assert.FileExists(testingHandle, filepath.Join(workspace, "docs", "reference", "util.md"))
}

func TestGenerateCommandRejectsInvalidPattern(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "a.js"), documentedModule)

	_, executeError := executeCommand(testingHandle, "--include", "[")
	require.Error(testingHandle, executeError)
	assert.NoDirExists(testingHandle, filepath.Join(workspace, "docs", "code"))
}

func TestGenerateCommandFailsWhenLocked(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "a.js"), documentedModule)

	heldLock := filelock.NewFileLock(filepath.Join(workspace, "docs", utils.LockFileName))
	require.NoError(testingHandle, heldLock.TryLock())
	defer heldLock.Unlock()

	_, executeError := executeCommand(testingHandle)
	require.ErrorIs(testingHandle, executeError, filelock.ErrLocked)
}

func TestInitCommandWritesConfiguration(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)

	commandOutput, executeError := executeCommand(testingHandle, "init")
	require.NoError(testingHandle, executeError)
	configurationPath := filepath.Join(workspace, utils.ConfigFileName)
	assert.FileExists(testingHandle, configurationPath)
	assert.Contains(testingHandle, commandOutput, utils.ConfigFileName)

	_, repeatError := executeCommand(testingHandle, "init")
	require.Error(testingHandle, repeatError)

	_, forceError := executeCommand(testingHandle, "init", "--force")
	require.NoError(testingHandle, forceError)
}

func TestInitTemplateDocumentsEverySupportedType(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "a.ts"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "b.js"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "c.vue"), "<script>\nexport default { props: ['label'] }\n</script>\n")
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "notes.txt"), "plain")

	_, initError := executeCommand(testingHandle, "init")
	require.NoError(testingHandle, initError)
	commandOutput, executeError := executeCommand(testingHandle)
	require.NoError(testingHandle, executeError)

	codeFolder := filepath.Join(workspace, "docs", "code")
	assert.FileExists(testingHandle, filepath.Join(codeFolder, "a.md"))
	assert.FileExists(testingHandle, filepath.Join(codeFolder, "b.md"))
	assert.FileExists(testingHandle, filepath.Join(codeFolder, "c.md"))
	assert.Contains(testingHandle, commandOutput, " EXCLUDE "+filepath.Join("src", "notes.txt"))
}

func TestIncludeFlagKeepsBraceAlternatives(testingHandle *testing.T) {
	workspace := prepareWorkspace(testingHandle)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "a.ts"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "b.js"), documentedModule)
	writeTestFile(testingHandle, filepath.Join(workspace, "src", "c.mjs"), documentedModule)

	_, executeError := executeCommand(testingHandle, "-i", "*.{ts,js}")
	require.NoError(testingHandle, executeError)

	codeFolder := filepath.Join(workspace, "docs", "code")
	assert.FileExists(testingHandle, filepath.Join(codeFolder, "a.md"))
	assert.FileExists(testingHandle, filepath.Join(codeFolder, "b.md"))
	assert.NoFileExists(testingHandle, filepath.Join(codeFolder, "c.md"))
}
