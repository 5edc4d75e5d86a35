package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/vpdoc/internal/metrics"
	"github.com/temirov/vpdoc/internal/services/watch"
	"github.com/temirov/vpdoc/internal/types"
	"github.com/temirov/vpdoc/internal/utils"
)

const sourceFolder = "src"

type channelSource struct {
	events chan string
	errors chan error
	closed bool
}

func newChannelSource() *channelSource {
	return &channelSource{events: make(chan string, 8), errors: make(chan error, 1)}
}

func (source *channelSource) Events() <-chan string { return source.events }
func (source *channelSource) Errors() <-chan error  { return source.errors }
func (source *channelSource) Close() error {
	source.closed = true
	return nil
}

type fakeGenerator struct {
	mu            sync.Mutex
	paths         []types.DirectoryFile
	traverseError error
	generated     []string
}

func (generator *fakeGenerator) Traverse() (types.TraversalResult, error) {
	if generator.traverseError != nil {
		return types.TraversalResult{}, generator.traverseError
	}
	return types.TraversalResult{Paths: generator.paths}, nil
}

func (generator *fakeGenerator) GenerateFile(ctx context.Context, file types.DirectoryFile) *types.ParseResult {
	generator.mu.Lock()
	defer generator.mu.Unlock()
	generator.generated = append(generator.generated, file.Path)
	return &types.ParseResult{File: file, Type: types.StatisticInclude}
}

func (generator *fakeGenerator) generatedPaths() []string {
	generator.mu.Lock()
	defer generator.mu.Unlock()
	return append([]string(nil), generator.generated...)
}

type countingReadme struct {
	mu    sync.Mutex
	calls int
}

func (readme *countingReadme) Generate(deletedPaths []string) error {
	readme.mu.Lock()
	defer readme.mu.Unlock()
	readme.calls++
	return nil
}

func (readme *countingReadme) count() int {
	readme.mu.Lock()
	defer readme.mu.Unlock()
	return readme.calls
}

type recordingReporter struct {
	updates []string
}

func (reporter *recordingReporter) PrintWatching() {}
func (reporter *recordingReporter) PrintUpdate(file types.DirectoryFile) {
	reporter.updates = append(reporter.updates, file.FileName())
}

func newWatcher(generator *fakeGenerator, readme *countingReadme) (*watch.Watcher, *recordingReporter) {
	reporter := &recordingReporter{}
	return &watch.Watcher{
		Options:   watch.Options{SourceFolder: sourceFolder, ReadmePath: "README.md"},
		Source:    newChannelSource(),
		Generator: generator,
		Readme:    readme,
		Reporter:  reporter,
		Metrics:   metrics.New(),
	}, reporter
}

func eligibleFile() types.DirectoryFile {
	return types.DirectoryFile{Name: "a", Ext: ".ts", Folder: sourceFolder + "/", Path: filepath.Join(sourceFolder, "a.ts")}
}

func TestHandleChangeRegeneratesEligibleFile(t *testing.T) {
	generator := &fakeGenerator{paths: []types.DirectoryFile{eligibleFile()}}
	readme := &countingReadme{}
	watcher, reporter := newWatcher(generator, readme)

	outcome := watcher.HandleChange(context.Background(), filepath.Join(sourceFolder, "a.ts"))

	assert.Equal(t, metrics.OutcomeRegenerated, outcome)
	assert.Equal(t, []string{filepath.Join(sourceFolder, "a.ts")}, generator.generatedPaths())
	assert.Equal(t, []string{"a.ts"}, reporter.updates)
	assert.Zero(t, readme.count())
}

func TestHandleChangeRegeneratesReadmeWithoutTreeMatch(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{name: "override", path: "README.md"},
		{name: "source default", path: filepath.Join(sourceFolder, "README.md")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			generator := &fakeGenerator{paths: []types.DirectoryFile{eligibleFile()}}
			readme := &countingReadme{}
			watcher, _ := newWatcher(generator, readme)

			outcome := watcher.HandleChange(context.Background(), testCase.path)

			assert.Equal(t, metrics.OutcomeReadme, outcome)
			assert.Equal(t, 1, readme.count())
			assert.Empty(t, generator.generatedPaths())
		})
	}
}

func TestHandleChangeIgnoresUnknownPath(t *testing.T) {
	generator := &fakeGenerator{paths: []types.DirectoryFile{eligibleFile()}}
	readme := &countingReadme{}
	watcher, _ := newWatcher(generator, readme)

	outcome := watcher.HandleChange(context.Background(), filepath.Join(sourceFolder, "a.test.ts"))

	assert.Equal(t, metrics.OutcomeIgnored, outcome)
	assert.Empty(t, generator.generatedPaths())
	assert.Zero(t, readme.count())
}

func TestHandleChangeSurvivesTraversalFailure(t *testing.T) {
	generator := &fakeGenerator{traverseError: errors.New("gone")}
	watcher, _ := newWatcher(generator, &countingReadme{})

	assert.Equal(t, metrics.OutcomeFailed, watcher.HandleChange(context.Background(), "src/a.ts"))
}

func TestRunHandlesEventsInOrderUntilCancelled(t *testing.T) {
	second := types.DirectoryFile{Name: "b", Ext: ".ts", Folder: sourceFolder + "/", Path: filepath.Join(sourceFolder, "b.ts")}
	generator := &fakeGenerator{paths: []types.DirectoryFile{eligibleFile(), second}}
	watcher, _ := newWatcher(generator, &countingReadme{})
	source := watcher.Source.(*channelSource)

	source.events <- second.Path
	source.events <- eligibleFile().Path

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- watcher.Run(ctx) }()

	require.Eventually(t, func() bool { return len(generator.generatedPaths()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-finished)

	assert.Equal(t, []string{second.Path, eligibleFile().Path}, generator.generatedPaths())
	assert.True(t, source.closed)
}

func TestFSNotifySourceDebouncesWrites(t *testing.T) {
	rootDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(rootDir, ".git"), 0o755))
	source, sourceError := watch.NewFSNotifySource(rootDir, nil, 20*time.Millisecond)
	require.NoError(t, sourceError)
	defer source.Close()

	targetPath := filepath.Join(rootDir, "a.ts")
	for iteration := 0; iteration < 3; iteration++ {
		require.NoError(t, os.WriteFile(targetPath, []byte("export const a = 1;"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(rootDir, ".git", "HEAD"), []byte("ref"), 0o644))

	select {
	case path := <-source.Events():
		assert.Equal(t, targetPath, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	select {
	case path := <-source.Events():
		t.Fatalf("unexpected second event for %s", path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFSNotifySourceWithCurrentDirectoryRoot(t *testing.T) {
	workingDirectory := t.TempDir()
	originalDirectory, getwdError := os.Getwd()
	require.NoError(t, getwdError)
	require.NoError(t, os.Chdir(workingDirectory))
	t.Cleanup(func() { _ = os.Chdir(originalDirectory) })
	require.NoError(t, os.MkdirAll("sub", 0o755))

	source, sourceError := watch.NewFSNotifySource(utils.NormalizeSourceFolder("./"), []string{"README.md"}, 20*time.Millisecond)
	require.NoError(t, sourceError)
	defer source.Close()

	expectEvent := func(expected string) {
		t.Helper()
		select {
		case path := <-source.Events():
			assert.Equal(t, expected, path)
		case <-time.After(2 * time.Second):
			t.Fatalf("no event received for %s", expected)
		}
	}

	require.NoError(t, os.WriteFile("a.ts", []byte("export const a = 1;"), 0o644))
	expectEvent("a.ts")
	require.NoError(t, os.WriteFile(filepath.Join("sub", "b.ts"), []byte("export const b = 1;"), 0o644))
	expectEvent(filepath.Join("sub", "b.ts"))
	require.NoError(t, os.WriteFile(".hidden.ts", []byte("export const c = 1;"), 0o644))
	expectEvent(".hidden.ts")
}
