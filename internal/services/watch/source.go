package watch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/temirov/vpdoc/internal/utils"
)

// DefaultDebounceDelay coalesces the bursts of writes editors produce on save.
const DefaultDebounceDelay = 100 * time.Millisecond

const (
	eventBufferSize = 128
	errorBufferSize = 16
)

// EventSource delivers the paths of changed files.
type EventSource interface {
	Events() <-chan string
	Errors() <-chan error
	Close() error
}

// FSNotifySource watches a source folder recursively plus individual files and emits
// debounced change paths. Hidden directories are not watched; hidden files inside watched
// directories are reported like any other file.
type FSNotifySource struct {
	watcher      *fsnotify.Watcher
	events       chan string
	errors       chan error
	done         chan struct{}
	rootDir      string
	watchedFiles map[string]struct{}

	mu            sync.Mutex
	debounceDelay time.Duration
	debounceMap   map[string]*time.Timer
	closed        bool
}

// NewFSNotifySource watches every non-hidden directory below rootDir and the parent
// directories of files. Events from those parents are limited to files themselves.
func NewFSNotifySource(rootDir string, files []string, debounceDelay time.Duration) (*FSNotifySource, error) {
	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return nil, watcherError
	}
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounceDelay
	}
	source := &FSNotifySource{
		watcher:       watcher,
		events:        make(chan string, eventBufferSize),
		errors:        make(chan error, errorBufferSize),
		done:          make(chan struct{}),
		rootDir:       filepath.Clean(rootDir),
		watchedFiles:  map[string]struct{}{},
		debounceDelay: debounceDelay,
		debounceMap:   map[string]*time.Timer{},
	}

	if addError := source.addRecursive(source.rootDir); addError != nil {
		_ = watcher.Close()
		return nil, addError
	}
	for _, file := range files {
		if file == "" {
			continue
		}
		cleaned := filepath.Clean(file)
		source.watchedFiles[cleaned] = struct{}{}
		if source.withinRoot(cleaned) {
			continue
		}
		if addError := watcher.Add(filepath.Dir(cleaned)); addError != nil && !errors.Is(addError, fs.ErrNotExist) {
			_ = watcher.Close()
			return nil, addError
		}
	}

	go source.processEvents()
	return source, nil
}

// withinRoot reports whether path lies below the root. fsnotify names events relative to a
// relative root, so a root of "." contains every relative path that does not climb out.
func (source *FSNotifySource) withinRoot(path string) bool {
	if source.rootDir == "." {
		return !filepath.IsAbs(path) && path != ".." && !strings.HasPrefix(path, ".."+string(filepath.Separator))
	}
	return path == source.rootDir || strings.HasPrefix(path, source.rootDir+string(filepath.Separator))
}

// addRecursive adds dir and its non-hidden subdirectories.
func (source *FSNotifySource) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			if errors.Is(walkError, fs.ErrNotExist) {
				return nil
			}
			return walkError
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && utils.IsHiddenPath(entry.Name()) {
			return filepath.SkipDir
		}
		if addError := source.watcher.Add(path); addError != nil {
			if errors.Is(addError, fs.ErrPermission) {
				return nil
			}
			return addError
		}
		return nil
	})
}

func (source *FSNotifySource) processEvents() {
	for {
		select {
		case <-source.done:
			return
		case event, ok := <-source.watcher.Events:
			if !ok {
				return
			}
			source.handleEvent(event)
		case watchError, ok := <-source.watcher.Errors:
			if !ok {
				return
			}
			source.reportError(watchError)
		}
	}
}

func (source *FSNotifySource) reportError(watchError error) {
	select {
	case source.errors <- watchError:
	default:
	}
}

func (source *FSNotifySource) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !source.withinRoot(path) {
		if _, watched := source.watchedFiles[path]; !watched {
			return
		}
	} else if event.Has(fsnotify.Create) {
		if info, statError := os.Stat(path); statError == nil && info.IsDir() {
			if !utils.IsHiddenPath(utils.RelativePathOrSelf(path, source.rootDir)) {
				if addError := source.addRecursive(path); addError != nil {
					source.reportError(addError)
				}
			}
			return
		}
	}
	source.debounce(path)
}

func (source *FSNotifySource) debounce(path string) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.closed {
		return
	}
	if timer, exists := source.debounceMap[path]; exists {
		timer.Stop()
	}
	source.debounceMap[path] = time.AfterFunc(source.debounceDelay, func() {
		source.mu.Lock()
		delete(source.debounceMap, path)
		source.mu.Unlock()
		source.send(path)
	})
}

func (source *FSNotifySource) send(path string) {
	select {
	case source.events <- path:
	case <-source.done:
	}
}

// Events returns the debounced change paths.
func (source *FSNotifySource) Events() <-chan string {
	return source.events
}

// Errors returns watcher errors. Errors are dropped when nobody reads them.
func (source *FSNotifySource) Errors() <-chan error {
	return source.errors
}

// Close stops pending timers and the underlying watcher.
func (source *FSNotifySource) Close() error {
	source.mu.Lock()
	if source.closed {
		source.mu.Unlock()
		return nil
	}
	source.closed = true
	for _, timer := range source.debounceMap {
		timer.Stop()
	}
	source.debounceMap = nil
	source.mu.Unlock()

	close(source.done)
	return source.watcher.Close()
}
