package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the bursts of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher reports changes to a single file. The parent directory is
// watched so that files replaced by rename are still seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	target   string
	debounce time.Duration
	logger   zerolog.Logger
	onChange func(path string, op fsnotify.Op)
}

// Option configures a FileWatcher
type Option func(*FileWatcher)

// WithDebounce sets the quiet period before onChange fires.
func WithDebounce(d time.Duration) Option {
	return func(fw *FileWatcher) {
		fw.debounce = d
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(fw *FileWatcher) {
		fw.logger = logger
	}
}

// NewFileWatcher creates a watcher for path
func NewFileWatcher(path string, onChange func(path string, op fsnotify.Op), options ...Option) (*FileWatcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		target:   target,
		debounce: DefaultDebounce,
		logger:   zerolog.Nop(),
		onChange: onChange,
	}
	for _, option := range options {
		option(fw)
	}
	fw.logger = fw.logger.With().Str("component", "watch").Logger()

	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return fw, nil
}

// Start begins watching for changes. It blocks until ctx is done or the
// watcher is closed.
func (fw *FileWatcher) Start(ctx context.Context) error {
	var (
		pending <-chan time.Time
		lastOp  fsnotify.Op
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if fw.shouldWatch(event) {
				lastOp = event.Op
				pending = time.After(fw.debounce)
			}

		case <-pending:
			pending = nil
			fw.onChange(fw.target, lastOp)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch reports whether event changes the watched file's content.
func (fw *FileWatcher) shouldWatch(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != fw.target {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
