// Package watch monitors directories of survey reports and rule files and
// delivers changes in batches once the directories have been quiet for a
// debounce interval.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/fsnotify.v1"
)

// ChangeKind says what happened to a file.
type ChangeKind string

const (
	// ChangeCreate is a new file.
	ChangeCreate ChangeKind = "create"

	// ChangeModify is a write to an existing file.
	ChangeModify ChangeKind = "modify"

	// ChangeRemove is a removed or renamed-away file.
	ChangeRemove ChangeKind = "remove"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Change is the net effect on one file within a batch.
type Change struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
	At   time.Time  `json:"at"`
}

// Config configures a Watcher.
type Config struct {
	// Dirs are watched non-recursively.
	Dirs []string `yaml:"dirs" json:"dirs"`

	// Debounce is how long the directories must stay quiet before a batch
	// is delivered.
	Debounce time.Duration `yaml:"debounce" json:"debounce"`

	// Filter selects file names to report. Nil reports every file.
	Filter func(name string) bool `yaml:"-" json:"-"`
}

// Status describes a watcher.
type Status struct {
	Running   bool      `json:"running"`
	Batches   int       `json:"batches"`
	Changes   int       `json:"changes"`
	LastBatch time.Time `json:"last_batch"`
	Errors    []string  `json:"errors,omitempty"`
}

const maxErrors = 10

// Watcher delivers debounced file changes to callbacks. Callbacks run one
// at a time on the watcher's goroutine.
type Watcher struct {
	config Config
	logger *zap.Logger

	callbacks  []func([]Change) error
	callbackMu sync.RWMutex

	status   Status
	statusMu sync.RWMutex

	fsw       *fsnotify.Watcher
	done      chan struct{}
	running   bool
	runningMu sync.Mutex
}

// New creates a watcher. A nil logger discards output.
func New(config Config, logger *zap.Logger) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{config: config, logger: logger}
}

// OnChange registers a callback for each delivered batch.
func (w *Watcher) OnChange(callback func([]Change) error) {
	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching. It returns once every directory is registered;
// events are handled until Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if w.running {
		return fmt.Errorf("watcher is already running")
	}
	if len(w.config.Dirs) == 0 {
		return fmt.Errorf("no directory configured for watching")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	for _, dir := range w.config.Dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.running = true
	w.setRunning(true)

	go w.loop(ctx, fsw, w.done)

	w.logger.Info("watching directories",
		zap.Strings("dirs", w.config.Dirs),
		zap.Duration("debounce", w.config.Debounce),
	)
	return nil
}

// Stop stops watching and waits for the event loop to exit. A batch that is
// still waiting out the debounce interval is dropped.
func (w *Watcher) Stop() error {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()

	if !w.running {
		return fmt.Errorf("watcher is not running")
	}

	err := w.fsw.Close()
	<-w.done
	w.running = false
	return err
}

// Done is closed when the event loop exits, either through Stop or because
// the start context ended. It is nil before Start.
func (w *Watcher) Done() <-chan struct{} {
	w.runningMu.Lock()
	defer w.runningMu.Unlock()
	return w.done
}

// Status returns a snapshot of the watcher's counters.
func (w *Watcher) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()

	s := w.status
	s.Errors = append([]string(nil), w.status.Errors...)
	return s
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer w.setRunning(false)
	defer fsw.Close()

	pending := make(map[string]Change)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.config.Filter != nil && !w.config.Filter(filepath.Base(event.Name)) {
				continue
			}
			kind, ok := kindOf(event.Op)
			if !ok {
				continue
			}
			pending[event.Name] = Merge(pending[event.Name], Change{Path: event.Name, Kind: kind, At: time.Now()})

			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
				fire = timer.C
			} else {
				timer.Reset(w.config.Debounce)
			}

		case <-fire:
			batch := drain(pending)
			pending = make(map[string]Change)
			w.dispatch(batch)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.recordError(err.Error())
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func kindOf(op fsnotify.Op) (ChangeKind, bool) {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return ChangeCreate, true
	case op&fsnotify.Write == fsnotify.Write:
		return ChangeModify, true
	case op&fsnotify.Remove == fsnotify.Remove, op&fsnotify.Rename == fsnotify.Rename:
		return ChangeRemove, true
	}
	return "", false
}

// Merge folds a new change into the pending one for the same path. A file
// created and then written is still a creation; anything followed by a
// removal is a removal.
func Merge(prev, next Change) Change {
	if prev.Kind == ChangeCreate && next.Kind == ChangeModify {
		next.Kind = ChangeCreate
	}
	return next
}

// drain returns the pending changes sorted by path.
func drain(pending map[string]Change) []Change {
	batch := make([]Change, 0, len(pending))
	for _, c := range pending {
		batch = append(batch, c)
	}
	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch
}

func (w *Watcher) dispatch(batch []Change) {
	if len(batch) == 0 {
		return
	}

	w.statusMu.Lock()
	w.status.Batches++
	w.status.Changes += len(batch)
	w.status.LastBatch = time.Now()
	w.statusMu.Unlock()

	w.logger.Debug("dispatching changes", zap.Int("changes", len(batch)))

	w.callbackMu.RLock()
	callbacks := append([]func([]Change) error(nil), w.callbacks...)
	w.callbackMu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(batch); err != nil {
			w.recordError(err.Error())
			w.logger.Error("change callback failed", zap.Error(err))
		}
	}
}

func (w *Watcher) setRunning(running bool) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.Running = running
}

func (w *Watcher) recordError(msg string) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()

	w.status.Errors = append(w.status.Errors, msg)
	if len(w.status.Errors) > maxErrors {
		w.status.Errors = w.status.Errors[len(w.status.Errors)-maxErrors:]
	}
}
