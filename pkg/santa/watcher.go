package santa

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceDelay is the fixed reload coalescing window.
const debounceDelay = 250 * time.Millisecond

// ReloadFunc re-runs the layered resolver and validation, returning the
// freshly resolved view or an error describing why the reload failed.
type ReloadFunc func() (*ResolvedConfig, error)

// Diagnostic is published instead of a new view when a reload fails; the
// previous view remains current.
type Diagnostic struct {
	Err error
	At  time.Time
}

// Watcher watches a single configuration file path for change events,
// debounces rapid successive writes down to at most one reload per
// debounceDelay, and publishes either a new immutable ResolvedConfig or a
// Diagnostic on failure, narrowed from a multi-path/multi-handler file
// watcher down to a single config path with one reload callback.
type Watcher struct {
	path    string
	reload  ReloadFunc
	logger  zerolog.Logger
	fsw     *fsnotify.Watcher

	mu      sync.RWMutex
	current *ResolvedConfig

	views       chan *ResolvedConfig
	diagnostics chan Diagnostic
}

// NewWatcher constructs a Watcher for path, calling reload to produce each
// new view. initial is the already-resolved view in effect before the
// first reload.
func NewWatcher(path string, initial *ResolvedConfig, reload ReloadFunc, logger zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, NewIOError("failed to create file watcher", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, NewIOError("failed to watch config path", err)
	}

	return &Watcher{
		path:        path,
		reload:      reload,
		logger:      logger.With().Str("component", "watcher").Str("path", path).Logger(),
		fsw:         fsw,
		current:     initial,
		views:       make(chan *ResolvedConfig, 1),
		diagnostics: make(chan Diagnostic, 1),
	}, nil
}

// Current returns the most recently published resolved view.
func (w *Watcher) Current() *ResolvedConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Views is a channel of newly published resolved views, one per
// successful debounced reload.
func (w *Watcher) Views() <-chan *ResolvedConfig { return w.views }

// Diagnostics is a channel of reload failures; the previous view remains
// current when one is published.
func (w *Watcher) Diagnostics() <-chan Diagnostic { return w.diagnostics }

// Run drives the watcher until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(debounceDelay)
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("file watcher error")

		case <-timerC:
			timerC = nil
			w.doReload()
		}
	}
}

func (w *Watcher) doReload() {
	view, err := w.reload()
	if err != nil {
		w.logger.Warn().Err(err).Msg("reload failed, keeping previous view")
		select {
		case w.diagnostics <- Diagnostic{Err: err, At: time.Now()}:
		default:
		}
		return
	}

	w.mu.Lock()
	w.current = view
	w.mu.Unlock()

	w.logger.Info().Msg("configuration reloaded")
	select {
	case w.views <- view:
	default:
	}
}

// Close stops the underlying fsnotify watch.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
