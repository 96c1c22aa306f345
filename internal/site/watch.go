package site

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitebuilder/internal/config"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
	"git.home.luguber.info/inful/sitebuilder/internal/metrics"
)

// DefaultWatchDebounce groups bursts of file events into one copy.
const DefaultWatchDebounce = 300 * time.Millisecond

// Watcher re-runs passthrough copies when their sources change. Deleted
// sources are not removed from the output tree.
type Watcher struct {
	rules    []PassthroughResult
	sources  []string // resolved rule sources; fsnotify reports real paths
	debounce time.Duration
	logger   *slog.Logger
	recorder metrics.Recorder

	// OnCopy, when set, is called after every re-copy.
	OnCopy func(PassthroughResult, error)

	readyOnce sync.Once
	ready     chan struct{}
}

// NewWatcher watches the passthrough sources of a finished build.
func NewWatcher(report *Report) *Watcher {
	rules := make([]PassthroughResult, len(report.Passthrough))
	copy(rules, report.Passthrough)
	sources := make([]string, len(rules))
	for i, r := range rules {
		sources[i] = r.Source
		if real, err := filepath.EvalSymlinks(r.Source); err == nil {
			sources[i] = real
		}
	}
	return &Watcher{
		rules:    rules,
		sources:  sources,
		debounce: DefaultWatchDebounce,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		ready:    make(chan struct{}),
	}
}

// WithDebounce overrides the debounce interval.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// WithLogger sets the logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// WithRecorder sets the metrics recorder.
func (w *Watcher) WithRecorder(r metrics.Recorder) *Watcher {
	if r != nil {
		w.recorder = r
	}
	return w
}

// Ready is closed once every source is being watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for _, src := range w.sources {
		if err := w.addSource(fw, src); err != nil {
			return err
		}
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Info("Watching passthrough sources", slog.Int("rules", len(w.rules)))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := map[int]bool{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			matched := w.rulesFor(event.Name)
			if len(matched) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addSource(fw, event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}
			if event.Has(fsnotify.Remove) {
				w.logger.Debug("Passthrough source removed", logfields.Path(event.Name))
				continue
			}
			for _, idx := range matched {
				pending[idx] = true
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Passthrough watcher error", logfields.Error(err))

		case <-timer.C:
			for _, idx := range w.affected(pending) {
				w.recopy(w.rules[idx])
			}
			clear(pending)
		}
	}
}

func (w *Watcher) recopy(r PassthroughResult) {
	files, n, err := CopyPath(r.Source, r.Destination)
	r.Files, r.Bytes = files, n
	if err != nil {
		w.logger.Error("Passthrough re-copy failed", logfields.Rule(r.Rule), logfields.Error(err))
	} else {
		w.recorder.ObservePassthrough(r.Rule, files, n)
		w.logger.Info("Passthrough re-copied", logfields.Rule(r.Rule), logfields.Files(files), logfields.Bytes(n))
	}
	if w.OnCopy != nil {
		w.OnCopy(r, err)
	}
}

// addSource watches a directory tree, or the parent directory of a file.
func (w *Watcher) addSource(fw *fsnotify.Watcher, source string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("watch %s: %w", source, err)
	}
	if !info.IsDir() {
		return fw.Add(filepath.Dir(source))
	}
	return filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fw.Add(path)
		}
		return nil
	})
}

// rulesFor returns the indices of every rule whose source contains path.
func (w *Watcher) rulesFor(path string) []int {
	var out []int
	for i, src := range w.sources {
		if config.IsAncestorOrSelf(src, path) {
			out = append(out, i)
		}
	}
	return out
}

// affected returns, in rule order, the pending rules plus every later rule
// whose destination overlaps one already selected. Re-copying them in that
// order keeps later rules winning at shared destinations.
func (w *Watcher) affected(pending map[int]bool) []int {
	var out []int
	for j, r := range w.rules {
		if pending[j] {
			out = append(out, j)
			continue
		}
		for _, i := range out {
			if destinationsOverlap(w.rules[i].Destination, r.Destination) {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

func destinationsOverlap(a, b string) bool {
	return config.IsAncestorOrSelf(a, b) || config.IsAncestorOrSelf(b, a)
}
