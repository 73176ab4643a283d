// Package watch re-scores library artifacts as they change on disk. It is
// the fast feedback loop for hand-editing an artifact: save the file, see
// the new score. It uses fsnotify for efficient change detection.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arcadegarden/molt/internal/scoring"
)

// Event is one re-score of a changed artifact.
type Event struct {
	Path  string
	Score scoring.QualityScore
	Err   error
}

// Watcher watches a library directory and scores artifacts on write.
type Watcher struct {
	dir      string
	bands    []scoring.GradeBand
	debounce time.Duration
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is scored.
// Editors fire several write events per save; only the settled state is
// worth scoring.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// New creates a Watcher over the given library directory.
func New(dir string, bands []scoring.GradeBand, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		bands:    bands,
		debounce: 250 * time.Millisecond,
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch streams score events until the context is cancelled or Close is
// called. The returned channel is closed when the loop exits.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	if err := w.watcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	events := make(chan Event, 16)
	go w.watchLoop(ctx, events)
	return events, nil
}

// watchLoop coalesces raw filesystem events into settled per-file scores.
func (w *Watcher) watchLoop(ctx context.Context, events chan<- Event) {
	defer close(events)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				select {
				case events <- w.score(path):
				case <-ctx.Done():
					return
				}
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant keeps write and create events on artifact files, skipping the
// temp files the atomic-write discipline leaves briefly in place.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".html")
}

// score reads and scores one artifact.
func (w *Watcher) score(path string) Event {
	data, err := os.ReadFile(path)
	if err != nil {
		return Event{Path: path, Err: fmt.Errorf("reading artifact: %w", err)}
	}
	return Event{Path: path, Score: scoring.ScoreWithBands(string(data), w.bands)}
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
