package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/logger"
)

// DefaultDebounce is how long a content type's file must be quiet before a
// reindex is requested. Editors and exporters write files in bursts.
const DefaultDebounce = 250 * time.Millisecond

// Watcher turns catalog file changes into reindex events.
type Watcher struct {
	dir      string
	debounce time.Duration
}

// NewWatcher creates a watcher for dir. A non-positive debounce uses DefaultDebounce.
func NewWatcher(dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, debounce: debounce}
}

// Watch emits one content.reindex event per changed content type once its
// file has settled. The channel closes when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	out := make(chan domain.ChangeEvent, len(domain.AllContentTypes()))
	go w.loop(ctx, fsw, out)
	return out, nil
}

// Run watches the catalog and publishes every change to bus until ctx is done.
func (w *Watcher) Run(ctx context.Context, bus driven.EventBus) error {
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	logger.Info("watching catalog %s", w.dir)

	for change := range changes {
		if err := bus.Publish(ctx, change); err != nil {
			logger.Warn("publishing %s for %s: %v", change.Kind, change.ContentType, err)
		}
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- domain.ChangeEvent) {
	defer close(out)
	defer fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var fire <-chan time.Time
	pending := make(map[domain.ContentType]domain.ChangeEvent)
	var order []domain.ContentType

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			change := handleFsEvent(event)
			if change == nil {
				continue
			}
			if _, seen := pending[change.ContentType]; !seen {
				order = append(order, change.ContentType)
			}
			pending[change.ContentType] = *change
			timer.Reset(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher: %v", err)

		case <-fire:
			fire = nil
			for _, ct := range order {
				select {
				case out <- pending[ct]:
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[domain.ContentType]domain.ChangeEvent)
			order = nil
		}
	}
}

// handleFsEvent maps a filesystem event to a reindex request.
// Returns nil for events that do not touch a content type's file.
func handleFsEvent(event fsnotify.Event) *domain.ChangeEvent {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return nil
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != FileExt {
		return nil
	}
	contentType := domain.ContentType(strings.TrimSuffix(base, FileExt))
	if !contentType.IsValid() {
		return nil
	}

	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return nil
		}
	}

	return &domain.ChangeEvent{
		Kind:        domain.ChangeReindex,
		ContentType: contentType,
		OccurredAt:  time.Now(),
	}
}
