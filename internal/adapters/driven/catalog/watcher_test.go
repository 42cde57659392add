package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/adapters/driven/events/memory"
	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		dir        bool
		operation  fsnotify.Op
		expectType domain.ContentType
	}{
		{name: "create catalog file", file: "blog.toml", operation: fsnotify.Create, expectType: domain.ContentTypeBlog},
		{name: "write catalog file", file: "vehicle.toml", operation: fsnotify.Write, expectType: domain.ContentTypeVehicle},
		{name: "remove catalog file", file: "faq.toml", operation: fsnotify.Remove, expectType: domain.ContentTypeFAQ},
		{name: "rename catalog file", file: "gallery.toml", operation: fsnotify.Rename, expectType: domain.ContentTypeGallery},
		{name: "chmod is ignored", file: "blog.toml", operation: fsnotify.Chmod},
		{name: "hidden file is ignored", file: ".blog.toml", operation: fsnotify.Write},
		{name: "other extension is ignored", file: "blog.toml.swp", operation: fsnotify.Write},
		{name: "unknown content type is ignored", file: "recipes.toml", operation: fsnotify.Create},
		{name: "directory is ignored", file: "cms.toml", dir: true, operation: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			if tt.dir {
				require.NoError(t, os.Mkdir(path, 0o755))
			} else if tt.operation != fsnotify.Remove && tt.operation != fsnotify.Rename {
				require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
			}

			change := handleFsEvent(fsnotify.Event{Name: path, Op: tt.operation})

			if tt.expectType == "" {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, domain.ChangeReindex, change.Kind)
			assert.Equal(t, tt.expectType, change.ContentType)
			assert.NoError(t, change.Validate())
		})
	}
}

func TestWatcher_Watch(t *testing.T) {
	t.Run("coalesces a burst of writes into one event", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := NewWatcher(dir, 100*time.Millisecond).Watch(ctx)
		require.NoError(t, err)

		path := filepath.Join(dir, "blog.toml")
		for i := 0; i < 3; i++ {
			require.NoError(t, os.WriteFile(path, []byte(blogCatalog), 0o644))
		}

		select {
		case change := <-changes:
			assert.Equal(t, domain.ContentTypeBlog, change.ContentType)
		case <-time.After(3 * time.Second):
			t.Fatal("timeout waiting for catalog change")
		}

		select {
		case change := <-changes:
			t.Fatalf("unexpected second change: %+v", change)
		case <-time.After(300 * time.Millisecond):
		}
	})

	t.Run("closes the channel on cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		changes, err := NewWatcher(t.TempDir(), 0).Watch(ctx)
		require.NoError(t, err)

		cancel()
		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("channel not closed")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), 0).Watch(context.Background())
		assert.Error(t, err)
	})
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	bus := memory.NewBus()
	defer bus.Close()

	var mu sync.Mutex
	var received []domain.ChangeEvent
	_, err := bus.Subscribe(func(_ context.Context, event domain.ChangeEvent) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWatcher(dir, 50*time.Millisecond).Run(ctx, bus) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "testimonial.toml"), []byte(""), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, domain.ContentTypeTestimonial, received[0].ContentType)
	assert.NotEmpty(t, received[0].ID)
}
