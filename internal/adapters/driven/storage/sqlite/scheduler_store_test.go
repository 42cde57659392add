package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

func TestSchedulerStore_SaveAndGetTask(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()

	now := time.Now().UTC().Truncate(time.Second)
	task := &domain.ScheduledTask{
		ID:          domain.TaskIDContentReindex,
		Name:        "Content Reindex",
		Interval:    time.Hour,
		LastRun:     now.Add(-30 * time.Minute),
		NextRun:     now.Add(30 * time.Minute),
		LastError:   "source unavailable",
		LastSuccess: now.Add(-90 * time.Minute),
		Enabled:     true,
	}
	require.NoError(t, schedulerStore.SaveTask(ctx, task))

	retrieved, err := schedulerStore.GetTask(ctx, domain.TaskIDContentReindex)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, task.Name, retrieved.Name)
	assert.Equal(t, task.Interval, retrieved.Interval)
	assert.Equal(t, task.LastError, retrieved.LastError)
	assert.True(t, retrieved.Enabled)
	assert.WithinDuration(t, task.LastRun, retrieved.LastRun, time.Second)
	assert.WithinDuration(t, task.NextRun, retrieved.NextRun, time.Second)

	task.Enabled = false
	task.LastError = ""
	require.NoError(t, schedulerStore.SaveTask(ctx, task))
	retrieved, err = schedulerStore.GetTask(ctx, domain.TaskIDContentReindex)
	require.NoError(t, err)
	assert.False(t, retrieved.Enabled)
	assert.Empty(t, retrieved.LastError)
}

func TestSchedulerStore_GetTask_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	task, err := store.SchedulerStore().GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestSchedulerStore_ListAndDelete(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	for _, id := range []string{domain.TaskIDContextRefresh, domain.TaskIDContentReindex} {
		require.NoError(t, schedulerStore.SaveTask(ctx, &domain.ScheduledTask{ID: id, Name: id, Interval: time.Hour}))
	}

	tasks, err := schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.TaskIDContentReindex, tasks[0].ID)

	require.NoError(t, schedulerStore.DeleteTask(ctx, domain.TaskIDContentReindex))
	tasks, err = schedulerStore.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestSchedulerStore_HistoryAndPrune(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	schedulerStore := store.SchedulerStore()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, schedulerStore.RecordResult(ctx, &domain.TaskResult{
			TaskID:         domain.TaskIDContentReindex,
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			EndedAt:        base.Add(time.Duration(i)*time.Minute + time.Second),
			Success:        i%2 == 0,
			Error:          map[bool]string{true: "", false: "failed"}[i%2 == 0],
			ItemsProcessed: i * 10,
		}))
	}

	history, err := schedulerStore.GetTaskHistory(ctx, domain.TaskIDContentReindex, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 40, history[0].ItemsProcessed)
	assert.True(t, history[0].Success)
	assert.Equal(t, "failed", history[1].Error)

	require.NoError(t, schedulerStore.PruneHistory(ctx, 3))
	history, err = schedulerStore.GetTaskHistory(ctx, domain.TaskIDContentReindex, 0)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
