package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// historyRetention is how many results are kept per task.
const historyRetention = 100

// taskRunner executes one task and returns the number of items it handled.
type taskRunner func(ctx context.Context) (int, error)

type taskDef struct {
	id   string
	name string
	run  taskRunner
}

// Scheduler runs periodic reindexing and context refresh.
// Task state survives restarts through the scheduler store.
type Scheduler struct {
	config domain.SchedulerConfig
	store  driven.SchedulerStore
	tasks  []taskDef
	tick   time.Duration

	mu       sync.Mutex
	running  bool
	inflight map[string]bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler for the built-in tasks.
// A nil indexer or contexts disables the corresponding task.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	indexer driving.Indexer,
	contexts driving.ContextService,
) *Scheduler {
	s := &Scheduler{
		config:   config,
		store:    store,
		tick:     time.Minute,
		inflight: make(map[string]bool),
	}
	if indexer != nil {
		s.tasks = append(s.tasks, taskDef{
			id:   domain.TaskIDContentReindex,
			name: "Content Reindex",
			run: func(ctx context.Context) (int, error) {
				stats, err := indexer.IndexAll(ctx)
				return stats.Total(), err
			},
		})
	}
	if contexts != nil {
		s.tasks = append(s.tasks, taskDef{
			id:   domain.TaskIDContextRefresh,
			name: "Context Refresh",
			run: func(ctx context.Context) (int, error) {
				if err := contexts.Refresh(ctx); err != nil {
					return 0, err
				}
				return len(contexts.List(ctx)), nil
			},
		})
	}
	return s
}

// Start runs the scheduler loop. It blocks until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		logger.Info("Scheduler disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.initialiseTasks(ctx); err != nil {
		logger.Error(err, "scheduler: failed to initialise tasks")
	}

	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.mu.Lock()
			if s.stopCh == stopCh {
				s.running = false
			}
			s.mu.Unlock()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// Stop ends the loop and waits for running tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// initialiseTasks upserts every enabled task into the store and marks
// stored tasks whose configuration now disables them.
func (s *Scheduler) initialiseTasks(ctx context.Context) error {
	for _, def := range s.tasks {
		cfg := s.config.GetTaskConfig(def.id)
		if !taskActive(cfg) {
			if err := s.disableTask(ctx, def.id); err != nil {
				return err
			}
			continue
		}
		if err := s.ensureTask(ctx, def, cfg); err != nil {
			return err
		}
	}
	return nil
}

// taskActive reports whether cfg schedules the task. A zero interval disables it.
func taskActive(cfg domain.TaskConfig) bool {
	return cfg.Enabled && cfg.Interval > 0
}

func (s *Scheduler) disableTask(ctx context.Context, id string) error {
	task, err := s.store.GetTask(ctx, id)
	if err != nil || task == nil || !task.Enabled {
		return err
	}
	task.Enabled = false
	logger.Info("scheduler: %s disabled by configuration", id)
	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) ensureTask(ctx context.Context, def taskDef, cfg domain.TaskConfig) error {
	task, err := s.store.GetTask(ctx, def.id)
	if err != nil {
		return err
	}

	switch {
	case task == nil:
		// First run happens on the initial check.
		task = &domain.ScheduledTask{
			ID:       def.id,
			Name:     def.name,
			Interval: cfg.Interval,
			Enabled:  true,
		}
	case task.Interval != cfg.Interval:
		task.Interval = cfg.Interval
		task.NextRun = time.Now().Add(cfg.Interval)
	}
	task.Enabled = cfg.Enabled

	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Error(err, "scheduler: failed to list tasks")
		return
	}

	now := time.Now()
	for i := range tasks {
		task := tasks[i]
		if !task.Due(now) || !taskActive(s.config.GetTaskConfig(task.ID)) {
			continue
		}
		if def, ok := s.lookup(task.ID); ok {
			s.runTask(ctx, def, task)
		}
	}
}

func (s *Scheduler) lookup(id string) (taskDef, bool) {
	for _, def := range s.tasks {
		if def.id == id {
			return def, true
		}
	}
	return taskDef{}, false
}

// runTask executes a task in the background unless it is already running.
func (s *Scheduler) runTask(ctx context.Context, def taskDef, task domain.ScheduledTask) {
	s.mu.Lock()
	if s.inflight[task.ID] {
		s.mu.Unlock()
		logger.Debug("scheduler: %s still running, skipping", task.ID)
		return
	}
	s.inflight[task.ID] = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.inflight, task.ID)
			s.mu.Unlock()
		}()

		logger.Info("scheduler: running %s", task.Name)
		result := &domain.TaskResult{TaskID: task.ID, StartedAt: time.Now()}

		n, err := def.run(ctx)

		result.EndedAt = time.Now()
		result.ItemsProcessed = n
		if err != nil {
			result.Error = err.Error()
			task.LastError = err.Error()
			logger.Error(err, "scheduler: %s failed", task.ID)
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}
		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		// Persist even when the run was cancelled.
		bg := context.WithoutCancel(ctx)
		if err := s.store.SaveTask(bg, &task); err != nil {
			logger.Error(err, "scheduler: failed to save task %s", task.ID)
		}
		if err := s.store.RecordResult(bg, result); err != nil {
			logger.Error(err, "scheduler: failed to record result for %s", task.ID)
		}
		if err := s.store.PruneHistory(bg, historyRetention); err != nil {
			logger.Error(err, "scheduler: failed to prune history")
		}
	}()
}
