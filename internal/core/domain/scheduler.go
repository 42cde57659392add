package domain

import "time"

// Built-in scheduler tasks.
const (
	// TaskIDContentReindex re-runs IndexAll so the repository tracks the catalog.
	TaskIDContentReindex = "content-reindex"

	// TaskIDContextRefresh reloads curated sections, bypassing the section cache.
	TaskIDContextRefresh = "context-refresh"
)

// ScheduledTask is the persisted state of a recurring task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	// NextRun is zero until the first run, so a new task is due immediately.
	NextRun time.Time
	LastRun time.Time

	// LastSuccess and LastError describe the most recent outcome.
	LastSuccess time.Time
	LastError   string
}

// Due reports whether an enabled task should run at now.
func (t ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && !t.NextRun.After(now)
}

// TaskResult is one execution of a task.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool
	Error     string

	// ItemsProcessed counts records indexed or sections loaded.
	ItemsProcessed int
}

// TaskConfig enables a task and sets its period. An Interval of 0 disables it.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// SchedulerConfig holds the master switch and per-task settings.
type SchedulerConfig struct {
	Enabled     bool
	TaskConfigs map[string]TaskConfig
}

// GetTaskConfig returns a task's settings, or the zero value when unset.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig reindexes content and refreshes sections hourly.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDContentReindex: {Enabled: true, Interval: time.Hour},
			TaskIDContextRefresh: {Enabled: true, Interval: time.Hour},
		},
	}
}
