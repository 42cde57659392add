// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentStore: Indexed content persistence (the content repository)
//   - ContextStore: Curated context section persistence
//   - ContentSource: Enumerates publishable records per content type
//   - ContentExtractor: Maps one content type's records to indexed form
//   - Cache: TTL key/value substrate for search and context caches
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Ranker: Weighted full-text ranking. Without it, searches use keyword scoring.
//   - EventBus: Change notifications. Without it, only full reindexes refresh content.
//   - Telemetry: Search and index metrics. Without it, nothing is recorded.
//   - SchedulerStore: Task state persistence. Without it, schedules reset on restart.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
