// Package services holds the engine's core logic: indexing, search, curated
// context, reply context assembly, scheduling and settings resolution.
//
// Services depend only on domain types and driven ports. Adapters are
// injected by the caller, and optional ones may be nil.
package services
