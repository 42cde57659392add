// Package domain defines the core business entities for the relevance engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IndexedContent: A normalised, searchable record derived from website content
//   - SourceRecord: A raw record enumerated from a content source
//   - ContextSection: A curated topic block used when no indexed content matches
//   - SearchResult: A ranked (content, score) pair from one search call
//   - ChangeEvent: A notification that source content or context changed
//   - Settings: Explicit configuration passed to every service
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
