package domain

import "time"

// ChangeKind classifies a change event.
type ChangeKind string

// Change kinds.
const (
	// ChangeSaved means a source record was created or updated.
	ChangeSaved ChangeKind = "content.saved"

	// ChangeDeleted means a source record was removed.
	ChangeDeleted ChangeKind = "content.deleted"

	// ChangeReindex means a whole content type should be re-indexed.
	ChangeReindex ChangeKind = "content.reindex"

	// ChangeContext means a context section was created, updated, or deleted.
	ChangeContext ChangeKind = "context.changed"
)

// IsValid returns true if the kind is recognised.
func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeSaved, ChangeDeleted, ChangeReindex, ChangeContext:
		return true
	default:
		return false
	}
}

// ChangeEvent notifies subscribers that source content or context changed.
// Owning collaborators publish these; the indexer subscribes.
type ChangeEvent struct {
	// ID uniquely identifies the event. Assigned by the bus when empty.
	ID string `json:"id"`

	// Kind is what happened.
	Kind ChangeKind `json:"kind"`

	// ContentType is the affected type. Empty for context events.
	ContentType ContentType `json:"content_type,omitempty"`

	// SourceID is the affected record. Empty for reindex and context events.
	SourceID string `json:"source_id,omitempty"`

	// Section is the affected context section, if known.
	Section string `json:"section,omitempty"`

	// OccurredAt is when the change happened.
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks the event carries the fields its kind requires.
func (e ChangeEvent) Validate() error {
	if !e.Kind.IsValid() {
		return ErrInvalidInput
	}
	switch e.Kind {
	case ChangeSaved, ChangeDeleted:
		if !e.ContentType.IsValid() || e.SourceID == "" {
			return ErrInvalidInput
		}
	case ChangeReindex:
		if !e.ContentType.IsValid() {
			return ErrInvalidInput
		}
	}
	return nil
}
