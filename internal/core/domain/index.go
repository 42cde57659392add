package domain

import "time"

// IndexStats counts the outcomes of an index run.
type IndexStats struct {
	// Indexed is the number of records created.
	Indexed int `json:"indexed"`

	// Updated is the number of existing records rewritten in place.
	Updated int `json:"updated"`

	// Errors is the number of records that failed extraction or upsert.
	Errors int `json:"errors"`

	// Deleted is the number of stale records pruned.
	Deleted int `json:"deleted"`
}

// Add accumulates other into s.
func (s *IndexStats) Add(other IndexStats) {
	s.Indexed += other.Indexed
	s.Updated += other.Updated
	s.Errors += other.Errors
	s.Deleted += other.Deleted
}

// Total returns the number of records written.
func (s IndexStats) Total() int {
	return s.Indexed + s.Updated
}

// IndexStatus reports the progress of an index run for one content type.
type IndexStatus struct {
	ContentType ContentType `json:"content_type"`
	Running     bool        `json:"running"`
	Stats       IndexStats  `json:"stats"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	LastError   string      `json:"last_error,omitempty"`
}

// ContentStats summarises the repository contents per content type.
type ContentStats struct {
	ContentType ContentType `json:"content_type"`
	Total       int         `json:"total"`
	Searchable  int         `json:"searchable"`
}
