// Package catalog reads the website's content export from a directory of
// TOML files, one per content type, and watches it for changes.
//
// A catalog directory looks like:
//
//	blog.toml
//	vehicle.toml
//	faq.toml
//
// Each file holds a list of records:
//
//	[[records]]
//	id = "42"
//	title = "Replacement vehicles after a non-fault accident"
//	status = "published"
//	tags = ["claims", "pco"]
//	[records.attributes]
//	manufacturer = "Mercedes-Benz"
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
)

// FileExt is the extension of catalog files.
const FileExt = ".toml"

// catalogFile is the on-disk shape of one content type's export.
type catalogFile struct {
	Records []domain.SourceRecord `toml:"records"`
}

// Source implements driven.ContentSource over a catalog directory.
type Source struct {
	dir string
}

var _ driven.ContentSource = (*Source)(nil)

// NewSource creates a source reading from dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the catalog directory.
func (s *Source) Dir() string {
	return s.dir
}

// Path returns the file holding a content type's records.
func (s *Source) Path(contentType domain.ContentType) string {
	return filepath.Join(s.dir, string(contentType)+FileExt)
}

// Records returns every record of the given type ordered by ID.
// A type without a file has no records. An unreadable or malformed file
// makes the source unavailable for that type.
func (s *Source) Records(ctx context.Context, contentType domain.ContentType) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.dir == "" {
		return nil, fmt.Errorf("%w: no catalog directory configured", domain.ErrSourceUnavailable)
	}
	if !contentType.IsValid() {
		return nil, domain.ErrUnknownContentType
	}

	data, err := os.ReadFile(s.Path(contentType))
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.SourceRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrSourceUnavailable, contentType, err)
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrSourceUnavailable, s.Path(contentType), err)
	}

	records := file.Records
	if records == nil {
		records = []domain.SourceRecord{}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Record returns a single record.
func (s *Source) Record(ctx context.Context, contentType domain.ContentType, id string) (*domain.SourceRecord, error) {
	records, err := s.Records(ctx, contentType)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
