// Package store owns the authoritative in-memory set of movie records and
// the directory of backing documents. It is the only component that writes
// to the movies directory; search and stats consume read-only snapshots.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/marco/movielog/internal/record"
)

// ErrNotFound is returned when no record matches the requested identity.
var ErrNotFound = errors.New("record not found")

const documentExt = ".md"

// Store is the record store. It keeps records in insertion order, derived
// from each record's date_added field so the order is stable across runs
// regardless of file-system enumeration order.
type Store struct {
	dir     string
	order   []record.Identity
	records map[record.Identity]*record.MovieRecord
	files   map[record.Identity]string
}

// Load reads every document in dir. Malformed documents are reported as
// ParseErrors alongside the successfully loaded set; a single bad file
// never aborts the load. The directory is created if missing.
func Load(dir string) (*Store, []*record.ParseError, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create movies directory: %w", err)
	}

	s := &Store{
		dir:     dir,
		records: make(map[record.Identity]*record.MovieRecord),
		files:   make(map[record.Identity]string),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read movies directory: %w", err)
	}

	type loadedDoc struct {
		rec  *record.MovieRecord
		name string
	}
	var docs []loadedDoc
	var parseErrs []*record.ParseError

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), documentExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			parseErrs = append(parseErrs, &record.ParseError{Path: entry.Name(), Err: err})
			continue
		}
		rec, err := record.Decode(entry.Name(), data)
		if err != nil {
			var pe *record.ParseError
			if errors.As(err, &pe) {
				parseErrs = append(parseErrs, pe)
			} else {
				parseErrs = append(parseErrs, &record.ParseError{Path: entry.Name(), Err: err})
			}
			continue
		}

		id := rec.Identity()
		if _, dup := s.records[id]; dup {
			parseErrs = append(parseErrs, &record.ParseError{
				Path: entry.Name(),
				Err:  fmt.Errorf("duplicate record for %q (%d)", rec.Title, rec.Year),
			})
			continue
		}
		s.records[id] = rec
		s.files[id] = entry.Name()
		docs = append(docs, loadedDoc{rec: rec, name: entry.Name()})
	}

	// Creation order: date_added first, filename as the deterministic
	// tie-break for same-second creations and legacy files without the field.
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].rec.DateAdded.Equal(docs[j].rec.DateAdded) {
			return docs[i].rec.DateAdded.Before(docs[j].rec.DateAdded)
		}
		return docs[i].name < docs[j].name
	})
	for _, d := range docs {
		s.order = append(s.order, d.rec.Identity())
	}

	return s, parseErrs, nil
}

// Dir returns the movies directory the store is backed by.
func (s *Store) Dir() string {
	return s.dir
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// List returns all records in insertion order. The slice is a copy; the
// records themselves are shared.
func (s *Store) List() []*record.MovieRecord {
	out := make([]*record.MovieRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// Find looks up a record by title and year.
func (s *Store) Find(title string, year int) (*record.MovieRecord, error) {
	rec, ok := s.records[record.NewIdentity(title, year)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%d)", ErrNotFound, title, year)
	}
	return rec, nil
}

// Upsert validates the record and writes it through to its backing
// document before mutating the in-memory set. An existing identity keeps
// its backing file; a new identity gets a fresh slug-named document.
func (s *Store) Upsert(r *record.MovieRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	id := r.Identity()
	existing, exists := s.records[id]
	if r.DateAdded.IsZero() {
		if exists {
			r.DateAdded = existing.DateAdded
		} else {
			r.DateAdded = time.Now().UTC().Truncate(time.Second)
		}
	}

	name, ok := s.files[id]
	if !ok {
		name = s.newDocumentName(id)
	}

	data, err := record.Encode(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write record document: %w", err)
	}

	s.records[id] = r
	s.files[id] = name
	if !exists {
		s.order = append(s.order, id)
	}
	return nil
}

// newDocumentName picks an unclaimed filename for a new identity.
// Distinct identities can share a slug ("Heat" and "Heat!" in the same
// year, since slugging strips punctuation that identity keeps), so a
// claimed name gets a numeric suffix instead of overwriting another
// record's document.
func (s *Store) newDocumentName(id record.Identity) string {
	claimed := make(map[string]bool, len(s.files))
	for _, name := range s.files {
		claimed[name] = true
	}

	slug := id.Slug()
	name := slug + documentExt
	for i := 2; claimed[name]; i++ {
		name = fmt.Sprintf("%s-%d%s", slug, i, documentExt)
	}
	return name
}

// Delete removes the record and its backing document.
func (s *Store) Delete(title string, year int) error {
	id := record.NewIdentity(title, year)
	name, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: %q (%d)", ErrNotFound, title, year)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove record document: %w", err)
	}

	delete(s.records, id)
	delete(s.files, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DocumentPath returns the absolute path of a record's backing document.
func (s *Store) DocumentPath(title string, year int) (string, error) {
	name, ok := s.files[record.NewIdentity(title, year)]
	if !ok {
		return "", fmt.Errorf("%w: %q (%d)", ErrNotFound, title, year)
	}
	return filepath.Join(s.dir, name), nil
}
