// Package search filters the record store's current snapshot by optional
// per-field predicates. Matching is computed freshly on every call; no
// persistent index is kept, which is fine at the collection sizes a
// personal movie log reaches.
package search

import (
	"strings"

	"github.com/marco/movielog/internal/record"
)

// Filters is a set of optional predicates combined with logical AND. Zero
// values are ignored; an all-zero Filters returns every record.
type Filters struct {
	Title    string        // case-insensitive substring of title
	Director string        // case-insensitive substring of director
	Actor    string        // case-insensitive substring of any actor
	Genre    string        // case-insensitive substring of any genre
	Keyword  string        // matches any of the above fields
	Status   record.Status // exact status match
}

// Lister supplies the current record snapshot, in store order.
type Lister interface {
	List() []*record.MovieRecord
}

// Index answers multi-field searches over a record source.
type Index struct {
	src Lister
}

// NewIndex creates an index over the given record source.
func NewIndex(src Lister) *Index {
	return &Index{src: src}
}

// Search returns the records matching all supplied predicates, preserving
// the source's order.
func (ix *Index) Search(f Filters) []*record.MovieRecord {
	var out []*record.MovieRecord
	for _, r := range ix.src.List() {
		if Matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether a single record satisfies every supplied
// predicate.
func Matches(r *record.MovieRecord, f Filters) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Title != "" && !containsFold(r.Title, f.Title) {
		return false
	}
	if f.Director != "" && !containsFold(r.Director, f.Director) {
		return false
	}
	if f.Actor != "" && !anyContainsFold(r.Actors, f.Actor) {
		return false
	}
	if f.Genre != "" && !anyContainsFold(r.Genres, f.Genre) {
		return false
	}
	if f.Keyword != "" {
		if !containsFold(r.Title, f.Keyword) &&
			!containsFold(r.Director, f.Keyword) &&
			!anyContainsFold(r.Genres, f.Keyword) &&
			!anyContainsFold(r.Actors, f.Keyword) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if containsFold(h, needle) {
			return true
		}
	}
	return false
}
