// Package record defines the movie record model and the document codec
// that maps each record to a single Markdown file with YAML frontmatter.
package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status describes whether a movie has been watched yet.
type Status string

const (
	StatusToWatch Status = "to-watch"
	StatusWatched Status = "watched"
)

// MinYear is the release year of the earliest surviving film.
const MinYear = 1888

// UnknownDirector is the sentinel used when TMDB has no director credit.
const UnknownDirector = "Unknown"

// ErrSchemaInvariant is returned when a record violates the schema rules,
// e.g. a rating on a to-watch record. It is raised both at decode time and
// at upsert validation time.
var ErrSchemaInvariant = errors.New("schema invariant violation")

// MovieRecord is a single entry in the movie log. The yaml tags are the
// frontmatter keys; external dashboard tooling queries the documents by
// these exact names, so they must not change.
type MovieRecord struct {
	Title            string    `yaml:"title"`
	Year             int       `yaml:"year"`
	Director         string    `yaml:"director,omitempty"`
	Runtime          int       `yaml:"runtime,omitempty"`
	Genres           []string  `yaml:"genres,omitempty"`
	Rating           *float64  `yaml:"rating,omitempty"`
	Status           Status    `yaml:"status"`
	DateWatched      *Date     `yaml:"date_watched,omitempty"`
	Actors           []string  `yaml:"actors,omitempty"`
	Countries        []string  `yaml:"countries,omitempty"`
	OriginalLanguage string    `yaml:"original_language,omitempty"`
	ReleaseDate      string    `yaml:"release_date,omitempty"`
	PosterPath       string    `yaml:"poster_path,omitempty"`
	TMDBID           int       `yaml:"tmdb_id,omitempty"`
	DateAdded        time.Time `yaml:"date_added,omitempty"`

	// Notes is the free-text body below the frontmatter. It is stored
	// without surrounding blank lines.
	Notes string `yaml:"-"`
}

// Identity uniquely identifies a record by normalized title and release
// year. It is the sole lookup key for update-vs-create decisions.
type Identity struct {
	Title string
	Year  int
}

// NewIdentity normalizes a raw title and pairs it with a year.
func NewIdentity(title string, year int) Identity {
	return Identity{Title: NormalizeTitle(title), Year: year}
}

// Identity returns the record's lookup key.
func (r *MovieRecord) Identity() Identity {
	return NewIdentity(r.Title, r.Year)
}

// NormalizeTitle lowercases a title and collapses interior whitespace so
// that "The  Matrix " and "the matrix" share one identity.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

var (
	slugInvalidPattern = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashPattern    = regexp.MustCompile(`-+`)
)

// Slug returns the filesystem-safe document name (without extension) for
// this identity, e.g. "the-matrix-1999".
func (id Identity) Slug() string {
	slug := strings.ReplaceAll(id.Title, " ", "-")
	slug = slugInvalidPattern.ReplaceAllString(slug, "")
	slug = slugDashPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	return slug + "-" + strconv.Itoa(id.Year)
}

// Validate checks the invariants every persisted record must hold:
// required title/year/status, rating and date_watched present only on
// watched records, a watched record carrying at least one of the two, and
// no duplicate genres.
func (r *MovieRecord) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrSchemaInvariant)
	}
	if r.Year < MinYear || r.Year > time.Now().Year()+5 {
		return fmt.Errorf("%w: year %d is outside %d-%d", ErrSchemaInvariant, r.Year, MinYear, time.Now().Year()+5)
	}

	switch r.Status {
	case StatusWatched:
		if r.Rating == nil && r.DateWatched == nil {
			return fmt.Errorf("%w: watched record needs a rating or a watch date", ErrSchemaInvariant)
		}
	case StatusToWatch:
		if r.Rating != nil {
			return fmt.Errorf("%w: rating set on a to-watch record", ErrSchemaInvariant)
		}
		if r.DateWatched != nil {
			return fmt.Errorf("%w: date_watched set on a to-watch record", ErrSchemaInvariant)
		}
	case "":
		return fmt.Errorf("%w: status is required", ErrSchemaInvariant)
	default:
		return fmt.Errorf("%w: unknown status %q", ErrSchemaInvariant, r.Status)
	}

	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 10) {
		return fmt.Errorf("%w: rating %.1f is outside 0-10", ErrSchemaInvariant, *r.Rating)
	}

	seen := make(map[string]bool, len(r.Genres))
	for _, g := range r.Genres {
		if seen[g] {
			return fmt.Errorf("%w: duplicate genre %q", ErrSchemaInvariant, g)
		}
		seen[g] = true
	}

	return nil
}

// RatingValue returns the rating and whether one is set.
func (r *MovieRecord) RatingValue() (float64, bool) {
	if r.Rating == nil {
		return 0, false
	}
	return *r.Rating, true
}
