// Package match selects the best external metadata candidate for a title
// query and maps it onto the record schema.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/tmdb"
)

// ErrNoMatch is returned when the metadata service has no usable candidate
// for a query.
var ErrNoMatch = errors.New("no match found")

// Confidence describes how the candidate was matched.
type Confidence string

const (
	// MatchExact means the normalized title matched and, when a year hint
	// was given, the year matched it too.
	MatchExact Confidence = "exact"
	// MatchFuzzy means the service's best-ranked result was accepted
	// without exact title/year agreement.
	MatchFuzzy Confidence = "fuzzy"
)

// Client is the slice of the TMDB API the matcher consumes.
type Client interface {
	SearchMovies(title string, year int) ([]tmdb.Movie, error)
	MovieDetails(tmdbID int) (*tmdb.MovieDetails, error)
	MovieCredits(tmdbID int) (*tmdb.Credits, error)
}

// Candidate is the transient result of an external lookup. It is never
// stored directly; callers convert it into a MovieRecord first. The TMDB
// id is carried for dedup only, never as primary identity.
type Candidate struct {
	TMDBID           int
	Title            string
	Year             int
	Director         string
	Runtime          int
	Genres           []string
	Cast             []string
	Countries        []string
	OriginalLanguage string
	ReleaseDate      string
	PosterURL        string
	Overview         string
	Confidence       Confidence
}

// Matcher resolves free-text title queries against the metadata service.
type Matcher struct {
	client     Client
	actorCount int
}

// NewMatcher creates a matcher that records the top actorCount cast
// members per candidate (values below 1 default to 5).
func NewMatcher(client Client, actorCount int) *Matcher {
	if actorCount < 1 {
		actorCount = 5
	}
	return &Matcher{client: client, actorCount: actorCount}
}

// Match issues a single title search and selects one candidate. With a
// year hint, the first candidate (in service order) whose year equals the
// hint wins; otherwise the service's top-ranked result is taken as-is.
// Ties stay deterministic: first in service order. There are no retries on
// ambiguous results.
func (m *Matcher) Match(title string, yearHint int) (*Candidate, error) {
	results, err := m.client.SearchMovies(title, 0)
	if err != nil {
		return nil, fmt.Errorf("title search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}

	selected := results[0]
	if yearHint > 0 {
		for _, r := range results {
			if r.Year() == yearHint {
				selected = r
				break
			}
		}
	}

	details, err := m.client.MovieDetails(selected.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate details: %w", err)
	}
	credits, err := m.client.MovieCredits(selected.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate credits: %w", err)
	}

	director := record.UnknownDirector
	for _, crew := range credits.Crew {
		if crew.Job == "Director" {
			director = crew.Name
			break
		}
	}

	var cast []string
	for i := 0; i < len(credits.Cast) && i < m.actorCount; i++ {
		cast = append(cast, credits.Cast[i].Name)
	}

	var genres []string
	for _, g := range details.Genres {
		genres = append(genres, g.Name)
	}
	var countries []string
	for _, c := range details.ProductionCountries {
		countries = append(countries, c.Name)
	}

	confidence := MatchFuzzy
	if record.NormalizeTitle(details.Title) == record.NormalizeTitle(title) &&
		(yearHint == 0 || details.Year() == yearHint) {
		confidence = MatchExact
	}

	return &Candidate{
		TMDBID:           details.ID,
		Title:            details.Title,
		Year:             details.Year(),
		Director:         director,
		Runtime:          details.Runtime,
		Genres:           genres,
		Cast:             cast,
		Countries:        countries,
		OriginalLanguage: details.OriginalLanguage,
		ReleaseDate:      details.ReleaseDate,
		PosterURL:        tmdb.PosterURL(details.PosterPath),
		Overview:         details.Overview,
		Confidence:       confidence,
	}, nil
}

// NotesBody renders the free-text body for a freshly created record: the
// candidate's synopsis followed by the user's personal notes.
func (c *Candidate) NotesBody(personal string) string {
	var sb strings.Builder
	if c.Overview != "" {
		sb.WriteString("## Synopsis\n\n")
		sb.WriteString(c.Overview)
		sb.WriteString("\n\n")
	}
	if personal == "" {
		personal = "(Your thoughts go here)"
	}
	sb.WriteString("## My Notes\n\n")
	sb.WriteString(personal)
	return sb.String()
}

// Record converts the candidate into a movie record with the given status.
// Rating and watch date stay unset; they belong to the user.
func (c *Candidate) Record(status record.Status) *record.MovieRecord {
	return &record.MovieRecord{
		Title:            c.Title,
		Year:             c.Year,
		Director:         c.Director,
		Runtime:          c.Runtime,
		Genres:           c.Genres,
		Status:           status,
		Actors:           c.Cast,
		Countries:        c.Countries,
		OriginalLanguage: c.OriginalLanguage,
		ReleaseDate:      c.ReleaseDate,
		PosterPath:       c.PosterURL,
		TMDBID:           c.TMDBID,
		Notes:            c.NotesBody(""),
	}
}
