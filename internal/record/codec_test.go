package record

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func sampleWatched() *MovieRecord {
	return &MovieRecord{
		Title:            "Parasite",
		Year:             2019,
		Director:         "Bong Joon-ho",
		Runtime:          132,
		Genres:           []string{"Comedy", "Thriller", "Drama"},
		Rating:           ratingPtr(9.0),
		Status:           StatusWatched,
		DateWatched:      datePtr(NewDate(2024, time.March, 9)),
		Actors:           []string{"Song Kang-ho", "Lee Sun-kyun"},
		Countries:        []string{"South Korea"},
		OriginalLanguage: "ko",
		ReleaseDate:      "2019-05-30",
		PosterPath:       "https://image.tmdb.org/t/p/w500/parasite.jpg",
		TMDBID:           496243,
		DateAdded:        time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Notes:            "## Synopsis\n\nA poor family schemes its way in.\n\n## My Notes\n\nBest of the year.",
	}
}

func recordsEqual(a, b *MovieRecord) bool {
	if !a.DateAdded.Equal(b.DateAdded) {
		return false
	}
	if (a.Rating == nil) != (b.Rating == nil) {
		return false
	}
	if a.Rating != nil && *a.Rating != *b.Rating {
		return false
	}
	if (a.DateWatched == nil) != (b.DateWatched == nil) {
		return false
	}
	if a.DateWatched != nil && !a.DateWatched.Equal(b.DateWatched.Time) {
		return false
	}

	ac, bc := *a, *b
	ac.DateAdded, bc.DateAdded = time.Time{}, time.Time{}
	ac.Rating, bc.Rating = nil, nil
	ac.DateWatched, bc.DateWatched = nil, nil
	return reflect.DeepEqual(ac, bc)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	colonTitle := sampleWatched()
	colonTitle.Title = "2001: A Space Odyssey"
	colonTitle.Year = 1968

	quotedTitle := sampleWatched()
	quotedTitle.Title = `What's Up, "Doc"?`
	quotedTitle.Year = 1972

	toWatch := &MovieRecord{
		Title:     "Stalker",
		Year:      1979,
		Director:  "Andrei Tarkovsky",
		Status:    StatusToWatch,
		DateAdded: time.Date(2024, time.June, 2, 9, 30, 15, 0, time.UTC),
	}

	noNotes := &MovieRecord{
		Title:  "Heat",
		Year:   1995,
		Status: StatusWatched,
		Rating: ratingPtr(8.5),
	}

	dashesInNotes := sampleWatched()
	dashesInNotes.Notes = "## My Notes\n\nscene breaks below\n\n---\n\nsecond act drags"

	testCases := []struct {
		name string
		rec  *MovieRecord
	}{
		{"watched with all fields", sampleWatched()},
		{"colon in title", colonTitle},
		{"quotes in title", quotedTitle},
		{"minimal to-watch", toWatch},
		{"no notes body", noNotes},
		{"delimiter line inside notes", dashesInNotes},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.rec)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode("test.md", data)
			if err != nil {
				t.Fatalf("Decode failed: %v\ndocument:\n%s", err, data)
			}
			if !recordsEqual(tc.rec, got) {
				t.Errorf("round trip mismatch\nwant: %+v\ngot:  %+v", tc.rec, got)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	rec := sampleWatched()
	first, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	second, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(first) != string(second) {
		t.Error("two encodings of the same record differ")
	}
}

func TestEncodeQuotesColonTitles(t *testing.T) {
	rec := sampleWatched()
	rec.Title = "2001: A Space Odyssey"
	rec.Year = 1968

	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), `title: "2001: A Space Odyssey"`) {
		t.Errorf("title not double-quoted:\n%s", data)
	}
}

func TestEncodeNormalizesNotesWhitespace(t *testing.T) {
	rec := sampleWatched()
	rec.Notes = "\n\n  trimmed body  \n\n\n"

	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Decode("test.md", data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Notes != "trimmed body" {
		t.Errorf("Notes = %q, want %q", got.Notes, "trimmed body")
	}
}

func TestEncodeRejectsInvalidRecord(t *testing.T) {
	rec := &MovieRecord{Title: "X", Year: 2000, Status: StatusWatched}
	if _, err := Encode(rec); !errors.Is(err, ErrSchemaInvariant) {
		t.Errorf("expected ErrSchemaInvariant, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{
			name: "no frontmatter",
			doc:  "just some markdown\n",
		},
		{
			name: "unclosed frontmatter",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: to-watch\n",
		},
		{
			name: "malformed yaml",
			doc:  "---\ntitle: \"unclosed\nyear: [\n---\n",
		},
		{
			name: "missing title",
			doc:  "---\nyear: 2000\nstatus: to-watch\n---\n",
		},
		{
			name: "missing year",
			doc:  "---\ntitle: \"X\"\nstatus: to-watch\n---\n",
		},
		{
			name: "missing status",
			doc:  "---\ntitle: \"X\"\nyear: 2000\n---\n",
		},
		{
			name: "unknown status",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: seen\n---\n",
		},
		{
			name: "rating on to-watch",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: to-watch\nrating: 8.0\n---\n",
		},
		{
			name: "date_watched on to-watch",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: to-watch\ndate_watched: 2024-03-09\n---\n",
		},
		{
			name: "watched without rating or date",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: watched\n---\n",
		},
		{
			name: "rating out of range",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: watched\nrating: 11.0\n---\n",
		},
		{
			name: "duplicate genres",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: to-watch\ngenres:\n  - Drama\n  - Drama\n---\n",
		},
		{
			name: "non-ISO watch date",
			doc:  "---\ntitle: \"X\"\nyear: 2000\nstatus: watched\ndate_watched: 09/03/2024\n---\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("bad.md", []byte(tc.doc))
			if err == nil {
				t.Fatal("expected decode error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Path != "bad.md" {
				t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, "bad.md")
			}
		})
	}
}

func TestDecodeWithoutBody(t *testing.T) {
	doc := "---\ntitle: \"Stalker\"\nyear: 1979\nstatus: to-watch\n---"
	rec, err := Decode("stalker.md", []byte(doc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if rec.Title != "Stalker" || rec.Year != 1979 || rec.Notes != "" {
		t.Errorf("unexpected record: %+v", rec)
	}
}
