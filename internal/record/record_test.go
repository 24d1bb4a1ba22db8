package record

import (
	"errors"
	"testing"
	"time"
)

func ratingPtr(v float64) *float64 { return &v }

func datePtr(d Date) *Date { return &d }

func TestNormalizeTitle(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"The Matrix", "the matrix"},
		{"  The   Matrix  ", "the matrix"},
		{"PARASITE", "parasite"},
		{"2001: A Space Odyssey", "2001: a space odyssey"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIdentitySlug(t *testing.T) {
	testCases := []struct {
		title string
		year  int
		want  string
	}{
		{"The Matrix", 1999, "the-matrix-1999"},
		{"2001: A Space Odyssey", 1968, "2001-a-space-odyssey-1968"},
		{"Amélie", 2001, "amlie-2001"},
		{"WALL·E", 2008, "walle-2008"},
		{"--- ---", 1950, "untitled-1950"},
		{"Once Upon a Time... in Hollywood", 2019, "once-upon-a-time-in-hollywood-2019"},
	}

	for _, tc := range testCases {
		if got := NewIdentity(tc.title, tc.year).Slug(); got != tc.want {
			t.Errorf("Slug(%q, %d) = %q, want %q", tc.title, tc.year, got, tc.want)
		}
	}
}

func TestIdentityEquality(t *testing.T) {
	a := NewIdentity("The  Matrix", 1999)
	b := NewIdentity("the matrix", 1999)
	if a != b {
		t.Errorf("expected %v and %v to share one identity", a, b)
	}
	c := NewIdentity("The Matrix", 2003)
	if a == c {
		t.Error("expected different years to produce different identities")
	}
}

func TestValidate(t *testing.T) {
	watchDate := NewDate(2024, time.March, 9)

	testCases := []struct {
		name    string
		rec     MovieRecord
		wantErr bool
	}{
		{
			name: "valid watched with rating and date",
			rec: MovieRecord{
				Title: "Parasite", Year: 2019, Status: StatusWatched,
				Rating: ratingPtr(9.0), DateWatched: datePtr(watchDate),
			},
		},
		{
			name: "valid watched with rating only",
			rec:  MovieRecord{Title: "Heat", Year: 1995, Status: StatusWatched, Rating: ratingPtr(8.5)},
		},
		{
			name: "valid watched with date only",
			rec:  MovieRecord{Title: "Heat", Year: 1995, Status: StatusWatched, DateWatched: datePtr(watchDate)},
		},
		{
			name: "valid to-watch",
			rec:  MovieRecord{Title: "Stalker", Year: 1979, Status: StatusToWatch},
		},
		{
			name:    "missing title",
			rec:     MovieRecord{Year: 2019, Status: StatusToWatch},
			wantErr: true,
		},
		{
			name:    "year before first film",
			rec:     MovieRecord{Title: "X", Year: 1850, Status: StatusToWatch},
			wantErr: true,
		},
		{
			name:    "year too far in the future",
			rec:     MovieRecord{Title: "X", Year: time.Now().Year() + 6, Status: StatusToWatch},
			wantErr: true,
		},
		{
			name:    "missing status",
			rec:     MovieRecord{Title: "X", Year: 2000},
			wantErr: true,
		},
		{
			name:    "unknown status",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: "seen"},
			wantErr: true,
		},
		{
			name:    "rating on to-watch",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: StatusToWatch, Rating: ratingPtr(7)},
			wantErr: true,
		},
		{
			name:    "date_watched on to-watch",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: StatusToWatch, DateWatched: datePtr(watchDate)},
			wantErr: true,
		},
		{
			name:    "watched missing rating and date",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: StatusWatched},
			wantErr: true,
		},
		{
			name:    "rating above range",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: StatusWatched, Rating: ratingPtr(10.5)},
			wantErr: true,
		},
		{
			name:    "negative rating",
			rec:     MovieRecord{Title: "X", Year: 2000, Status: StatusWatched, Rating: ratingPtr(-1)},
			wantErr: true,
		},
		{
			name: "duplicate genre",
			rec: MovieRecord{
				Title: "X", Year: 2000, Status: StatusToWatch,
				Genres: []string{"Drama", "Comedy", "Drama"},
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.Is(err, ErrSchemaInvariant) {
					t.Errorf("expected ErrSchemaInvariant, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-09" {
		t.Errorf("got %q, want 2024-03-09", d.String())
	}

	for _, bad := range []string{"09-03-2024", "2024-3-9", "yesterday", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q): expected error, got nil", bad)
		}
	}
}
