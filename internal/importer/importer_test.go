package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/marco/movielog/internal/match"
	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
)

type fakeMatcher struct {
	candidates map[string]*match.Candidate
}

func (f *fakeMatcher) Match(title string, yearHint int) (*match.Candidate, error) {
	cand, ok := f.candidates[record.NormalizeTitle(title)]
	if !ok {
		return nil, match.ErrNoMatch
	}
	return cand, nil
}

type fakeStore struct {
	records map[record.Identity]*record.MovieRecord
	upserts []*record.MovieRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[record.Identity]*record.MovieRecord)}
}

func (f *fakeStore) Find(title string, year int) (*record.MovieRecord, error) {
	r, ok := f.records[record.NewIdentity(title, year)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) Upsert(r *record.MovieRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	f.records[r.Identity()] = r
	f.upserts = append(f.upserts, r)
	return nil
}

func candidate(title string, year int) *match.Candidate {
	return &match.Candidate{
		Title:      title,
		Year:       year,
		Director:   "Some Director",
		Confidence: match.MatchExact,
	}
}

func TestParseTitle(t *testing.T) {
	testCases := []struct {
		cell      string
		wantTitle string
		wantYear  int
	}{
		{"Parasite (2019)", "Parasite", 2019},
		{"Parasite (2019)  ", "Parasite", 2019},
		{"Parasite", "Parasite", 0},
		{"  Heat  ", "Heat", 0},
		{"Blade Runner 2049", "Blade Runner 2049", 0},
		{"Blade Runner 2049 (2017)", "Blade Runner 2049", 2017},
		{"(500) Days of Summer", "(500) Days of Summer", 0},
		{"", "", 0},
	}

	for _, tc := range testCases {
		title, year := ParseTitle(tc.cell)
		if title != tc.wantTitle || year != tc.wantYear {
			t.Errorf("ParseTitle(%q) = (%q, %d), want (%q, %d)",
				tc.cell, title, year, tc.wantTitle, tc.wantYear)
		}
	}
}

func TestImportCSV(t *testing.T) {
	matcher := &fakeMatcher{candidates: map[string]*match.Candidate{
		"parasite": candidate("Parasite", 2019),
		"heat":     candidate("Heat", 1995),
		"stalker":  candidate("Stalker", 1979),
	}}
	st := newFakeStore()

	csvData := strings.Join([]string{
		"title,status",
		"Parasite (2019),watched",
		"Heat,WATCHED",
		"Stalker,to-watch",
		"No Such Movie,watched",
		"",
	}, "\n")

	results, err := New(matcher, st).ImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4 (header and blank rows skipped): %+v", len(results), results)
	}

	parasite := results[0]
	if parasite.Err != nil || parasite.Skipped {
		t.Fatalf("unexpected Parasite outcome: %+v", parasite)
	}
	if parasite.YearHint != 2019 {
		t.Errorf("YearHint = %d, want 2019", parasite.YearHint)
	}
	if parasite.Record.Status != record.StatusWatched {
		t.Errorf("Status = %q, want watched", parasite.Record.Status)
	}
	if rating, ok := parasite.Record.RatingValue(); !ok || rating != 0 {
		t.Errorf("imported watched record must start with rating 0.0, got %v ok=%v", rating, ok)
	}

	heat := results[1]
	if heat.Record == nil || heat.Record.Status != record.StatusWatched {
		t.Errorf("status cell must match case-insensitively: %+v", heat)
	}

	stalker := results[2]
	if stalker.Record == nil || stalker.Record.Status != record.StatusToWatch {
		t.Errorf("unexpected Stalker outcome: %+v", stalker)
	}
	if stalker.Record.Rating != nil {
		t.Error("to-watch imports must not carry a rating")
	}

	missing := results[3]
	if !errors.Is(missing.Err, match.ErrNoMatch) {
		t.Errorf("expected ErrNoMatch for unknown title, got %v", missing.Err)
	}
	if missing.Record != nil {
		t.Error("failed rows must not produce a record")
	}

	if len(st.upserts) != 3 {
		t.Errorf("got %d upserts, want 3", len(st.upserts))
	}
}

func TestImportSkipsExistingIdentity(t *testing.T) {
	matcher := &fakeMatcher{candidates: map[string]*match.Candidate{
		"parasite": candidate("Parasite", 2019),
	}}
	st := newFakeStore()
	st.records[record.NewIdentity("Parasite", 2019)] = &record.MovieRecord{
		Title: "Parasite", Year: 2019, Status: record.StatusToWatch,
	}

	results, err := New(matcher, st).ImportCSV(strings.NewReader("Parasite (2019),watched\n"))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("expected a skipped row, got %+v", results)
	}
	if len(st.upserts) != 0 {
		t.Errorf("skipped row must not upsert, got %d upserts", len(st.upserts))
	}
}

func TestImportWithoutHeader(t *testing.T) {
	matcher := &fakeMatcher{candidates: map[string]*match.Candidate{
		"heat": candidate("Heat", 1995),
	}}
	st := newFakeStore()

	results, err := New(matcher, st).ImportCSV(strings.NewReader("Heat,watched\n"))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if len(results) != 1 || results[0].Record == nil {
		t.Fatalf("headerless single row must import: %+v", results)
	}
}
