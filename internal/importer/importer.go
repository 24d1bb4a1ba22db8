// Package importer is the one-shot bulk import path: it reads
// (title, status) rows from a CSV export of the old spreadsheet, resolves
// each against the metadata service, and writes new records through the
// store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/marco/movielog/internal/match"
	"github.com/marco/movielog/internal/record"
	"github.com/marco/movielog/internal/store"
)

// trailingYearPattern matches a "(2019)" suffix on a spreadsheet title.
var trailingYearPattern = regexp.MustCompile(`\((\d{4})\)\s*$`)

// Matcher resolves a title query to candidate metadata.
type Matcher interface {
	Match(title string, yearHint int) (*match.Candidate, error)
}

// Store is the slice of the record store the importer needs.
type Store interface {
	Find(title string, year int) (*record.MovieRecord, error)
	Upsert(r *record.MovieRecord) error
}

// RowResult reports the outcome of importing a single row.
type RowResult struct {
	Line     int
	Title    string
	YearHint int
	Status   record.Status
	Record   *record.MovieRecord // nil when skipped or failed
	Skipped  bool                // identity already present in the store
	Err      error
}

// Importer drives the bulk import loop.
type Importer struct {
	matcher Matcher
	store   Store
}

// New creates an importer over the given matcher and store.
func New(matcher Matcher, store Store) *Importer {
	return &Importer{matcher: matcher, store: store}
}

// ParseTitle splits a spreadsheet title cell like "Parasite (2019)" into
// the title and an optional year hint (0 when absent).
func ParseTitle(cell string) (string, int) {
	cell = strings.TrimSpace(cell)
	m := trailingYearPattern.FindStringSubmatchIndex(cell)
	if m == nil {
		return cell, 0
	}
	year, _ := strconv.Atoi(cell[m[2]:m[3]])
	return strings.TrimSpace(cell[:m[0]]), year
}

// ImportCSV reads rows of "title,status" (a leading header row is
// skipped), matches each title, and upserts the resulting record. Rows
// whose identity already exists are skipped, matching the one-shot nature
// of the migration. Per-row failures are reported, not fatal.
func (im *Importer) ImportCSV(r io.Reader) ([]RowResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var results []RowResult
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return results, fmt.Errorf("failed to read CSV: %w", err)
		}
		line++

		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "title") {
			continue
		}

		title, yearHint := ParseTitle(row[0])
		status := record.StatusToWatch
		if len(row) > 1 && strings.EqualFold(strings.TrimSpace(row[1]), string(record.StatusWatched)) {
			status = record.StatusWatched
		}

		results = append(results, im.importRow(line, title, yearHint, status))
	}

	return results, nil
}

func (im *Importer) importRow(line int, title string, yearHint int, status record.Status) RowResult {
	res := RowResult{Line: line, Title: title, YearHint: yearHint, Status: status}

	cand, err := im.matcher.Match(title, yearHint)
	if err != nil {
		res.Err = err
		return res
	}

	if _, err := im.store.Find(cand.Title, cand.Year); err == nil {
		res.Skipped = true
		return res
	}

	rec := cand.Record(status)
	if status == record.StatusWatched {
		// The spreadsheet carries no ratings; imported watched movies
		// start at 0.0 until the user updates them.
		rating := 0.0
		rec.Rating = &rating
	}

	if err := im.store.Upsert(rec); err != nil {
		res.Err = err
		return res
	}
	res.Record = rec
	return res
}

var _ Store = (*store.Store)(nil)
