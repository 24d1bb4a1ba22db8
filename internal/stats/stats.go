// Package stats computes aggregate views over the record set. Every
// function is pure: it recomputes from the snapshot it is handed and never
// mutates the store.
package stats

import (
	"math"
	"sort"

	"github.com/marco/movielog/internal/record"
)

// DirectorCount is a watched-movie count for one director.
type DirectorCount struct {
	Director string
	Count    int
}

// GenreCount is a watched-movie count for one genre.
type GenreCount struct {
	Genre string
	Count int
}

// RatingBucket is a count of ratings in the half-open range
// [Low, Low+width).
type RatingBucket struct {
	Low   float64
	Count int
}

// DecadeCount is a watched-movie count for one release decade.
type DecadeCount struct {
	Decade int
	Count  int
}

// Summary is the at-a-glance dashboard header.
type Summary struct {
	TotalWatched  int
	TotalHours    float64
	AverageRating float64
}

// TopDirectors counts watched records per director, excluding the
// "Unknown" sentinel, sorted by count descending with director name
// ascending as the tie-break, truncated to n.
func TopDirectors(records []*record.MovieRecord, n int) []DirectorCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Status != record.StatusWatched || r.Director == "" || r.Director == record.UnknownDirector {
			continue
		}
		counts[r.Director]++
	}

	out := make([]DirectorCount, 0, len(counts))
	for director, count := range counts {
		out = append(out, DirectorCount{Director: director, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Director < out[j].Director
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// GenreDistribution counts watched records per genre. A record with k
// genres contributes 1 to each of its k counts. Results are sorted by
// count descending, genre ascending.
func GenreDistribution(records []*record.MovieRecord) []GenreCount {
	counts := make(map[string]int)
	for _, r := range records {
		if r.Status != record.StatusWatched {
			continue
		}
		for _, g := range r.Genres {
			counts[g]++
		}
	}

	out := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		out = append(out, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

// RatingHistogram buckets watched, rated records into half-open ranges
// [b, b+bucketWidth). Only non-empty buckets are returned, sorted by Low
// ascending. A bucketWidth <= 0 defaults to 1.
func RatingHistogram(records []*record.MovieRecord, bucketWidth float64) []RatingBucket {
	if bucketWidth <= 0 {
		bucketWidth = 1
	}

	counts := make(map[float64]int)
	for _, r := range records {
		if r.Status != record.StatusWatched {
			continue
		}
		rating, ok := r.RatingValue()
		if !ok {
			continue
		}
		low := math.Floor(rating/bucketWidth) * bucketWidth
		counts[low]++
	}

	out := make([]RatingBucket, 0, len(counts))
	for low, count := range counts {
		out = append(out, RatingBucket{Low: low, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Low < out[j].Low })
	return out
}

// RecentlyWatched returns watched records carrying a watch date, sorted by
// date descending with title ascending as the tie-break, truncated to n.
func RecentlyWatched(records []*record.MovieRecord, n int) []*record.MovieRecord {
	var out []*record.MovieRecord
	for _, r := range records {
		if r.Status == record.StatusWatched && r.DateWatched != nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DateWatched.Time, out[j].DateWatched.Time
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].Title < out[j].Title
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ToWatchList returns to-watch records sorted by year ascending, title
// ascending on ties.
func ToWatchList(records []*record.MovieRecord) []*record.MovieRecord {
	var out []*record.MovieRecord
	for _, r := range records {
		if r.Status == record.StatusToWatch {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// ByDecade counts watched records per release decade, most recent decade
// first.
func ByDecade(records []*record.MovieRecord) []DecadeCount {
	counts := make(map[int]int)
	for _, r := range records {
		if r.Status != record.StatusWatched {
			continue
		}
		counts[r.Year/10*10]++
	}

	out := make([]DecadeCount, 0, len(counts))
	for decade, count := range counts {
		out = append(out, DecadeCount{Decade: decade, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Decade > out[j].Decade })
	return out
}

// Summarize computes the totals shown at the top of the stats dashboard.
// Hours come from runtimes; the average covers rated records only.
func Summarize(records []*record.MovieRecord) Summary {
	var s Summary
	var ratingSum float64
	var rated int

	for _, r := range records {
		if r.Status != record.StatusWatched {
			continue
		}
		s.TotalWatched++
		s.TotalHours += float64(r.Runtime) / 60
		if rating, ok := r.RatingValue(); ok {
			ratingSum += rating
			rated++
		}
	}
	if rated > 0 {
		s.AverageRating = ratingSum / float64(rated)
	}
	return s
}
