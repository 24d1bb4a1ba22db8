package tmdb

import "strconv"

// searchResponse is the envelope of the TMDB /search/movie endpoint.
type searchResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a single result from the TMDB search endpoint, in the
// service's own relevance order.
type Movie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Overview      string  `json:"overview"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	Popularity    float64 `json:"popularity"`
}

// Year extracts the release year from the result's release date, or 0 when
// the date is absent or malformed.
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// MovieDetails is the TMDB /movie/{id} response, trimmed to the fields the
// record schema uses.
type MovieDetails struct {
	ID                  int       `json:"id"`
	Title               string    `json:"title"`
	Overview            string    `json:"overview"`
	PosterPath          string    `json:"poster_path"`
	ReleaseDate         string    `json:"release_date"`
	Runtime             int       `json:"runtime"`
	Genres              []Genre   `json:"genres"`
	ProductionCountries []Country `json:"production_countries"`
	OriginalLanguage    string    `json:"original_language"`
	IMDbID              string    `json:"imdb_id"`
}

// Year extracts the release year from the details' release date.
func (d *MovieDetails) Year() int {
	if len(d.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(d.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Country is a TMDB production country entry.
type Country struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// Credits is the TMDB /movie/{id}/credits response.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is a single cast credit, ordered by billing.
type CastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is a single crew credit.
type CrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}
