package models

import (
	"math"
	"strings"
)

// PosterBaseURL is the TMDB image CDN prefix for w500 posters.
const PosterBaseURL = "https://image.tmdb.org/t/p/w500"

// MovieSummary is a search result row.
type MovieSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids,omitempty"`
	Adult       bool    `json:"adult"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ProductionCompany struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	LogoPath      string `json:"logo_path"`
	OriginCountry string `json:"origin_country"`
}

// MovieDetail is the full record shown on the details view.
type MovieDetail struct {
	ID                  int64               `json:"id"`
	Title               string              `json:"title"`
	OriginalTitle       string              `json:"original_title"`
	OriginalLanguage    string              `json:"original_language"`
	PosterPath          string              `json:"poster_path"`
	BackdropPath        string              `json:"backdrop_path"`
	Overview            string              `json:"overview"`
	Tagline             string              `json:"tagline"`
	Status              string              `json:"status"`
	Homepage            string              `json:"homepage"`
	IMDbID              string              `json:"imdb_id"`
	ReleaseDate         string              `json:"release_date"`
	Runtime             int                 `json:"runtime"`
	Budget              int64               `json:"budget"`
	Revenue             int64               `json:"revenue"`
	VoteAverage         float64             `json:"vote_average"`
	VoteCount           int                 `json:"vote_count"`
	Popularity          float64             `json:"popularity"`
	Genres              []Genre             `json:"genres"`
	ProductionCompanies []ProductionCompany `json:"production_companies"`
}

// PosterURL returns the absolute poster URL, or "" when the movie has none.
func PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return PosterBaseURL + path
}

// ReleaseYear returns the year part of a YYYY-MM-DD release date.
func ReleaseYear(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}

func (m MovieDetail) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

func (m MovieDetail) CompanyNames() []string {
	names := make([]string, 0, len(m.ProductionCompanies))
	for _, c := range m.ProductionCompanies {
		names = append(names, c.Name)
	}
	return names
}

// BudgetMillions returns the budget in millions of dollars.
func (m MovieDetail) BudgetMillions() float64 {
	return float64(m.Budget) / 1_000_000
}

// RevenueMillions returns the revenue rounded to whole millions of dollars.
func (m MovieDetail) RevenueMillions() int64 {
	return int64(math.Round(float64(m.Revenue) / 1_000_000))
}

// RoundedVote is the vote average rounded to the nearest integer out of 10.
func (m MovieDetail) RoundedVote() int {
	return int(math.Round(m.VoteAverage))
}
