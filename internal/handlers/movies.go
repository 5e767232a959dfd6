package handlers

import (
	"net/http"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
)

// MovieCard is a search result with its poster URL resolved.
type MovieCard struct {
	models.MovieSummary
	PosterURL   string `json:"poster_url"`
	ReleaseYear string `json:"release_year"`
}

// SearchResponse lists search results.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []MovieCard `json:"results"`
}

// MovieDetailResponse is a movie with derived fields and the caller's saved flag.
type MovieDetailResponse struct {
	models.MovieDetail
	PosterURL       string   `json:"poster_url"`
	ReleaseYear     string   `json:"release_year"`
	GenreNames      []string `json:"genre_names"`
	CompanyNames    []string `json:"company_names"`
	BudgetMillions  float64  `json:"budget_millions"`
	RevenueMillions int64    `json:"revenue_millions"`
	Saved           bool     `json:"saved"`
}

func newMovieCards(movies []models.MovieSummary) []MovieCard {
	cards := make([]MovieCard, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, MovieCard{
			MovieSummary: m,
			PosterURL:    models.PosterURL(m.PosterPath),
			ReleaseYear:  models.ReleaseYear(m.ReleaseDate),
		})
	}
	return cards
}

func newMovieDetailResponse(m models.MovieDetail, saved bool) MovieDetailResponse {
	return MovieDetailResponse{
		MovieDetail:     m,
		PosterURL:       models.PosterURL(m.PosterPath),
		ReleaseYear:     models.ReleaseYear(m.ReleaseDate),
		GenreNames:      m.GenreNames(),
		CompanyNames:    m.CompanyNames(),
		BudgetMillions:  m.BudgetMillions(),
		RevenueMillions: m.RevenueMillions(),
		Saved:           saved,
	}
}

// @Summary      Search movies
// @Description  A blank query returns an empty list.
// @Tags         movies
// @Security     BearerAuth
// @Produce      json
// @Param        query  query     string  false  "title search"
// @Success      200    {object}  SearchResponse
// @Failure      401    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /api/v1/movies [get]
func (h *Handler) searchMovies(c *gin.Context) {
	query := c.Query("query")
	movies, err := h.services.Search(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, "movies_search_failed", err, "query", query)
		return
	}
	c.JSON(http.StatusOK, SearchResponse{Query: query, Results: newMovieCards(movies)})
}

// @Summary      Movie details
// @Tags         movies
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "TMDB movie id"
// @Success      200  {object}  MovieDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/v1/movies/{id} [get]
func (h *Handler) getMovie(c *gin.Context) {
	id := service.NormalizeMovieID(c.Param("id"))
	movie, err := h.services.Details(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, "movies_details_failed", err, "movie_id", id)
		return
	}

	user, _ := currentUser(c)
	c.JSON(http.StatusOK, newMovieDetailResponse(movie, h.services.IsSaved(user, id)))
}
