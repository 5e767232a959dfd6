package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
)

// ToggleRequest optionally pins the user version the client last saw.
type ToggleRequest struct {
	Version int64 `json:"version" example:"3"`
}

// ToggleResponse reports the new membership and the stored user.
type ToggleResponse struct {
	MovieID string      `json:"movieId"`
	Saved   bool        `json:"saved"`
	User    models.User `json:"user"`
}

// WatchlistResponse lists saved ids and the details that could be loaded.
type WatchlistResponse struct {
	MovieIDs []string              `json:"movieIds"`
	Version  int64                 `json:"version"`
	Movies   []MovieDetailResponse `json:"movies"`
}

// @Summary      Saved movies
// @Description  Movies whose details fail to load are left out of "movies".
// @Tags         watchlist
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  WatchlistResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/watchlist [get]
func (h *Handler) getWatchlist(c *gin.Context) {
	user, _ := currentUser(c)

	movies, err := h.services.SavedMovies(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, "watchlist_load_failed", err, "user_id", user.ID)
		return
	}

	resp := WatchlistResponse{
		MovieIDs: user.MovieIDs,
		Version:  user.Version,
		Movies:   make([]MovieDetailResponse, 0, len(movies)),
	}
	if resp.MovieIDs == nil {
		resp.MovieIDs = []string{}
	}
	for _, m := range movies {
		resp.Movies = append(resp.Movies, newMovieDetailResponse(m, true))
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Toggle a saved movie
// @Description  Adds the movie when absent, removes it when present. A stale version answers 409.
// @Tags         watchlist
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        movieId  path      string         true   "TMDB movie id"
// @Param        body     body      ToggleRequest  false  "expected version"
// @Success      200      {object}  ToggleResponse
// @Failure      401      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /api/v1/watchlist/{movieId} [post]
func (h *Handler) toggleWatchlist(c *gin.Context) {
	user, _ := currentUser(c)
	movieID := service.NormalizeMovieID(c.Param("movieId"))

	var input ToggleRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			h.log.Infow("bad_request_body", "request_id", requestID(c), "err", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}
	if input.Version != 0 && input.Version != user.Version {
		err := fmt.Errorf("%w: version %d, stored %d: %w", service.ErrWatchlistUpdate, input.Version, user.Version, models.ErrConflict)
		h.respondError(c, "watchlist_toggle_failed", err, "user_id", user.ID, "movie_id", movieID)
		return
	}

	updated, saved, err := h.services.Toggle(c.Request.Context(), user, movieID)
	if err != nil {
		h.respondError(c, "watchlist_toggle_failed", err, "user_id", user.ID, "movie_id", movieID)
		return
	}

	h.log.Infow("watchlist_toggled", "request_id", requestID(c), "user_id", user.ID, "movie_id", movieID, "saved", saved)
	c.JSON(http.StatusOK, ToggleResponse{MovieID: movieID, Saved: saved, User: updated})
}
