package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moviewatch/internal/metrics"
	"moviewatch/internal/models"
	"moviewatch/internal/repository"

	"golang.org/x/sync/errgroup"
)

// savedMoviesConcurrency bounds parallel detail lookups for one watchlist.
const savedMoviesConcurrency = 4

type WatchlistService struct {
	users   repository.Directory
	movies  Movies
	metrics *metrics.Metrics
}

func NewWatchlistService(users repository.Directory, movies Movies, m *metrics.Metrics) *WatchlistService {
	return &WatchlistService{users: users, movies: movies, metrics: m}
}

// ToggleMovieID returns a new list with id appended when absent, or with every
// occurrence removed when present. The input is not modified and the result is never nil.
func ToggleMovieID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids)+1)
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if found {
		return out, false
	}
	return append(out, id), true
}

// IsSaved reports membership using the same id normalisation as Toggle.
func (s *WatchlistService) IsSaved(user models.User, movieID string) bool {
	return user.HasMovie(NormalizeMovieID(movieID))
}

// NormalizeMovieID trims surrounding whitespace from a movie id.
func NormalizeMovieID(movieID string) string {
	return strings.TrimSpace(movieID)
}

// Toggle flips movieID in the user's saved list, computed from the given snapshot,
// and writes it back guarded by the snapshot's version. A stale snapshot fails
// with an error wrapping both ErrWatchlistUpdate and models.ErrConflict; re-read and retry.
// The returned user is the stored record.
func (s *WatchlistService) Toggle(ctx context.Context, user models.User, movieID string) (models.User, bool, error) {
	movieID = NormalizeMovieID(movieID)
	if movieID == "" || user.ID == "" {
		s.metrics.ObserveToggle("error")
		return models.User{}, false, fmt.Errorf("%w: %w", ErrWatchlistUpdate, models.ErrValidation)
	}

	ids, saved := ToggleMovieID(user.MovieIDs, movieID)
	updated, err := s.users.Update(ctx, user.ID, models.UserPatch{
		MovieIDs:        ids,
		ExpectedVersion: user.Version,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.metrics.ObserveToggle("conflict")
		} else {
			s.metrics.ObserveToggle("error")
		}
		return models.User{}, false, fmt.Errorf("%w: %w", ErrWatchlistUpdate, err)
	}

	if saved {
		s.metrics.ObserveToggle("saved")
	} else {
		s.metrics.ObserveToggle("removed")
	}
	return updated, saved, nil
}

// SavedMovies loads details for every saved id, in list order. Ids whose lookup
// fails are left out; only cancellation of ctx is reported as an error.
func (s *WatchlistService) SavedMovies(ctx context.Context, user models.User) ([]models.MovieDetail, error) {
	if len(user.MovieIDs) == 0 {
		return []models.MovieDetail{}, nil
	}

	results := make([]*models.MovieDetail, len(user.MovieIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(savedMoviesConcurrency)
	for i, id := range user.MovieIDs {
		g.Go(func() error {
			movie, err := s.movies.Details(gctx, id)
			if err != nil {
				return nil
			}
			results[i] = &movie
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	movies := make([]models.MovieDetail, 0, len(results))
	for _, m := range results {
		if m != nil {
			movies = append(movies, *m)
		}
	}
	return movies, nil
}
