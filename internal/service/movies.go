package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moviewatch/internal/metrics"
	"moviewatch/internal/models"
)

// MovieService is a thin, uncached pass-through to the movie provider.
type MovieService struct {
	provider MovieProvider
	metrics  *metrics.Metrics
}

func NewMovieService(provider MovieProvider, m *metrics.Metrics) *MovieService {
	return &MovieService{provider: provider, metrics: m}
}

// Search returns matching movies. A blank query returns an empty list without a provider call.
func (s *MovieService) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.MovieSummary{}, nil
	}

	movies, err := s.provider.SearchMovies(ctx, query)
	s.metrics.ObserveLookup("search", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if movies == nil {
		movies = []models.MovieSummary{}
	}
	return movies, nil
}

func (s *MovieService) Details(ctx context.Context, movieID string) (models.MovieDetail, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return models.MovieDetail{}, fmt.Errorf("%w: empty movie id: %w", ErrLookupFailed, models.ErrValidation)
	}

	movie, err := s.provider.MovieDetails(ctx, movieID)
	s.metrics.ObserveLookup("details", err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return models.MovieDetail{}, err
		}
		return models.MovieDetail{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return movie, nil
}
