package service

import (
	"context"
	"time"

	"moviewatch/internal/metrics"
	"moviewatch/internal/models"
	"moviewatch/internal/repository"
)

// Authorization covers account creation, credential checks and API tokens.
type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (models.User, error)
	Resolve(ctx context.Context, userID string) (models.User, error)
	GenerateToken(u models.User) (string, error)
	ParseToken(accessToken string) (models.Session, error)
}

// Movies is read-only access to the movie catalog.
type Movies interface {
	Search(ctx context.Context, query string) ([]models.MovieSummary, error)
	Details(ctx context.Context, movieID string) (models.MovieDetail, error)
}

// Watchlist mutates and reads a user's saved movies.
type Watchlist interface {
	Toggle(ctx context.Context, user models.User, movieID string) (models.User, bool, error)
	IsSaved(user models.User, movieID string) bool
	SavedMovies(ctx context.Context, user models.User) ([]models.MovieDetail, error)
}

// PasswordHasher is satisfied by *credential.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// MovieProvider is satisfied by *tmdb.Client.
type MovieProvider interface {
	SearchMovies(ctx context.Context, query string) ([]models.MovieSummary, error)
	MovieDetails(ctx context.Context, movieID string) (models.MovieDetail, error)
}

// TokenConfig controls API token signing. A zero TTL issues tokens that never expire.
type TokenConfig struct {
	SigningKey string
	TTL        time.Duration
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Hasher   PasswordHasher
	Provider MovieProvider
	Tokens   TokenConfig
	Metrics  *metrics.Metrics
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Movies
	Watchlist
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	movies := NewMovieService(deps.Provider, deps.Metrics)
	return &Service{
		Authorization: NewAuthService(repos.Users, deps.Hasher, deps.Tokens),
		Movies:        movies,
		Watchlist:     NewWatchlistService(repos.Users, movies, deps.Metrics),
	}
}
