// Package app builds the shared dependency graph for the API server and the CLI.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"moviewatch/internal/config"
	"moviewatch/internal/credential"
	"moviewatch/internal/logger"
	"moviewatch/internal/metrics"
	"moviewatch/internal/repository"
	"moviewatch/internal/repository/db"
	"moviewatch/internal/rowstore"
	"moviewatch/internal/service"
	"moviewatch/internal/tmdb"
)

// Closer releases what Open acquired.
type Closer func() error

// OpenRepository opens the user directory selected by cfg.Directory.Driver.
func OpenRepository(cfg *config.Config, log *logger.Logger) (*repository.Repository, Closer, error) {
	switch cfg.Directory.Driver {
	case config.DriverAppwrite:
		client, err := rowstore.NewAppwriteClient(rowstore.Config{
			Endpoint:   cfg.Appwrite.Endpoint,
			ProjectID:  cfg.Appwrite.ProjectID,
			DatabaseID: cfg.Appwrite.DatabaseID,
			APIKey:     cfg.Appwrite.APIKey,
			Timeout:    cfg.Appwrite.Timeout,
		}, nil)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("directory_opened", "driver", config.DriverAppwrite, "endpoint", cfg.Appwrite.Endpoint, "table", cfg.Appwrite.UsersTable)
		return repository.NewRowStoreRepository(client, cfg.Appwrite.UsersTable), func() error { return nil }, nil

	case config.DriverSQLite:
		conn, err := db.InitDB(cfg.Directory.SQLitePath, db.SchemaUsers)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite directory: %w", err)
		}
		log.Infow("directory_opened", "driver", config.DriverSQLite, "path", cfg.Directory.SQLitePath)
		return repository.NewRepository(conn), conn.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
	}
}

// NewHasher builds the password hasher from cfg.Credential. Salts fall back to
// credential.NewFallbackSource when the system source fails; opts are applied after that.
func NewHasher(cfg *config.Config, opts ...credential.Option) (*credential.Hasher, error) {
	opts = append([]credential.Option{credential.WithFallback(credential.NewFallbackSource())}, opts...)
	return credential.NewHasher(credential.Params{
		Algorithm:   cfg.Credential.Algorithm,
		Iterations:  cfg.Credential.Iterations,
		MemoryKB:    cfg.Credential.MemoryKB,
		Parallelism: cfg.Credential.Parallelism,
		BcryptCost:  cfg.Credential.BcryptCost,
	}, opts...)
}

// NewMovieProvider builds the TMDB client. An empty API key is allowed but every lookup will fail.
func NewMovieProvider(cfg *config.Config, log *logger.Logger) *tmdb.Client {
	if cfg.TMDB.APIKey == "" {
		log.Warnw("tmdb_api_key_missing", "hint", "set MOVIEWATCH_TMDB_API_KEY")
	}
	return tmdb.New(cfg.TMDB.BaseURL, cfg.TMDB.APIKey, &http.Client{Timeout: cfg.TMDB.Timeout})
}

// Services wires repository, hasher and provider into the service aggregate.
// The returned Closer closes the directory.
func Services(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (*service.Service, Closer, error) {
	repos, closeRepos, err := OpenRepository(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	hasher, err := NewHasher(cfg)
	if err != nil {
		return nil, nil, errors.Join(err, closeRepos())
	}

	services := service.NewService(repos, service.Deps{
		Hasher:   hasher,
		Provider: NewMovieProvider(cfg, log),
		Tokens: service.TokenConfig{
			SigningKey: cfg.Auth.SigningKey,
			TTL:        cfg.Auth.TokenTTL,
		},
		Metrics: m,
	})
	return services, closeRepos, nil
}

// Client is everything a device-side client needs: the services plus the
// auth flow bound to this device's persisted session.
type Client struct {
	Services *service.Service
	Flow     *service.AuthFlow
	Close    Closer
}

// OpenClient wires services and the device session store for the CLI.
func OpenClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	services, closeServices, err := Services(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	sessions, closeSessions, err := OpenSessionStore(cfg)
	if err != nil {
		return nil, errors.Join(err, closeServices())
	}
	return &Client{
		Services: services,
		Flow:     service.NewAuthFlow(services, sessions),
		Close:    joinClosers(closeServices, closeSessions),
	}, nil
}
