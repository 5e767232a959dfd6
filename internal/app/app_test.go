package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"moviewatch/internal/config"
	"moviewatch/internal/credential"
	"moviewatch/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Directory: config.DirectoryConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "nested", "users.db"),
		},
		TMDB:       config.TMDBConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Auth:       config.AuthConfig{SigningKey: "k"},
		Credential: config.CredentialConfig{Algorithm: "argon2id", Iterations: 1, MemoryKB: 1024, Parallelism: 1},
	}
}

func TestServices_SQLiteEndToEnd(t *testing.T) {
	cfg := sqliteConfig(t)
	services, closeFn, err := Services(cfg, logger.Nop(), nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	ctx := context.Background()
	created, err := services.SignUp(ctx, "Alice", "a@x.io", "pw1")
	require.NoError(t, err)

	u, err := services.Login(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	u, saved, err := services.Toggle(ctx, u, "550")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, []string{"550"}, u.MovieIDs)

	token, err := services.GenerateToken(u)
	require.NoError(t, err)
	sess, err := services.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)
}

func TestOpenRepository_Appwrite(t *testing.T) {
	cfg := &config.Config{
		Directory: config.DirectoryConfig{Driver: config.DriverAppwrite},
		Appwrite: config.AppwriteConfig{
			Endpoint:   "https://cloud.example.com/v1",
			ProjectID:  "p",
			DatabaseID: "d",
			UsersTable: "users",
		},
	}
	repos, closeFn, err := OpenRepository(cfg, logger.Nop())
	require.NoError(t, err)
	assert.NotNil(t, repos.Users)
	assert.NoError(t, closeFn())

	cfg.Appwrite.ProjectID = ""
	_, _, err = OpenRepository(cfg, logger.Nop())
	assert.Error(t, err)
}

func TestOpenRepository_UnknownDriver(t *testing.T) {
	_, _, err := OpenRepository(&config.Config{Directory: config.DirectoryConfig{Driver: "mongo"}}, logger.Nop())
	assert.Error(t, err)
}

func TestOpenClient_SessionSurvivesReopen(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Device.Path = filepath.Join(t.TempDir(), "device.db")
	ctx := context.Background()

	client, err := OpenClient(cfg, logger.Nop())
	require.NoError(t, err)
	_, err = client.Flow.SubmitSignup(ctx, "Alice", "a@x.io", "pw1")
	require.NoError(t, err)
	_, err = client.Flow.SubmitLogin(ctx, "a@x.io", "pw1")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	client, err = OpenClient(cfg, logger.Nop())
	require.NoError(t, err)
	defer func() { assert.NoError(t, client.Close()) }()

	require.NoError(t, client.Flow.Launch(ctx))
	u, ok := client.Flow.User()
	require.True(t, ok)
	assert.Equal(t, "Alice", u.Username)
}

func TestJoinClosers(t *testing.T) {
	var order []int
	c := joinClosers(
		func() error {
			order = append(order, 1)
			return nil
		},
		nil,
		func() error {
			order = append(order, 2)
			return assert.AnError
		},
	)
	err := c()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []int{2, 1}, order)
}

type brokenEntropy struct{}

func (brokenEntropy) Read([]byte) (int, error) { return 0, errors.New("getrandom: not supported") }

func TestNewHasher_FallsBackWhenSystemRandomFails(t *testing.T) {
	h, err := NewHasher(sqliteConfig(t), credential.WithRandom(brokenEntropy{}))
	require.NoError(t, err)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw1", hash))
}
