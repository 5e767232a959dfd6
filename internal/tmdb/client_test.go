package tmdb

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviewatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SearchMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "star wars", r.URL.Query().Get("query"))
		assert.Equal(t, "false", r.URL.Query().Get("include_adult"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"page":1,"results":[{"id":11,"title":"Star Wars","poster_path":"/p.jpg","release_date":"1977-05-25","vote_average":8.2}],"total_pages":1,"total_results":1}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/3/", "tok", srv.Client())
	got, err := c.SearchMovies(context.Background(), "star wars")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Equal(t, "Star Wars", got[0].Title)
	assert.Equal(t, "1977", models.ReleaseYear(got[0].ReleaseDate))
}

func TestClient_SearchMovies_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"page":1,"total_results":0}`)
	}))
	defer srv.Close()

	got, err := New(srv.URL, "", nil).SearchMovies(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_MovieDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":603,"title":"The Matrix","runtime":136,"budget":63000000,"revenue":463517383,
			"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}],
			"production_companies":[{"id":79,"name":"Village Roadshow Pictures"}],"vote_average":8.2,"vote_count":26000}`)
	}))
	defer srv.Close()

	m, err := New(srv.URL, "tok", nil).MovieDetails(context.Background(), "603")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", m.Title)
	assert.Equal(t, 136, m.Runtime)
	assert.Equal(t, []string{"Action", "Science Fiction"}, m.GenreNames())
	assert.Equal(t, []string{"Village Roadshow Pictures"}, m.CompanyNames())
	assert.Equal(t, 63.0, m.BudgetMillions())
	assert.Equal(t, int64(464), m.RevenueMillions())
	assert.Equal(t, 8, m.RoundedVote())
}

func TestClient_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/movie/0" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"status_code":34,"status_message":"The resource you requested could not be found."}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status_code":7,"status_message":"Invalid API key"}`)
	}))
	defer srv.Close()
	c := New(srv.URL, "bad", nil)

	_, err := c.MovieDetails(context.Background(), "0")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = c.SearchMovies(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.Contains(t, err.Error(), "Invalid API key")
}
