package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moviewatch/internal/metrics"
	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSearchMovies(t *testing.T) {
	movies := &mockMovies{results: []models.MovieSummary{
		{ID: 27205, Title: "Inception", PosterPath: "/inc.jpg", ReleaseDate: "2010-07-15"},
	}}
	r := newTestRouter(&service.Service{Authorization: authedMock(), Movies: movies})

	w := httptest.NewRecorder()
	req := withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/movies?query=inception", nil), authHeader("tok"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var out SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Title != "Inception" {
		t.Fatalf("unexpected results %+v", out.Results)
	}
	if out.Results[0].PosterURL != models.PosterBaseURL+"/inc.jpg" || out.Results[0].ReleaseYear != "2010" {
		t.Fatalf("derived fields wrong: %+v", out.Results[0])
	}
	if calls := movies.calls(); len(calls) != 1 || calls[0] != "inception" {
		t.Fatalf("unexpected search calls %v", calls)
	}
}

func TestSearchMovies_RequiresAuth(t *testing.T) {
	movies := &mockMovies{}
	r := newTestRouter(&service.Service{Authorization: authedMock(), Movies: movies})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies?query=x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if len(movies.calls()) != 0 {
		t.Fatalf("provider must not be called")
	}
}

func TestSearchMovies_ProviderDown(t *testing.T) {
	movies := &mockMovies{searchErr: fmt.Errorf("%w: %w", service.ErrLookupFailed, models.ErrTransport)}
	r := newTestRouter(&service.Service{Authorization: authedMock(), Movies: movies})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/movies?query=x", nil), authHeader("tok")))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestGetMovie_SavedFlag(t *testing.T) {
	cases := []struct {
		id    string
		saved bool
	}{
		{"550", true},
		{"13", false},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			movies := &mockMovies{detail: models.MovieDetail{
				ID:      550,
				Title:   "Fight Club",
				Budget:  63_000_000,
				Revenue: 100_853_753,
				Genres:  []models.Genre{{ID: 18, Name: "Drama"}},
			}}
			s := &service.Service{Authorization: authedMock(), Movies: movies, Watchlist: &mockWatchlist{}}
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+tc.id, nil), authHeader("tok")))
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			var out MovieDetailResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Saved != tc.saved {
				t.Fatalf("saved=%v, want %v", out.Saved, tc.saved)
			}
			if out.Title != "Fight Club" || out.BudgetMillions != 63 || out.RevenueMillions != 101 {
				t.Fatalf("unexpected body %+v", out)
			}
			if len(out.GenreNames) != 1 || out.GenreNames[0] != "Drama" {
				t.Fatalf("unexpected genres %v", out.GenreNames)
			}
			if movies.lastDetail != tc.id {
				t.Fatalf("details called with %q", movies.lastDetail)
			}
		})
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	movies := &mockMovies{detailErr: fmt.Errorf("%w: %w", service.ErrLookupFailed, models.ErrNotFound)}
	r := newTestRouter(&service.Service{Authorization: authedMock(), Movies: movies, Watchlist: &mockWatchlist{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/movies/999999", nil), authHeader("tok")))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var out errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != "Movie not found" {
		t.Fatalf("unexpected message %q", out.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := newTestRouter(&service.Service{}, WithMetrics(m, reg))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `moviewatch_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Fatalf("expected health request counted, got:\n%s", w.Body.String())
	}
}

func TestMetricsEndpoint_DisabledWithoutGatherer(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetMovie_TrimsID(t *testing.T) {
	movies := &mockMovies{detail: models.MovieDetail{ID: 550, Title: "Fight Club"}}
	s := &service.Service{Authorization: authedMock(), Movies: movies, Watchlist: service.NewWatchlistService(nil, nil, nil)}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, withHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/movies/%20550", nil), authHeader("tok")))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out MovieDetailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if movies.lastDetail != "550" || !out.Saved {
		t.Fatalf("details called with %q, saved=%v", movies.lastDetail, out.Saved)
	}
}
