package handlers

import (
	"context"
	"net/http"
	"sync"

	"moviewatch/internal/models"
	"moviewatch/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  models.User
	signUpErr   error
	loginUser   models.User
	loginErr    error
	resolveUser models.User
	resolveErr  error
	token       string
	tokenErr    error
	session     models.Session
	parseErr    error

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignUpPassword string
	lastLoginEmail     string
	lastParseToken     string
	lastResolveID      string
	tokenFor           models.User
}

func (m *mockAuth) SignUp(ctx context.Context, username, email, password string) (models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (models.User, error) {
	m.lastLoginEmail = email
	return m.loginUser, m.loginErr
}

func (m *mockAuth) Resolve(ctx context.Context, userID string) (models.User, error) {
	m.lastResolveID = userID
	return m.resolveUser, m.resolveErr
}

func (m *mockAuth) GenerateToken(u models.User) (string, error) {
	m.tokenFor = u
	return m.token, m.tokenErr
}

func (m *mockAuth) ParseToken(token string) (models.Session, error) {
	m.lastParseToken = token
	return m.session, m.parseErr
}

type mockMovies struct {
	mu          sync.Mutex
	searchFn    func(ctx context.Context, query string) ([]models.MovieSummary, error)
	results     []models.MovieSummary
	searchErr   error
	detail      models.MovieDetail
	detailErr   error
	searchCalls []string
	lastDetail  string
}

func (m *mockMovies) Search(ctx context.Context, query string) ([]models.MovieSummary, error) {
	m.mu.Lock()
	m.searchCalls = append(m.searchCalls, query)
	fn := m.searchFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, query)
	}
	return m.results, m.searchErr
}

func (m *mockMovies) Details(ctx context.Context, movieID string) (models.MovieDetail, error) {
	m.lastDetail = movieID
	return m.detail, m.detailErr
}

func (m *mockMovies) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searchCalls...)
}

type mockWatchlist struct {
	toggleUser  models.User
	toggleSaved bool
	toggleErr   error
	saved       []models.MovieDetail
	savedErr    error

	toggleCalls     int
	lastToggleUser  models.User
	lastToggleMovie string
}

func (m *mockWatchlist) Toggle(ctx context.Context, user models.User, movieID string) (models.User, bool, error) {
	m.toggleCalls++
	m.lastToggleUser = user
	m.lastToggleMovie = movieID
	return m.toggleUser, m.toggleSaved, m.toggleErr
}

func (m *mockWatchlist) IsSaved(user models.User, movieID string) bool {
	return user.HasMovie(movieID)
}

func (m *mockWatchlist) SavedMovies(ctx context.Context, user models.User) ([]models.MovieDetail, error) {
	return m.saved, m.savedErr
}

// ---- Shared Test Helpers ----

var testUser = models.User{ID: "user_1", Username: "Alice", Email: "a@x.io", MovieIDs: []string{"550"}, Version: 2}

// authedMock accepts any token as testUser.
func authedMock() *mockAuth {
	return &mockAuth{
		session:     testUser.Session(),
		resolveUser: testUser,
	}
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts...)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeaders(req *http.Request, h http.Header) *http.Request {
	for k, vv := range h {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
