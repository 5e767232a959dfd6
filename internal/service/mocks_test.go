package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"moviewatch/internal/models"
)

// memDirectory is an in-memory repository.Directory with the same version rules as the real drivers.
type memDirectory struct {
	mu    sync.Mutex
	users map[string]models.User

	findByEmailErr error
	createErr      error
	updateErr      error

	findByEmailCalls int
	createCalls      int
	updateCalls      int
}

func newMemDirectory(users ...models.User) *memDirectory {
	d := &memDirectory{users: map[string]models.User{}}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *memDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.findByEmailCalls++
	if d.findByEmailErr != nil {
		return nil, d.findByEmailErr
	}
	for _, u := range d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (d *memDirectory) FindByID(ctx context.Context, userID string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (d *memDirectory) Create(ctx context.Context, u models.User) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createCalls++
	if d.createErr != nil {
		return models.User{}, d.createErr
	}
	if _, ok := d.users[u.ID]; ok {
		return models.User{}, models.ErrConflict
	}
	for _, existing := range d.users {
		if existing.Email == u.Email {
			return models.User{}, models.ErrConflict
		}
	}
	d.users[u.ID] = u
	return u, nil
}

func (d *memDirectory) Update(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updateCalls++
	if d.updateErr != nil {
		return models.User{}, d.updateErr
	}
	u, ok := d.users[userID]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	if patch.ExpectedVersion != 0 && patch.ExpectedVersion != u.Version {
		return models.User{}, models.ErrConflict
	}
	if patch.MovieIDs != nil {
		u.MovieIDs = append([]string(nil), patch.MovieIDs...)
	}
	u.Version++
	d.users[userID] = u
	return u, nil
}

func (d *memDirectory) get(id string) (models.User, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	return u, ok
}

func (d *memDirectory) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.users)
}

// plainHasher keeps tests fast; the real hasher is covered in internal/credential.
type plainHasher struct {
	err error
}

func (h plainHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h plainHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password && strings.HasPrefix(hash, "hashed:")
}

type mockProvider struct {
	mu          sync.Mutex
	searchFn    func(query string) ([]models.MovieSummary, error)
	detailsFn   func(id string) (models.MovieDetail, error)
	searchCalls []string
	detailCalls []string
}

func (p *mockProvider) SearchMovies(ctx context.Context, query string) ([]models.MovieSummary, error) {
	p.mu.Lock()
	p.searchCalls = append(p.searchCalls, query)
	p.mu.Unlock()
	if p.searchFn == nil {
		return nil, nil
	}
	return p.searchFn(query)
}

func (p *mockProvider) MovieDetails(ctx context.Context, id string) (models.MovieDetail, error) {
	p.mu.Lock()
	p.detailCalls = append(p.detailCalls, id)
	p.mu.Unlock()
	if p.detailsFn == nil {
		return models.MovieDetail{}, errors.New("not stubbed")
	}
	return p.detailsFn(id)
}

// memSessions is an in-memory session.Store.
type memSessions struct {
	sess     *models.Session
	loadErr  error
	saveErr  error
	clearErr error
	cleared  int
}

func (s *memSessions) Save(ctx context.Context, sess models.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sess = &sess
	return nil
}

func (s *memSessions) Load(ctx context.Context) (*models.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.sess, nil
}

func (s *memSessions) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared++
	s.sess = nil
	return nil
}
