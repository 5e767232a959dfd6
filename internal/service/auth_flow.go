package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"moviewatch/internal/models"
	"moviewatch/internal/session"
)

type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticating
	StateAuthenticated
	StateAuthFailed
)

func (s AuthState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateAuthFailed:
		return "auth_failed"
	default:
		return fmt.Sprintf("AuthState(%d)", int(s))
	}
}

// FailReason explains a StateAuthFailed.
type FailReason string

const (
	ReasonNone            FailReason = ""
	ReasonValidation      FailReason = "validation"
	ReasonUserNotFound    FailReason = "user_not_found"
	ReasonInvalidPassword FailReason = "invalid_password"
	ReasonEmailTaken      FailReason = "email_taken"
	ReasonUnknown         FailReason = "unknown"
)

var ErrInvalidTransition = errors.New("auth flow: action not allowed in current state")

// AuthFlow is the per-device login state machine. The persisted session is the
// only durable part; everything else is rebuilt by Launch.
type AuthFlow struct {
	auth     Authorization
	sessions session.Store

	mu     sync.Mutex
	state  AuthState
	reason FailReason
	user   *models.User
}

func NewAuthFlow(auth Authorization, sessions session.Store) *AuthFlow {
	return &AuthFlow{auth: auth, sessions: sessions}
}

func (f *AuthFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Reason is ReasonNone unless the state is StateAuthFailed.
func (f *AuthFlow) Reason() FailReason {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}

// User returns the signed-in user, if any.
func (f *AuthFlow) User() (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return models.User{}, false
	}
	return *f.user, true
}

// SetUser replaces the cached user after a successful mutation such as a watchlist toggle.
func (f *AuthFlow) SetUser(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateAuthenticated && f.user != nil && f.user.ID == u.ID {
		f.user = &u
	}
}

// Launch restores a persisted session. A session whose user no longer exists is
// cleared and the flow lands in StateAnonymous without reporting an error.
func (f *AuthFlow) Launch(ctx context.Context) error {
	sess, err := f.sessions.Load(ctx)
	if err != nil {
		f.set(StateAnonymous, ReasonNone, nil)
		return fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		f.set(StateAnonymous, ReasonNone, nil)
		return nil
	}

	u, err := f.auth.Resolve(ctx, sess.UserID)
	switch {
	case err == nil:
		f.set(StateAuthenticated, ReasonNone, &u)
		return nil
	case errors.Is(err, ErrUserNotFound):
		f.set(StateAnonymous, ReasonNone, nil)
		if cerr := f.sessions.Clear(ctx); cerr != nil {
			return fmt.Errorf("clear stale session: %w", cerr)
		}
		return nil
	default:
		f.set(StateAnonymous, ReasonNone, nil)
		return fmt.Errorf("check session: %w", err)
	}
}

// SubmitLogin authenticates and persists the session on success.
func (f *AuthFlow) SubmitLogin(ctx context.Context, email, password string) (models.User, error) {
	if err := f.begin(); err != nil {
		return models.User{}, err
	}

	u, err := f.auth.Login(ctx, email, password)
	if err != nil {
		f.fail(err)
		return models.User{}, err
	}
	if err := f.sessions.Save(ctx, u.Session()); err != nil {
		f.set(StateAuthFailed, ReasonUnknown, nil)
		return models.User{}, fmt.Errorf("save session: %w", err)
	}

	f.set(StateAuthenticated, ReasonNone, &u)
	return u, nil
}

// SubmitSignup creates the account and returns to StateAnonymous; the caller logs in next.
func (f *AuthFlow) SubmitSignup(ctx context.Context, username, email, password string) (models.User, error) {
	if err := f.begin(); err != nil {
		return models.User{}, err
	}

	u, err := f.auth.SignUp(ctx, username, email, password)
	if err != nil {
		f.fail(err)
		return models.User{}, err
	}

	f.set(StateAnonymous, ReasonNone, nil)
	return u, nil
}

// Retry acknowledges a failure.
func (f *AuthFlow) Retry() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateAuthFailed {
		f.state = StateAnonymous
		f.reason = ReasonNone
	}
}

// Logout clears the persisted session. On failure the state is left unchanged.
func (f *AuthFlow) Logout(ctx context.Context) error {
	if err := f.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	f.set(StateAnonymous, ReasonNone, nil)
	return nil
}

func (f *AuthFlow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateAnonymous && f.state != StateAuthFailed {
		return fmt.Errorf("%w: %s", ErrInvalidTransition, f.state)
	}
	f.state = StateAuthenticating
	f.reason = ReasonNone
	return nil
}

func (f *AuthFlow) fail(err error) {
	f.set(StateAuthFailed, ReasonFor(err), nil)
}

func (f *AuthFlow) set(state AuthState, reason FailReason, u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = state
	f.reason = reason
	f.user = u
}

// ReasonFor classifies an auth error.
func ReasonFor(err error) FailReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, models.ErrValidation):
		return ReasonValidation
	case errors.Is(err, ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, ErrInvalidPassword):
		return ReasonInvalidPassword
	case errors.Is(err, ErrEmailTaken):
		return ReasonEmailTaken
	default:
		return ReasonUnknown
	}
}
