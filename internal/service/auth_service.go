package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviewatch/internal/models"
	"moviewatch/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService handles user auth logic. It holds no per-user state.
type AuthService struct {
	users  repository.Directory
	hasher PasswordHasher
	tokens TokenConfig
	now    func() time.Time
}

func NewAuthService(users repository.Directory, hasher PasswordHasher, tokens TokenConfig) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// SignUp validates input, rejects a taken email and creates the user with an
// empty watchlist. It does not log the user in.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) (models.User, error) {
	if err := validateSignUp(username, email, password); err != nil {
		return models.User{}, err
	}
	email = NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return models.User{}, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, models.User{
		ID:           newUserID(now),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		MovieIDs:     []string{},
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// lost the race against a concurrent sign-up with the same email
			if again, ferr := s.users.FindByEmail(ctx, email); ferr == nil && again != nil {
				return models.User{}, ErrEmailTaken
			}
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login returns the user whose email and password match.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	if err := validateLogin(email, password); err != nil {
		return models.User{}, err
	}

	u, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return models.User{}, ErrInvalidPassword
	}
	return *u, nil
}

// Resolve re-reads the user behind a session. ErrUserNotFound means the session is stale.
func (s *AuthService) Resolve(ctx context.Context, userID string) (models.User, error) {
	if blank(userID) {
		return models.User{}, ErrUserNotFound
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// GenerateToken issues a signed token for an already authenticated user.
func (s *AuthService) GenerateToken(u models.User) (string, error) {
	if s.tokens.SigningKey == "" {
		return "", errors.New("token signing key is not configured")
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
	}
	if s.tokens.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokens.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.tokens.SigningKey))
}

// ParseToken validates a token and returns the session it carries.
func (s *AuthService) ParseToken(accessToken string) (models.Session, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.tokens.SigningKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return models.Session{}, ErrInvalidToken
	}
	return models.Session{UserID: claims.UserID, Username: claims.Username}, nil
}

func newUserID(now time.Time) string {
	return fmt.Sprintf("user_%d", now.UnixMilli())
}
