package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession indicates the session token could not be validated.
	ErrInvalidSession = errors.New("invalid session")
	// ErrEmailTaken is returned on signup with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
)

// Service handles shopper signup/signin and session validation.
type Service struct {
	users       userrepo.Repository
	sessions    sessionrepo.Repository
	sessionTTL  time.Duration
	passwordMin int
}

func New(users userrepo.Repository, sessions sessionrepo.Repository, sessionTTL time.Duration) *Service {
	return &Service{
		users:       users,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		passwordMin: 8,
	}
}

// SessionTTL is exposed for cookie max-age.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Signup registers a user and opens a session for them.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, "", fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	if len(password) < s.passwordMin {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, s.passwordMin)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Signin validates credentials and opens a session.
func (s *Service) Signin(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Signout deletes the session; unknown tokens are a no-op.
func (s *Service) Signout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// LookupByToken returns the user behind a live session token. Expired
// sessions are deleted on sight.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, ErrInvalidSession
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrInvalidSession
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return u, nil
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	err := s.sessions.Create(ctx, sessionrepo.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}
