package guest

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid guest token")

// Service mints and validates guest identity tokens. A guest id lives
// only inside a signed token in the shopper's cookie; expiry comes from
// the token itself, so no server-side state is kept per guest.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL is exposed for cookie max-age.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a fresh guest id wrapped in a signed token.
func (s *Service) Issue() (token, guestID string, err error) {
	guestID = uuid.NewString()
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   guestID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, guestID, nil
}

// Validate returns the guest id carried by a token. Expired or tampered
// tokens resolve to ErrInvalidToken, which callers treat as "no
// identity", never as a hard failure.
func (s *Service) Validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
