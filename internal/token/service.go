// Package token implements the stateless session credential: JWT issuance,
// validation, one-time-use refresh and deny-list revocation.
package token

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

var (
	// ErrMissing means no token was presented with the request.
	ErrMissing = errors.New("token: not provided")
	// ErrExpired means the token was well-formed but past its expiry.
	ErrExpired = errors.New("token: expired")
	// ErrInvalid covers bad signatures, malformed tokens, revoked tokens and
	// tokens whose user no longer exists.
	ErrInvalid = errors.New("token: invalid")
)

type Service struct {
	secret    []byte
	ttl       time.Duration
	blacklist Blacklist
	users     store.UserStore
}

func NewService(secret string, ttl time.Duration, blacklist Blacklist, users store.UserStore) *Service {
	return &Service{
		secret:    []byte(secret),
		ttl:       ttl,
		blacklist: blacklist,
		users:     users,
	}
}

// TTL returns the configured lifetime of issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a new token bound to the user's identifier.
func (s *Service) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies signature, expiry and revocation, then resolves the
// bound user. Every failure maps to exactly one of the sentinel errors.
func (s *Service) Validate(ctx context.Context, raw string) (*models.User, error) {
	if raw == "" {
		return nil, ErrMissing
	}

	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, signatureOf(raw))
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalid
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalid
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Refresh exchanges a valid token for a fresh one bound to the same user and
// revokes the old token, so each token refreshes at most once.
func (s *Service) Refresh(ctx context.Context, raw string) (string, error) {
	user, err := s.Validate(ctx, raw)
	if err != nil {
		return "", err
	}
	if err := s.Revoke(ctx, raw); err != nil {
		return "", err
	}
	return s.Issue(user)
}

// Revoke deny-lists the token's signature for its remaining lifetime.
// Subsequent Validate calls fail with ErrInvalid even before natural expiry.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	claims, err := s.parse(raw)
	if err != nil {
		return err
	}
	if claims.ExpiresAt == nil {
		return ErrInvalid
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	return s.blacklist.Revoke(ctx, signatureOf(raw), remaining)
}

func (s *Service) parse(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, ErrInvalid
	case !token.Valid:
		return nil, ErrInvalid
	}
	return claims, nil
}

// signatureOf returns the JWS signature segment, the deny-list key.
func signatureOf(raw string) string {
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		return raw[i+1:]
	}
	return raw
}
