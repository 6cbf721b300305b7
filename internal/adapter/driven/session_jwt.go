package driven

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/balkantv/panelworker/internal/admin"
)

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

// SessionJWTTokens implements the SessionTokens port with HMAC-signed
// JWTs. The elevated-privilege claim travels as a boolean "admin"
// claim inside the token, so checking it needs no storage lookup.
type SessionJWTTokens struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// NewSessionJWTTokens creates a token service signing with the given
// secret. Returns an error if the secret is empty.
func NewSessionJWTTokens(secret []byte, issuer string, lifetime time.Duration) (*SessionJWTTokens, error) {
	if len(secret) == 0 {
		return nil, errors.New("session token secret cannot be empty")
	}
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	return &SessionJWTTokens{
		secret:   secret,
		issuer:   issuer,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a token for the given session.
func (s *SessionJWTTokens) Issue(session admin.Session) (string, error) {
	now := s.now()

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
		},
		Admin: session.Admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// Verify parses and validates a token, returning the session it
// carries. Any parse or validation failure maps to
// admin.ErrUnauthenticated.
func (s *SessionJWTTokens) Verify(tokenString string) (admin.Session, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return admin.Session{}, admin.ErrUnauthenticated
	}

	var claims sessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return admin.Session{}, admin.ErrUnauthenticated
	}

	return admin.Session{
		Username: claims.Subject,
		Admin:    claims.Admin,
	}, nil
}
