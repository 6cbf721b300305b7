package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/balkantv/panelworker/internal/admin"
	"github.com/balkantv/panelworker/internal/port/driven"
)

// AdminService verifies administrator credentials and manages the
// elevated-privilege session tokens derived from them.
type AdminService struct {
	settings driven.SettingsRepository
	tokens   driven.SessionTokens
	logger   *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(settings driven.SettingsRepository, tokens driven.SessionTokens, logger *slog.Logger) *AdminService {
	return &AdminService{settings: settings, tokens: tokens, logger: logger}
}

// VerifyAdmin checks a presented credential pair against the stored
// administrator credentials and, on success, issues a session token
// carrying the elevated-privilege claim. Failures are typed: empty
// input is admin.ErrInvalidArgument, no stored credentials is
// admin.ErrNotFound, a mismatch is admin.ErrPermissionDenied, and
// infrastructure failures surface as admin.ErrInternal.
func (s *AdminService) VerifyAdmin(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", admin.ErrInvalidArgument
	}

	creds, err := s.settings.FindAdminCredentials(ctx)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return "", admin.ErrNotFound
		}
		s.logger.Error("failed to load admin credentials", "error", err)
		return "", admin.ErrInternal
	}

	if !creds.Matches(username, password) {
		s.logger.Warn("admin verification rejected", "username", username)
		return "", admin.ErrPermissionDenied
	}

	token, err := s.tokens.Issue(admin.Session{Username: creds.Username(), Admin: true})
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err)
		return "", admin.ErrInternal
	}

	s.logger.Info("admin verification succeeded", "username", creds.Username())
	return token, nil
}

// Session validates a session token and returns the session it
// carries. Returns admin.ErrUnauthenticated for a missing or invalid
// token.
func (s *AdminService) Session(token string) (admin.Session, error) {
	if token == "" {
		return admin.Session{}, admin.ErrUnauthenticated
	}
	return s.tokens.Verify(token)
}

// IsAdmin reports whether the token carries the elevated-privilege
// claim. Returns admin.ErrUnauthenticated for an invalid token.
func (s *AdminService) IsAdmin(token string) (bool, error) {
	sess, err := s.Session(token)
	if err != nil {
		return false, err
	}
	return sess.Admin, nil
}

// Logout downgrades a session: the returned replacement token keeps
// the username but drops the elevated-privilege claim.
func (s *AdminService) Logout(token string) (string, error) {
	sess, err := s.Session(token)
	if err != nil {
		return "", err
	}

	downgraded, err := s.tokens.Issue(admin.Session{Username: sess.Username, Admin: false})
	if err != nil {
		s.logger.Error("failed to issue downgraded token", "error", err)
		return "", admin.ErrInternal
	}

	s.logger.Info("admin session downgraded", "username", sess.Username)
	return downgraded, nil
}
