package driven

import "github.com/balkantv/panelworker/internal/admin"

// SessionTokens is the driven port for issuing and verifying the
// signed session tokens that carry the elevated-privilege claim.
type SessionTokens interface {
	// Issue signs a token for the given session.
	Issue(session admin.Session) (string, error)

	// Verify parses and validates a token. Returns
	// admin.ErrUnauthenticated if the token is missing, malformed,
	// expired or carries a bad signature.
	Verify(token string) (admin.Session, error)
}
