// Package admin models the panel's administrator credential and the
// elevated-privilege session derived from it.
package admin

import (
	"crypto/subtle"
	"strings"
)

// Credentials is the stored administrator username/password pair.
type Credentials struct {
	username string
	password string
}

// NewCredentials creates an administrator credential pair. Returns
// ErrInvalidArgument if either field is empty.
func NewCredentials(username, password string) (Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Credentials{}, ErrInvalidArgument
	}
	return Credentials{username: username, password: password}, nil
}

// Username returns the administrator username.
func (c Credentials) Username() string {
	return c.username
}

// Password returns the stored password. Only persistence adapters
// should call this; verification goes through Matches.
func (c Credentials) Password() string {
	return c.password
}

// Matches reports whether the presented pair equals the stored one.
// Comparison is constant-time on both fields so the check leaks
// nothing about how close a guess was.
func (c Credentials) Matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.username), []byte(username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.password), []byte(password)) == 1
	return userOK && passOK
}

// Session is the authenticated state carried by a session token. The
// Admin flag is the elevated-privilege claim: it gates settings writes
// and other administrative operations.
type Session struct {
	Username string
	Admin    bool
}
