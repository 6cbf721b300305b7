package subscription

import (
	"strings"
	"time"
)

// expiryLayout is the wire format of subscription expiry dates.
const expiryLayout = "2006-01-02"

// Subscription represents one panel account subscription. It carries
// the destination email for expiry notices and the date the account
// stops working. Expiry dates are handled as YYYY-MM-DD strings, the
// format the panel stores them in.
type Subscription struct {
	username  string
	email     string
	expiresOn string
}

// NewSubscription creates a subscription for the given panel username.
// The email may be empty (such records are skipped by the expiry
// notifier). Returns ErrEmptyUsername if the username is empty and
// ErrInvalidExpiryDate if a non-empty expiry date is not YYYY-MM-DD.
func NewSubscription(username, email, expiresOn string) (Subscription, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Subscription{}, ErrEmptyUsername
	}

	email = strings.TrimSpace(email)

	expiresOn = strings.TrimSpace(expiresOn)
	if expiresOn != "" {
		// Timestamps sneak in from older records; only the date part counts.
		if len(expiresOn) > len(expiryLayout) {
			expiresOn = expiresOn[:len(expiryLayout)]
		}
		if _, err := time.Parse(expiryLayout, expiresOn); err != nil {
			return Subscription{}, ErrInvalidExpiryDate
		}
	}

	return Subscription{username: username, email: email, expiresOn: expiresOn}, nil
}

// Username returns the panel username this subscription belongs to.
func (s Subscription) Username() string {
	return s.username
}

// Email returns the destination address for expiry notices.
func (s Subscription) Email() string {
	return s.email
}

// HasEmail reports whether the subscription has a destination address.
func (s Subscription) HasEmail() bool {
	return s.email != ""
}

// ExpiresOn returns the expiry date as YYYY-MM-DD, or "" when unset.
func (s Subscription) ExpiresOn() string {
	return s.expiresOn
}

// ExpiresExactlyOn reports whether the subscription expires on the
// given YYYY-MM-DD date. Subscriptions without an expiry date never
// match.
func (s Subscription) ExpiresExactlyOn(date string) bool {
	return s.expiresOn != "" && s.expiresOn == date
}

// Renew returns a copy of the subscription with a new expiry date.
// Returns ErrInvalidExpiryDate if the date is not YYYY-MM-DD.
func (s Subscription) Renew(expiresOn string) (Subscription, error) {
	return NewSubscription(s.username, s.email, expiresOn)
}
