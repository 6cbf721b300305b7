// Package notification normalizes inbound push payloads into display
// requests. A push event always yields a notification: malformed or
// missing payloads fall back to the configured defaults rather than
// being dropped.
package notification

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Action is one interactive button on a displayed notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// payload is the JSON wire format of an inbound push message. Every
// field is optional; absent fields take the configured defaults.
type payload struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Icon    string   `json:"icon"`
	Badge   string   `json:"badge"`
	Tag     string   `json:"tag"`
	URL     string   `json:"url"`
	Actions []Action `json:"actions"`
}

// Defaults are the fallback display values applied to absent payload
// fields. They come from the worker profile.
type Defaults struct {
	Title     string
	Body      string
	Icon      string
	Badge     string
	Tag       string
	Vibration []int
	URL       string
}

// Notification is a fully resolved display request. Tag carries
// replace-semantics: showing a notification with the tag of a visible
// one replaces it. Data is the custom envelope delivered back on click.
type Notification struct {
	ID         string
	Title      string
	Body       string
	Icon       string
	Badge      string
	Tag        string
	Vibration  []int
	URL        string
	Actions    []Action
	ReceivedAt time.Time
}

// Normalize turns a raw push payload into a display request.
//
// A JSON payload is merged field-by-field onto the defaults. A payload
// that does not parse as JSON is treated as plain text and becomes the
// body under the default title. An absent payload yields the defaults
// unchanged. Normalize never fails.
func Normalize(raw []byte, defaults Defaults, receivedAt time.Time) Notification {
	n := Notification{
		ID:         uuid.NewString(),
		Title:      defaults.Title,
		Body:       defaults.Body,
		Icon:       defaults.Icon,
		Badge:      defaults.Badge,
		Tag:        defaults.Tag,
		Vibration:  append([]int(nil), defaults.Vibration...),
		URL:        defaults.URL,
		ReceivedAt: receivedAt,
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return n
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		// Not JSON: treat the payload as plain text.
		n.Body = string(raw)
		return n
	}

	if p.Title != "" {
		n.Title = p.Title
	}
	if p.Body != "" {
		n.Body = p.Body
	}
	if p.Icon != "" {
		n.Icon = p.Icon
	}
	if p.Badge != "" {
		n.Badge = p.Badge
	}
	if p.Tag != "" {
		n.Tag = p.Tag
	}
	if p.URL != "" {
		n.URL = p.URL
	}
	if len(p.Actions) > 0 {
		n.Actions = append([]Action(nil), p.Actions...)
	}

	return n
}
