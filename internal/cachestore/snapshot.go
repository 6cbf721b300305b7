package cachestore

import (
	"net/http"
	"strings"
)

// Identity is the key under which a response is stored: method plus
// absolute URL. Only GET requests are ever cached, so in practice the
// method is always GET, but the identity carries it to keep the key
// self-describing.
type Identity struct {
	method string
	url    string
}

// NewIdentity creates a request identity. The method defaults to GET
// when empty. Returns ErrEmptyRequestURL if the URL is empty.
func NewIdentity(method, url string) (Identity, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Identity{}, ErrEmptyRequestURL
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	return Identity{method: method, url: url}, nil
}

// Method returns the request method of this identity.
func (i Identity) Method() string {
	return i.method
}

// URL returns the absolute request URL of this identity.
func (i Identity) URL() string {
	return i.url
}

// Key returns the canonical store key for this identity.
func (i Identity) Key() string {
	return i.method + " " + i.url
}

// Snapshot is a stored response: status, headers and body captured as a
// value. A live response body can be read at most once, so anything that
// needs to both store and return a response must work on two independent
// snapshots; Clone exists for exactly that.
type Snapshot struct {
	statusCode int
	header     http.Header
	body       []byte
}

// NewSnapshot captures a response snapshot. The header and body are
// copied so the snapshot does not alias the caller's data.
func NewSnapshot(statusCode int, header http.Header, body []byte) Snapshot {
	return Snapshot{
		statusCode: statusCode,
		header:     cloneHeader(header),
		body:       append([]byte(nil), body...),
	}
}

// StatusCode returns the captured HTTP status code.
func (s Snapshot) StatusCode() int {
	return s.statusCode
}

// Header returns the captured response headers. The returned map is the
// snapshot's own; callers that mutate it should Clone first.
func (s Snapshot) Header() http.Header {
	return s.header
}

// Body returns the captured response body.
func (s Snapshot) Body() []byte {
	return s.body
}

// Clone returns an independent copy of the snapshot. Cloning before
// dual use (store + return) is the invariant that replaces the
// single-read body semantics of a live response.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		statusCode: s.statusCode,
		header:     cloneHeader(s.header),
		body:       append([]byte(nil), s.body...),
	}
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return http.Header{}
	}
	clone := make(http.Header, len(h))
	for k, values := range h {
		clone[k] = append([]string(nil), values...)
	}
	return clone
}
