// Package request models an intercepted network fetch and its
// classification into a handling class. Classification is a pure
// function of the request and the configured origin patterns, so
// strategy selection is testable without a cache or a network.
package request

import (
	"net/url"
	"strings"
)

// FetchRequest describes one intercepted fetch.
type FetchRequest struct {
	method   string
	url      string
	navigate bool
}

// NewFetchRequest creates a fetch request. The method defaults to GET
// when empty; navigate marks page navigations (as opposed to subresource
// loads). Returns ErrEmptyURL if the URL is empty.
func NewFetchRequest(method, rawURL string, navigate bool) (FetchRequest, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return FetchRequest{}, ErrEmptyURL
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "GET"
	}

	return FetchRequest{method: method, url: rawURL, navigate: navigate}, nil
}

// Method returns the request method.
func (r FetchRequest) Method() string {
	return r.method
}

// URL returns the absolute request URL.
func (r FetchRequest) URL() string {
	return r.url
}

// IsNavigation reports whether the request is a page navigation.
func (r FetchRequest) IsNavigation() bool {
	return r.navigate
}

// IsGET reports whether the request uses the GET method.
func (r FetchRequest) IsGET() bool {
	return r.method == "GET"
}

// scheme returns the URL scheme in lower case, or "" if the URL does
// not parse.
func (r FetchRequest) scheme() string {
	u, err := url.Parse(r.url)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}
