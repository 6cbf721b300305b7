package request

import "strings"

// Class is the handling class assigned to an intercepted fetch.
type Class int

// Handling classes, in classification order.
const (
	// ClassBypass passes the request through untouched: non-HTTP
	// schemes and non-GET methods never read or write any cache.
	ClassBypass Class = iota
	// ClassVendor is third-party asset traffic, resolved cache-first
	// against the vendor store.
	ClassVendor
	// ClassBackend is identity/data-layer traffic, always forced to
	// the network for freshness.
	ClassBackend
	// ClassShell is first-party navigation and resource traffic,
	// resolved network-first with the shell store as fallback.
	ClassShell
)

func (c Class) String() string {
	switch c {
	case ClassBypass:
		return "bypass"
	case ClassVendor:
		return "vendor"
	case ClassBackend:
		return "backend"
	case ClassShell:
		return "shell"
	default:
		return "unknown"
	}
}

// Classifier assigns a handling class to each intercepted fetch based
// on the configured vendor and backend origin patterns. Patterns are
// plain substrings matched against the absolute URL.
type Classifier struct {
	vendorPatterns  []string
	backendPatterns []string
}

// NewClassifier creates a classifier from the configured pattern sets.
func NewClassifier(vendorPatterns, backendPatterns []string) Classifier {
	return Classifier{
		vendorPatterns:  append([]string(nil), vendorPatterns...),
		backendPatterns: append([]string(nil), backendPatterns...),
	}
}

// Classify returns the handling class for a fetch. The order is fixed
// and the first match wins: non-HTTP scheme, non-GET method, vendor
// pattern, backend pattern, then everything else is shell traffic.
func (c Classifier) Classify(req FetchRequest) Class {
	switch req.scheme() {
	case "http", "https":
	default:
		return ClassBypass
	}

	if !req.IsGET() {
		return ClassBypass
	}

	if matchesAny(req.URL(), c.vendorPatterns) {
		return ClassVendor
	}

	if matchesAny(req.URL(), c.backendPatterns) {
		return ClassBackend
	}

	return ClassShell
}

func matchesAny(url string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(url, p) {
			return true
		}
	}
	return false
}
