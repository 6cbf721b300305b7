package cachestore

import (
	"fmt"
	"strings"
)

// Store name prefixes. A full store name is "<prefix>@<version>".
const (
	shellPrefix  = "shell"
	vendorPrefix = "vendor"
)

// NameSet is the pair of currently valid cache store names.
// Any store whose name is not in the set is stale and must be purged
// on activation. The set is built once at startup from the worker
// profile; bumping a version means editing the profile and restarting.
type NameSet struct {
	shell  string
	vendor string
}

// NewNameSet builds the valid name pair from the shell and vendor store
// versions. Returns ErrEmptyVersion if either version is empty or
// contains only whitespace.
func NewNameSet(shellVersion, vendorVersion string) (NameSet, error) {
	shellVersion = strings.TrimSpace(shellVersion)
	vendorVersion = strings.TrimSpace(vendorVersion)

	if shellVersion == "" || vendorVersion == "" {
		return NameSet{}, ErrEmptyVersion
	}

	return NameSet{
		shell:  fmt.Sprintf("%s@%s", shellPrefix, shellVersion),
		vendor: fmt.Sprintf("%s@%s", vendorPrefix, vendorVersion),
	}, nil
}

// Shell returns the current shell store name.
func (n NameSet) Shell() string {
	return n.shell
}

// Vendor returns the current vendor store name.
func (n NameSet) Vendor() string {
	return n.vendor
}

// Contains reports whether name is one of the currently valid store names.
func (n NameSet) Contains(name string) bool {
	return name == n.shell || name == n.vendor
}

// Names returns the valid store names, shell first.
func (n NameSet) Names() []string {
	return []string{n.shell, n.vendor}
}
