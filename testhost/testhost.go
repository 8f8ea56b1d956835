// Package testhost redirects Git and HTTP URLs at local fixture hosts while
// tests run, leaving production URLs untouched.
package testhost

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
)

// Environment variables consulted by FromEnv.
const (
	EnvHost    = "RELPACK_TEST_HOST"
	EnvGitHost = "RELPACK_TEST_GIT_HOST"
)

// Overrides replaces a URL's network location. The zero value is a no-op,
// which is the production configuration. GitHost applies to URLs ending in
// .git; Host applies to everything else, and to .git URLs when GitHost is
// empty.
type Overrides struct {
	Host    string
	GitHost string
}

// FromEnv reads the override URLs from the process environment. Callers that
// can thread configuration explicitly should construct Overrides directly.
func FromEnv() Overrides {
	return Overrides{
		Host:    os.Getenv(EnvHost),
		GitHost: os.Getenv(EnvGitHost),
	}
}

// Rewrite replaces raw's scheme, host, and port with the applicable
// override's, and rebases raw's path under the override's path prefix. With
// no applicable override, raw is returned unchanged.
func (o Overrides) Rewrite(raw string) (string, error) {
	base := o.Host
	if strings.HasSuffix(raw, ".git") && o.GitHost != "" {
		base = o.GitHost
	}
	if base == "" {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	override, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse override url: %w", err)
	}

	u.Scheme = override.Scheme
	u.Host = override.Host
	u.Path = path.Join(override.Path, u.Path)
	// Git rejects file URLs that carry user-info.
	if u.Scheme == "file" {
		u.User = nil
	}
	return u.String(), nil
}
