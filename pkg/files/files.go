// Package files maps stored file URIs to paths and URLs, and discovers
// images under a public files directory.
package files

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Scheme is the only stream scheme served from a Root.
const Scheme = "public"

// ErrBadURI is returned for URIs outside of the public scheme.
var ErrBadURI = errors.New("not a public file uri")

// URI returns the stored URI of a path relative to the files root.
func URI(rel string) string {
	return Scheme + "://" + filepath.ToSlash(rel)
}

// Target splits a URI into its scheme and target path.
func Target(uri string) (string, string, error) {
	scheme, target, ok := strings.Cut(uri, "://")
	if !ok || scheme != Scheme || target == "" {
		return "", "", fmt.Errorf("%q: %w", uri, ErrBadURI)
	}

	clean := path.Clean("/" + target)[1:]
	if clean == "" || clean != target {
		return "", "", fmt.Errorf("%q: %w", uri, ErrBadURI)
	}
	return scheme, target, nil
}

// Root is a public files directory and the URL it is served from.
type Root struct {
	Dir     string
	BaseURL string
}

// Path returns the local path of a stored URI.
func (r Root) Path(uri string) (string, error) {
	_, target, err := Target(uri)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.Dir, filepath.FromSlash(target)), nil
}

// URL returns the public URL of a stored URI. URIs from other schemes are
// returned unchanged.
func (r Root) URL(uri string) string {
	_, target, err := Target(uri)
	if err != nil {
		return uri
	}
	return JoinURL(r.BaseURL, target)
}

// JoinURL appends an escaped slash separated path to base.
func JoinURL(base string, rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}
