// Package imageurl normalizes product and cart image references into render sources.
package imageurl

import "strings"

var absolutePrefixes = []string{"http://", "https://", "//", "data:", "blob:"}

// Resolve returns an image source usable as-is by the browser.
// Absolute URLs pass through, relative backend paths get exactly one leading
// slash, and an empty reference resolves to "" (no image; views show a placeholder).
func Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if IsAbsolute(ref) {
		return ref
	}
	return "/" + strings.TrimLeft(ref, "/")
}

// IsAbsolute reports whether ref already names a host or an inline resource
func IsAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	for _, p := range absolutePrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// Resolver applies the production asset base URL on top of Resolve
type Resolver struct {
	BaseURL string
}

// Resolve resolves ref and, when a base URL is configured, prefixes relative paths with it
func (r Resolver) Resolve(ref string) string {
	out := Resolve(ref)
	if out == "" || r.BaseURL == "" || IsAbsolute(out) {
		return out
	}
	return strings.TrimRight(r.BaseURL, "/") + out
}

// ResolvePtr is Resolve for optional fields
func (r Resolver) ResolvePtr(ref *string) *string {
	if ref == nil {
		return nil
	}
	out := r.Resolve(*ref)
	if out == "" {
		return nil
	}
	return &out
}
