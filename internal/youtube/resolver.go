// Package youtube resolves user-supplied video references into canonical
// 11-character video IDs. Resolution is purely syntactic; no network access.
package youtube

import (
	"regexp"

	"github.com/skillsenselab/ytscribe/internal/errors"
)

var (
	// idPattern matches a bare 11-character video ID.
	idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	// urlPattern extracts a video ID from the recognized URL shapes:
	// watch?v=, /embed/, /v/, /e/, youtu.be/<id>, and playlist-qualified paths.
	urlPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
)

// Resolve parses input into a video ID. Input that already matches the ID
// pattern is returned unchanged; otherwise the ID is extracted from a
// recognized URL shape. Returns an INVALID_REFERENCE error when neither
// matches.
func Resolve(input string) (string, error) {
	if idPattern.MatchString(input) {
		return input, nil
	}
	if m := urlPattern.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", errors.InvalidReference(input)
}

// Resolver is the component form of Resolve for injection into the pipeline.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() Resolver { return Resolver{} }

// Resolve parses input into a video ID. See the package-level Resolve.
func (Resolver) Resolve(input string) (string, error) {
	return Resolve(input)
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
