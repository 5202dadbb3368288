// Package deeplink recognizes SuiteKeep invitation links and builds them.
//
// Two link shapes are accepted:
//
//	suitekeep://invite/{token}
//	https://suitekeep.app/invite/{token}
//
// The token is an opaque path segment. Its syntax is checked by the
// membership service when it is redeemed, not here.
package deeplink

import (
	"net/url"
	"strings"
)

const (
	// Scheme is the custom URL scheme registered by the app.
	Scheme = "suitekeep"
	// InviteHost is the host of custom-scheme invitation links.
	InviteHost = "invite"
	// UniversalHost is the host serving universal invitation links.
	UniversalHost = "suitekeep.app"
	// InvitePath is the first path segment of universal invitation links.
	InvitePath = "invite"
)

// Token is an invitation token extracted from a link.
type Token string

// String returns the raw token.
func (t Token) String() string {
	return string(t)
}

// rule describes one accepted link shape.
type rule struct {
	scheme   string
	host     string
	prefix   []string // leading segments that must match exactly
	minArity int      // minimum number of path segments
}

var rules = []rule{
	{scheme: Scheme, host: InviteHost, minArity: 1},
	{scheme: "https", host: UniversalHost, prefix: []string{InvitePath}, minArity: 2},
}

// Parse returns the invitation token carried by u, if any.
// A nil URL or a URL matching neither link shape yields ("", false).
func Parse(u *url.URL) (Token, bool) {
	if u == nil {
		return "", false
	}
	segments, ok := pathSegments(u)
	if !ok {
		return "", false
	}
	for _, r := range rules {
		if token, ok := r.match(u, segments); ok {
			return token, true
		}
	}
	return "", false
}

// ParseString parses raw as a URL and extracts its invitation token.
// Strings that are not valid URLs yield ("", false).
func ParseString(raw string) (Token, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return Parse(u)
}

func (r rule) match(u *url.URL, segments []string) (Token, bool) {
	if !strings.EqualFold(u.Scheme, r.scheme) || !strings.EqualFold(u.Hostname(), r.host) {
		return "", false
	}
	if len(segments) < r.minArity {
		return "", false
	}
	for i, want := range r.prefix {
		if segments[i] != want {
			return "", false
		}
	}
	return Token(segments[len(r.prefix)]), true
}

// pathSegments splits the escaped URL path into its non-empty components and
// unescapes each one, so an encoded slash stays inside its segment.
func pathSegments(u *url.URL) ([]string, bool) {
	raw := strings.Split(u.EscapedPath(), "/")
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		seg, err := url.PathUnescape(s)
		if err != nil {
			return nil, false
		}
		segments = append(segments, seg)
	}
	return segments, true
}

// InviteURL builds the custom-scheme link for token.
func InviteURL(token Token) *url.URL {
	return &url.URL{
		Scheme:  Scheme,
		Host:    InviteHost,
		Path:    "/" + token.String(),
		RawPath: "/" + url.PathEscape(token.String()),
	}
}

// UniversalInviteURL builds the https link for token.
func UniversalInviteURL(token Token) *url.URL {
	return &url.URL{
		Scheme:  "https",
		Host:    UniversalHost,
		Path:    "/" + InvitePath + "/" + token.String(),
		RawPath: "/" + InvitePath + "/" + url.PathEscape(token.String()),
	}
}
