package deeplink

import (
	"net/url"
	"testing"
)

func TestParseString(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		token Token
		ok    bool
	}{
		{"custom scheme", "suitekeep://invite/abc123", "abc123", true},
		{"custom scheme extra segments", "suitekeep://invite/abc123/extra", "abc123", true},
		{"custom scheme trailing slash", "suitekeep://invite/abc123/", "abc123", true},
		{"custom scheme no token", "suitekeep://invite", "", false},
		{"custom scheme root path", "suitekeep://invite/", "", false},
		{"custom scheme wrong host", "suitekeep://join/abc123", "", false},
		{"universal link", "https://suitekeep.app/invite/xyz789", "xyz789", true},
		{"universal link with query", "https://suitekeep.app/invite/xyz789?ref=mail", "xyz789", true},
		{"universal link with port", "https://suitekeep.app:443/invite/xyz789", "xyz789", true},
		{"universal link missing token", "https://suitekeep.app/invite", "", false},
		{"universal link wrong prefix", "https://suitekeep.app/join/xyz789", "", false},
		{"universal link token only", "https://suitekeep.app/xyz789", "", false},
		{"wrong host", "https://example.com/invite/abc", "", false},
		{"plain http", "http://suitekeep.app/invite/abc", "", false},
		{"wrong scheme", "otherapp://invite/abc", "", false},
		{"escaped token", "https://suitekeep.app/invite/a%20b", "a b", true},
		{"custom scheme escaped slash", "suitekeep://invite/a%2Fb", "a/b", true},
		{"universal link escaped slash", "https://suitekeep.app/invite/a%2Fb", "a/b", true},
		{"escaped prefix", "https://suitekeep.app/%69nvite/xyz789", "xyz789", true},
		{"malformed", "://not a url", "", false},
		{"empty", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := ParseString(tc.raw)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if token != tc.token {
				t.Fatalf("token = %q, want %q", token, tc.token)
			}
		})
	}
}

func TestParseNilURL(t *testing.T) {
	if token, ok := Parse(nil); ok || token != "" {
		t.Fatalf("expected no token for nil url, got %q", token)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	u, err := url.Parse("https://suitekeep.app/invite/xyz789")
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	first, ok1 := Parse(u)
	second, ok2 := Parse(u)
	if first != second || ok1 != ok2 {
		t.Fatalf("parse not idempotent: (%q,%v) vs (%q,%v)", first, ok1, second, ok2)
	}
	if u.String() != "https://suitekeep.app/invite/xyz789" {
		t.Fatalf("url mutated: %s", u)
	}
}

func TestBuiltLinksRoundTrip(t *testing.T) {
	token := Token("5f1c2d9e-0b7a-4c55-9f0e-3f6c2d1a8b90")

	custom := InviteURL(token)
	if custom.String() != "suitekeep://invite/"+token.String() {
		t.Fatalf("unexpected custom link: %s", custom)
	}
	if got, ok := Parse(custom); !ok || got != token {
		t.Fatalf("custom link parsed to (%q,%v)", got, ok)
	}

	universal := UniversalInviteURL(token)
	if universal.String() != "https://suitekeep.app/invite/"+token.String() {
		t.Fatalf("unexpected universal link: %s", universal)
	}
	if got, ok := ParseString(universal.String()); !ok || got != token {
		t.Fatalf("universal link parsed to (%q,%v)", got, ok)
	}
}

func TestBuiltLinksEscapeToken(t *testing.T) {
	for _, token := range []Token{"a/b", "a b", "a%2Fb", "x?y#z"} {
		for _, u := range []*url.URL{InviteURL(token), UniversalInviteURL(token)} {
			if got, ok := Parse(u); !ok || got != token {
				t.Fatalf("%s parsed to (%q,%v), want %q", u, got, ok, token)
			}
			if got, ok := ParseString(u.String()); !ok || got != token {
				t.Fatalf("%s reparsed to (%q,%v), want %q", u, got, ok, token)
			}
		}
	}
	if s := InviteURL("a/b").String(); s != "suitekeep://invite/a%2Fb" {
		t.Fatalf("unexpected link %s", s)
	}
}
