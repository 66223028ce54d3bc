package urlutil

import "testing"

func TestResolveRelative(t *testing.T) {
	got, ok := Resolve("/logo.png", "https://example.com/about")
	if !ok || got != "https://example.com/logo.png" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestResolveDataURI(t *testing.T) {
	src := "data:image/png;base64,AAAA"
	got, ok := Resolve(src, "https://example.com")
	if !ok || got != src {
		t.Fatalf("expected passthrough, got %q ok=%v", got, ok)
	}
}

func TestResolveRejectsNonHTTPScheme(t *testing.T) {
	_, ok := Resolve("javascript:alert(1)", "https://example.com")
	if ok {
		t.Fatalf("expected rejection of non-http scheme")
	}
}

func TestCoerceScheme(t *testing.T) {
	if got := CoerceScheme("example.com"); got != "https://example.com" {
		t.Fatalf("got %q", got)
	}
	if got := CoerceScheme("http://example.com"); got != "http://example.com" {
		t.Fatalf("got %q", got)
	}
}

func TestHostLabel(t *testing.T) {
	cases := map[string]string{
		"https://www.example.com/path": "www.example.com",
		"https://example.com:8080":     "example.com_8080",
		"":                             "site",
		"!!!":                          "site",
	}
	for in, want := range cases {
		if got := HostLabel(in); got != want {
			t.Fatalf("HostLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
