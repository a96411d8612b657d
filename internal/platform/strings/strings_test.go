package strings

import (
	"testing"

	"ipvault/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	if got := IfEmpty([]string{"GET"}, []string{"POST"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty kept = %v", got)
	}
	if got := IfEmpty(nil, []string{"POST"}); len(got) != 1 || got[0] != "POST" {
		t.Fatalf("IfEmpty default = %v", got)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()

	if got := MustString("wallet", "module name"); got != "wallet" {
		t.Fatalf("MustString = %q", got)
	}
	testkit.MustPanic(t, func() { MustString("  ", "module name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"assets":          "/assets",
		"/assets/":        "/assets",
		"  /wallet  ":     "/wallet",
		"//registrations": "/registrations",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestHead(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		n    int
		want string
		cut  bool
	}{
		{"sunset", 10, "sunset", false},
		{"sunset", 6, "sunset", false},
		{"sunset", 3, "sun", true},
		{"日本語のテキスト", 3, "日本語", true},
		{"", 5, "", false},
		{"abc", 0, "", true},
	}
	for _, c := range cases {
		got, cut := Head(c.in, c.n)
		if got != c.want || cut != c.cut {
			t.Fatalf("Head(%q, %d) = %q %v, want %q %v", c.in, c.n, got, cut, c.want, c.cut)
		}
	}
	if got := Clip("abcdef", 2); got != "ab" {
		t.Fatalf("Clip = %q", got)
	}
}
