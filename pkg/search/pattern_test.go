package search

import (
	"regexp"
	"strings"
	"testing"
)

func TestPattern(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "", "%"},
		{"whitespace only", "   \t\n", "%"},
		{"single char", "a", "%a%"},
		{"subsequence", "hih", "%h%i%h%"},
		{"strips inner whitespace", "h i h", "%h%i%h%"},
		{"strips outer whitespace", "  jhn ", "%j%h%n%"},
		{"escapes percent", "100%", `%1%0%0%\%%`},
		{"escapes underscore", "a_b", `%a%\_%b%`},
		{"escapes backslash", `a\b`, `%a%\\%b%`},
		{"keeps case", "AbC", "%A%b%C%"},
		{"multibyte", "bjö", "%b%j%ö%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pattern(tt.query); got != tt.want {
				t.Errorf("Pattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	for _, q := range []string{"", " ", "\t", "\n  "} {
		if !IsBlank(q) {
			t.Errorf("IsBlank(%q) = false", q)
		}
	}
	if IsBlank(" x ") {
		t.Error("IsBlank(\" x \") = true")
	}
}

// likeToRegexp interprets a LIKE pattern with backslash escapes the way SQL
// does, case-insensitively, so Pattern can be checked without a database.
func likeToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == Escape:
			escaped = true
		case r == Wildcard:
			b.WriteString(".*")
		case r == SingleWildcard:
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

func TestPatternMatchesSubsequences(t *testing.T) {
	tests := []struct {
		query  string
		target string
		want   bool
	}{
		{"hih", "High Energy", true},
		{"hih", "Low Power", false},
		{"jhn", "John", true},
		{"hnoj", "John", false},
		{"hihvlt", "High Voltage", true},
		{"drksde", "The Dark Side of the Moon", true},
		{"100%", "100% Hits", true},
		{"100%", "1000 Hits", false},
		{"Under_score", "Under_score Album", true},
		{"Under_score", "UnderXscore Album", false},
		{`a\b`, `a\b`, true},
		{`a\b`, "ab", false},
		{"THRILLER", "Thriller", true},
		{"", "anything", true},
		{"   ", "anything", true},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.target, func(t *testing.T) {
			re := likeToRegexp(Pattern(tt.query))
			if got := re.MatchString(tt.target); got != tt.want {
				t.Errorf("pattern %q against %q = %v, want %v", Pattern(tt.query), tt.target, got, tt.want)
			}
			if got := Match(tt.query, tt.target); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.query, tt.target, got, tt.want)
			}
		})
	}
}
