package fetch

import "testing"

func TestArticleURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		country string
		want    string
	}{
		{"simple", "", "Vanuatu", "https://en.wikipedia.org/wiki/Vanuatu"},
		{"spaces become underscores", "", "United States", "https://en.wikipedia.org/wiki/United_States"},
		{"trimmed", "", "  New Zealand \t", "https://en.wikipedia.org/wiki/New_Zealand"},
		{"percent encoded", "", "Côte d'Ivoire", "https://en.wikipedia.org/wiki/C%C3%B4te_d%27Ivoire"},
		{"reserved chars", "", "Guinea (country)?", "https://en.wikipedia.org/wiki/Guinea_%28country%29%3F"},
		{"base without slash", "http://localhost:8080/wiki", "France", "http://localhost:8080/wiki/France"},
		{"slash kept", "", "AC/DC", "https://en.wikipedia.org/wiki/AC/DC"},
		{"reserved escaped", "", "C++", "https://en.wikipedia.org/wiki/C%2B%2B"},
		{"ampersand and colon", "", "Trinidad & Tobago: a", "https://en.wikipedia.org/wiki/Trinidad_%26_Tobago%3A_a"},
		{"unreserved kept", "", "St.-Martin~x", "https://en.wikipedia.org/wiki/St.-Martin~x"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ArticleURL(tc.base, tc.country); got != tc.want {
				t.Fatalf("ArticleURL(%q, %q) = %q, want %q", tc.base, tc.country, got, tc.want)
			}
		})
	}
}

func TestArticleSlug_NFC(t *testing.T) {
	// "o" + combining circumflex must encode like the precomposed rune.
	decomposed := "Co\u0302te"
	if got, want := ArticleSlug(decomposed), ArticleSlug("C\u00f4te"); got != want {
		t.Fatalf("expected NFC normalization, got %q want %q", got, want)
	}
}
