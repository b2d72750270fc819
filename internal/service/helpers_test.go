package service

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStringPreview(t *testing.T) {
	cases := []struct {
		name string
		body string
		max  int
		want string
	}{
		{"short", "  fine  ", 10, "fine"},
		{"ascii", "abcdefghij", 6, "abc..."},
		{"tiny max", "abcdef", 2, "ab"},
		{"multibyte", "très bien, entretien réussi", 8, "très ..."},
		{"cyrillic exact", "привет", 6, "привет"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stringPreview(tc.body, tc.max)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStringPreviewKeepsValidUTF8(t *testing.T) {
	body := strings.Repeat("é", 200)
	for max := 1; max < 130; max++ {
		if got := stringPreview(body, max); !utf8.ValidString(got) {
			t.Fatalf("max %d produced invalid UTF-8 %q", max, got)
		}
	}
}
