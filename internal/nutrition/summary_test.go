package nutrition

import (
	"testing"
	"unicode/utf8"
)

func TestSummarize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"GALLETITAS DULCES\nharina, azúcar", "Galletitas Dulces"},
		{"\n\n  avena   instantánea  \nresto", "Avena Instantánea"},
		{"", ""},
		{"   \n\t\n", ""},
	}
	for _, tc := range cases {
		if got := Summarize(tc.in, 60); got != tc.want {
			t.Errorf("Summarize(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestSummarize_ClipsRunes(t *testing.T) {
	got := Summarize("producto con un nombre larguísimo en la etiqueta", 10)
	if utf8.RuneCountInString(got) != 10 {
		t.Fatalf("expected 10 runes, got %d (%q)", utf8.RuneCountInString(got), got)
	}
}
