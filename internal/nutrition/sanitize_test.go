package nutrition

import "testing"

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"   ":             "",
		"plain text":      "plain text",
		"**bold** _it_":   "bold it",
		"# Title\n> quote": "Title\n quote",
		"`code` ~x~":      "code x",
		"a ---- b":        "a  b",
		"uno\n\n\n\ndos":  "uno\n\ndos",
		"linea  \ndos":    "linea\ndos",
		"a \n \n \nb":     "a\n\nb",
		"  recortado  ":   "recortado",
		"Puntaje global: 82 / 100\n\n\nMotivo.": "Puntaje global: 82 / 100\n\nMotivo.",
	}
	for in, want := range cases {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"**Puntaje global: 38 / 100**\n\n\n\n- azúcar --",
		"texto\t \nlimpio\n\ncon párrafos",
		"a \n \n \nb",
		"fin \t\n  \n\t\nde la lista",
		"# encabezado\n____\n~~~fin~~~",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestSanitize_PreservesParagraphs(t *testing.T) {
	got := Sanitize("primero\n\nsegundo")
	if got != "primero\n\nsegundo" {
		t.Fatalf("paragraph break lost: %q", got)
	}
}
