package nutrition

import (
	"fmt"
	"testing"
)

func TestExtractScore_RoundTrip(t *testing.T) {
	cases := []struct {
		in    string
		want  int
		found bool
	}{
		{"Puntaje global: 82 / 100", 82, true},
		{"puntaje GLOBAL:   7/100", 7, true},
		{"PUNTAJE GLOBAL:0/100", 0, true},
		{"prefacio\nPuntaje global: 45 / 100\nmotivo", 45, true},
		{"Puntaje global: 100 / 100", 100, true},
		{"sin puntaje en el texto", 0, false},
		{NonFoodSentence, 0, false},
		{"Puntaje global: / 100", 0, false},
		{"Puntaje global: 82 / 10", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, found := ExtractScore(tc.in)
		if got != tc.want || found != tc.found {
			t.Errorf("ExtractScore(%q) = (%d, %v); want (%d, %v)", tc.in, got, found, tc.want, tc.found)
		}
	}
}

func TestExtractScore_ClampsAbove100(t *testing.T) {
	got, found := ExtractScore("Puntaje global: 250 / 100")
	if !found || got != MaxScore {
		t.Fatalf("ExtractScore = (%d, %v); want (%d, true)", got, found, MaxScore)
	}
	// An absurdly long digit run must not overflow into a panic or negative value.
	got, found = ExtractScore("Puntaje global: 99999999999999999999 / 100")
	if !found || got != MaxScore {
		t.Fatalf("overflow clamp = (%d, %v); want (%d, true)", got, found, MaxScore)
	}
}

func TestExtractScore_Bound(t *testing.T) {
	for i := 0; i <= MaxScore; i += 10 {
		in := fmt.Sprintf("Puntaje global: %d / 100", i)
		got, found := ExtractScore(in)
		if !found || got != i {
			t.Fatalf("ExtractScore(%q) = (%d, %v)", in, got, found)
		}
	}
}
