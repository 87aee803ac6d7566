package correct

import (
	"strings"
	"testing"

	llmmock "github.com/lexibly/lexibly/pkg/provider/llm/mock"
)

func newVerifier(t *testing.T) *Corrector {
	t.Helper()
	return New(&llmmock.Provider{})
}

func TestTokenLCS(t *testing.T) {
	t.Parallel()

	a := strings.Fields("привет как дела сегодня")
	b := strings.Fields("Привет, как дела?")

	anchors := tokenLCS(a, b)
	if len(anchors) != 1 {
		t.Fatalf("got %d anchors, want 1 (only %q is unchanged)", len(anchors), "как")
	}
	if a[anchors[0].origIdx] != "как" || b[anchors[0].corrIdx] != "как" {
		t.Errorf("anchor = (%q, %q), want (как, как)",
			a[anchors[0].origIdx], b[anchors[0].corrIdx])
	}
}

func TestTokenLCSEmpty(t *testing.T) {
	t.Parallel()

	if got := tokenLCS(nil, strings.Fields("a b")); got != nil {
		t.Errorf("tokenLCS(nil, ...) = %v, want nil", got)
	}
	if got := tokenLCS(strings.Fields("x y"), strings.Fields("a b")); got != nil {
		t.Errorf("tokenLCS with no common tokens = %v, want nil", got)
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		original  string
		corrected string
		want      string
	}{
		{
			name:      "identical passes through",
			original:  "привет как дела",
			corrected: "привет как дела",
			want:      "привет как дела",
		},
		{
			name:      "spelling fix accepted",
			original:  "превет как дела",
			corrected: "Привет, как дела?",
			want:      "Привет, как дела?",
		},
		{
			name:      "casing change accepted",
			original:  "привет мир",
			corrected: "Привет мир",
			want:      "Привет мир",
		},
		{
			name:      "hyphen merge accepted",
			original:  "когда то давно",
			corrected: "когда-то давно",
			want:      "когда-то давно",
		},
		{
			name:      "punctuation token insertion kept",
			original:  "привет как дела",
			corrected: "привет , как дела ?",
			want:      "привет , как дела ?",
		},
		{
			name:      "word insertion reverted",
			original:  "привет как дела",
			corrected: "привет ну как дела",
			want:      "привет как дела",
		},
		{
			name:      "word deletion reverted",
			original:  "привет ну как дела",
			corrected: "привет как дела",
			want:      "привет ну как дела",
		},
		{
			name:      "paraphrase reverted",
			original:  "превет как дела",
			corrected: "здравствуйте уважаемый собеседник",
			want:      "превет как дела",
		},
		{
			name:      "mixed spans verified independently",
			original:  "превет как дела очень хорошо",
			corrected: "Привет как дела совсем иначе",
			want:      "Привет как дела очень хорошо",
		},
	}

	c := newVerifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := c.verify(tt.original, tt.corrected); got != tt.want {
				t.Errorf("verify(%q, %q) = %q, want %q", tt.original, tt.corrected, got, tt.want)
			}
		})
	}
}

func TestPlausibleThreshold(t *testing.T) {
	t.Parallel()

	strict := New(&llmmock.Provider{}, WithVerifySimilarity(1))
	span := changeSpan{origTokens: []string{"превет"}, corrTokens: []string{"привет"}}
	if strict.plausible(span) {
		t.Error("similarity 1.0 accepted a non-identical span")
	}

	lenient := New(&llmmock.Provider{}, WithVerifySimilarity(0))
	if !lenient.plausible(span) {
		t.Error("similarity 0 rejected a spelling fix")
	}
}
