package align_test

import (
	"testing"

	"github.com/lexibly/lexibly/internal/align"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"Hello", "hello"},
		{"  Hello,  ", "hello"},
		{`"Привет!"`, "привет"},
		{"—dash—", "dash"},
		{"(bracketed)", "bracketed"},
		{"ellipsis…", "ellipsis"},
		{"don't", "don't"},
		{"well-known", "well-known"},
		{"...", ""},
		{"", ""},
		{"42", "42"},
	}
	for _, tc := range cases {
		if got := align.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEditDistance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"привет", "превет", 1},
		{"same", "same", 0},
	}
	for _, tc := range cases {
		if got := align.EditDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("EditDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEditDistance_Symmetry(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"kitten", "sitting"},
		{"", "word"},
		{"дела", "делать"},
		{"abcdef", "abcdef"},
	}
	for _, p := range pairs {
		ab := align.EditDistance(p[0], p[1])
		ba := align.EditDistance(p[1], p[0])
		if ab != ba {
			t.Errorf("EditDistance(%q, %q) = %d but reversed = %d", p[0], p[1], ab, ba)
		}
	}
}

func TestMatcher_IsFuzzy_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	m := align.New()

	// Two 6-rune tokens one edit apart: tolerance is max(2, floor(6*0.3)=1) = 2.
	if !m.IsFuzzy("kitten", "mitten") {
		t.Error("IsFuzzy(kitten, mitten) = false, want true (distance 1 <= tolerance 2)")
	}

	// Two 6-rune tokens two edits apart sit exactly on the bound.
	if !m.IsFuzzy("kitten", "mutton") {
		t.Error("IsFuzzy(kitten, mutton) = false, want true (distance 2 <= tolerance 2)")
	}

	// Two 4-rune tokens three edits apart: tolerance is max(2, floor(4*0.3)=1) = 2.
	if m.IsFuzzy("abcd", "axyz") {
		t.Error("IsFuzzy(abcd, axyz) = true, want false (distance 3 > tolerance 2)")
	}
}

func TestMatcher_IsFuzzy_ShortTokensExcluded(t *testing.T) {
	t.Parallel()

	m := align.New()
	if m.IsFuzzy("cat", "car") {
		t.Error("IsFuzzy(cat, car) = true, want false (below minimum fuzzy length)")
	}
	if m.IsFuzzy("at", "a") {
		t.Error("IsFuzzy(at, a) = true, want false (below minimum fuzzy length)")
	}
}

func TestMatcher_IsFuzzy_Symmetry(t *testing.T) {
	t.Parallel()

	m := align.New()
	pairs := [][2]string{
		{"kitten", "mitten"},
		{"привет", "превет"},
		{"short", "shirt"},
		{"word", "entirely"},
	}
	for _, p := range pairs {
		if m.IsFuzzy(p[0], p[1]) != m.IsFuzzy(p[1], p[0]) {
			t.Errorf("IsFuzzy(%q, %q) is not symmetric", p[0], p[1])
		}
	}
}

func TestMatcher_Compare(t *testing.T) {
	t.Parallel()

	m := align.New()

	cases := []struct {
		a, b string
		want align.Match
	}{
		{"Привет", "привет!", align.MatchExact},
		{"привет", "превет", align.MatchFuzzy},
		{"привет", "дела", align.MatchNone},
		{"word", "entirely", align.MatchNone},
		// Punctuation-only tokens never match anything, including each other.
		{",", "?", align.MatchNone},
		{",", "как", align.MatchNone},
	}
	for _, tc := range cases {
		if got := m.Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMatcher_WithTolerance(t *testing.T) {
	t.Parallel()

	strict := align.New(align.WithTolerance(1, 0))
	if strict.IsFuzzy("kitten", "mutton") {
		t.Error("IsFuzzy(kitten, mutton) with tolerance 1 = true, want false")
	}
	if !strict.IsFuzzy("kitten", "mitten") {
		t.Error("IsFuzzy(kitten, mitten) with tolerance 1 = false, want true")
	}
}
