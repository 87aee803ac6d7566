package align

// EditDistance computes the Levenshtein distance between a and b over runes,
// using two rolling rows so the auxiliary space is O(min(len(a), len(b))).
// It is symmetric, EditDistance(a, a) == 0, and EditDistance("", b) equals
// the rune length of b.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	// Keep the shorter string on the row axis.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

const (
	defaultMinFuzzyLen    = 4
	defaultBaseTolerance  = 2
	defaultToleranceRatio = 0.3
	defaultLookahead      = 3
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithMinFuzzyLen sets the minimum normalized rune length (on both sides)
// required before a fuzzy match is considered. Shorter tokens must match
// exactly — a one-rune edit on a two-letter word is too large a relative
// change to mean "the same word". Default: 4.
func WithMinFuzzyLen(n int) Option {
	return func(m *Matcher) {
		m.minFuzzyLen = n
	}
}

// WithTolerance sets the fuzzy acceptance bound: an edit distance d is
// accepted when d <= max(base, floor(maxRuneLen*ratio)). The defaults
// (base 2, ratio 0.3) are calibrated for typical spelling-correction edits
// without conflating genuinely different words.
func WithTolerance(base int, ratio float64) Option {
	return func(m *Matcher) {
		m.baseTolerance = base
		m.toleranceRatio = ratio
	}
}

// WithLookahead sets how many tokens ahead the aligner scans on one side to
// recover from an insertion or merge before giving up on the current token.
// The bound is an empirical heuristic, not a proof: it comfortably covers
// single-word insertions from spelling correction or pronunciation drift
// while keeping worst-case work at O(n·k). Longer insertions (a whole added
// clause) defeat it. Default: 3.
func WithLookahead(n int) Option {
	return func(m *Matcher) {
		m.lookahead = n
	}
}

// Matcher is the matching oracle and aligner entry point. It holds the
// fuzzy-match and lookahead tunables; the zero-configured value from [New]
// uses the calibrated defaults. Matcher is read-only after construction and
// safe for concurrent use.
type Matcher struct {
	minFuzzyLen    int
	baseTolerance  int
	toleranceRatio float64
	lookahead      int
}

// New returns a [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		minFuzzyLen:    defaultMinFuzzyLen,
		baseTolerance:  defaultBaseTolerance,
		toleranceRatio: defaultToleranceRatio,
		lookahead:      defaultLookahead,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// IsFuzzy reports whether a and b are accepted as the same word despite a
// bounded edit-distance difference. Inputs are normalized before comparison.
// Symmetric in its arguments.
func (m *Matcher) IsFuzzy(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	la, lb := len([]rune(na)), len([]rune(nb))
	if la < m.minFuzzyLen || lb < m.minFuzzyLen {
		return false
	}
	tolerance := int(float64(max(la, lb)) * m.toleranceRatio)
	if tolerance < m.baseTolerance {
		tolerance = m.baseTolerance
	}
	return EditDistance(na, nb) <= tolerance
}

// Compare classifies two raw tokens: [MatchExact] when their normalized
// forms are equal, [MatchFuzzy] per [Matcher.IsFuzzy], otherwise
// [MatchNone]. Two tokens that both normalize to the empty string are not a
// match — pure punctuation carries no word identity.
func (m *Matcher) Compare(a, b string) Match {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return MatchNone
	}
	if na == nb {
		return MatchExact
	}
	if m.IsFuzzy(na, nb) {
		return MatchFuzzy
	}
	return MatchNone
}
