package correct

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/lexibly/lexibly/internal/align"
)

// indexPair maps a token index in the original sequence to the
// corresponding index in the corrected sequence.
type indexPair struct {
	origIdx int
	corrIdx int
}

// changeSpan is a contiguous region that differs between the original and
// corrected token sequences.
type changeSpan struct {
	origTokens []string
	corrTokens []string
}

// tokenLCS computes the longest common subsequence of two token slices and
// returns anchor pairs (indices into a and b) representing common tokens
// in order. Standard O(m×n) DP; batches are at most a few hundred tokens.
func tokenLCS(a, b []string) []indexPair {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return nil
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	lcsLen := dp[m][n]
	if lcsLen == 0 {
		return nil
	}

	anchors := make([]indexPair, lcsLen)
	i, j, k := m, n, lcsLen-1
	for i > 0 && j > 0 {
		if a[i-1] == b[j-1] {
			anchors[k] = indexPair{origIdx: i - 1, corrIdx: j - 1}
			i--
			j--
			k--
		} else if dp[i-1][j] >= dp[i][j-1] {
			i--
		} else {
			j--
		}
	}
	return anchors
}

// plausible reports whether a changed span still resembles its original
// closely enough to be an orthographic fix rather than a rewrite. The
// Jaro-Winkler similarity of the joined span must clear the configured
// threshold. Pure insertions are plausible only when every inserted token
// is punctuation; pure deletions never are, a proofreading pass must not
// drop words.
func (c *Corrector) plausible(span changeSpan) bool {
	if len(span.corrTokens) == 0 {
		return false
	}
	if len(span.origTokens) == 0 {
		for _, t := range span.corrTokens {
			if align.Normalize(t) != "" {
				return false
			}
		}
		return true
	}
	orig := strings.ToLower(strings.Join(span.origTokens, " "))
	corr := strings.ToLower(strings.Join(span.corrTokens, " "))
	return matchr.JaroWinkler(orig, corr, false) >= c.verifySimilarity
}

// verify cross-references the token-level changes between original and
// corrected text and reverts every change span that looks like a rewrite
// instead of an orthographic fix. Returns the verified text.
func (c *Corrector) verify(original, corrected string) string {
	if original == corrected {
		return corrected
	}

	origTokens := strings.Fields(original)
	corrTokens := strings.Fields(corrected)

	anchors := tokenLCS(origTokens, corrTokens)

	var result []string
	oi, ci := 0, 0
	emit := func(span changeSpan) {
		if c.plausible(span) {
			result = append(result, span.corrTokens...)
		} else {
			result = append(result, span.origTokens...)
		}
	}

	for _, a := range anchors {
		if oi < a.origIdx || ci < a.corrIdx {
			emit(changeSpan{
				origTokens: origTokens[oi:a.origIdx],
				corrTokens: corrTokens[ci:a.corrIdx],
			})
		}
		result = append(result, corrTokens[a.corrIdx])
		oi = a.origIdx + 1
		ci = a.corrIdx + 1
	}
	if oi < len(origTokens) || ci < len(corrTokens) {
		emit(changeSpan{
			origTokens: origTokens[oi:],
			corrTokens: corrTokens[ci:],
		})
	}

	return strings.Join(result, " ")
}
