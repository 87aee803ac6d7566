package align

import "github.com/lexibly/lexibly/pkg/transcript"

// ReconcileCorrected aligns a recognised word list against the corrected
// text that a spelling/punctuation pass produced for the same audio window.
// Timing is reused from the recognised words; text is replaced with the
// corrected form wherever the two sides can be anchored.
//
// The walk advances a pointer on each side. On a mismatch it first scans
// ahead on the corrected side (the correction pass may have split a
// contraction or inserted a punctuation token — such tokens have no timing
// anchor and are skipped, not emitted), then scans ahead on the recognised
// side (the correction pass may have merged recognised words away — those
// keep their own text and timing, unmatched). When neither scan recovers,
// the recognised word is kept verbatim.
//
// The output always has exactly one word per recognised word, in recognised
// order, every one carrying real timing. Corrected tokens left over after
// the recognised side is exhausted have no timing anchor and are not
// represented; symmetrically, recognised words left over after the corrected
// side is exhausted are kept verbatim.
func (m *Matcher) ReconcileCorrected(source []transcript.Word, target []string) Result {
	out := make([]AlignedWord, 0, len(source))
	matched := 0

	i, j := 0, 0
	for i < len(source) {
		if j < len(target) {
			if m.Compare(source[i].Text, target[j]) != MatchNone {
				out = append(out, AlignedWord{
					Text:    target[j],
					Start:   source[i].Start,
					End:     source[i].End,
					Matched: true,
					Timed:   true,
				})
				matched++
				i++
				j++
				continue
			}

			// The corrected side inserted extra tokens: skip them and anchor
			// the recognised word to the token behind them.
			if k := m.scanAhead(source[i].Text, target, j); k > 0 {
				j += k
				out = append(out, AlignedWord{
					Text:    target[j],
					Start:   source[i].Start,
					End:     source[i].End,
					Matched: true,
					Timed:   true,
				})
				matched++
				i++
				j++
				continue
			}

			// The corrected side merged recognised words away: emit them
			// verbatim and retry the same corrected token afterwards.
			if k := m.scanSource(target[j], source, i); k > 0 {
				for p := range k {
					out = append(out, keepVerbatim(source[i+p]))
				}
				i += k
				continue
			}
		}

		// No anchor within the window (or corrected side exhausted): keep
		// the recognised word as-is.
		out = append(out, keepVerbatim(source[i]))
		i++
	}

	return Result{Words: out, Matched: matched}
}

// ReconcileScript aligns the ground-truth script of a synthesized reading
// against the word list a second recognition pass produced from the
// synthesized audio. Text is reused from the script; timing is filled in
// from the recognition pass.
//
// On a mismatch the walk first scans ahead on the recognised side (synthesis
// may have pronounced tokens that are not in the script — numbers read out,
// hesitations), then scans ahead on the script side (synthesis may have
// dropped or merged script tokens — those are emitted untimed for
// [Interpolate] to fill). When neither scan recovers, the script token is
// emitted untimed and the same recognised word is retried against the next
// script token.
//
// The output always has exactly one word per script token, in script order.
// When either input is empty every script token comes back untimed with a
// zero timestamp — a defined fallback, not an error.
func (m *Matcher) ReconcileScript(target []string, source []transcript.Word) Result {
	out := make([]AlignedWord, 0, len(target))
	if len(source) == 0 {
		for _, t := range target {
			out = append(out, AlignedWord{Text: t})
		}
		return Result{Words: out}
	}

	matched := 0
	i, j := 0, 0
	for j < len(target) {
		if i < len(source) {
			if m.Compare(target[j], source[i].Text) != MatchNone {
				out = append(out, AlignedWord{
					Text:    target[j],
					Start:   source[i].Start,
					End:     source[i].End,
					Matched: true,
					Timed:   true,
				})
				matched++
				i++
				j++
				continue
			}

			// Synthesis pronounced extra tokens: skip recognised words until
			// the script token anchors again.
			if k := m.scanSource(target[j], source, i); k > 0 {
				i += k
				continue
			}

			// The script has tokens synthesis dropped or merged: emit them
			// untimed and retry against the same recognised word.
			if k := m.scanAhead(source[i].Text, target, j); k > 0 {
				for p := range k {
					out = append(out, AlignedWord{Text: target[j+p]})
				}
				j += k
				continue
			}
		}

		// No anchor within the window (or recognised side exhausted).
		out = append(out, AlignedWord{Text: target[j]})
		j++
	}

	return Result{Words: out, Matched: matched}
}

// scanAhead looks for source text among the next lookahead target tokens
// after index j. Returns the offset of the first match, or 0.
func (m *Matcher) scanAhead(sourceText string, target []string, j int) int {
	for k := 1; k <= m.lookahead && j+k < len(target); k++ {
		if m.Compare(sourceText, target[j+k]) != MatchNone {
			return k
		}
	}
	return 0
}

// scanSource looks for target text among the next lookahead source words
// after index i. Returns the offset of the first match, or 0.
func (m *Matcher) scanSource(targetText string, source []transcript.Word, i int) int {
	for k := 1; k <= m.lookahead && i+k < len(source); k++ {
		if m.Compare(source[i+k].Text, targetText) != MatchNone {
			return k
		}
	}
	return 0
}

// keepVerbatim carries a recognised word into the output unchanged: its own
// text, its own timing, unmatched.
func keepVerbatim(w transcript.Word) AlignedWord {
	return AlignedWord{
		Text:  w.Text,
		Start: w.Start,
		End:   w.End,
		Timed: true,
	}
}
