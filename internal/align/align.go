// Package align implements the transcript alignment and timestamp
// reconciliation engine at the heart of lexibly.
//
// Two independently produced token sequences describe the same audio: a
// recognised word list that carries trustworthy timing but transcription
// noise, and an authoritative text (a spelling/punctuation correction pass,
// or the ground-truth script behind a synthesized reading) that carries no
// timing at all. The engine reconciles them into a single sequence where
// every word the learner sees has a best-effort timestamp.
//
// The walk is a fuzzy two-pointer alignment with bounded lookahead on both
// sides. It is exercised under two contracts:
//
//   - [Matcher.ReconcileCorrected] reuses the recognised timing and replaces
//     the text with the corrected form (one output word per recognised word).
//   - [Matcher.ReconcileScript] reuses the script text and fills in timing
//     from a second recognition pass (one output word per script token);
//     words the walk could not anchor are filled in afterwards by
//     [Interpolate].
//
// Everything in this package is pure, synchronous CPU work: no I/O, no
// locks, no state carried between calls. A [Matcher] is read-only after
// construction and safe for concurrent use, so independent batches may be
// reconciled in parallel.
package align

import "time"

// Match classifies the outcome of comparing two tokens.
type Match int

const (
	// MatchNone means the tokens are different words.
	MatchNone Match = iota

	// MatchFuzzy means the tokens are accepted as the same word despite a
	// bounded edit-distance difference (spelling variation).
	MatchFuzzy

	// MatchExact means the normalized forms are identical.
	MatchExact
)

// AlignedWord is one reconciled output word. Text comes from whichever side
// is authoritative for the contract; timing comes from a matched recognised
// word or from interpolation.
type AlignedWord struct {
	// Text is the display text of the word.
	Text string `json:"text"`

	// Start is the word onset. Meaningful only when Timed is true.
	Start time.Duration `json:"start"`

	// End is the word offset. Meaningful only when Timed is true.
	End time.Duration `json:"end"`

	// Matched reports whether the word was anchored to a recognised word by
	// the aligner (exactly or fuzzily). Unmatched words either kept their own
	// recognised timing (ReconcileCorrected) or had timing interpolated
	// (ReconcileScript).
	Matched bool `json:"matched"`

	// Timed reports whether Start and End hold real values. It replaces the
	// reserved-negative-timestamp convention some ASR tooling uses, so a zero
	// timestamp at the start of the audio stays unambiguous.
	Timed bool `json:"timed"`
}

// Result is the output of one reconciliation call.
type Result struct {
	// Words is the reconciled sequence, in authoritative order.
	Words []AlignedWord

	// Matched counts the words in Words with Matched set. Callers use the
	// derived match rate as a data-quality signal.
	Matched int
}

// MatchRate returns Matched divided by the output length, or 1 for an empty
// result (nothing to align is not a quality failure).
func (r *Result) MatchRate() float64 {
	if len(r.Words) == 0 {
		return 1
	}
	return float64(r.Matched) / float64(len(r.Words))
}
