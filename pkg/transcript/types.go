// Package transcript holds the shared transcript data model used across the
// lexibly pipelines: timed words as produced by speech recognition, display
// segments as shown to the learner, and the full transcript that groups them.
//
// All types are plain values with no behaviour attached; the alignment engine
// in internal/align and the pipelines in internal/correct and internal/reading
// consume and produce them.
package transcript

import (
	"strings"
	"time"
)

// Word is a single recognised word with trustworthy timing, as delivered by a
// speech-recognition provider. Word values are treated as immutable once
// produced.
type Word struct {
	// Text is the word exactly as recognised, including any punctuation the
	// provider attached.
	Text string `json:"text"`

	// Start is the word onset relative to the start of the audio.
	Start time.Duration `json:"start"`

	// End is the word offset relative to the start of the audio.
	// Always >= Start.
	End time.Duration `json:"end"`
}

// Segment is a display grouping of transcript text over a time range. The
// player shows one segment at a time and highlights words inside it as
// playback progresses.
type Segment struct {
	// Start is the segment onset relative to the start of the audio.
	Start time.Duration `json:"start"`

	// End is the segment offset relative to the start of the audio.
	End time.Duration `json:"end"`

	// Text is the segment's display text.
	Text string `json:"text"`
}

// Transcript pairs the full recognised text with its per-word timing and
// display segmentation.
type Transcript struct {
	// Text is the full transcript text.
	Text string `json:"text"`

	// Words holds per-word timing in transcript order.
	Words []Word `json:"words"`

	// Segments holds the display groupings in time order. May be empty for
	// transcripts that were never segmented (e.g., short synthesized readings).
	Segments []Segment `json:"segments,omitempty"`

	// Duration is the total length of the underlying audio. When zero it is
	// derived from the end of the last word.
	Duration time.Duration `json:"duration"`
}

// TotalDuration returns the transcript's audio duration, falling back to the
// end timestamp of the last word when Duration was not set by the producer.
func (t *Transcript) TotalDuration() time.Duration {
	if t.Duration > 0 {
		return t.Duration
	}
	if n := len(t.Words); n > 0 {
		return t.Words[n-1].End
	}
	return 0
}

// Tokenize splits free text into whitespace-delimited tokens. This is the
// single tokenization rule shared by every pipeline: authoritative text
// (corrected text, scripts) is always split the same way the recognised word
// list was.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
