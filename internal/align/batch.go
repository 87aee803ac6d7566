package align

import (
	"strings"

	"github.com/lexibly/lexibly/pkg/transcript"
)

// DefaultBatchSize is the window size used when batching a long recognised
// word list for an external correction service with an input-size limit.
const DefaultBatchSize = 500

// Batch windows words into fixed-size batches of at most size words each,
// in order. The sub-slices share backing storage with words. A size below 1
// falls back to [DefaultBatchSize].
func Batch(words []transcript.Word, size int) [][]transcript.Word {
	if size < 1 {
		size = DefaultBatchSize
	}
	if len(words) == 0 {
		return nil
	}
	batches := make([][]transcript.Word, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		batches = append(batches, words[start:end])
	}
	return batches
}

// RebuildSegments re-derives each display segment's text from the aligned
// words whose midpoint falls inside the segment's original time range.
// Segments that no aligned word falls into keep their original text (every
// word in that window failed to match and carried timing outside the range).
// The segment time ranges themselves are never altered.
func RebuildSegments(segments []transcript.Segment, words []AlignedWord) []transcript.Segment {
	rebuilt := make([]transcript.Segment, len(segments))
	w := 0
	for s, seg := range segments {
		rebuilt[s] = seg

		// Words and segments are both in time order, so a single cursor
		// suffices. Untimed words have no position and are skipped.
		var texts []string
		for w < len(words) {
			word := words[w]
			if !word.Timed {
				w++
				continue
			}
			mid := word.Start + (word.End-word.Start)/2
			if mid < seg.Start {
				w++
				continue
			}
			if mid > seg.End {
				break
			}
			texts = append(texts, word.Text)
			w++
		}
		if len(texts) > 0 {
			rebuilt[s].Text = strings.Join(texts, " ")
		}
	}
	return rebuilt
}
