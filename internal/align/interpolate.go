package align

import "time"

// interpolatedShare is the fraction of an interpolated word's slot that is
// covered by its highlight. Leaving the tail of each slot free keeps the
// highlight from visually overlapping the next word's.
const (
	interpolatedShareNum = 4
	interpolatedShareDen = 5
)

// Interpolate fills timestamps for every untimed word in words, in place,
// and returns the slice. Each maximal run of g untimed words is bounded by
// the end of the nearest preceding timed word (or 0) and the start of the
// nearest following timed word (or total); the run's span is divided into
// g+1 steps and word p of the run starts at prevEnd + step·p, ending 80% of
// a step later.
//
// When no word in the sequence is timed and total is zero there is no
// anchor to interpolate from; the sequence is returned unchanged.
func Interpolate(words []AlignedWord, total time.Duration) []AlignedWord {
	if !hasAnchor(words, total) {
		return words
	}

	var prevEnd time.Duration
	for i := 0; i < len(words); {
		if words[i].Timed {
			prevEnd = words[i].End
			i++
			continue
		}

		run := i
		for i < len(words) && !words[i].Timed {
			i++
		}
		nextStart := total
		if i < len(words) {
			nextStart = words[i].Start
		}

		span := nextStart - prevEnd
		if span < 0 {
			// Anchors out of order (overlapping recognised words). Collapse
			// the run onto the preceding anchor rather than going backwards.
			span = 0
		}

		g := i - run
		step := span / time.Duration(g+1)
		for p := 1; p <= g; p++ {
			w := &words[run+p-1]
			w.Start = prevEnd + step*time.Duration(p)
			w.End = w.Start + step*interpolatedShareNum/interpolatedShareDen
			w.Timed = true
		}
		prevEnd = nextStart
	}
	return words
}

// hasAnchor reports whether interpolation has at least one real timestamp to
// work from: a timed word in the sequence, or a known overall duration.
func hasAnchor(words []AlignedWord, total time.Duration) bool {
	if total > 0 {
		return true
	}
	for _, w := range words {
		if w.Timed {
			return true
		}
	}
	return false
}
