package align_test

import (
	"testing"
	"time"

	"github.com/lexibly/lexibly/internal/align"
	"github.com/lexibly/lexibly/pkg/transcript"
)

func TestBatch(t *testing.T) {
	t.Parallel()

	words := timedWords("а", "б", "в", "г", "д")

	batches := align.Batch(words, 2)
	if len(batches) != 3 {
		t.Fatalf("batch count = %d, want 3", len(batches))
	}
	wantSizes := []int{2, 2, 1}
	for i, b := range batches {
		if len(b) != wantSizes[i] {
			t.Errorf("batch %d size = %d, want %d", i, len(b), wantSizes[i])
		}
	}
	if batches[2][0].Text != "д" {
		t.Errorf("last batch starts with %q, want %q", batches[2][0].Text, "д")
	}
}

func TestBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := align.Batch(nil, 10); got != nil {
		t.Errorf("Batch(nil) = %v, want nil", got)
	}
}

func TestBatch_InvalidSizeUsesDefault(t *testing.T) {
	t.Parallel()

	words := make([]transcript.Word, align.DefaultBatchSize+1)
	batches := align.Batch(words, 0)
	if len(batches) != 2 {
		t.Errorf("batch count = %d, want 2 (default size)", len(batches))
	}
}

func TestRebuildSegments(t *testing.T) {
	t.Parallel()

	segments := []transcript.Segment{
		{Start: 0, End: 2 * time.Second, Text: "привет как"},
		{Start: 2 * time.Second, End: 4 * time.Second, Text: "дела сегодня"},
	}
	words := []align.AlignedWord{
		timed("Привет,", 0, time.Second),
		timed("как", time.Second, 2*time.Second),
		timed("дела?", 2*time.Second, 3*time.Second),
		timed("Сегодня", 3*time.Second, 4*time.Second),
	}

	got := align.RebuildSegments(segments, words)

	if got[0].Text != "Привет, как" {
		t.Errorf("segment 0 text = %q, want %q", got[0].Text, "Привет, как")
	}
	if got[1].Text != "дела? Сегодня" {
		t.Errorf("segment 1 text = %q, want %q", got[1].Text, "дела? Сегодня")
	}
	for i := range got {
		if got[i].Start != segments[i].Start || got[i].End != segments[i].End {
			t.Errorf("segment %d time range changed: %+v", i, got[i])
		}
	}
}

func TestRebuildSegments_NoWordsInRangeKeepsOriginalText(t *testing.T) {
	t.Parallel()

	segments := []transcript.Segment{
		{Start: 0, End: time.Second, Text: "исходный текст"},
	}
	words := []align.AlignedWord{
		timed("позже", 5*time.Second, 6*time.Second),
	}

	got := align.RebuildSegments(segments, words)

	if got[0].Text != "исходный текст" {
		t.Errorf("segment text = %q, want original kept", got[0].Text)
	}
}
