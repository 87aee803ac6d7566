package whisper

import (
	"testing"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

func TestPCMToFloat32(t *testing.T) {
	t.Parallel()

	// 0x0000 = 0.0, 0x7FFF ≈ 1.0, 0x8000 = -1.0
	pcm := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80}
	samples := pcmToFloat32(pcm)

	if len(samples) != 3 {
		t.Fatalf("sample count = %d, want 3", len(samples))
	}
	if samples[0] != 0 {
		t.Errorf("samples[0] = %f, want 0", samples[0])
	}
	if samples[1] < 0.999 {
		t.Errorf("samples[1] = %f, want ~1.0", samples[1])
	}
	if samples[2] != -1.0 {
		t.Errorf("samples[2] = %f, want -1.0", samples[2])
	}
}

func TestPCMToFloat32Mono_DownmixesStereo(t *testing.T) {
	t.Parallel()

	// One frame: left = 0x7FFF, right = 0x8000 — averages to ~0.
	pcm := []byte{0xFF, 0x7F, 0x00, 0x80}
	samples := pcmToFloat32Mono(pcm, 2)

	if len(samples) != 1 {
		t.Fatalf("sample count = %d, want 1", len(samples))
	}
	if samples[0] > 0.001 || samples[0] < -0.001 {
		t.Errorf("samples[0] = %f, want ~0", samples[0])
	}
}

func TestResample_DownToDecodeRate(t *testing.T) {
	t.Parallel()

	// One second of 24 kHz audio must come out as one second of 16 kHz
	// audio, or the decoder reads it slow and stretches every timestamp.
	in := make([]float32, 24000)
	for i := range in {
		in[i] = float32(i) / 24000
	}
	out := resample(in, 24000, 16000)

	if len(out) != 16000 {
		t.Fatalf("resampled length = %d, want 16000", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("out[0] = %f, want %f", out[0], in[0])
	}
	// The ramp must be preserved: the sample halfway through still holds
	// the value from halfway through the input.
	mid := out[8000]
	if mid < 0.49 || mid > 0.51 {
		t.Errorf("out[8000] = %f, want ~0.5", mid)
	}
	last := out[len(out)-1]
	if last < 0.99 {
		t.Errorf("out[last] = %f, want ~1.0", last)
	}
}

func TestResample_SameRateUnchanged(t *testing.T) {
	t.Parallel()

	in := []float32{0, 0.5, -0.5, 1}
	out := resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %f, want %f", i, out[i], in[i])
		}
	}
}

func TestResample_Interpolates(t *testing.T) {
	t.Parallel()

	// Halving the rate of an alternating signal must land between the
	// neighbours, not pick one of them.
	out := resample([]float32{0, 1, 0, 1}, 4, 2)
	if len(out) != 2 {
		t.Fatalf("length = %d, want 2", len(out))
	}
	if out[0] != 0 {
		t.Errorf("out[0] = %f, want 0", out[0])
	}
	if out[1] != 0 {
		t.Errorf("out[1] = %f, want 0 (sample at source index 2)", out[1])
	}

	up := resample([]float32{0, 1}, 2, 4)
	if len(up) != 4 {
		t.Fatalf("upsampled length = %d, want 4", len(up))
	}
	if up[1] != 0.5 {
		t.Errorf("up[1] = %f, want 0.5 (linear midpoint)", up[1])
	}
}

func TestMergeTokenWords(t *testing.T) {
	t.Parallel()

	tokens := []whisperlib.Token{
		{Text: "[_BEG_]"},
		{Text: " При", Start: 0, End: 200 * time.Millisecond},
		{Text: "вет", Start: 200 * time.Millisecond, End: 400 * time.Millisecond},
		{Text: " мир", Start: 500 * time.Millisecond, End: 900 * time.Millisecond},
		{Text: "[_TT_90]"},
	}

	words := mergeTokenWords(tokens)

	if len(words) != 2 {
		t.Fatalf("word count = %d, want 2", len(words))
	}
	if words[0].Text != "Привет" {
		t.Errorf("word 0 text = %q, want %q", words[0].Text, "Привет")
	}
	if words[0].Start != 0 || words[0].End != 400*time.Millisecond {
		t.Errorf("word 0 timing = [%v, %v], want [0s, 400ms]", words[0].Start, words[0].End)
	}
	if words[1].Text != "мир" || words[1].Start != 500*time.Millisecond {
		t.Errorf("word 1 = %+v, want мир at 500ms", words[1])
	}
}
