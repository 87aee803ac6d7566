package reading

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lexibly/lexibly/pkg/provider/asr"
	asrmock "github.com/lexibly/lexibly/pkg/provider/asr/mock"
	"github.com/lexibly/lexibly/pkg/provider/tts"
	ttsmock "github.com/lexibly/lexibly/pkg/provider/tts/mock"
	"github.com/lexibly/lexibly/pkg/transcript"
)

// clip builds a mono 16 kHz PCM clip of the given length.
func clip(d time.Duration) *tts.Audio {
	samples := int(d.Seconds() * 16000)
	return &tts.Audio{PCM: make([]byte, samples*2), SampleRate: 16000, Channels: 1}
}

// recognised builds a recognition result with one-second word slots.
func recognised(texts ...string) *asr.Transcription {
	words := make([]transcript.Word, len(texts))
	for i, t := range texts {
		words[i] = transcript.Word{
			Text:  t,
			Start: time.Duration(i) * time.Second,
			End:   time.Duration(i+1) * time.Second,
		}
	}
	return &asr.Transcription{
		Words:    words,
		Duration: time.Duration(len(texts)) * time.Second,
	}
}

func TestReader_FillsTimingFromRecognition(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Result: clip(3 * time.Second)}
	asrP := &asrmock.Provider{Result: recognised("привет", "как", "дела")}
	r := New(ttsP, asrP)

	res, err := r.Read(context.Background(), "Привет, как дела?")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []string{"Привет,", "как", "дела?"}
	if len(res.Words) != len(want) {
		t.Fatalf("got %d words, want %d", len(res.Words), len(want))
	}
	for i, w := range res.Words {
		if w.Text != want[i] {
			t.Errorf("word[%d].Text = %q, want script token %q", i, w.Text, want[i])
		}
		wantStart := time.Duration(i) * time.Second
		if w.Start != wantStart || w.End != wantStart+time.Second {
			t.Errorf("word[%d] timing = [%v, %v], want [%v, %v]",
				i, w.Start, w.End, wantStart, wantStart+time.Second)
		}
		if !w.Matched {
			t.Errorf("word[%d] not anchored", i)
		}
	}
	if res.MatchRate != 1 {
		t.Errorf("MatchRate = %v, want 1", res.MatchRate)
	}
	if res.Transcript.Text != "Привет, как дела?" {
		t.Errorf("Transcript.Text = %q, want the script verbatim", res.Transcript.Text)
	}
}

func TestReader_SynthesisFailureIsError(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Err: fmt.Errorf("voice not found")}
	r := New(ttsP, &asrmock.Provider{})

	if _, err := r.Read(context.Background(), "привет"); err == nil {
		t.Fatal("Read() = nil error, want synthesis failure surfaced")
	}
}

func TestReader_RecognitionFailureSpreadsEvenly(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Result: clip(3 * time.Second)}
	asrP := &asrmock.Provider{Err: fmt.Errorf("model not loaded")}
	r := New(ttsP, asrP)

	res, err := r.Read(context.Background(), "привет как дела")
	if err != nil {
		t.Fatalf("Read() error = %v (recognition failure must degrade, not fail)", err)
	}

	if len(res.Words) != 3 {
		t.Fatalf("got %d words, want 3", len(res.Words))
	}
	// step = 3s / 4 between the clip boundaries
	step := 750 * time.Millisecond
	for i, w := range res.Words {
		wantStart := time.Duration(i+1) * step
		if w.Start != wantStart {
			t.Errorf("word[%d].Start = %v, want %v", i, w.Start, wantStart)
		}
		if w.End <= w.Start || w.End > 3*time.Second {
			t.Errorf("word[%d].End = %v out of range", i, w.End)
		}
		if w.Matched {
			t.Errorf("word[%d] reported as anchored without recognition", i)
		}
	}
}

func TestReader_DroppedTokenInterpolated(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Result: clip(3 * time.Second)}
	asrP := &asrmock.Provider{Result: &asr.Transcription{
		Words: []transcript.Word{
			{Text: "привет", Start: 0, End: time.Second},
			{Text: "дела", Start: 2 * time.Second, End: 3 * time.Second},
		},
		Duration: 3 * time.Second,
	}}
	r := New(ttsP, asrP)

	res, err := r.Read(context.Background(), "привет как дела")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(res.Words) != 3 {
		t.Fatalf("got %d words, want 3", len(res.Words))
	}
	mid := res.Words[1]
	if mid.Matched {
		t.Error("dropped token reported as anchored")
	}
	if mid.Start != 1500*time.Millisecond {
		t.Errorf("interpolated Start = %v, want 1.5s", mid.Start)
	}
	if mid.End <= mid.Start || mid.End > 2*time.Second {
		t.Errorf("interpolated End = %v, want within (1.5s, 2s]", mid.End)
	}
}

func TestReader_SkipsExtraRecognisedWords(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Result: clip(4 * time.Second)}
	asrP := &asrmock.Provider{Result: recognised("привет", "эм", "как", "дела")}
	r := New(ttsP, asrP)

	res, err := r.Read(context.Background(), "привет как дела")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(res.Words) != 3 {
		t.Fatalf("got %d words, want 3 (one per script token)", len(res.Words))
	}
	if res.Words[1].Text != "как" || res.Words[1].Start != 2*time.Second {
		t.Errorf("word[1] = %+v, want %q anchored at 2s", res.Words[1], "как")
	}
}

func TestReader_PassesAudioConfig(t *testing.T) {
	t.Parallel()

	ttsP := &ttsmock.Provider{Result: &tts.Audio{
		PCM: make([]byte, 24000*2), SampleRate: 24000, Channels: 1,
	}}
	asrP := &asrmock.Provider{Result: recognised("привет")}
	r := New(ttsP, asrP,
		WithVoice(tts.Voice{Name: "alloy", Speed: 0.9}),
		WithLanguage("ru"),
	)

	if _, err := r.Read(context.Background(), "привет"); err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if len(ttsP.Calls) != 1 {
		t.Fatalf("tts calls = %d, want 1", len(ttsP.Calls))
	}
	if ttsP.Calls[0].Voice.Name != "alloy" {
		t.Errorf("voice = %q, want alloy", ttsP.Calls[0].Voice.Name)
	}
	if len(asrP.Calls) != 1 {
		t.Fatalf("asr calls = %d, want 1", len(asrP.Calls))
	}
	cfg := asrP.Calls[0].Cfg
	if cfg.SampleRate != 24000 || cfg.Channels != 1 || cfg.Language != "ru" {
		t.Errorf("cfg = %+v, want sample rate 24000, mono, ru", cfg)
	}
}

func TestClipDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		audio *tts.Audio
		want  time.Duration
	}{
		{"mono 16k", clip(3 * time.Second), 3 * time.Second},
		{"stereo 24k", &tts.Audio{PCM: make([]byte, 24000*2*2), SampleRate: 24000, Channels: 2}, time.Second},
		{"zero rate", &tts.Audio{PCM: make([]byte, 100)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := clipDuration(tt.audio); got != tt.want {
				t.Errorf("clipDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
