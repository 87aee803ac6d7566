// Package asr defines the Provider interface for speech-recognition
// backends.
//
// lexibly uses recognition in batch mode only: a complete audio clip in, a
// transcript with per-word timing out. The per-word timestamps are what the
// alignment engine anchors on, so providers that cannot produce word-level
// timing are not useful here.
//
// Implementations must be safe for concurrent use.
package asr

import (
	"context"
	"time"

	"github.com/lexibly/lexibly/pkg/transcript"
)

// AudioConfig describes the raw PCM audio handed to Transcribe.
type AudioConfig struct {
	// SampleRate is the audio sample rate in Hz. 16000 is the recognition
	// sweet spot for most backends.
	SampleRate int

	// Channels is the number of interleaved channels. Providers down-mix to
	// mono internally when needed.
	Channels int

	// Language is the BCP-47 language tag of the speech (e.g., "ru", "de").
	// Empty lets the provider auto-detect, if supported.
	Language string
}

// Transcription is the result of one batch recognition pass.
type Transcription struct {
	// Text is the full recognised text.
	Text string

	// Words holds per-word timing in transcript order.
	Words []transcript.Word

	// Duration is the length of the transcribed audio.
	Duration time.Duration
}

// Provider is the abstraction over any batch speech-recognition backend.
type Provider interface {
	// Transcribe runs recognition over a complete clip of raw 16-bit
	// little-endian signed PCM audio and returns the transcript with
	// per-word timing. Returns an error when recognition cannot run at all;
	// silence transcribes to an empty result, not an error.
	Transcribe(ctx context.Context, pcm []byte, cfg AudioConfig) (*Transcription, error)
}
