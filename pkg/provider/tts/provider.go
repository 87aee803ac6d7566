// Package tts defines the Provider interface for speech-synthesis backends.
//
// The reading pipeline synthesizes a full script in one call and immediately
// re-recognises the result to recover word timing, so the interface is batch
// rather than streaming: complete text in, complete PCM clip out.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Voice selects the synthesis voice.
type Voice struct {
	// Name is the provider-specific voice identifier.
	Name string

	// Speed scales the speaking rate. Zero means the provider default (1.0).
	Speed float64
}

// Audio is one synthesized clip of raw 16-bit little-endian signed PCM.
type Audio struct {
	// PCM is the raw audio payload.
	PCM []byte

	// SampleRate is the sample rate of PCM in Hz.
	SampleRate int

	// Channels is the number of interleaved channels in PCM.
	Channels int
}

// Provider is the abstraction over any batch speech-synthesis backend.
type Provider interface {
	// Synthesize renders text as speech in the given voice. Empty text is an
	// error; callers are expected to have something to read.
	Synthesize(ctx context.Context, text string, voice Voice) (*Audio, error)
}
