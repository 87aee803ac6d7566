// Package mock provides a test double for the asr.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/lexibly/lexibly/pkg/provider/asr"
)

// TranscribeCall records a single invocation of Transcribe.
type TranscribeCall struct {
	// Ctx is the context passed to Transcribe.
	Ctx context.Context
	// PCM is the audio passed to Transcribe.
	PCM []byte
	// Cfg is the AudioConfig passed to Transcribe.
	Cfg asr.AudioConfig
}

// Provider is a mock implementation of asr.Provider. Zero values cause
// Transcribe to return nil, nil. Set Err to inject a failure.
type Provider struct {
	mu sync.Mutex

	// Result is returned by Transcribe.
	Result *asr.Transcription

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// Calls records every invocation in order.
	Calls []TranscribeCall
}

var _ asr.Provider = (*Provider)(nil)

// Transcribe implements asr.Provider.
func (p *Provider) Transcribe(ctx context.Context, pcm []byte, cfg asr.AudioConfig) (*asr.Transcription, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, TranscribeCall{Ctx: ctx, PCM: pcm, Cfg: cfg})
	result, err := p.Result, p.Err
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return result, nil
}
