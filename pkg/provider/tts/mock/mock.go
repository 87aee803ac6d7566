// Package mock provides a test double for the tts.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/lexibly/lexibly/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of Synthesize.
type SynthesizeCall struct {
	// Ctx is the context passed to Synthesize.
	Ctx context.Context
	// Text is the script passed to Synthesize.
	Text string
	// Voice is the voice passed to Synthesize.
	Voice tts.Voice
}

// Provider is a mock implementation of tts.Provider. Zero values cause
// Synthesize to return nil, nil. Set Err to inject a failure.
type Provider struct {
	mu sync.Mutex

	// Result is returned by Synthesize.
	Result *tts.Audio

	// Err, if non-nil, is returned as the error from Synthesize.
	Err error

	// Calls records every invocation in order.
	Calls []SynthesizeCall
}

var _ tts.Provider = (*Provider)(nil)

// Synthesize implements tts.Provider.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (*tts.Audio, error) {
	p.mu.Lock()
	p.Calls = append(p.Calls, SynthesizeCall{Ctx: ctx, Text: text, Voice: voice})
	result, err := p.Result, p.Err
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return result, nil
}
