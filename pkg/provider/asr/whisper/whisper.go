// Package whisper implements asr.Provider with the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH.
//
// The model is loaded once at construction and shared across calls; each
// Transcribe creates its own whisper context, so concurrent calls are safe.
// Token timestamps are enabled so the provider can assemble per-word timing,
// which is what the alignment engine needs from a second recognition pass.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/lexibly/lexibly/pkg/provider/asr"
	"github.com/lexibly/lexibly/pkg/transcript"
)

const (
	defaultLanguage = "en"

	// decodeSampleRate is the only rate whisper.cpp decodes at. Input at any
	// other rate must be resampled before Process, or every token timestamp
	// comes back scaled by the rate ratio.
	decodeSampleRate = 16000
)

// Provider implements asr.Provider using whisper.cpp.
type Provider struct {
	model    whisperlib.Model
	language string
}

var _ asr.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithLanguage sets the default BCP-47 language code used when the
// AudioConfig does not carry one. Defaults to "en".
func WithLanguage(lang string) Option {
	return func(p *Provider) { p.language = lang }
}

// New creates a Provider that loads the whisper.cpp model from the given
// file path. The caller must call Close when the provider is no longer
// needed.
func New(modelPath string, opts ...Option) (*Provider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	p := &Provider{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model.
func (p *Provider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe implements asr.Provider.
func (p *Provider) Transcribe(ctx context.Context, pcm []byte, cfg asr.AudioConfig) (*asr.Transcription, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("whisper: context already cancelled: %w", err)
	}

	lang := cfg.Language
	if lang == "" {
		lang = p.language
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = decodeSampleRate
	}
	channels := cfg.Channels
	if channels <= 0 {
		channels = 1
	}

	samples := pcmToFloat32Mono(pcm, channels)
	duration := time.Duration(len(samples)) * time.Second / time.Duration(sampleRate)
	samples = resample(samples, sampleRate, decodeSampleRate)

	// Each whisper context is single-use and not thread-safe; the model
	// itself is shared.
	wctx, err := p.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("whisper: set language %q: %w", lang, err)
	}
	wctx.SetTokenTimestamps(true)

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("whisper: process audio: %w", err)
	}

	var (
		parts []string
		words []transcript.Word
	)
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("whisper: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
		words = append(words, mergeTokenWords(segment.Tokens)...)
	}

	return &asr.Transcription{
		Text:     strings.Join(parts, " "),
		Words:    words,
		Duration: duration,
	}, nil
}

// mergeTokenWords assembles whisper sub-word tokens into whole words with
// timing. A token whose text begins with a space (or follows sentence
// whitespace) starts a new word; special marker tokens like [_BEG_] are
// dropped.
func mergeTokenWords(tokens []whisperlib.Token) []transcript.Word {
	var words []transcript.Word
	var current *transcript.Word

	for _, tok := range tokens {
		if isMarkerToken(tok.Text) {
			continue
		}
		startsWord := current == nil || strings.HasPrefix(tok.Text, " ")
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		if startsWord {
			words = append(words, transcript.Word{
				Text:  text,
				Start: tok.Start,
				End:   tok.End,
			})
			current = &words[len(words)-1]
			continue
		}
		current.Text += text
		current.End = tok.End
	}
	return words
}

// isMarkerToken reports whether text is a whisper special token such as
// [_BEG_] or [_TT_500].
func isMarkerToken(text string) bool {
	return strings.HasPrefix(text, "[_") && strings.HasSuffix(text, "]")
}
