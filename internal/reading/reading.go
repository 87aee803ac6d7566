// Package reading implements the scripted reading pipeline: a known text
// is synthesized to speech, the synthesized clip is run back through
// recognition, and the recognised word timing is transferred onto the
// script so the player can highlight each word as it is spoken.
//
// The script is the ground truth here. Recognition output is used only as
// a timing source; whatever it mishears never reaches the learner. Script
// words the aligner could not anchor get their timestamps interpolated
// between the surrounding anchors.
//
// Synthesis failure is fatal, there is nothing to play without audio.
// Recognition failure is not: the reading degrades to evenly spread
// timestamps across the clip.
package reading

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexibly/lexibly/internal/align"
	"github.com/lexibly/lexibly/internal/observe"
	"github.com/lexibly/lexibly/pkg/provider/asr"
	"github.com/lexibly/lexibly/pkg/provider/tts"
	"github.com/lexibly/lexibly/pkg/transcript"
)

const (
	defaultMatchRateWarn = 0.5

	bytesPerSample = 2 // 16-bit PCM
)

// Result is the output of one reading run.
type Result struct {
	// Audio is the synthesized clip. Excluded from JSON output; callers
	// persist the PCM separately.
	Audio *tts.Audio `json:"-"`

	// Transcript carries the script text with per-word timing.
	Transcript transcript.Transcript `json:"transcript"`

	// Words is the per-word alignment detail behind Transcript.Words. Every
	// word carries a timestamp; Matched distinguishes anchored timing from
	// interpolated timing.
	Words []align.AlignedWord `json:"aligned_words"`

	// MatchRate is the share of script words anchored to recognised words.
	MatchRate float64 `json:"match_rate"`
}

// Option is a functional option for configuring a [Reader].
type Option func(*Reader)

// WithVoice sets the synthesis voice.
func WithVoice(v tts.Voice) Option {
	return func(r *Reader) { r.voice = v }
}

// WithLanguage sets the recognition language tag. Empty lets the backend
// auto-detect.
func WithLanguage(lang string) Option {
	return func(r *Reader) { r.language = lang }
}

// WithMatcher replaces the default aligner configuration.
func WithMatcher(m *align.Matcher) Option {
	return func(r *Reader) { r.matcher = m }
}

// WithMetrics sets the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Reader) { r.metrics = m }
}

// WithMatchRateWarn sets the match rate below which a run is logged as a
// data-quality warning. Default: 0.5.
func WithMatchRateWarn(rate float64) Option {
	return func(r *Reader) { r.matchRateWarn = rate }
}

// Reader produces timed readings of known scripts. It is safe for
// concurrent use.
type Reader struct {
	tts tts.Provider
	asr asr.Provider

	voice         tts.Voice
	language      string
	matcher       *align.Matcher
	metrics       *observe.Metrics
	matchRateWarn float64
}

// New returns a [Reader] backed by the given synthesis and recognition
// providers.
func New(ttsProvider tts.Provider, asrProvider asr.Provider, opts ...Option) *Reader {
	r := &Reader{
		tts:           ttsProvider,
		asr:           asrProvider,
		matcher:       align.New(),
		matchRateWarn: defaultMatchRateWarn,
	}
	for _, o := range opts {
		o(r)
	}
	if r.metrics == nil {
		r.metrics = observe.DefaultMetrics()
	}
	return r
}

// Read synthesizes script, recovers word timing from a recognition pass
// over the synthesized clip and returns the script with every word timed.
func (r *Reader) Read(ctx context.Context, script string) (*Result, error) {
	ctx, span := observe.Tracer().Start(ctx, "reading.Read")
	defer span.End()
	start := time.Now()

	audio, err := r.tts.Synthesize(ctx, script, r.voice)
	if err != nil {
		r.metrics.RecordProviderRequest(ctx, "tts", "synthesize", "error")
		return nil, fmt.Errorf("reading: synthesize: %w", err)
	}
	if audio == nil || len(audio.PCM) == 0 {
		return nil, fmt.Errorf("reading: synthesize: empty audio")
	}
	r.metrics.RecordProviderRequest(ctx, "tts", "synthesize", "ok")

	tokens := transcript.Tokenize(script)
	total := clipDuration(audio)

	var recognised []transcript.Word
	trans, err := r.asr.Transcribe(ctx, audio.PCM, asr.AudioConfig{
		SampleRate: audio.SampleRate,
		Channels:   audio.Channels,
		Language:   r.language,
	})
	switch {
	case err != nil:
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.metrics.RecordProviderRequest(ctx, "asr", "transcribe", "error")
		slog.Warn("recognition failed, spreading timestamps evenly", "error", err)
	case trans != nil:
		r.metrics.RecordProviderRequest(ctx, "asr", "transcribe", "ok")
		recognised = trans.Words
		if trans.Duration > total {
			total = trans.Duration
		}
	}

	res := r.matcher.ReconcileScript(tokens, recognised)
	res.Words = align.Interpolate(res.Words, total)

	rate := res.MatchRate()
	r.metrics.RecordMatchRate(ctx, "reading", rate)
	r.metrics.ReadingDuration.Record(ctx, time.Since(start).Seconds())
	if rate < r.matchRateWarn {
		slog.Warn("low reading match rate",
			"rate", fmt.Sprintf("%.2f", rate),
			"words", len(res.Words),
		)
	}

	out := transcript.Transcript{
		Text:     script,
		Words:    make([]transcript.Word, len(res.Words)),
		Duration: total,
	}
	for i, w := range res.Words {
		out.Words[i] = transcript.Word{Text: w.Text, Start: w.Start, End: w.End}
	}
	if len(res.Words) > 0 {
		out.Segments = []transcript.Segment{{Start: 0, End: total, Text: script}}
	}

	return &Result{Audio: audio, Transcript: out, Words: res.Words, MatchRate: rate}, nil
}

// clipDuration derives the clip length from the PCM payload size.
func clipDuration(a *tts.Audio) time.Duration {
	if a.SampleRate <= 0 || a.Channels <= 0 {
		return 0
	}
	samples := len(a.PCM) / (bytesPerSample * a.Channels)
	return time.Duration(samples) * time.Second / time.Duration(a.SampleRate)
}
