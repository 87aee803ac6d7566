// Package correct implements the transcript correction pipeline: a
// language model fixes spelling, punctuation and casing in recognised
// text, and the aligner transfers the original word timing onto the
// corrected form.
//
// The model is told (via a conservative system prompt) to never add,
// remove, reorder or paraphrase words. Because models do not always obey,
// every change the model made is cross-checked against the original with
// a similarity gate before alignment; implausible rewrites are reverted.
//
// Correction runs in background jobs, never on a playback path. Every
// failure mode degrades to the uncorrected input: an unreachable
// provider, an unparseable response or a rejected rewrite each leave the
// affected batch exactly as recognised.
package correct

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexibly/lexibly/internal/align"
	"github.com/lexibly/lexibly/internal/observe"
	"github.com/lexibly/lexibly/internal/resilience"
	"github.com/lexibly/lexibly/pkg/provider/llm"
	"github.com/lexibly/lexibly/pkg/transcript"
)

const (
	defaultTemperature      = 0.1
	defaultParallelism      = 1
	defaultMatchRateWarn    = 0.5
	defaultVerifySimilarity = 0.8
)

// systemPrompt instructs the model to behave as a pure proofreading pass.
// The aligner depends on the output tracking the input word-for-word, so
// the prompt forbids every transformation except orthography.
const systemPrompt = `You are a proofreading assistant for automatic speech recognition output.

Your task: fix spelling, punctuation and capitalisation in the provided transcript.

Rules:
- Do NOT add, remove or reorder words.
- Do NOT paraphrase or translate. Keep the speaker's wording exactly.
- Fix only obvious spelling mistakes, missing punctuation and wrong casing.
- Be conservative: when unsure, leave the word unchanged.
- The text may be in any language. Answer with the same language as the input.

Respond with ONLY a JSON object in this exact format (no markdown, no prose):
{"corrected_text": "<full corrected transcript>"}`

// llmResponse is the expected JSON structure returned by the model.
type llmResponse struct {
	CorrectedText string `json:"corrected_text"`
}

// Result is the output of one correction run.
type Result struct {
	// Transcript carries the corrected text, the re-texted timed words and
	// the rebuilt segments.
	Transcript transcript.Transcript `json:"transcript"`

	// Words is the per-word alignment detail behind Transcript.Words.
	Words []align.AlignedWord `json:"aligned_words"`

	// MatchRate is the share of words the aligner anchored across the
	// batches that reached alignment. Failed batches pass through unchanged
	// and do not count.
	MatchRate float64 `json:"match_rate"`
}

// Option is a functional option for configuring a [Corrector].
type Option func(*Corrector)

// WithTemperature sets the sampling temperature. Default: 0.1.
func WithTemperature(temp float64) Option {
	return func(c *Corrector) { c.temperature = temp }
}

// WithBatchSize sets the correction window size in words.
// Default: [align.DefaultBatchSize].
func WithBatchSize(n int) Option {
	return func(c *Corrector) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithParallelism caps how many batches are corrected concurrently.
// Default: 1.
func WithParallelism(n int) Option {
	return func(c *Corrector) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithMatcher replaces the default aligner configuration.
func WithMatcher(m *align.Matcher) Option {
	return func(c *Corrector) { c.matcher = m }
}

// WithMetrics sets the metrics sink. Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Corrector) { c.metrics = m }
}

// WithFallback appends a fallback provider, tried when everything
// registered before it fails or sits behind an open breaker.
func WithFallback(name string, p llm.Provider) Option {
	return func(c *Corrector) { c.chain.Add(name, p) }
}

// WithMatchRateWarn sets the match rate below which a run is logged as a
// data-quality warning. Default: 0.5.
func WithMatchRateWarn(rate float64) Option {
	return func(c *Corrector) { c.matchRateWarn = rate }
}

// WithVerifySimilarity sets the minimum similarity a changed span must
// keep to its original before the change is accepted. Default: 0.8.
func WithVerifySimilarity(s float64) Option {
	return func(c *Corrector) { c.verifySimilarity = s }
}

// Corrector corrects recognised transcripts batch by batch. It is safe
// for concurrent use.
type Corrector struct {
	chain   *resilience.Chain[llm.Provider]
	matcher *align.Matcher
	metrics *observe.Metrics

	temperature      float64
	batchSize        int
	parallelism      int
	matchRateWarn    float64
	verifySimilarity float64
}

// New returns a [Corrector] backed by the given provider.
func New(provider llm.Provider, opts ...Option) *Corrector {
	c := &Corrector{
		chain:            resilience.NewChain("llm-primary", provider, resilience.BreakerConfig{}),
		matcher:          align.New(),
		temperature:      defaultTemperature,
		batchSize:        align.DefaultBatchSize,
		parallelism:      defaultParallelism,
		matchRateWarn:    defaultMatchRateWarn,
		verifySimilarity: defaultVerifySimilarity,
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = observe.DefaultMetrics()
	}
	return c
}

// batchResult is the outcome of correcting one window of words.
type batchResult struct {
	words   []align.AlignedWord
	matched int
	aligned bool
}

// Correct runs the correction pipeline over t and returns a transcript
// with the same word count and timing but corrected text. Batches are
// processed independently so one model hiccup never poisons the rest of
// the transcript.
func (c *Corrector) Correct(ctx context.Context, t *transcript.Transcript) (*Result, error) {
	ctx, span := observe.Tracer().Start(ctx, "correct.Correct")
	defer span.End()
	start := time.Now()

	batches := align.Batch(t.Words, c.batchSize)
	results := make([]batchResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i, batch := range batches {
		g.Go(func() error {
			res, err := c.correctBatch(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("correct: %w", err)
	}

	var (
		words        []align.AlignedWord
		matched      int
		alignedTotal int
	)
	for _, r := range results {
		words = append(words, r.words...)
		if r.aligned {
			matched += r.matched
			alignedTotal += len(r.words)
		}
	}

	rate := 1.0
	if alignedTotal > 0 {
		rate = float64(matched) / float64(alignedTotal)
	}
	c.metrics.RecordMatchRate(ctx, "correct", rate)
	c.metrics.CorrectionDuration.Record(ctx, time.Since(start).Seconds())
	if rate < c.matchRateWarn {
		slog.Warn("low correction match rate",
			"rate", fmt.Sprintf("%.2f", rate),
			"words", len(words),
		)
	}

	out := transcript.Transcript{
		Words:    make([]transcript.Word, len(words)),
		Duration: t.Duration,
	}
	texts := make([]string, len(words))
	for i, w := range words {
		out.Words[i] = transcript.Word{Text: w.Text, Start: w.Start, End: w.End}
		texts[i] = w.Text
	}
	out.Text = strings.Join(texts, " ")
	out.Segments = align.RebuildSegments(t.Segments, words)

	return &Result{Transcript: out, Words: words, MatchRate: rate}, nil
}

// correctBatch corrects one window of words. All provider and parsing
// failures degrade to the uncorrected window; only context cancellation
// is surfaced as an error.
func (c *Corrector) correctBatch(ctx context.Context, batch []transcript.Word) (batchResult, error) {
	original := joinWords(batch)
	req := llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Temperature:  c.temperature,
		Messages: []llm.Message{
			{Role: "user", Content: original},
		},
	}

	resp, err := resilience.Try(c.chain, func(p llm.Provider) (*llm.CompletionResponse, error) {
		return p.Complete(ctx, req)
	})
	if err != nil {
		if ctx.Err() != nil {
			return batchResult{}, ctx.Err()
		}
		slog.Warn("correction batch failed, keeping original", "words", len(batch), "error", err)
		c.metrics.RecordBatch(ctx, "fallback")
		return batchResult{words: passthrough(batch)}, nil
	}
	if resp == nil {
		c.metrics.RecordBatch(ctx, "fallback")
		return batchResult{words: passthrough(batch)}, nil
	}

	corrected, parseErr := parseResponse(resp.Content)
	if parseErr != nil {
		slog.Warn("unparseable correction response, keeping original", "error", parseErr)
		c.metrics.RecordBatch(ctx, "fallback")
		return batchResult{words: passthrough(batch)}, nil
	}

	corrected = c.verify(original, corrected)

	res := c.matcher.ReconcileCorrected(batch, transcript.Tokenize(corrected))
	c.metrics.RecordBatch(ctx, "corrected")
	return batchResult{words: res.Words, matched: res.Matched, aligned: true}, nil
}

// passthrough maps a window of recognised words to aligned words
// unchanged. The words keep their timing but count as unanchored.
func passthrough(batch []transcript.Word) []align.AlignedWord {
	out := make([]align.AlignedWord, len(batch))
	for i, w := range batch {
		out[i] = align.AlignedWord{Text: w.Text, Start: w.Start, End: w.End, Timed: true}
	}
	return out
}

func joinWords(batch []transcript.Word) string {
	texts := make([]string, len(batch))
	for i, w := range batch {
		texts[i] = w.Text
	}
	return strings.Join(texts, " ")
}

// parseResponse unmarshals the model output, stripping markdown code
// fences first.
func parseResponse(content string) (string, error) {
	cleaned := stripMarkdown(content)

	var r llmResponse
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if r.CorrectedText == "" {
		return "", fmt.Errorf("parse response: empty corrected_text")
	}
	return r.CorrectedText, nil
}

// stripMarkdown removes optional markdown code fences (```json ... ```)
// that some models wrap around JSON output.
func stripMarkdown(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"```json", "```"} {
		if after, ok := strings.CutPrefix(s, prefix); ok {
			s = after
			break
		}
	}
	if before, ok := strings.CutSuffix(s, "```"); ok {
		s = before
	}
	return strings.TrimSpace(s)
}
