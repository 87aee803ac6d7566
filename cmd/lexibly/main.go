// Command lexibly runs the transcript correction and scripted reading
// pipelines as a batch tool.
//
// Correct mode reads a recognised transcript (JSON with per-word timing),
// fixes its orthography and writes the corrected transcript with the
// original timing preserved:
//
//	lexibly -config config.yaml -mode correct -in raw.json -out corrected.json
//
// Read mode reads a plain-text script, synthesizes it and writes the
// script with per-word timing recovered from a recognition pass over the
// synthesized clip:
//
//	lexibly -config config.yaml -mode read -in script.txt -out reading.json -audio reading.pcm
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"

	"github.com/lexibly/lexibly/internal/align"
	"github.com/lexibly/lexibly/internal/config"
	"github.com/lexibly/lexibly/internal/correct"
	"github.com/lexibly/lexibly/internal/observe"
	"github.com/lexibly/lexibly/internal/reading"
	"github.com/lexibly/lexibly/pkg/provider/asr"
	"github.com/lexibly/lexibly/pkg/provider/asr/whisper"
	"github.com/lexibly/lexibly/pkg/provider/llm"
	"github.com/lexibly/lexibly/pkg/provider/llm/anyllm"
	oaillm "github.com/lexibly/lexibly/pkg/provider/llm/openai"
	"github.com/lexibly/lexibly/pkg/provider/tts"
	oaitts "github.com/lexibly/lexibly/pkg/provider/tts/openai"
	"github.com/lexibly/lexibly/pkg/transcript"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	mode := flag.String("mode", "", `pipeline to run: "correct" or "read"`)
	inPath := flag.String("in", "-", "input file (- for stdin)")
	outPath := flag.String("out", "-", "output file (- for stdout)")
	audioPath := flag.String("audio", "", "write the synthesized PCM clip here (read mode only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "lexibly: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "lexibly: %v\n", err)
		}
		return 1
	}

	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceVersion: version})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	input, err := readInput(*inPath)
	if err != nil {
		slog.Error("failed to read input", "err", err)
		return 1
	}

	var output any
	switch *mode {
	case "correct":
		output, err = runCorrect(ctx, cfg, input)
	case "read":
		output, err = runRead(ctx, cfg, input, *audioPath)
	default:
		fmt.Fprintf(os.Stderr, "lexibly: -mode must be %q or %q\n", "correct", "read")
		return 2
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("interrupted")
			return 1
		}
		slog.Error("pipeline failed", "mode", *mode, "err", err)
		return 1
	}

	if err := writeOutput(*outPath, output); err != nil {
		slog.Error("failed to write output", "err", err)
		return 1
	}
	return 0
}

// runCorrect decodes a recognised transcript and runs the correction
// pipeline over it.
func runCorrect(ctx context.Context, cfg *config.Config, input []byte) (*correct.Result, error) {
	var t transcript.Transcript
	if err := json.Unmarshal(input, &t); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	primary, err := buildLLM(cfg.Providers.LLM)
	if err != nil {
		return nil, err
	}

	opts := []correct.Option{
		correct.WithMatcher(newMatcher(cfg.Align)),
	}
	if cfg.Align.BatchSize > 0 {
		opts = append(opts, correct.WithBatchSize(cfg.Align.BatchSize))
	}
	if cfg.Align.Parallelism > 0 {
		opts = append(opts, correct.WithParallelism(cfg.Align.Parallelism))
	}
	if cfg.Align.MatchRateWarn > 0 {
		opts = append(opts, correct.WithMatchRateWarn(cfg.Align.MatchRateWarn))
	}
	if cfg.Align.VerifySimilarity > 0 {
		opts = append(opts, correct.WithVerifySimilarity(cfg.Align.VerifySimilarity))
	}
	for i, fb := range cfg.Providers.LLM.Fallbacks {
		p, err := buildLLM(fb)
		if err != nil {
			return nil, err
		}
		opts = append(opts, correct.WithFallback(fmt.Sprintf("llm-fallback-%d", i), p))
		slog.Info("fallback provider registered", "kind", "llm", "name", fb.Name, "model", fb.Model)
	}

	slog.Info("correcting transcript",
		"words", len(t.Words),
		"provider", cfg.Providers.LLM.Name,
		"model", cfg.Providers.LLM.Model,
	)
	return correct.New(primary, opts...).Correct(ctx, &t)
}

// runRead runs the scripted reading pipeline over a plain-text script.
func runRead(ctx context.Context, cfg *config.Config, input []byte, audioPath string) (*reading.Result, error) {
	script := string(input)

	ttsProvider, err := buildTTS(cfg.Providers.TTS)
	if err != nil {
		return nil, err
	}
	asrProvider, closeASR, err := buildASR(cfg.Providers.ASR)
	if err != nil {
		return nil, err
	}
	defer closeASR()

	r := reading.New(ttsProvider, asrProvider,
		reading.WithVoice(tts.Voice{Name: cfg.Providers.TTS.Voice, Speed: cfg.Providers.TTS.Speed}),
		reading.WithLanguage(cfg.Providers.ASR.Language),
		reading.WithMatcher(newMatcher(cfg.Align)),
	)

	slog.Info("reading script",
		"bytes", len(input),
		"tts", cfg.Providers.TTS.Name,
		"asr", cfg.Providers.ASR.Name,
	)
	res, err := r.Read(ctx, script)
	if err != nil {
		return nil, err
	}

	if audioPath != "" {
		if err := os.WriteFile(audioPath, res.Audio.PCM, 0o644); err != nil {
			return nil, fmt.Errorf("write audio: %w", err)
		}
		slog.Info("audio written", "path", audioPath,
			"sample_rate", res.Audio.SampleRate, "channels", res.Audio.Channels)
	}
	return res, nil
}

// newMatcher translates the align config section into matcher options.
// Zero values keep the engine defaults.
func newMatcher(cfg config.AlignConfig) *align.Matcher {
	var opts []align.Option
	if cfg.Lookahead > 0 {
		opts = append(opts, align.WithLookahead(cfg.Lookahead))
	}
	if cfg.MinFuzzyLen > 0 {
		opts = append(opts, align.WithMinFuzzyLen(cfg.MinFuzzyLen))
	}
	if cfg.ToleranceBase > 0 || cfg.ToleranceRatio > 0 {
		opts = append(opts, align.WithTolerance(cfg.ToleranceBase, cfg.ToleranceRatio))
	}
	return align.New(opts...)
}

func buildLLM(cfg config.LLMConfig) (llm.Provider, error) {
	switch cfg.Name {
	case "openai":
		var opts []oaillm.Option
		if cfg.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(cfg.BaseURL))
		}
		return oaillm.New(cfg.APIKey, cfg.Model, opts...)
	case "anyllm":
		var opts []anyllmlib.Option
		if cfg.APIKey != "" {
			opts = append(opts, anyllmlib.WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(cfg.BaseURL))
		}
		return anyllm.New(cfg.Backend, cfg.Model, opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Name)
	}
}

func buildASR(cfg config.ASRConfig) (asr.Provider, func(), error) {
	switch cfg.Name {
	case "whisper":
		var opts []whisper.Option
		if cfg.Language != "" {
			opts = append(opts, whisper.WithLanguage(cfg.Language))
		}
		p, err := whisper.New(cfg.ModelPath, opts...)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {
			if err := p.Close(); err != nil {
				slog.Warn("whisper close error", "err", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown asr provider %q", cfg.Name)
	}
}

func buildTTS(cfg config.TTSConfig) (tts.Provider, error) {
	switch cfg.Name {
	case "openai":
		var opts []oaitts.Option
		if cfg.BaseURL != "" {
			opts = append(opts, oaitts.WithBaseURL(cfg.BaseURL))
		}
		return oaitts.New(cfg.APIKey, cfg.Model, opts...)
	default:
		return nil, fmt.Errorf("unknown tts provider %q", cfg.Name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if path == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
