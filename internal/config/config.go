// Package config provides the configuration schema and loader for the
// lexibly service.
package config

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for lexibly.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	Align     AlignConfig     `yaml:"align"`
}

// ServerConfig holds process-wide settings.
type ServerConfig struct {
	// LogLevel selects the slog level. Default: info.
	LogLevel LogLevel `yaml:"log_level"`
}

// ProvidersConfig selects and configures the external service backends.
type ProvidersConfig struct {
	LLM LLMConfig `yaml:"llm"`
	ASR ASRConfig `yaml:"asr"`
	TTS TTSConfig `yaml:"tts"`
}

// LLMConfig configures a correction language-model backend.
type LLMConfig struct {
	// Name selects the adapter: "openai" or "anyllm".
	Name string `yaml:"name"`

	// Backend is the any-llm-go backend name when Name is "anyllm"
	// (e.g., "ollama", "anthropic").
	Backend string `yaml:"backend"`

	// Model is the model identifier (e.g., "gpt-4o-mini").
	Model string `yaml:"model"`

	// APIKey authenticates against the backend. May be empty for local
	// backends or when the adapter reads an environment variable.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the backend endpoint (local OpenAI-compatible
	// servers).
	BaseURL string `yaml:"base_url"`

	// Fallbacks are tried in order when the primary fails or its breaker is
	// open.
	Fallbacks []LLMConfig `yaml:"fallbacks"`
}

// ASRConfig configures the speech-recognition backend.
type ASRConfig struct {
	// Name selects the adapter; "whisper" is the built-in.
	Name string `yaml:"name"`

	// ModelPath is the whisper.cpp model file path.
	ModelPath string `yaml:"model_path"`

	// Language is the BCP-47 tag of the learning language (e.g., "ru").
	Language string `yaml:"language"`
}

// TTSConfig configures the speech-synthesis backend.
type TTSConfig struct {
	// Name selects the adapter; "openai" is the built-in.
	Name string `yaml:"name"`

	// Model is the speech model (e.g., "gpt-4o-mini-tts").
	Model string `yaml:"model"`

	// APIKey authenticates against the backend.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the backend endpoint.
	BaseURL string `yaml:"base_url"`

	// Voice is the synthesis voice name.
	Voice string `yaml:"voice"`

	// Speed scales the speaking rate; 0 means provider default. Slower
	// readings give learners more time to follow the highlight.
	Speed float64 `yaml:"speed"`
}

// AlignConfig holds the alignment engine tunables. Zero values mean the
// engine defaults.
type AlignConfig struct {
	// Lookahead is the aligner recovery window in tokens. Default: 3.
	Lookahead int `yaml:"lookahead"`

	// MinFuzzyLen is the minimum normalized token length for fuzzy matching.
	// Default: 4.
	MinFuzzyLen int `yaml:"min_fuzzy_len"`

	// ToleranceBase and ToleranceRatio define the fuzzy edit-distance bound
	// max(ToleranceBase, floor(len*ToleranceRatio)). Defaults: 2 and 0.3.
	ToleranceBase  int     `yaml:"tolerance_base"`
	ToleranceRatio float64 `yaml:"tolerance_ratio"`

	// BatchSize is the correction window size in words. Default: 500.
	BatchSize int `yaml:"batch_size"`

	// Parallelism caps concurrent correction batches. Default: 1
	// (sequential, keeps progress reporting monotonic).
	Parallelism int `yaml:"parallelism"`

	// MatchRateWarn is the match rate below which a pipeline run is logged
	// as a data-quality warning. Default: 0.5.
	MatchRateWarn float64 `yaml:"match_rate_warn"`

	// VerifySimilarity is the minimum Jaro-Winkler similarity a corrected
	// span must keep to its original before the correction is accepted.
	// Default: 0.8.
	VerifySimilarity float64 `yaml:"verify_similarity"`
}
