package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes and validates a configuration from r. Unknown
// fields are rejected so typos surface at startup instead of silently
// falling back to defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = LogInfo
	}
	if c.Providers.LLM.Name == "" {
		c.Providers.LLM.Name = "openai"
	}
	if c.Providers.ASR.Name == "" {
		c.Providers.ASR.Name = "whisper"
	}
	if c.Providers.TTS.Name == "" {
		c.Providers.TTS.Name = "openai"
	}
}

// Validate checks the configuration and returns all problems found, joined
// into a single error.
func (c *Config) Validate() error {
	var errs []error

	if !c.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level: unknown level %q", c.Server.LogLevel))
	}

	errs = append(errs, c.Providers.LLM.validate("providers.llm")...)
	for i := range c.Providers.LLM.Fallbacks {
		fb := &c.Providers.LLM.Fallbacks[i]
		errs = append(errs, fb.validate(fmt.Sprintf("providers.llm.fallbacks[%d]", i))...)
	}

	switch c.Providers.ASR.Name {
	case "whisper":
		if c.Providers.ASR.ModelPath == "" {
			errs = append(errs, errors.New("providers.asr.model_path: required for whisper"))
		}
	default:
		errs = append(errs, fmt.Errorf("providers.asr.name: unknown provider %q", c.Providers.ASR.Name))
	}

	switch c.Providers.TTS.Name {
	case "openai":
		if c.Providers.TTS.Voice == "" {
			errs = append(errs, errors.New("providers.tts.voice: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("providers.tts.name: unknown provider %q", c.Providers.TTS.Name))
	}
	if c.Providers.TTS.Speed < 0 {
		errs = append(errs, errors.New("providers.tts.speed: must not be negative"))
	}

	a := c.Align
	if a.Lookahead < 0 {
		errs = append(errs, errors.New("align.lookahead: must not be negative"))
	}
	if a.MinFuzzyLen < 0 {
		errs = append(errs, errors.New("align.min_fuzzy_len: must not be negative"))
	}
	if a.ToleranceBase < 0 {
		errs = append(errs, errors.New("align.tolerance_base: must not be negative"))
	}
	if a.ToleranceRatio < 0 || a.ToleranceRatio > 1 {
		errs = append(errs, errors.New("align.tolerance_ratio: must be within [0, 1]"))
	}
	if a.BatchSize < 0 {
		errs = append(errs, errors.New("align.batch_size: must not be negative"))
	}
	if a.Parallelism < 0 {
		errs = append(errs, errors.New("align.parallelism: must not be negative"))
	}
	if a.MatchRateWarn < 0 || a.MatchRateWarn > 1 {
		errs = append(errs, errors.New("align.match_rate_warn: must be within [0, 1]"))
	}
	if a.VerifySimilarity < 0 || a.VerifySimilarity > 1 {
		errs = append(errs, errors.New("align.verify_similarity: must be within [0, 1]"))
	}

	return errors.Join(errs...)
}

func (c *LLMConfig) validate(prefix string) []error {
	var errs []error
	switch c.Name {
	case "openai":
		if c.Model == "" {
			errs = append(errs, fmt.Errorf("%s.model: required", prefix))
		}
	case "anyllm":
		if c.Backend == "" {
			errs = append(errs, fmt.Errorf("%s.backend: required for anyllm", prefix))
		}
		if c.Model == "" {
			errs = append(errs, fmt.Errorf("%s.model: required", prefix))
		}
	default:
		errs = append(errs, fmt.Errorf("%s.name: unknown provider %q", prefix, c.Name))
	}
	return errs
}
