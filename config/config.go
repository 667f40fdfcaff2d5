package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full configuration for one analysis run. Defaults are usable
// as-is; a YAML file and UNPOSTED_* environment variables can override any
// field.
type Config struct {
	Audio AudioConfig `mapstructure:"audio"`
	Text  TextConfig  `mapstructure:"text"`
	Align AlignConfig `mapstructure:"align"`
}

// AudioConfig controls decoding and acoustic analysis.
type AudioConfig struct {
	// SampleRate is the target rate every segment is resampled to before
	// feature extraction.
	SampleRate int `mapstructure:"sample_rate"`

	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	FFprobePath string        `mapstructure:"ffprobe_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// TextConfig controls normalization ahead of sentiment scoring.
type TextConfig struct {
	// FillerPhrases are removed from transcripts with whole-word boundary
	// matching. Multi-word phrases are allowed.
	FillerPhrases []string `mapstructure:"filler_phrases"`
}

// AlignConfig controls forced alignment and sentence aggregation.
type AlignConfig struct {
	// OverlapThreshold is the fraction of a sentence's words that must appear
	// in a recognized segment before the segment's timing is accepted.
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`

	// PlaceholderSeconds is the span length assigned to a sentence no segment
	// matched.
	PlaceholderSeconds float64 `mapstructure:"placeholder_seconds"`

	Whisper WhisperConfig `mapstructure:"whisper"`
	SyncMap SyncMapConfig `mapstructure:"syncmap"`
}

// WhisperConfig configures the primary word-level transcribe+align engine.
// The command is expected to print segment/word JSON on stdout.
type WhisperConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Binary  string        `mapstructure:"binary"`
	Args    []string      `mapstructure:"args"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SyncMapConfig configures the secondary file-based forced aligner. The
// command receives a plain text file (one sentence per line) and an output
// path for a sync-map JSON document.
type SyncMapConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Binary  string        `mapstructure:"binary"`
	Args    []string      `mapstructure:"args"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:  22050,
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
			Timeout:     120 * time.Second,
		},
		Text: TextConfig{
			FillerPhrases: []string{
				"um", "uh", "er", "ah", "like", "you know", "i mean",
				"sort of", "kind of", "basically", "actually", "literally",
			},
		},
		Align: AlignConfig{
			OverlapThreshold:   0.30,
			PlaceholderSeconds: 2.0,
			Whisper: WhisperConfig{
				Enabled: true,
				Binary:  "whisperx",
				Timeout: 10 * time.Minute,
			},
			SyncMap: SyncMapConfig{
				Enabled: false,
				Binary:  "aeneas_execute_task",
				Timeout: 10 * time.Minute,
			},
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and UNPOSTED_*
// environment variables, in increasing order of precedence. path may be empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("UNPOSTED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Align.OverlapThreshold <= 0 || c.Align.OverlapThreshold > 1 {
		return fmt.Errorf("align.overlap_threshold must be in (0, 1], got %g", c.Align.OverlapThreshold)
	}
	if c.Align.PlaceholderSeconds <= 0 {
		return fmt.Errorf("align.placeholder_seconds must be positive, got %g", c.Align.PlaceholderSeconds)
	}
	if !c.Align.Whisper.Enabled && !c.Align.SyncMap.Enabled {
		return fmt.Errorf("no alignment engine enabled: enable align.whisper or align.syncmap")
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.ffmpeg_path", d.Audio.FFmpegPath)
	v.SetDefault("audio.ffprobe_path", d.Audio.FFprobePath)
	v.SetDefault("audio.timeout", d.Audio.Timeout)
	v.SetDefault("text.filler_phrases", d.Text.FillerPhrases)
	v.SetDefault("align.overlap_threshold", d.Align.OverlapThreshold)
	v.SetDefault("align.placeholder_seconds", d.Align.PlaceholderSeconds)
	v.SetDefault("align.whisper.enabled", d.Align.Whisper.Enabled)
	v.SetDefault("align.whisper.binary", d.Align.Whisper.Binary)
	v.SetDefault("align.whisper.args", d.Align.Whisper.Args)
	v.SetDefault("align.whisper.timeout", d.Align.Whisper.Timeout)
	v.SetDefault("align.syncmap.enabled", d.Align.SyncMap.Enabled)
	v.SetDefault("align.syncmap.binary", d.Align.SyncMap.Binary)
	v.SetDefault("align.syncmap.args", d.Align.SyncMap.Args)
	v.SetDefault("align.syncmap.timeout", d.Align.SyncMap.Timeout)
}
