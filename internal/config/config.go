// Package config loads the engine's on-disk configuration: ring sizes,
// target latency, sample rate, master volume, and logging options (spec
// §6's configuration schema), the way doismellburning-samoyed unmarshals
// its tocalls.yaml file with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine's full on-disk configuration. Every field has a
// sensible default applied by Default, and Load keeps that default for any
// key the file omits, so a minimal or empty YAML document is valid.
type Config struct {
	CpalBufferSize        int     `yaml:"cpal_buffer_size"`
	RenderChunkSize       int     `yaml:"render_chunk_size"`
	AudioRingBufferSize   int     `yaml:"audio_ring_buffer_size"`
	MessageRingBufferSize int     `yaml:"message_ring_buffer_size"`
	TargetLatencyMs       float64 `yaml:"target_latency_ms"`
	SampleRate            int     `yaml:"sample_rate"`
	MasterVolume          float32 `yaml:"master_volume"`

	LogLevel    string `yaml:"log_level"`
	LogToFile   bool   `yaml:"log_to_file"`
	LogToStdout bool   `yaml:"log_to_stdout"`
}

// Default returns the configuration spec §6 describes when no file is
// present: a 64-frame CPAL buffer, a 256-frame render chunk, an 88_200-frame
// (2 second at 44.1kHz) audio ring, a 1024-message message ring, 50ms target
// latency, 44.1kHz sample rate, and unity master volume logged at info level
// to stdout.
func Default() *Config {
	return &Config{
		CpalBufferSize:        64,
		RenderChunkSize:       256,
		AudioRingBufferSize:   88_200,
		MessageRingBufferSize: 1024,
		TargetLatencyMs:       50.0,
		SampleRate:            44_100,
		MasterVolume:          1.0,
		LogLevel:              "info",
		LogToFile:             false,
		LogToStdout:           true,
	}
}

// Load reads a YAML configuration file at path, keeping Default's value for
// any key the file omits (a key set explicitly to zero or false overrides
// the default), then validates the result.
// A missing path is not an error: Load returns the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	raw.applyTo(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// rawConfig mirrors Config but with pointer fields, so an omitted YAML key
// unmarshals to nil and is distinguishable from an explicit zero value
// (needed for the two booleans, where "false" and "absent" must not be
// confused).
type rawConfig struct {
	CpalBufferSize        *int     `yaml:"cpal_buffer_size"`
	RenderChunkSize       *int     `yaml:"render_chunk_size"`
	AudioRingBufferSize   *int     `yaml:"audio_ring_buffer_size"`
	MessageRingBufferSize *int     `yaml:"message_ring_buffer_size"`
	TargetLatencyMs       *float64 `yaml:"target_latency_ms"`
	SampleRate            *int     `yaml:"sample_rate"`
	MasterVolume          *float32 `yaml:"master_volume"`
	LogLevel              *string  `yaml:"log_level"`
	LogToFile             *bool    `yaml:"log_to_file"`
	LogToStdout           *bool    `yaml:"log_to_stdout"`
}

// applyTo overwrites cfg's fields with every key raw's YAML document set,
// leaving Default's values in place for anything it omitted.
func (raw *rawConfig) applyTo(cfg *Config) {
	if raw.CpalBufferSize != nil {
		cfg.CpalBufferSize = *raw.CpalBufferSize
	}
	if raw.RenderChunkSize != nil {
		cfg.RenderChunkSize = *raw.RenderChunkSize
	}
	if raw.AudioRingBufferSize != nil {
		cfg.AudioRingBufferSize = *raw.AudioRingBufferSize
	}
	if raw.MessageRingBufferSize != nil {
		cfg.MessageRingBufferSize = *raw.MessageRingBufferSize
	}
	if raw.TargetLatencyMs != nil {
		cfg.TargetLatencyMs = *raw.TargetLatencyMs
	}
	if raw.SampleRate != nil {
		cfg.SampleRate = *raw.SampleRate
	}
	if raw.MasterVolume != nil {
		cfg.MasterVolume = *raw.MasterVolume
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogToFile != nil {
		cfg.LogToFile = *raw.LogToFile
	}
	if raw.LogToStdout != nil {
		cfg.LogToStdout = *raw.LogToStdout
	}
}

// Validate enforces spec §6's bounds: cpal_buffer_size in [1, 2048],
// render_chunk_size >= cpal_buffer_size, audio_ring_buffer_size >=
// 2*render_chunk_size, and master_volume in [0, 1].
func (c *Config) Validate() error {
	if c.CpalBufferSize < 1 || c.CpalBufferSize > 2048 {
		return fmt.Errorf("cpal_buffer_size %d out of range [1, 2048]", c.CpalBufferSize)
	}
	if c.RenderChunkSize < c.CpalBufferSize {
		return fmt.Errorf("render_chunk_size %d must be >= cpal_buffer_size %d", c.RenderChunkSize, c.CpalBufferSize)
	}
	if c.AudioRingBufferSize < 2*c.RenderChunkSize {
		return fmt.Errorf("audio_ring_buffer_size %d must be >= 2*render_chunk_size (%d)", c.AudioRingBufferSize, 2*c.RenderChunkSize)
	}
	if c.MessageRingBufferSize < 1 {
		return fmt.Errorf("message_ring_buffer_size %d must be positive", c.MessageRingBufferSize)
	}
	if c.SampleRate < 1 {
		return fmt.Errorf("sample_rate %d must be positive", c.SampleRate)
	}
	if c.MasterVolume < 0 || c.MasterVolume > 1 {
		return fmt.Errorf("master_volume %v out of range [0, 1]", c.MasterVolume)
	}
	return nil
}
