package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is given
const DefaultPath = "labeler.yaml"

// Config holds runtime settings. Precedence: defaults, config file,
// environment, then command flags applied by the caller.
type Config struct {
	AudioDir       string        `yaml:"audio_dir"`
	Archive        string        `yaml:"archive"`
	LabelsDir      string        `yaml:"labels_dir"`
	Port           string        `yaml:"port"`
	Extensions     []string      `yaml:"extensions"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
}

func Default() Config {
	return Config{
		AudioDir:       "data",
		LabelsDir:      "labels",
		Port:           "8888",
		Extensions:     []string{".wav", ".mp3"},
		SessionTTL:     12 * time.Hour,
		MaxUploadBytes: 10 * 1024 * 1024,
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is only an error when required.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.AudioDir = envStr("LABELER_AUDIO_DIR", cfg.AudioDir)
	cfg.Archive = envStr("LABELER_ARCHIVE", cfg.Archive)
	cfg.LabelsDir = envStr("LABELER_LABELS_DIR", cfg.LabelsDir)
	cfg.Port = envStr("LABELER_PORT", cfg.Port)
	if v := os.Getenv("LABELER_EXTENSIONS"); v != "" {
		cfg.Extensions = splitList(v)
	}
	if cfg.SessionTTL, err = envDuration("LABELER_SESSION_TTL", cfg.SessionTTL); err != nil {
		return cfg, err
	}
	if cfg.MaxUploadBytes, err = envInt64("LABELER_MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate checks that the settings are usable
func (c Config) Validate() error {
	if c.AudioDir == "" {
		return errors.New("audio_dir is required")
	}
	if c.LabelsDir == "" {
		return errors.New("labels_dir is required")
	}
	if len(c.Extensions) == 0 {
		return errors.New("at least one audio extension is required")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.SessionTTL <= 0 {
		return errors.New("session_ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max_upload_bytes must be positive")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
