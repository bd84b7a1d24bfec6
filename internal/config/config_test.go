package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LABELER_AUDIO_DIR", "LABELER_ARCHIVE", "LABELER_LABELS_DIR", "LABELER_PORT",
		"LABELER_EXTENSIONS", "LABELER_SESSION_TTL", "LABELER_MAX_UPLOAD_BYTES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.AudioDir != "data" || cfg.LabelsDir != "labels" || cfg.Port != "8888" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadRequiredMissing(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true); err == nil {
		t.Error("Expected error for missing required config")
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "labeler.yaml")
	content := `audio_dir: /srv/audio
archive: /srv/audio.zip
port: "9000"
extensions: [".wav", ".flac"]
session_ttl: 30m
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LABELER_PORT", "7000")
	t.Setenv("LABELER_MAX_UPLOAD_BYTES", "2048")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"audio dir from file", cfg.AudioDir, "/srv/audio"},
		{"archive from file", cfg.Archive, "/srv/audio.zip"},
		{"labels dir default", cfg.LabelsDir, "labels"},
		{"port from env", cfg.Port, "7000"},
		{"session ttl from file", cfg.SessionTTL, 30 * time.Minute},
		{"upload limit from env", cfg.MaxUploadBytes, int64(2048)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if diff := cmp.Diff([]string{".wav", ".flac"}, cfg.Extensions); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExtensionsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABELER_EXTENSIONS", ".WAV, .ogg ,")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{".wav", ".ogg"}, cfg.Extensions); diff != "" {
		t.Errorf("Extensions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "labeler.yaml")
	if err := os.WriteFile(path, []byte("audio_dir: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, false); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LABELER_SESSION_TTL", "twelve hours"},
		{"LABELER_SESSION_TTL", "12"},
		{"LABELER_MAX_UPLOAD_BYTES", "10MB"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty audio dir", func(c *Config) { c.AudioDir = "" }},
		{"empty labels dir", func(c *Config) { c.LabelsDir = "" }},
		{"no extensions", func(c *Config) { c.Extensions = nil }},
		{"extension without dot", func(c *Config) { c.Extensions = []string{"wav"} }},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected defaults to be valid, got %v", err)
	}
}
