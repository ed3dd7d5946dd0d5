package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.OpenAIKey != "" {
		t.Fatalf("expected empty key, got %q", cfg.OpenAIKey)
	}
	if cfg.DataDir == "" {
		t.Fatal("data dir should default")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := "openai_api_key = \"sk-file\"\nopenai_model = \"gpt-4o\"\ndata_dir = \"/tmp/chronos-test\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenAIKey != "sk-file" || cfg.OpenAIModel != "gpt-4o" || cfg.DataDir != "/tmp/chronos-test" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("openai_api_key = \"sk-file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OpenAIKey != "sk-env" {
		t.Fatalf("env should win, got %q", cfg.OpenAIKey)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("openai_api_key = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should error")
	}
}

func TestDefaultPaths(t *testing.T) {
	if DefaultConfigPath() == "" || DefaultDataDir() == "" {
		t.Fatal("default paths should not be empty")
	}
	if DBDir("/data") != filepath.Join("/data", "db") {
		t.Fatalf("unexpected db dir: %s", DBDir("/data"))
	}
	if LogPath("/data") != filepath.Join("/data", "chronos.log") {
		t.Fatalf("unexpected log path: %s", LogPath("/data"))
	}
}
