package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chat.ChunkSize != 2 || cfg.Chat.TickInterval != 20*time.Millisecond {
		t.Fatalf("unexpected chat defaults: %+v", cfg.Chat)
	}
	if cfg.LLM.Model != "llama-3.1-8b-instant" || cfg.LLM.MaxTokens != 1024 {
		t.Fatalf("unexpected llm defaults: %+v", cfg.LLM)
	}
	if cfg.TryOn.Driver != "scripted" {
		t.Fatalf("unexpected tryon driver %q", cfg.TryOn.Driver)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "chat:\n  chunk_size: 5\n  tick_interval: 5ms\nstore:\n  driver: memory\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPULUXE_BACKEND_BASE_URL", "http://backend:9000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chat.ChunkSize != 5 || cfg.Chat.TickInterval != 5*time.Millisecond || cfg.Store.Driver != "memory" {
		t.Fatalf("file values not applied: %+v %+v", cfg.Chat, cfg.Store)
	}
	if cfg.Backend.BaseURL != "http://backend:9000" {
		t.Fatalf("env override not applied: %q", cfg.Backend.BaseURL)
	}
}

func TestLoadRejectsNonPositiveChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chat:\n  chunk_size: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for chunk_size 0")
	}
}
