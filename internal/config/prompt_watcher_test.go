package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewPromptWatcherDisabled(t *testing.T) {
	t.Run("hot reload disabled", func(t *testing.T) {
		cfg := &Config{}
		cfg.AI.CustomPrompts.HotReload = false
		cfg.AI.CustomPrompts.ReviewEnglishFile = "review-en.txt"

		if pw := NewPromptWatcher(cfg, newTestLogger()); pw != nil {
			t.Error("expected nil watcher when hot reload is disabled")
		}
	})

	t.Run("no prompt files configured", func(t *testing.T) {
		cfg := &Config{}
		cfg.AI.CustomPrompts.HotReload = true

		if pw := NewPromptWatcher(cfg, newTestLogger()); pw != nil {
			t.Error("expected nil watcher when no prompt files are configured")
		}
	})
}

func TestPromptWatcherStartStop(t *testing.T) {
	promptFile := filepath.Join(t.TempDir(), "review-en.txt")
	if err := os.WriteFile(promptFile, []byte("initial prompt content"), 0600); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	cfg := &Config{}
	cfg.AI.CustomPrompts.HotReload = true
	cfg.AI.CustomPrompts.ReviewEnglishFile = promptFile

	pw := NewPromptWatcher(cfg, newTestLogger())
	if pw == nil {
		t.Fatal("expected non-nil watcher")
	}

	if err := pw.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := pw.Start(); err == nil {
		t.Error("expected error from second Start")
	}

	if err := pw.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := pw.Stop(); err != nil {
		t.Errorf("second Stop should be a no-op, got: %v", err)
	}
}

func TestPromptWatcherReloadsChangedFile(t *testing.T) {
	promptFile := filepath.Join(t.TempDir(), "review-en.txt")
	if err := os.WriteFile(promptFile, []byte("original prompt content"), 0600); err != nil {
		t.Fatalf("write prompt file: %v", err)
	}

	cfg := &Config{}
	cfg.AI.CustomPrompts.HotReload = true
	cfg.AI.CustomPrompts.ReviewEnglishFile = promptFile

	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	if got := GetLoadedPrompts().ReviewEnglish; got != "original prompt content" {
		t.Fatalf("expected original content loaded, got %q", got)
	}

	pw := NewPromptWatcher(cfg, newTestLogger())
	if pw == nil {
		t.Fatal("expected non-nil watcher")
	}
	pw.debounceDelay = 10 * time.Millisecond

	if err := pw.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() {
		if err := pw.Stop(); err != nil {
			t.Errorf("stop: %v", err)
		}
	}()

	if err := os.WriteFile(promptFile, []byte("updated prompt content"), 0600); err != nil {
		t.Fatalf("rewrite prompt file: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if GetLoadedPrompts().ReviewEnglish == "updated prompt content" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("prompt content was not reloaded, still %q", GetLoadedPrompts().ReviewEnglish)
}
