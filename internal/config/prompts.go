package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LoadedPrompts holds prompt template content loaded from external files.
// An empty field means no file override is active for that template.
type LoadedPrompts struct {
	System           string
	ReviewEnglish    string
	ReviewVietnamese string
}

var (
	loadedPromptsMu sync.RWMutex
	loadedPrompts   LoadedPrompts
)

// GetLoadedPrompts returns a copy of the currently loaded prompt overrides.
func GetLoadedPrompts() LoadedPrompts {
	loadedPromptsMu.RLock()
	defer loadedPromptsMu.RUnlock()
	return loadedPrompts
}

func setLoadedPrompt(target *string, content string) {
	loadedPromptsMu.Lock()
	defer loadedPromptsMu.Unlock()
	*target = content
}

// loadPromptsFromFiles loads custom prompt templates from external files if
// file paths are configured.
func (c *Config) loadPromptsFromFiles() error {
	prompts := &c.AI.CustomPrompts

	entries := []struct {
		file   string
		target *string
		name   string
	}{
		{prompts.SystemFile, &loadedPrompts.System, "system"},
		{prompts.ReviewEnglishFile, &loadedPrompts.ReviewEnglish, "review-en"},
		{prompts.ReviewVietnameseFile, &loadedPrompts.ReviewVietnamese, "review-vi"},
	}

	loaded := 0
	for _, entry := range entries {
		if entry.file == "" {
			continue
		}
		content, err := loadPromptFromFile(entry.file, entry.name)
		if err != nil {
			return err
		}
		setLoadedPrompt(entry.target, content)
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files configured - using built-in templates")
	} else {
		log.Printf("[CONFIG] Custom prompt templates loaded from files: %d", loaded)
	}

	return nil
}

// reloadPromptFile re-reads a single prompt file into the loaded store. Used
// by the file watcher; a broken file keeps the previous content.
func (c *Config) reloadPromptFile(path string) error {
	prompts := &c.AI.CustomPrompts

	var target *string
	var name string
	switch path {
	case prompts.SystemFile:
		target, name = &loadedPrompts.System, "system"
	case prompts.ReviewEnglishFile:
		target, name = &loadedPrompts.ReviewEnglish, "review-en"
	case prompts.ReviewVietnameseFile:
		target, name = &loadedPrompts.ReviewVietnamese, "review-vi"
	default:
		return fmt.Errorf("not a configured prompt file: %s", path)
	}

	content, err := loadPromptFromFile(path, name)
	if err != nil {
		return err
	}
	setLoadedPrompt(target, content)
	return nil
}

// PromptFiles returns the configured prompt file paths, if any.
func (c *Config) PromptFiles() []string {
	var files []string
	for _, f := range []string{
		c.AI.CustomPrompts.SystemFile,
		c.AI.CustomPrompts.ReviewEnglishFile,
		c.AI.CustomPrompts.ReviewVietnameseFile,
	} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// loadPromptFromFile loads a prompt from a file with validation and logging
func loadPromptFromFile(filePath, name string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", name, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", name, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", name, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)", name, absPath, len(trimmed))
	return trimmed, nil
}
