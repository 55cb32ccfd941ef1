package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ZesyC/cv-anylyzer/internal/errors"
)

// PromptWatcher watches prompt template files and hot-reloads their content
// into the loaded prompt store when they change.
type PromptWatcher struct {
	mu sync.Mutex

	cfg   *Config
	files []string

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan string

	logger  *errors.Logger
	running bool
}

// NewPromptWatcher creates a watcher over the config's prompt files. Returns
// nil when hot reload is disabled or no files are configured.
func NewPromptWatcher(cfg *Config, logger *errors.Logger) *PromptWatcher {
	if !cfg.AI.CustomPrompts.HotReload {
		return nil
	}
	files := cfg.PromptFiles()
	if len(files) == 0 {
		return nil
	}

	return &PromptWatcher{
		cfg:           cfg,
		files:         files,
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan string, len(files)),
		logger:        logger,
	}
}

// Start begins watching the prompt files for changes.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	for _, file := range pw.files {
		if err := watcher.Add(file); err != nil {
			pw.logger.Warn("Failed to watch prompt file", "file", file, "error", err)
		}
		// Watch the directory too, to catch atomic writes
		if err := watcher.Add(filepath.Dir(file)); err != nil {
			pw.logger.Warn("Failed to watch prompt file directory",
				"directory", filepath.Dir(file), "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started",
		"files", pw.files, "debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the prompt file watcher.
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close prompt file watcher")
		return err
	}

	pw.running = false
	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if file := pw.matchWatchedFile(event); file != "" {
				pw.scheduleReload(file)
			}

		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")

		case file := <-pw.reloadChan:
			if err := pw.cfg.reloadPromptFile(file); err != nil {
				pw.logger.LogError(err, "Prompt file reload failed, keeping previous content",
					"file", file)
			} else {
				pw.logger.Info("Prompt file reloaded", "file", file)
			}

		case <-pw.stopChan:
			return
		}
	}
}

func (pw *PromptWatcher) matchWatchedFile(event fsnotify.Event) string {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return ""
	}
	for _, file := range pw.files {
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			return file
		}
	}
	return ""
}

func (pw *PromptWatcher) scheduleReload(file string) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, func() {
		select {
		case pw.reloadChan <- file:
		default:
		}
	})
}
