package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// promptTarget names one prompt slot that may be loaded from a file
type promptTarget struct {
	label  string
	prompt *PromptConfig
}

// promptTargets lists every prompt slot in the configuration
func (c *Config) promptTargets() []promptTarget {
	return []promptTarget{
		{label: "global questions", prompt: &c.AI.CustomPrompts.Questions},
		{label: "global feedback", prompt: &c.AI.CustomPrompts.Feedback},
		{label: "questions", prompt: &c.AI.Questions.CustomPrompts},
		{label: "feedback", prompt: &c.AI.Feedback.CustomPrompts},
	}
}

// loadPromptsFromFiles replaces inline prompts with the content of their files
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loaded := 0
	for _, target := range c.promptTargets() {
		n, err := loadPromptConfig(target.prompt, target.label)
		if err != nil {
			return fmt.Errorf("failed to load %s prompts: %w", target.label, err)
		}
		loaded += n
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files loaded - using inline or built-in prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded from files: %d", loaded)
	}
	return nil
}

func loadPromptConfig(prompt *PromptConfig, label string) (int, error) {
	loaded := 0
	if prompt.SystemFile != "" {
		content, err := loadPromptFromFile(prompt.SystemFile, "system", label)
		if err != nil {
			return loaded, err
		}
		prompt.System = content
		loaded++
	}
	if prompt.UserFile != "" {
		content, err := loadPromptFromFile(prompt.UserFile, "user", label)
		if err != nil {
			return loaded, err
		}
		prompt.User = content
		loaded++
	}
	return loaded, nil
}

// loadPromptFromFile reads a prompt file and rejects empty content
func loadPromptFromFile(filePath, promptType, label string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", label, promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", label, promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", label, promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", label, promptType, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)", label, promptType, absPath, len(trimmed))
	return trimmed, nil
}

// validatePromptFiles reports every configured prompt file that does not exist
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	check := func(filePath, promptType, label string) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", label, promptType, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", label, promptType, absPath))
		}
	}

	for _, target := range c.promptTargets() {
		check(target.prompt.SystemFile, "system", target.label)
		check(target.prompt.UserFile, "user", target.label)
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
