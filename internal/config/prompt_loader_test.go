package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPromptsFromFiles(t *testing.T) {
	tempDir := t.TempDir()

	systemPromptContent := "You are an interview coach."
	userPromptContent := "Question: %s\nAnswer: %s"

	systemPromptFile := filepath.Join(tempDir, "system.feedback.md")
	userPromptFile := filepath.Join(tempDir, "user.feedback.md")

	if err := os.WriteFile(systemPromptFile, []byte(systemPromptContent+"\n\n"), 0600); err != nil {
		t.Fatalf("Failed to create test system prompt file: %v", err)
	}
	if err := os.WriteFile(userPromptFile, []byte(userPromptContent), 0600); err != nil {
		t.Fatalf("Failed to create test user prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			Feedback: OperationAIConfig{
				CustomPrompts: PromptConfig{
					System:     "inline prompt replaced by file",
					SystemFile: systemPromptFile,
					UserFile:   userPromptFile,
				},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts from files: %v", err)
	}

	prompts := config.AI.Feedback.CustomPrompts
	if prompts.System != systemPromptContent {
		t.Errorf("Expected system prompt %q, got %q", systemPromptContent, prompts.System)
	}
	if prompts.User != userPromptContent {
		t.Errorf("Expected user prompt %q, got %q", userPromptContent, prompts.User)
	}
	if prompts.SystemFile != systemPromptFile {
		t.Error("Expected system prompt file path to be preserved")
	}
	if config.AI.Questions.CustomPrompts.System != "" {
		t.Error("Expected questions prompts to stay empty")
	}
}

func TestGlobalPromptFallback(t *testing.T) {
	tempDir := t.TempDir()
	globalFile := filepath.Join(tempDir, "questions.md")
	if err := os.WriteFile(globalFile, []byte("Global questions prompt"), 0600); err != nil {
		t.Fatalf("Failed to create prompt file: %v", err)
	}

	config := &Config{
		AI: AIConfig{
			CustomPrompts: PromptSet{
				Questions: PromptConfig{SystemFile: globalFile},
			},
		},
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		t.Fatalf("Failed to load prompts: %v", err)
	}

	if got := config.GetQuestionsConfig().CustomPrompts.System; got != "Global questions prompt" {
		t.Errorf("Expected global prompt fallback, got %q", got)
	}
	if got := config.GetFeedbackConfig().CustomPrompts.System; got != "" {
		t.Errorf("Expected no feedback prompt, got %q", got)
	}
}

func TestValidatePromptFiles(t *testing.T) {
	tempDir := t.TempDir()

	validFile := filepath.Join(tempDir, "valid.md")
	if err := os.WriteFile(validFile, []byte("Valid content"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	config := &Config{}
	config.AI.Questions.CustomPrompts.UserFile = validFile
	if err := config.validatePromptFiles(); err != nil {
		t.Errorf("Expected validation to pass, got %v", err)
	}

	config.AI.Feedback.CustomPrompts.SystemFile = filepath.Join(tempDir, "missing.md")
	config.AI.CustomPrompts.Feedback.UserFile = filepath.Join(tempDir, "also-missing.md")

	err := config.validatePromptFiles()
	if err == nil {
		t.Fatal("Expected validation to fail for missing files")
	}
	if !strings.Contains(err.Error(), "missing.md") || !strings.Contains(err.Error(), "also-missing.md") {
		t.Errorf("Expected both missing files to be reported, got %v", err)
	}
}

func TestLoadPromptFromFile(t *testing.T) {
	tempDir := t.TempDir()

	content := "Test prompt content"
	testFile := filepath.Join(tempDir, "test.md")
	if err := os.WriteFile(testFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	loadedContent, err := loadPromptFromFile(testFile, "system", "feedback")
	if err != nil {
		t.Fatalf("Failed to load prompt from file: %v", err)
	}
	if loadedContent != content {
		t.Errorf("Expected content %q, got %q", content, loadedContent)
	}

	emptyFile := filepath.Join(tempDir, "empty.md")
	if err := os.WriteFile(emptyFile, []byte("  \n"), 0600); err != nil {
		t.Fatalf("Failed to create empty test file: %v", err)
	}
	if _, err := loadPromptFromFile(emptyFile, "system", "feedback"); err == nil {
		t.Error("Expected error for empty file")
	}

	_, err = loadPromptFromFile(filepath.Join(tempDir, "nonexistent.md"), "system", "feedback")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}
