package common

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interviewprep/internal/ai"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunAICommandWithHandler(t *testing.T) {
	dir := t.TempDir()
	resume := writeInput(t, dir, "resume.txt", "Ran the billing platform team.")
	jd := writeInput(t, dir, "jd.md", "Engineering manager, payments.")

	var stdout bytes.Buffer
	handler := NewOutputHandlerWithWriter(nil, &stdout)
	processor := NewFileProcessor(nil, 0)

	var seen types.GenerateQuestionsInput
	operation := func(_ context.Context, in types.GenerateQuestionsInput) (types.QuestionSetOutput, *ai.TokenUsage, error) {
		seen = in
		return types.QuestionSetOutput{
			Role:      "Engineering Manager",
			Questions: []types.Question{{ID: "q1", Category: "behavioral", Question: "How do you grow engineers?"}},
		}, &ai.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
	}
	createInput := func(contents []string) (types.GenerateQuestionsInput, error) {
		return types.GenerateQuestionsInput{Resume: contents[0], JobDescription: contents[1], Count: 1}, nil
	}

	err := RunAICommandWithHandler(context.Background(), nil, handler, processor,
		CommandConfig{OutputFormat: "text"}, []string{resume, jd}, createInput, operation, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if seen.Resume != "Ran the billing platform team." || seen.JobDescription != "Engineering manager, payments." {
		t.Errorf("Unexpected input passed to operation: %+v", seen)
	}
	if !strings.Contains(stdout.String(), "1. [behavioral] How do you grow engineers?") {
		t.Errorf("Unexpected output:\n%s", stdout.String())
	}
}

func TestRunAICommandErrors(t *testing.T) {
	dir := t.TempDir()
	question := writeInput(t, dir, "question.txt", "Tell me about yourself.")

	noop := func(_ context.Context, in string) (string, *ai.TokenUsage, error) { return in, nil, nil }
	identity := func(contents []string) (string, error) { return contents[0], nil }

	t.Run("missing file", func(t *testing.T) {
		err := RunAICommandWithHandler(context.Background(), nil, NewOutputHandlerWithWriter(nil, &bytes.Buffer{}), NewFileProcessor(nil, 0),
			CommandConfig{OutputFormat: "json"}, []string{filepath.Join(dir, "missing.txt")}, identity, noop, nil)
		appErr, ok := errors.AsAppError(err)
		if !ok || appErr.Code != "INVALID_INPUT_FILE" {
			t.Errorf("Expected INVALID_INPUT_FILE, got %v", err)
		}
	})

	t.Run("input rejected", func(t *testing.T) {
		reject := func([]string) (string, error) {
			return "", errors.NewValidationError(errors.ErrCodeAnswerBlocked, "blocked", nil)
		}
		err := RunAICommandWithHandler(context.Background(), nil, NewOutputHandlerWithWriter(nil, &bytes.Buffer{}), NewFileProcessor(nil, 0),
			CommandConfig{OutputFormat: "json"}, []string{question}, reject, noop, nil)
		if !errors.HasCode(err, errors.ErrCodeAnswerBlocked) {
			t.Errorf("Expected ANSWER_BLOCKED, got %v", err)
		}
	})

	t.Run("operation failure", func(t *testing.T) {
		failing := func(context.Context, string) (string, *ai.TokenUsage, error) {
			return "", nil, fmt.Errorf("model unavailable")
		}
		err := RunAICommandWithHandler(context.Background(), nil, NewOutputHandlerWithWriter(nil, &bytes.Buffer{}), NewFileProcessor(nil, 0),
			CommandConfig{OutputFormat: "json"}, []string{question}, identity, failing, nil)
		if err == nil || err.Error() != "model unavailable" {
			t.Errorf("Expected operation error, got %v", err)
		}
	})
}

func TestFileProcessorStdinAndLimits(t *testing.T) {
	processor := NewFileProcessor(nil, 16).WithStdin(strings.NewReader("short answer"))

	contents, err := processor.ValidateAndReadFiles(StdinPath)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if contents[0] != "short answer" {
		t.Errorf("Expected stdin content, got %q", contents[0])
	}

	if _, err := processor.ValidateAndReadFiles(StdinPath, StdinPath); err == nil {
		t.Error("Expected error when stdin is used twice")
	}

	large := NewFileProcessor(nil, 16).WithStdin(strings.NewReader(strings.Repeat("x", 32)))
	if _, err := large.ReadStdin(); !errors.HasCode(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("Expected size limit error, got %v", err)
	}
}

func TestOutputHandlerWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "reports", "feedback.md")
	handler := NewOutputHandlerWithWriter(nil, &bytes.Buffer{})

	feedback := types.AnswerFeedbackOutput{OverallScore: 80, Summary: "Solid."}
	if err := handler.HandleOutput(feedback, CommandConfig{OutputFile: out, OutputFormat: "markdown"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Output file not written: %v", err)
	}
	if !strings.Contains(string(written), "**Score:** 80/100") {
		t.Errorf("Unexpected file content:\n%s", written)
	}

	err = handler.HandleOutput(feedback, CommandConfig{OutputFormat: "html"})
	if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Expected INVALID_FORMAT, got %v", err)
	}
}
