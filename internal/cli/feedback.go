package cli

import (
	"context"
	"fmt"
	"strings"

	"interviewprep/internal/ai"
	"interviewprep/internal/common"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/spf13/cobra"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [question-file] [answer-file] [job-description-file]",
	Short: "Get AI coaching feedback on an interview answer",
	Long: `Validate an interview answer and, when it passes, ask the AI coach for
feedback: an overall score, strengths, improvements, a STAR breakdown and a
suggested rewrite.

Answers that are too brief or repetitive are refused unless --allow-override
is given. The job description file is optional and gives the coach context.`,
	Args: cobra.RangeArgs(2, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutput(cmd, &feedbackConfig)
	},
	RunE: runFeedback,
}

var (
	feedbackConfig   common.CommandConfig
	feedbackOverride bool
)

func init() {
	addOutputFlags(feedbackCmd, &feedbackConfig)
	feedbackCmd.Flags().BoolVar(&feedbackOverride, "allow-override", false, "Request feedback even when the answer would be blocked")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := cfg.RequireAIKey(); err != nil {
		return errors.NewConfigError(errors.ErrCodeMissingAPIKey, "AI feedback needs an API key", err)
	}

	feedbackAIConfig := cfg.GetFeedbackConfig()
	aiService, err := ai.NewService(&feedbackAIConfig, config.OperationFeedback, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	thresholds := cfg.Validation.Thresholds()
	allowOverride := effectiveOverride(feedbackOverride, cfg, logger)

	createInput := func(contents []string) (types.AnswerFeedbackInput, error) {
		if len(contents) < 2 {
			return types.AnswerFeedbackInput{}, fmt.Errorf("expected at least 2 file paths, got %d", len(contents))
		}
		question := strings.TrimSpace(contents[0])
		if question == "" {
			return types.AnswerFeedbackInput{}, errors.NewValidationError(errors.ErrCodeInvalidRequest, "Question file is empty", nil)
		}

		check, err := checkAnswer(contents[1], thresholds, allowOverride, cfg.Validation.MaxAnswerLength)
		if err != nil {
			return types.AnswerFeedbackInput{}, err
		}
		for _, warning := range check.Result.Warnings {
			logger.Warn("Answer warning", "warning", warning)
		}

		input := types.AnswerFeedbackInput{
			Question:   question,
			Answer:     contents[1],
			Validation: check.Result,
		}
		if len(contents) == 3 {
			input.JobDescription = contents[2]
		}
		return input, nil
	}

	logDetails := func(input types.AnswerFeedbackInput, cfg common.CommandConfig) {
		logger.Info("Requesting answer feedback",
			"question_chars", len(input.Question),
			"answer_words", input.Validation.WordCount,
			"answer_valid", input.Validation.IsValid,
			"has_job_description", input.JobDescription != "",
			"output_format", cfg.OutputFormat)
	}

	feedbackOperation := func(ctx context.Context, input types.AnswerFeedbackInput) (types.AnswerFeedbackOutput, *ai.TokenUsage, error) {
		return aiService.Provider.ReviewAnswer(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		feedbackConfig,
		args,
		createInput,
		feedbackOperation,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to get answer feedback: %w", err)
	}
	logger.Info("Answer feedback completed successfully")
	return nil
}
