package cli

import (
	"context"
	"fmt"

	"interviewprep/internal/ai"
	"interviewprep/internal/common"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [resume-file] [job-description-file]",
	Short: "Generate practice interview questions",
	Long: `Generate practice interview questions tailored to a resume and a job
description. Each question comes with the reason an interviewer would ask it
and tips on which experience to draw on.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := resolveOutput(cmd, &questionsConfig); err != nil {
			return err
		}
		if !types.IsValidFocus(questionsFocus) {
			return fmt.Errorf("invalid focus '%s': use behavioral, technical, or mixed", questionsFocus)
		}
		if questionsCount < 1 || questionsCount > types.MaxQuestionCount {
			return fmt.Errorf("count must be between 1 and %d", types.MaxQuestionCount)
		}
		return nil
	},
	RunE: runQuestions,
}

var (
	questionsConfig common.CommandConfig
	questionsCount  int
	questionsFocus  string
)

func init() {
	addOutputFlags(questionsCmd, &questionsConfig)
	questionsCmd.Flags().IntVar(&questionsCount, "count", types.DefaultQuestionCount, "Number of questions to generate")
	questionsCmd.Flags().StringVar(&questionsFocus, "focus", types.FocusBehavioral, "Question focus: behavioral, technical, or mixed")

	_ = questionsCmd.RegisterFlagCompletionFunc("focus", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{types.FocusBehavioral, types.FocusTechnical, types.FocusMixed}, cobra.ShellCompDirectiveNoFileComp
	})
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	if err := cfg.RequireAIKey(); err != nil {
		return errors.NewConfigError(errors.ErrCodeMissingAPIKey, "Question generation needs an API key", err)
	}

	questionsAIConfig := cfg.GetQuestionsConfig()
	aiService, err := ai.NewService(&questionsAIConfig, config.OperationQuestions, logger)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() { _ = aiService.Close() }()

	createInput := func(contents []string) (types.GenerateQuestionsInput, error) {
		if len(contents) != 2 {
			return types.GenerateQuestionsInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		return types.NormalizeQuestionsInput(types.GenerateQuestionsInput{
			Resume:         contents[0],
			JobDescription: contents[1],
			Count:          questionsCount,
			Focus:          questionsFocus,
		}), nil
	}

	logDetails := func(input types.GenerateQuestionsInput, cfg common.CommandConfig) {
		logger.Info("Generating practice questions",
			"resume_chars", len(input.Resume),
			"job_chars", len(input.JobDescription),
			"count", input.Count,
			"focus", input.Focus,
			"output_format", cfg.OutputFormat)
	}

	questionsOperation := func(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSetOutput, *ai.TokenUsage, error) {
		return aiService.Provider.GenerateQuestions(ctx, input)
	}

	err = common.RunAICommand(
		cmd.Context(),
		logger,
		questionsConfig,
		args,
		createInput,
		questionsOperation,
		logDetails,
	)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}
	logger.Info("Question generation completed successfully")
	return nil
}
