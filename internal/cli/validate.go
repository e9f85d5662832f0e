package cli

import (
	"fmt"

	"interviewprep/internal/common"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/types"
	"interviewprep/internal/validation"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [answer-file]",
	Short: "Check an interview answer before submitting it",
	Long: `Check a written interview answer for length, structure, vocabulary and
low-effort content such as placeholder text or keyboard mashing.

The answer is read from the given file, or from standard input when the file
is omitted or "-". The command exits with status 2 when the answer would be
blocked from submission, or with --strict when it has any warning.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveOutput(cmd, &validateConfig)
	},
	RunE: runValidate,
}

var (
	validateConfig     common.CommandConfig
	validateThresholds validation.Thresholds
	validateOverride   bool
	validateStrict     bool
)

func init() {
	addOutputFlags(validateCmd, &validateConfig)
	validateCmd.Flags().IntVar(&validateThresholds.MinWordCount, "min-words", 0, "Minimum word count (default from config)")
	validateCmd.Flags().IntVar(&validateThresholds.MinSentenceCount, "min-sentences", 0, "Minimum sentence count (default from config)")
	validateCmd.Flags().IntVar(&validateThresholds.MinUniqueWords, "min-unique", 0, "Minimum unique word count (default from config)")
	validateCmd.Flags().BoolVar(&validateOverride, "allow-override", false, "Allow submitting answers that would otherwise be blocked")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail on any warning, not only on blocked answers")
}

// answerArgs returns the answer file argument, defaulting to standard input
func answerArgs(args []string) []string {
	if len(args) == 0 {
		return []string{common.StdinPath}
	}
	return args
}

// effectiveOverride honours --allow-override only when the config permits overrides
func effectiveOverride(flagValue bool, cfg *config.Config, logger *errors.Logger) bool {
	allowed := cfg.Validation.Override(flagValue)
	if flagValue && !allowed {
		logger.Warn("Ignoring --allow-override: overrides are disabled by validation.allowOverride")
	}
	return allowed
}

// checkAnswer validates answer against thresholds and turns a blocked answer into an error
func checkAnswer(answer string, thresholds validation.Thresholds, allowOverride bool, maxLength int) (types.AnswerCheck, error) {
	if types.AnswerTooLong(answer, maxLength) {
		return types.AnswerCheck{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Answer is longer than %d bytes", maxLength), nil)
	}

	check := types.CheckAnswer(answer, thresholds, allowOverride)
	if check.Blocked {
		return check, errors.NewValidationError(errors.ErrCodeAnswerBlocked,
			"Answer is too brief or repetitive to submit", nil).
			WithContext("word_count", check.Result.WordCount).
			WithContext("repetition_score", check.Result.Metrics.RepetitionScore)
	}
	return check, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	thresholds := validateThresholds.Merge(cfg.Validation.Thresholds())
	if err := thresholds.Validate(); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidThresholds, "Invalid validation thresholds", err)
	}

	contents, err := common.NewFileProcessor(logger, validateConfig.MaxFileSize).ValidateAndReadFiles(answerArgs(args)...)
	if err != nil {
		return err
	}

	allowOverride := effectiveOverride(validateOverride, cfg, logger)
	check, blockErr := checkAnswer(contents[0], thresholds, allowOverride, cfg.Validation.MaxAnswerLength)
	if blockErr != nil && !errors.HasCode(blockErr, errors.ErrCodeAnswerBlocked) {
		return blockErr
	}

	logger.Info("Answer validated",
		"word_count", check.Result.WordCount,
		"sentence_count", check.Result.SentenceCount,
		"unique_word_count", check.Result.UniqueWordCount,
		"is_valid", check.Result.IsValid,
		"blocked", check.Blocked,
		"warnings", len(check.Result.Warnings))

	if err := common.NewOutputHandler(logger).HandleOutput(check, validateConfig); err != nil {
		return err
	}

	if blockErr != nil {
		return blockErr
	}
	if validateStrict && !check.Result.IsValid {
		return errors.NewValidationError(errors.ErrCodeAnswerInvalid,
			fmt.Sprintf("Answer has %d warning(s)", len(check.Result.Warnings)), nil)
	}
	return nil
}
