package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// maxRepetitionScore is the highest repetition score a valid answer may have.
	maxRepetitionScore = 0.3

	// Hard block limits. These are stricter than the configurable thresholds
	// so that only degenerate answers are refused outright.
	blockWordCount       = 20
	blockRepetitionScore = 0.5

	minimumContentWords = 30
	structureSentences  = 2
)

// Message types returned by ValidationMessageFor.
const (
	MessageTypeError   = "error"
	MessageTypeWarning = "warning"
)

const (
	errorMessageText   = "Your answer is too brief or repetitive. Please write a more detailed, original response before submitting."
	warningMessageText = "Your answer could use more detail. Try the STAR method (Situation, Task, Action, Result) to give it structure."

	repetitionWarning = "High word repetition detected. Try to vary your vocabulary."
)

// Metrics are derived measurements reported alongside a Result.
type Metrics struct {
	AvgWordLength     float64 `json:"avgWordLength" yaml:"avgWordLength"`
	HasMinimumContent bool    `json:"hasMinimumContent" yaml:"hasMinimumContent"`
	HasStructure      bool    `json:"hasStructure" yaml:"hasStructure"`
	RepetitionScore   float64 `json:"repetitionScore" yaml:"repetitionScore"`
}

// Result is the outcome of validating one answer.
type Result struct {
	WordCount       int      `json:"wordCount" yaml:"wordCount"`
	SentenceCount   int      `json:"sentenceCount" yaml:"sentenceCount"`
	UniqueWordCount int      `json:"uniqueWordCount" yaml:"uniqueWordCount"`
	IsValid         bool     `json:"isValid" yaml:"isValid"`
	Warnings        []string `json:"warnings" yaml:"warnings"`
	Metrics         Metrics  `json:"metrics" yaml:"metrics"`
}

// Message is the banner shown to the author of an invalid answer.
type Message struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// Validate checks text against DefaultThresholds.
func Validate(text string) Result {
	return ValidateAnswer(text, DefaultThresholds())
}

// ValidateAnswer measures text and checks it against t. Spam warnings come
// first, followed by word, sentence and unique word shortfalls and finally
// the repetition warning.
func ValidateAnswer(text string, t Thresholds) Result {
	wordCount := CountWords(text)
	sentenceCount := CountSentences(text)
	uniqueWordCount := CountUniqueWords(text)
	repetitionScore := RepetitionScore(text)
	spamWarnings := DetectSpamPatterns(text)

	warnings := make([]string, 0, len(spamWarnings)+4)
	warnings = append(warnings, spamWarnings...)

	if wordCount < t.MinWordCount {
		warnings = append(warnings, fmt.Sprintf("Answer is too short: %d words (minimum %d).", wordCount, t.MinWordCount))
	}
	if sentenceCount < t.MinSentenceCount {
		warnings = append(warnings, fmt.Sprintf("Answer needs more structure: %d sentences (minimum %d).", sentenceCount, t.MinSentenceCount))
	}
	if uniqueWordCount < t.MinUniqueWords {
		warnings = append(warnings, fmt.Sprintf("Answer lacks variety: %d unique words (minimum %d).", uniqueWordCount, t.MinUniqueWords))
	}
	if repetitionScore > maxRepetitionScore {
		warnings = append(warnings, repetitionWarning)
	}

	isValid := wordCount >= t.MinWordCount &&
		sentenceCount >= t.MinSentenceCount &&
		uniqueWordCount >= t.MinUniqueWords &&
		len(spamWarnings) == 0 &&
		repetitionScore <= maxRepetitionScore

	return Result{
		WordCount:       wordCount,
		SentenceCount:   sentenceCount,
		UniqueWordCount: uniqueWordCount,
		IsValid:         isValid,
		Warnings:        warnings,
		Metrics: Metrics{
			AvgWordLength:     float64(utf8.RuneCountInString(text)) / float64(max(wordCount, 1)),
			HasMinimumContent: wordCount >= minimumContentWords,
			HasStructure:      sentenceCount >= structureSentences,
			RepetitionScore:   repetitionScore,
		},
	}
}

// ShouldBlockSubmission reports whether r is degenerate enough to refuse
// outright. An invalid answer is not necessarily blocked. allowOverride
// always permits submission.
func ShouldBlockSubmission(r Result, allowOverride bool) bool {
	if allowOverride {
		return false
	}
	return isExtreme(r)
}

// ValidationMessageFor returns the banner for r, or nil when r is valid.
func ValidationMessageFor(r Result) *Message {
	if r.IsValid {
		return nil
	}
	if isExtreme(r) {
		return &Message{Type: MessageTypeError, Message: errorMessageText}
	}
	return &Message{Type: MessageTypeWarning, Message: warningMessageText}
}

func isExtreme(r Result) bool {
	if r.WordCount < blockWordCount || r.Metrics.RepetitionScore > blockRepetitionScore {
		return true
	}
	for _, w := range r.Warnings {
		if strings.Contains(w, markerLoremIpsum) ||
			strings.Contains(w, markerKeyboardMash) ||
			strings.Contains(w, markerRepeatedPhrase) {
			return true
		}
	}
	return false
}
