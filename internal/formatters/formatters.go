package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"interviewprep/internal/types"

	"gopkg.in/yaml.v3"
)

// Data type keys used by the registry
const (
	typeAny            = "any"
	typeAnswerCheck    = "AnswerCheck"
	typeAnswerFeedback = "AnswerFeedbackOutput"
	typeQuestionSet    = "QuestionSetOutput"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", typeAny, &JSONFormatter{})
	registry.RegisterFormatter("yaml", typeAny, &YAMLFormatter{})
	registry.RegisterFormatter("text", typeAnswerCheck, &AnswerCheckTextFormatter{})
	registry.RegisterFormatter("markdown", typeAnswerCheck, &AnswerCheckMarkdownFormatter{})
	registry.RegisterFormatter("text", typeAnswerFeedback, &FeedbackTextFormatter{})
	registry.RegisterFormatter("markdown", typeAnswerFeedback, &FeedbackMarkdownFormatter{})
	registry.RegisterFormatter("text", typeQuestionSet, &QuestionsTextFormatter{})
	registry.RegisterFormatter("markdown", typeQuestionSet, &QuestionsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnswerCheck, *types.AnswerCheck:
		return typeAnswerCheck
	case types.AnswerFeedbackOutput, *types.AnswerFeedbackOutput:
		return typeAnswerFeedback
	case types.QuestionSetOutput, *types.QuestionSetOutput:
		return typeQuestionSet
	default:
		return typeAny
	}
}

// deref returns the value behind a pointer of the expected type
func deref[T any](data any) (T, error) {
	switch v := data.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("expected %T, got %T", zero, data)
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(yamlData), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return typeAny
}

// AnswerCheckTextFormatter handles text formatting for validation results
type AnswerCheckTextFormatter struct{}

func (f *AnswerCheckTextFormatter) Format(data any) (string, error) {
	check, err := deref[types.AnswerCheck](data)
	if err != nil {
		return "", err
	}
	r := check.Result
	t := check.Thresholds

	var output strings.Builder

	output.WriteString("=== ANSWER CHECK ===\n\n")
	output.WriteString(fmt.Sprintf("Status: %s\n\n", checkStatus(check)))
	output.WriteString(fmt.Sprintf("Words:           %d (minimum %d)\n", r.WordCount, t.MinWordCount))
	output.WriteString(fmt.Sprintf("Sentences:       %d (minimum %d)\n", r.SentenceCount, t.MinSentenceCount))
	output.WriteString(fmt.Sprintf("Unique words:    %d (minimum %d)\n", r.UniqueWordCount, t.MinUniqueWords))
	output.WriteString(fmt.Sprintf("Repetition:      %.2f\n", r.Metrics.RepetitionScore))
	output.WriteString(fmt.Sprintf("Avg word length: %.2f\n", r.Metrics.AvgWordLength))

	if len(r.Warnings) > 0 {
		output.WriteString("\n=== WARNINGS ===\n")
		for _, warning := range r.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	if check.Message != nil {
		output.WriteString(fmt.Sprintf("\n[%s] %s\n", strings.ToUpper(check.Message.Type), check.Message.Message))
	}

	return output.String(), nil
}

func (f *AnswerCheckTextFormatter) SupportedType() string {
	return typeAnswerCheck
}

// AnswerCheckMarkdownFormatter handles markdown formatting for validation results
type AnswerCheckMarkdownFormatter struct{}

func (f *AnswerCheckMarkdownFormatter) Format(data any) (string, error) {
	check, err := deref[types.AnswerCheck](data)
	if err != nil {
		return "", err
	}
	r := check.Result
	t := check.Thresholds

	var output strings.Builder

	output.WriteString("# Answer Check\n\n")
	output.WriteString(fmt.Sprintf("**Status:** %s\n\n", checkStatus(check)))
	output.WriteString("| Measure | Value | Minimum |\n")
	output.WriteString("|---|---|---|\n")
	output.WriteString(fmt.Sprintf("| Words | %d | %d |\n", r.WordCount, t.MinWordCount))
	output.WriteString(fmt.Sprintf("| Sentences | %d | %d |\n", r.SentenceCount, t.MinSentenceCount))
	output.WriteString(fmt.Sprintf("| Unique words | %d | %d |\n", r.UniqueWordCount, t.MinUniqueWords))
	output.WriteString(fmt.Sprintf("| Repetition | %.2f | |\n", r.Metrics.RepetitionScore))
	output.WriteString("\n")

	if len(r.Warnings) > 0 {
		output.WriteString("## Warnings\n\n")
		for _, warning := range r.Warnings {
			output.WriteString(fmt.Sprintf("- %s\n", warning))
		}
		output.WriteString("\n")
	}

	if check.Message != nil {
		output.WriteString(fmt.Sprintf("> **%s:** %s\n", check.Message.Type, check.Message.Message))
	}

	return output.String(), nil
}

func (f *AnswerCheckMarkdownFormatter) SupportedType() string {
	return typeAnswerCheck
}

func checkStatus(check types.AnswerCheck) string {
	switch {
	case check.Blocked:
		return "BLOCKED"
	case check.Result.IsValid:
		return "VALID"
	default:
		return "NEEDS WORK"
	}
}

// FeedbackTextFormatter handles text formatting for answer feedback
type FeedbackTextFormatter struct{}

func (f *FeedbackTextFormatter) Format(data any) (string, error) {
	result, err := deref[types.AnswerFeedbackOutput](data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== ANSWER FEEDBACK ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n\n", result.OverallScore))
	output.WriteString("Summary:\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	writeTextList(&output, "Strengths", result.Strengths)
	writeTextList(&output, "Improvements", result.Improvements)

	output.WriteString("=== STAR BREAKDOWN ===\n")
	output.WriteString(fmt.Sprintf("Situation: %s\n", result.STARBreakdown.Situation))
	output.WriteString(fmt.Sprintf("Task:      %s\n", result.STARBreakdown.Task))
	output.WriteString(fmt.Sprintf("Action:    %s\n", result.STARBreakdown.Action))
	output.WriteString(fmt.Sprintf("Result:    %s\n\n", result.STARBreakdown.Result))

	output.WriteString("=== SUGGESTED ANSWER ===\n\n")
	output.WriteString(result.SuggestedAnswer)
	output.WriteString("\n")

	return output.String(), nil
}

func (f *FeedbackTextFormatter) SupportedType() string {
	return typeAnswerFeedback
}

// FeedbackMarkdownFormatter handles markdown formatting for answer feedback
type FeedbackMarkdownFormatter struct{}

func (f *FeedbackMarkdownFormatter) Format(data any) (string, error) {
	result, err := deref[types.AnswerFeedbackOutput](data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Answer Feedback\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.OverallScore))
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	writeMarkdownList(&output, "Strengths", result.Strengths)
	writeMarkdownList(&output, "Improvements", result.Improvements)

	output.WriteString("## STAR Breakdown\n\n")
	output.WriteString(fmt.Sprintf("- **Situation:** %s\n", result.STARBreakdown.Situation))
	output.WriteString(fmt.Sprintf("- **Task:** %s\n", result.STARBreakdown.Task))
	output.WriteString(fmt.Sprintf("- **Action:** %s\n", result.STARBreakdown.Action))
	output.WriteString(fmt.Sprintf("- **Result:** %s\n\n", result.STARBreakdown.Result))

	output.WriteString("## Suggested Answer\n\n")
	output.WriteString(result.SuggestedAnswer)
	output.WriteString("\n")

	return output.String(), nil
}

func (f *FeedbackMarkdownFormatter) SupportedType() string {
	return typeAnswerFeedback
}

// QuestionsTextFormatter handles text formatting for practice questions
type QuestionsTextFormatter struct{}

func (f *QuestionsTextFormatter) Format(data any) (string, error) {
	result, err := deref[types.QuestionSetOutput](data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== PRACTICE QUESTIONS ===\n")
	if result.Role != "" {
		output.WriteString(fmt.Sprintf("Role: %s\n", result.Role))
	}
	output.WriteString("\n")

	for i, q := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, q.Category, q.Question))
		output.WriteString(fmt.Sprintf("   Why asked: %s\n", q.WhyAsked))
		output.WriteString(fmt.Sprintf("   Tips: %s\n\n", q.Tips))
	}

	return output.String(), nil
}

func (f *QuestionsTextFormatter) SupportedType() string {
	return typeQuestionSet
}

// QuestionsMarkdownFormatter handles markdown formatting for practice questions
type QuestionsMarkdownFormatter struct{}

func (f *QuestionsMarkdownFormatter) Format(data any) (string, error) {
	result, err := deref[types.QuestionSetOutput](data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Practice Questions\n\n")
	if result.Role != "" {
		output.WriteString(fmt.Sprintf("**Role:** %s\n\n", result.Role))
	}

	for i, q := range result.Questions {
		output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("*Category:* %s\n\n", q.Category))
		output.WriteString(fmt.Sprintf("**Why it is asked:** %s\n\n", q.WhyAsked))
		output.WriteString(fmt.Sprintf("**Tips:** %s\n\n", q.Tips))
	}

	return output.String(), nil
}

func (f *QuestionsMarkdownFormatter) SupportedType() string {
	return typeQuestionSet
}

func writeTextList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString(title + ":\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("  - %s\n", item))
	}
	output.WriteString("\n")
}

func writeMarkdownList(output *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	output.WriteString("## " + title + "\n\n")
	for _, item := range items {
		output.WriteString(fmt.Sprintf("- %s\n", item))
	}
	output.WriteString("\n")
}
