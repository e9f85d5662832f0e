package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"interviewprep/internal/types"
	"interviewprep/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func blockedCheck() types.AnswerCheck {
	return types.CheckAnswer("aaaaa. aaaaa.", validation.DefaultThresholds(), false)
}

func sampleFeedback() types.AnswerFeedbackOutput {
	return types.AnswerFeedbackOutput{
		OverallScore: 72,
		Summary:      "Clear story with a weak result.",
		Strengths:    []string{"Concrete situation"},
		Improvements: []string{"Quantify the outcome"},
		STARBreakdown: types.STARBreakdown{
			Situation: "strong",
			Task:      "clear",
			Action:    "detailed",
			Result:    "missing",
		},
		SuggestedAnswer: "When our deploys kept failing...",
	}
}

func sampleQuestions() types.QuestionSetOutput {
	return types.QuestionSetOutput{
		Role: "Platform Engineer",
		Questions: []types.Question{
			{ID: "1", Category: "behavioral", Question: "Tell me about an outage you led.", WhyAsked: "On-call ownership", Tips: "Use the incident from 2023"},
		},
	}
}

func TestFormatterRegistry_Format(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{
			name:     "check text",
			data:     blockedCheck(),
			format:   "text",
			contains: []string{"=== ANSWER CHECK ===", "Status: BLOCKED", "Words:           2 (minimum 50)", "[ERROR]"},
		},
		{
			name:     "check markdown pointer",
			data:     func() *types.AnswerCheck { c := blockedCheck(); return &c }(),
			format:   "markdown",
			contains: []string{"# Answer Check", "| Words | 2 | 50 |", "## Warnings"},
		},
		{
			name:     "feedback text",
			data:     sampleFeedback(),
			format:   "text",
			contains: []string{"Score: 72/100", "Strengths:", "  - Concrete situation", "Result:    missing"},
		},
		{
			name:     "feedback markdown",
			data:     sampleFeedback(),
			format:   "markdown",
			contains: []string{"# Answer Feedback", "## Improvements", "- **Result:** missing", "## Suggested Answer"},
		},
		{
			name:     "questions text",
			data:     sampleQuestions(),
			format:   "text",
			contains: []string{"Role: Platform Engineer", "1. [behavioral] Tell me about an outage you led."},
		},
		{
			name:     "questions markdown",
			data:     sampleQuestions(),
			format:   "markdown",
			contains: []string{"## 1. Tell me about an outage you led.", "**Tips:** Use the incident from 2023"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := registry.Format(tt.data, tt.format)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFormatterRegistry_JSONAndYAML(t *testing.T) {
	registry := NewFormatterRegistry()
	check := blockedCheck()

	jsonOut, err := registry.Format(check, "json")
	require.NoError(t, err)
	var decoded types.AnswerCheck
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &decoded))
	assert.True(t, decoded.Blocked)
	assert.Equal(t, 2, decoded.Result.WordCount)

	yamlOut, err := registry.Format(check, "yaml")
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut), &fromYAML))
	assert.Equal(t, true, fromYAML["blocked"])
	assert.True(t, strings.Contains(yamlOut, "wordCount: 2"))
}

func TestFormatterRegistry_Unsupported(t *testing.T) {
	registry := NewFormatterRegistry()

	_, err := registry.Format(map[string]string{"a": "b"}, "text")
	assert.EqualError(t, err, "no formatter found for format 'text' and type 'any'")

	_, err = registry.Format(sampleFeedback(), "html")
	assert.Error(t, err)
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "markdown", "text", "yaml"}, NewFormatterRegistry().GetSupportedFormats())
}

func TestFormatterTypeMismatch(t *testing.T) {
	_, err := (&FeedbackTextFormatter{}).Format(sampleQuestions())
	assert.EqualError(t, err, "expected types.AnswerFeedbackOutput, got types.QuestionSetOutput")
}
