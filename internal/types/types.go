package types

import "interviewprep/internal/validation"

// Question focus values accepted by question generation
const (
	FocusBehavioral = "behavioral"
	FocusTechnical  = "technical"
	FocusMixed      = "mixed"
)

// Question count bounds
const (
	DefaultQuestionCount = 5
	MaxQuestionCount     = 15
)

// GenerateQuestionsInput represents the input for generating practice questions
type GenerateQuestionsInput struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	Count          int    `json:"count,omitempty"`
	Focus          string `json:"focus,omitempty"`
}

// Question is a single practice interview question
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"` // behavioral, technical
	Question string `json:"question" yaml:"question"`
	WhyAsked string `json:"whyAsked" yaml:"whyAsked"` // why the interviewer would ask it for this role
	Tips     string `json:"tips" yaml:"tips"`
}

// QuestionSetOutput represents the generated practice questions
type QuestionSetOutput struct {
	Role      string     `json:"role" yaml:"role"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// AnswerFeedbackInput represents the input for reviewing an answer
type AnswerFeedbackInput struct {
	Question       string            `json:"question"`
	Answer         string            `json:"answer"`
	JobDescription string            `json:"jobDescription,omitempty"`
	Validation     validation.Result `json:"validation"`
}

// STARBreakdown rates how well each STAR component is covered
type STARBreakdown struct {
	Situation string `json:"situation" yaml:"situation"`
	Task      string `json:"task" yaml:"task"`
	Action    string `json:"action" yaml:"action"`
	Result    string `json:"result" yaml:"result"`
}

// AnswerFeedbackOutput represents the coaching feedback for an answer
type AnswerFeedbackOutput struct {
	OverallScore    int           `json:"overallScore" yaml:"overallScore"` // 0-100 score
	Summary         string        `json:"summary" yaml:"summary"`
	Strengths       []string      `json:"strengths" yaml:"strengths"`
	Improvements    []string      `json:"improvements" yaml:"improvements"`
	STARBreakdown   STARBreakdown `json:"starBreakdown" yaml:"starBreakdown"`
	SuggestedAnswer string        `json:"suggestedAnswer" yaml:"suggestedAnswer"`
}

// AnswerCheck is the outcome of validating an answer before submission
type AnswerCheck struct {
	Result     validation.Result     `json:"result" yaml:"result"`
	Blocked    bool                  `json:"blocked" yaml:"blocked"`
	Message    *validation.Message   `json:"message,omitempty" yaml:"message,omitempty"`
	Thresholds validation.Thresholds `json:"thresholds" yaml:"thresholds"`
}

// CheckAnswer validates an answer against the thresholds and decides whether
// it may be submitted
func CheckAnswer(answer string, t validation.Thresholds, allowOverride bool) AnswerCheck {
	result := validation.ValidateAnswer(answer, t)
	return AnswerCheck{
		Result:     result,
		Blocked:    validation.ShouldBlockSubmission(result, allowOverride),
		Message:    validation.ValidationMessageFor(result),
		Thresholds: t,
	}
}

// NormalizeQuestionsInput applies the default count and focus and caps the count
func NormalizeQuestionsInput(input GenerateQuestionsInput) GenerateQuestionsInput {
	if input.Count <= 0 {
		input.Count = DefaultQuestionCount
	}
	input.Count = min(input.Count, MaxQuestionCount)
	if input.Focus == "" {
		input.Focus = FocusBehavioral
	}
	return input
}

// IsValidFocus reports whether focus is a supported question focus
func IsValidFocus(focus string) bool {
	switch focus {
	case FocusBehavioral, FocusTechnical, FocusMixed:
		return true
	default:
		return false
	}
}

// AnswerTooLong reports whether answer exceeds maxLength bytes. A non-positive
// maxLength disables the check.
func AnswerTooLong(answer string, maxLength int) bool {
	return maxLength > 0 && len(answer) > maxLength
}
