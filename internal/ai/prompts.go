package ai

import (
	"fmt"
	"strings"

	"interviewprep/internal/config"
	"interviewprep/internal/types"
)

// Prompts holds the system instruction and user template for one operation
type Prompts struct {
	System string
	User   string
}

// DefaultQuestionsPrompts generate practice questions.
// User template arguments: %[1]d count, %[2]s focus, %[3]s resume, %[4]s job description.
var DefaultQuestionsPrompts = Prompts{
	System: `You are an experienced hiring manager and interview coach. You prepare candidates for real interviews by asking the questions an interviewer for the target role would actually ask.

Your principles:
- Ground every question in the job description and the candidate's real experience
- Prefer open questions that invite a story told with the STAR method (Situation, Task, Action, Result)
- Never invent experience the resume does not contain
- Keep questions concise and unambiguous`,

	User: `Prepare %[1]d practice interview questions for the candidate below.

**Focus:** %[2]s
- "behavioral": questions about past situations, teamwork, conflict, ownership and impact
- "technical": questions probing the skills and technologies the role requires
- "mixed": a balance of behavioral and technical questions

For each question provide:
1. **category**: "behavioral" or "technical"
2. **question**: the question as the interviewer would ask it
3. **whyAsked**: why an interviewer for this role would ask it
4. **tips**: which experience from the resume to draw on and what to emphasize

Also name the target **role** from the job description.

**Resume:**
-----
%[3]s
-----

**Job Description:**
-----
%[4]s
-----`,
}

// DefaultFeedbackPrompts review an answer to a practice question.
// User template arguments: %[1]s question, %[2]s answer, %[3]s job description, %[4]s measurements.
var DefaultFeedbackPrompts = Prompts{
	System: `You are a supportive but honest interview coach. You review written answers to interview questions and help candidates improve them.

Your principles:
- Judge the answer against the STAR method (Situation, Task, Action, Result)
- Be specific: quote or reference the candidate's own words
- Never add achievements the candidate did not mention to the suggested answer
- Keep feedback actionable and encouraging`,

	User: `Review the candidate's answer to the interview question below.

**Tasks:**

1. **overallScore**: rate the answer from 0 to 100
2. **summary**: two or three sentences on how the answer would land with an interviewer
3. **strengths**: what the answer does well
4. **improvements**: concrete changes that would make it stronger
5. **starBreakdown**: for each of situation, task, action and result, describe how well the answer covers it ("missing" if absent)
6. **suggestedAnswer**: a rewritten answer that keeps the candidate's facts and follows the STAR method

**Question:**
-----
%[1]s
-----

**Answer:**
-----
%[2]s
-----

**Job Description:**
-----
%[3]s
-----

**Answer measurements:**
%[4]s`,
}

const missingJobDescription = "Not provided"

// resolvePrompts overlays configured prompts on the defaults. File contents
// have already replaced the inline values when the config was loaded.
func resolvePrompts(custom config.PromptConfig, defaults Prompts) Prompts {
	resolved := defaults
	if custom.System != "" {
		resolved.System = custom.System
	}
	if custom.User != "" {
		resolved.User = custom.User
	}
	return resolved
}

// buildQuestionsPrompt formats the user prompt for question generation
func buildQuestionsPrompt(template string, input types.GenerateQuestionsInput) string {
	return fmt.Sprintf(template, input.Count, input.Focus, input.Resume, input.JobDescription)
}

// buildFeedbackPrompt formats the user prompt for answer feedback
func buildFeedbackPrompt(template string, input types.AnswerFeedbackInput) string {
	jobDescription := input.JobDescription
	if strings.TrimSpace(jobDescription) == "" {
		jobDescription = missingJobDescription
	}
	return fmt.Sprintf(template, input.Question, input.Answer, jobDescription, describeMeasurements(input))
}

// describeMeasurements summarizes the validator result for the model
func describeMeasurements(input types.AnswerFeedbackInput) string {
	r := input.Validation
	var b strings.Builder
	fmt.Fprintf(&b, "- Words: %d\n", r.WordCount)
	fmt.Fprintf(&b, "- Sentences: %d\n", r.SentenceCount)
	fmt.Fprintf(&b, "- Unique words: %d\n", r.UniqueWordCount)
	fmt.Fprintf(&b, "- Repetition score: %.2f\n", r.Metrics.RepetitionScore)
	if len(r.Warnings) == 0 {
		b.WriteString("- Warnings: none")
		return b.String()
	}
	b.WriteString("- Warnings:")
	for _, warning := range r.Warnings {
		b.WriteString("\n  - ")
		b.WriteString(warning)
	}
	return b.String()
}
