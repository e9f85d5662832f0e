package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"interviewprep/internal/ai"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/observability"
	"interviewprep/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const apiTracerName = "interviewprep.api"

// createValidateHandler checks an answer without calling the AI
func (s *Server) createValidateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(apiTracerName).Start(r.Context(), "api.validate")
		defer span.End()

		var req ValidateRequest
		if err := parseJSONRequest(r, &req); err != nil {
			recordValidationFailure(span, err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		check, ok := s.checkAnswer(ctx, w, span, req.Answer, req.AllowOverride, om, "validate")
		if !ok {
			return
		}

		s.Logger.Info("Answer validated",
			"request_id", requestIDFromContext(ctx),
			"word_count", check.Result.WordCount,
			"is_valid", check.Result.IsValid,
			"blocked", check.Blocked)

		span.SetAttributes(attribute.Bool("success", true))
		if err := writeJSONResponse(w, http.StatusOK, check); err != nil {
			span.RecordError(err)
		}
	}
}

// createFeedbackHandler validates an answer and, unless it is blocked, asks the AI coach for feedback
func (s *Server) createFeedbackHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(apiTracerName).Start(r.Context(), "api.feedback")
		defer span.End()

		var req FeedbackRequest
		if err := parseJSONRequest(r, &req); err != nil {
			recordValidationFailure(span, err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Question) == "" {
			recordValidationFailure(span, fmt.Errorf("missing question"))
			writeErrorResponse(w, "Missing question", "question field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Answer) == "" {
			recordValidationFailure(span, fmt.Errorf("missing answer"))
			writeErrorResponse(w, "Missing answer", "answer field is required", http.StatusBadRequest)
			return
		}

		check, ok := s.checkAnswer(ctx, w, span, req.Answer, req.AllowOverride, om, "feedback")
		if !ok {
			return
		}

		if check.Blocked {
			s.Logger.Info("Answer blocked before feedback",
				"request_id", requestIDFromContext(ctx),
				"word_count", check.Result.WordCount,
				"repetition_score", check.Result.Metrics.RepetitionScore)
			span.SetAttributes(attribute.Bool("answer.blocked", true))
			if err := writeJSONResponse(w, http.StatusUnprocessableEntity, check); err != nil {
				span.RecordError(err)
			}
			return
		}

		if s.Feedback == nil {
			writeAIUnavailable(w, span, config.OperationFeedback)
			return
		}

		input := types.AnswerFeedbackInput{
			Question:       req.Question,
			Answer:         req.Answer,
			JobDescription: req.JobDescription,
			Validation:     check.Result,
		}

		metrics := om.GetMetrics()
		var result types.AnswerFeedbackOutput
		err := metrics.TrackAIOperationWithTokens(ctx, config.OperationFeedback, func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := s.Feedback.Provider.ReviewAnswer(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, observability.MetricFeedbackProduced, false, om)
			s.Logger.LogError(err, "Answer feedback failed", "request_id", requestIDFromContext(ctx))
			writeErrorResponse(w, "Failed to review answer", err.Error(), aiErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricFeedbackProduced, true, om,
			attribute.Int("overall_score", result.OverallScore))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("feedback.overall_score", result.OverallScore),
		)

		if err := writeJSONResponse(w, http.StatusOK, result); err != nil {
			span.RecordError(err)
		}
	}
}

// createQuestionsHandler generates practice questions from a resume and job description
func (s *Server) createQuestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(apiTracerName).Start(r.Context(), "api.questions")
		defer span.End()

		var req QuestionsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			recordValidationFailure(span, err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Resume) == "" {
			recordValidationFailure(span, fmt.Errorf("missing resume"))
			writeErrorResponse(w, "Missing resume", "resume field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			recordValidationFailure(span, fmt.Errorf("missing job description"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}
		if req.Count < 0 {
			recordValidationFailure(span, fmt.Errorf("negative count: %d", req.Count))
			writeErrorResponse(w, "Invalid count", "count must not be negative", http.StatusBadRequest)
			return
		}
		if req.Focus != "" && !types.IsValidFocus(req.Focus) {
			recordValidationFailure(span, fmt.Errorf("invalid focus: %s", req.Focus))
			writeErrorResponse(w, "Invalid focus",
				fmt.Sprintf("focus must be one of %s, %s or %s", types.FocusBehavioral, types.FocusTechnical, types.FocusMixed),
				http.StatusBadRequest)
			return
		}

		if s.Questions == nil {
			writeAIUnavailable(w, span, config.OperationQuestions)
			return
		}

		input := types.NormalizeQuestionsInput(types.GenerateQuestionsInput{
			Resume:         req.Resume,
			JobDescription: req.JobDescription,
			Count:          req.Count,
			Focus:          req.Focus,
		})

		span.SetAttributes(
			attribute.Int("request.resume_length", len(input.Resume)),
			attribute.Int("request.job_length", len(input.JobDescription)),
			attribute.Int("request.count", input.Count),
			attribute.String("request.focus", input.Focus),
		)

		metrics := om.GetMetrics()
		var result types.QuestionSetOutput
		err := metrics.TrackAIOperationWithTokens(ctx, config.OperationQuestions, func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := s.Questions.Provider.GenerateQuestions(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, observability.MetricQuestionsGenerated, false, om)
			s.Logger.LogError(err, "Question generation failed", "request_id", requestIDFromContext(ctx))
			writeErrorResponse(w, "Failed to generate questions", err.Error(), aiErrorStatus(err))
			return
		}

		metrics.RecordBusinessMetric(ctx, observability.MetricQuestionsGenerated, true, om,
			attribute.Int("question_count", len(result.Questions)),
			attribute.String("focus", input.Focus))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.question_count", len(result.Questions)),
		)

		if err := writeJSONResponse(w, http.StatusOK, result); err != nil {
			span.RecordError(err)
		}
	}
}

// checkAnswer validates answer with the active thresholds and records the
// outcome. It writes an error response and returns false when the answer
// cannot be checked.
func (s *Server) checkAnswer(ctx context.Context, w http.ResponseWriter, span trace.Span, answer string, allowOverride *bool, om *observability.ObservabilityManager, endpoint string) (types.AnswerCheck, bool) {
	maxLength := s.AppConfig.Validation.MaxAnswerLength
	if types.AnswerTooLong(answer, maxLength) {
		recordValidationFailure(span, fmt.Errorf("answer too long: %d bytes", len(answer)))
		writeErrorResponse(w, "Answer too long", fmt.Sprintf("answer exceeds the limit of %d bytes", maxLength), http.StatusBadRequest)
		return types.AnswerCheck{}, false
	}

	override := s.AppConfig.Validation.Override(allowOverride != nil && *allowOverride)
	check := types.CheckAnswer(answer, s.Thresholds.Load(), override)

	om.GetMetrics().RecordAnswerValidation(ctx, check.Result, check.Blocked, om,
		attribute.String("endpoint", endpoint))

	span.SetAttributes(
		attribute.Int("answer.word_count", check.Result.WordCount),
		attribute.Int("answer.sentence_count", check.Result.SentenceCount),
		attribute.Int("answer.warning_count", len(check.Result.Warnings)),
		attribute.Bool("answer.valid", check.Result.IsValid),
		attribute.Bool("answer.override", override),
	)
	return check, true
}

// recordValidationFailure marks span as failed on bad client input
func recordValidationFailure(span trace.Span, err error) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "validation"))
}

// writeAIUnavailable reports an operation whose AI service was never configured
func writeAIUnavailable(w http.ResponseWriter, span trace.Span, operation string) {
	err := errors.NewAIError(errors.ErrCodeAIUnavailable, fmt.Sprintf("AI %s service is not configured", operation), nil)
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", "service_unavailable"))
	writeErrorResponse(w, "AI service unavailable", err.Message, http.StatusServiceUnavailable)
}

// aiErrorStatus maps an AI failure to the HTTP status returned to the client
func aiErrorStatus(err error) int {
	switch {
	case errors.HasCode(err, errors.ErrCodeAIUnavailable):
		return http.StatusServiceUnavailable
	case errors.HasCode(err, errors.ErrCodeAITimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// aiOperation pairs an operation name with its service for health reporting
type aiOperation struct {
	name    string
	service *ai.Service
}

func (s *Server) aiOperations() []aiOperation {
	return []aiOperation{
		{name: config.OperationQuestions, service: s.Questions},
		{name: config.OperationFeedback, service: s.Feedback},
	}
}
