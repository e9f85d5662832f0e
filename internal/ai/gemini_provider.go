package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"interviewprep/internal/config"
	appErrors "interviewprep/internal/errors"
	"interviewprep/internal/types"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

const (
	defaultModelCheckTimeout = 10 * time.Second
	maxBackoff               = 30 * time.Second
)

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client            *genai.Client
	config            *config.OperationAIConfig
	prompts           Prompts
	circuitBreaker    *CircuitBreaker[*genai.GenerateContentResponse]
	modelBreaker      *CircuitBreaker[*genai.Model]
	modelCheckTimeout time.Duration
	logger            *appErrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	defaults := DefaultQuestionsPrompts
	if operationType == config.OperationFeedback {
		defaults = DefaultFeedbackPrompts
	}

	return &GeminiProvider{
		client:            client,
		config:            cfg,
		prompts:           resolvePrompts(cfg.CustomPrompts, defaults),
		circuitBreaker:    NewAICircuitBreaker(operationType, cfg, logger),
		modelBreaker:      NewModelCircuitBreaker(operationType, cfg, logger),
		modelCheckTimeout: defaultModelCheckTimeout,
		logger:            logger,
	}, nil
}

// SetModelCheckTimeout changes how long GetModelInfo waits for the API
func (g *GeminiProvider) SetModelCheckTimeout(timeout time.Duration) {
	if timeout > 0 {
		g.modelCheckTimeout = timeout
	}
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// backoffDelay returns the wait before a retry: exponential with up to 10% jitter, capped at maxBackoff
func backoffDelay(attempt int) time.Duration {
	baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	jitter := time.Duration(0)
	if jitterMax := int64(float64(baseDelay) * 0.1); jitterMax > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			jitter = time.Duration(n.Int64())
		}
	}
	return min(baseDelay+jitter, maxBackoff)
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error
	maxRetries := *g.config.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"error", lastErr.Error())

			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, maxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Timeouts, refused connections and resets are all worth another attempt
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return isRetryableStatus(genaiErr.Code)
	}

	return false
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// isBreakerRejection reports whether err came from an open or saturated breaker
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	ctx context.Context,
	g *GeminiProvider,
	operationName string,
	userPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("interviewprep.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && g.prompts.System != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(g.prompts.System, genai.RoleUser)
	}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		switch {
		case isBreakerRejection(err):
			return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIUnavailable, "AI service temporarily unavailable for "+operationName, err)
		case errors.Is(err, context.DeadlineExceeded):
			return output, nil, appErrors.NewAIError(appErrors.ErrCodeAITimeout, "AI request timed out for "+operationName, err)
		default:
			return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
		}
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIResponseInvalid, "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// GenerateQuestions implements AIProvider interface for practice question generation
func (g *GeminiProvider) GenerateQuestions(ctx context.Context, input types.GenerateQuestionsInput) (types.QuestionSetOutput, *TokenUsage, error) {
	input = types.NormalizeQuestionsInput(input)

	output, tokenUsage, err := executeAIOperation[types.QuestionSetOutput](
		ctx,
		g,
		"generate_questions",
		buildQuestionsPrompt(g.prompts.User, input),
		buildQuestionsSchema(),
		attribute.Int("input.resume_length", len(input.Resume)),
		attribute.Int("input.job_length", len(input.JobDescription)),
		attribute.Int("input.count", input.Count),
		attribute.String("input.focus", input.Focus),
	)
	if err != nil {
		return types.QuestionSetOutput{}, nil, err
	}

	output = finalizeQuestions(output, input.Count)

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.question_count", len(output.Questions)))
	}

	return output, tokenUsage, nil
}

// ReviewAnswer implements AIProvider interface for answer feedback
func (g *GeminiProvider) ReviewAnswer(ctx context.Context, input types.AnswerFeedbackInput) (types.AnswerFeedbackOutput, *TokenUsage, error) {
	output, tokenUsage, err := executeAIOperation[types.AnswerFeedbackOutput](
		ctx,
		g,
		"review_answer",
		buildFeedbackPrompt(g.prompts.User, input),
		buildFeedbackSchema(),
		attribute.Int("input.question_length", len(input.Question)),
		attribute.Int("input.answer_words", input.Validation.WordCount),
		attribute.Bool("input.answer_valid", input.Validation.IsValid),
	)
	if err != nil {
		return types.AnswerFeedbackOutput{}, nil, err
	}

	output.OverallScore = max(0, min(output.OverallScore, 100))

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("output.overall_score", output.OverallScore))
	}

	return output, tokenUsage, nil
}

// finalizeQuestions trims the set to count, normalizes categories and assigns missing IDs
func finalizeQuestions(output types.QuestionSetOutput, count int) types.QuestionSetOutput {
	if len(output.Questions) > count {
		output.Questions = output.Questions[:count]
	}
	for i := range output.Questions {
		q := &output.Questions[i]
		q.Category = strings.ToLower(strings.TrimSpace(q.Category))
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
	}
	return output
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// The genai client holds no connections between requests
	return nil
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// buildQuestionsSchema creates the schema for question generation requests
func buildQuestionsSchema() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"role": {Type: genai.TypeString},
				"questions": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"category": {
								Type: genai.TypeString,
								Enum: []string{types.FocusBehavioral, types.FocusTechnical},
							},
							"question": {Type: genai.TypeString},
							"whyAsked": {Type: genai.TypeString},
							"tips":     {Type: genai.TypeString},
						},
						Required: []string{"category", "question", "whyAsked", "tips"},
					},
				},
			},
			Required: []string{"role", "questions"},
		},
	}
}

// buildFeedbackSchema creates the schema for answer feedback requests
func buildFeedbackSchema() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"overallScore": {Type: genai.TypeInteger},
				"summary":      {Type: genai.TypeString},
				"strengths":    stringArraySchema(),
				"improvements": stringArraySchema(),
				"starBreakdown": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"situation": {Type: genai.TypeString},
						"task":      {Type: genai.TypeString},
						"action":    {Type: genai.TypeString},
						"result":    {Type: genai.TypeString},
					},
					Required: []string{"situation", "task", "action", "result"},
				},
				"suggestedAnswer": {Type: genai.TypeString},
			},
			Required: []string{"overallScore", "summary", "strengths", "improvements", "starBreakdown", "suggestedAnswer"},
		},
	}
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
