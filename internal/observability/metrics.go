package observability

import (
	"context"
	"fmt"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricQuestionsGenerated = "questions_generated"
	MetricFeedbackProduced   = "feedback_produced"
	MetricRateLimitHit       = "rate_limit_hit"
)

// Answer outcomes recorded by RecordAnswerValidation
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeBlocked = "blocked"
)

// Metrics holds all custom metrics for interviewprep
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Answer validation metrics
	AnswersValidated metric.Int64Counter
	AnswerWordCount  metric.Int64Histogram
	AnswerWarnings   metric.Int64Counter

	// Coaching metrics
	QuestionsGenerated metric.Int64Counter
	FeedbackProduced   metric.Int64Counter

	// Rate limiting metrics
	RateLimitHits metric.Int64Counter
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// newMetrics creates every custom instrument on meter
func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createAnswerMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createCoachingMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createRateLimitMetrics(meter); err != nil {
		return nil, err
	}

	return m, nil
}

// createAIMetrics creates AI-related metrics
func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"interviewprep_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"interviewprep_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"interviewprep_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"interviewprep_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	return nil
}

// createAnswerMetrics creates answer validation metrics
func (m *Metrics) createAnswerMetrics(meter metric.Meter) error {
	var err error

	m.AnswersValidated, err = meter.Int64Counter(
		"interviewprep_answers_validated_total",
		metric.WithDescription("Total number of answers validated, by outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create answers validated metric: %w", err)
	}

	m.AnswerWordCount, err = meter.Int64Histogram(
		"interviewprep_answer_word_count",
		metric.WithDescription("Word count of validated answers"),
		metric.WithUnit("{word}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create answer word count metric: %w", err)
	}

	m.AnswerWarnings, err = meter.Int64Counter(
		"interviewprep_answer_warnings_total",
		metric.WithDescription("Total number of warnings raised on validated answers"),
	)
	if err != nil {
		return fmt.Errorf("failed to create answer warnings metric: %w", err)
	}

	return nil
}

// createCoachingMetrics creates question generation and feedback metrics
func (m *Metrics) createCoachingMetrics(meter metric.Meter) error {
	var err error

	m.QuestionsGenerated, err = meter.Int64Counter(
		"interviewprep_questions_generated_total",
		metric.WithDescription("Total number of practice questions generated"),
	)
	if err != nil {
		return fmt.Errorf("failed to create questions generated metric: %w", err)
	}

	m.FeedbackProduced, err = meter.Int64Counter(
		"interviewprep_feedback_produced_total",
		metric.WithDescription("Total number of answer feedback reports produced"),
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback produced metric: %w", err)
	}

	return nil
}

// createRateLimitMetrics creates rate limiting metrics
func (m *Metrics) createRateLimitMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"interviewprep_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	return nil
}

// TrackAIOperationWithTokens instruments an AI operation with tracing, metrics, and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		// Metrics not initialized, just run the function
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := om.Tracer("interviewprep.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	if m.isAIMetricsEnabled(om) {
		m.recordAIMetrics(ctx, operation, err, duration, result, om, span)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

// isAIMetricsEnabled checks if AI metrics are enabled in the configuration
func (m *Metrics) isAIMetricsEnabled(om *ObservabilityManager) bool {
	if om.fullConfig == nil {
		return true
	}
	return om.fullConfig.Observability.CustomMetrics.AIOperations.Enabled
}

// recordAIMetrics records all AI-related metrics
func (m *Metrics) recordAIMetrics(ctx context.Context, operation string, err error, duration float64, result *AIOperationResult, om *ObservabilityManager, span oteltrace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.recordTokenUsage(ctx, result, attrs, om, span)
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	span.SetAttributes(attrs...)
}

// recordTokenUsage records token usage metrics and span attributes
func (m *Metrics) recordTokenUsage(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, om *ObservabilityManager, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}

	if om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.AIOperations.TrackTokenUsage {
		m.recordTokenMetrics(ctx, result.TokenUsage, attrs)
	}

	// Traces always carry token usage for debugging
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", result.TokenUsage.InputTokens),
		attribute.Int64("ai.tokens.output", result.TokenUsage.OutputTokens),
		attribute.Int64("ai.tokens.total", result.TokenUsage.TotalTokens),
	)
}

// recordTokenMetrics records one histogram sample per token type
func (m *Metrics) recordTokenMetrics(ctx context.Context, tokenUsage *TokenUsage, attrs []attribute.KeyValue) {
	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", tokenUsage.InputTokens},
		{"output", tokenUsage.OutputTokens},
		{"total", tokenUsage.TotalTokens},
	}

	for _, tt := range tokenTypes {
		tokenAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
		tokenAttrs = append(tokenAttrs, attrs...)
		tokenAttrs = append(tokenAttrs, attribute.String("token_type", tt.tokenType))
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
	}
}

// customMetrics returns the metric toggles and whether any were configured
func (om *ObservabilityManager) customMetrics() (config.CustomMetricsConfig, bool) {
	if om.fullConfig == nil {
		return config.CustomMetricsConfig{}, false
	}
	return om.fullConfig.Observability.CustomMetrics, true
}

// AnswerOutcome classifies a validation result for metrics
func AnswerOutcome(result validation.Result, blocked bool) string {
	switch {
	case blocked:
		return OutcomeBlocked
	case result.IsValid:
		return OutcomeValid
	default:
		return OutcomeInvalid
	}
}

// RecordAnswerValidation records the outcome, length and warnings of a validated answer
func (m *Metrics) RecordAnswerValidation(ctx context.Context, result validation.Result, blocked bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if m.AnswersValidated == nil {
		return
	}

	toggles, configured := om.customMetrics()
	answers := toggles.Answers
	if configured && !answers.Enabled {
		return
	}
	trackAll := !configured

	if trackAll || answers.TrackOutcomes {
		attrs := append([]attribute.KeyValue{
			attribute.String("outcome", AnswerOutcome(result, blocked)),
		}, attributes...)
		m.AnswersValidated.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if trackAll || answers.TrackWordCounts {
		m.AnswerWordCount.Record(ctx, int64(result.WordCount), metric.WithAttributes(attributes...))
	}
	if (trackAll || answers.TrackSpamSignals) && len(result.Warnings) > 0 {
		m.AnswerWarnings.Add(ctx, int64(len(result.Warnings)), metric.WithAttributes(attributes...))
	}
}

// RecordBusinessMetric records coaching and infrastructure counters
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	switch metricType {
	case MetricQuestionsGenerated:
		m.recordCoaching(ctx, m.QuestionsGenerated, attrs, om)
	case MetricFeedbackProduced:
		m.recordCoaching(ctx, m.FeedbackProduced, attrs, om)
	case MetricRateLimitHit:
		m.recordRateLimitHit(ctx, attrs, om)
	}
}

// recordCoaching counts an AI coaching result when AI operation metrics are enabled
func (m *Metrics) recordCoaching(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue, om *ObservabilityManager) {
	if counter == nil || !m.isAIMetricsEnabled(om) {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// recordRateLimitHit records rate limit hit metric
func (m *Metrics) recordRateLimitHit(ctx context.Context, attrs []attribute.KeyValue, om *ObservabilityManager) {
	if m.RateLimitHits == nil {
		return
	}
	toggles, configured := om.customMetrics()
	if configured && (!toggles.Infrastructure.Enabled || !toggles.Infrastructure.TrackRateLimits) {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}
