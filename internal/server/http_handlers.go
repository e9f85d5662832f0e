package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"interviewprep/internal/ai"
)

const defaultHealthCheckTimeout = 15 * time.Second

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if timeout := s.AppConfig.Observability.HealthCheck.Timeout; timeout > 0 {
		return timeout
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports service health including AI model and circuit breaker status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "interviewprep",
		"version": s.Version,
	}

	models, modelsHealthy := s.checkAIModelsHealth(r.Context())
	breakers, breakersHealthy := s.checkCircuitBreakerHealth()
	response["ai_models"] = models
	response["circuit_breakers"] = breakers

	status := http.StatusOK
	if !modelsHealthy || !breakersHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}

	if err := writeJSONResponse(w, status, response); err != nil {
		s.Logger.LogError(err, "Failed to encode health response")
	}
}

// checkAIModelsHealth checks the model of every configured AI operation.
// Operations without a service are reported but do not degrade health.
func (s *Server) checkAIModelsHealth(ctx context.Context) (map[string]any, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.getHealthCheckTimeout())
	defer cancel()

	healthy := true
	aiStatus := make(map[string]any)
	for _, op := range s.aiOperations() {
		if op.service == nil {
			aiStatus[op.name] = map[string]any{
				"available":  false,
				"configured": false,
			}
			continue
		}

		modelInfo := op.service.GetModelInfo(ctx)
		if modelInfo == nil {
			modelInfo = &ai.ModelInfo{Error: "model information unavailable"}
		}
		if !modelInfo.Available {
			healthy = false
		}
		aiStatus[op.name] = modelInfo
	}

	return aiStatus, healthy
}

// checkCircuitBreakerHealth reports circuit breaker state for every configured AI operation
func (s *Server) checkCircuitBreakerHealth() (map[string]any, bool) {
	healthy := true
	status := make(map[string]any)
	for _, op := range s.aiOperations() {
		if op.service == nil {
			continue
		}

		stats := op.service.CircuitBreakerStats()
		if stats == nil {
			status[op.name] = map[string]any{"enabled": false}
			continue
		}
		if ok, _ := stats["overall_healthy"].(bool); !ok {
			healthy = false
		}
		status[op.name] = stats
	}

	return status, healthy
}

// statsHandler provides server statistics including rate limiting info and active thresholds
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	thresholds := s.Thresholds.Load()

	response := map[string]any{
		"service": "interviewprep",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
		"validation": map[string]any{
			"min_word_count":     thresholds.MinWordCount,
			"min_sentence_count": thresholds.MinSentenceCount,
			"min_unique_words":   thresholds.MinUniqueWords,
			"allow_override":     s.AppConfig.Validation.AllowOverride,
			"max_answer_length":  s.AppConfig.Validation.MaxAnswerLength,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if err := writeJSONResponse(w, http.StatusOK, response); err != nil {
		s.Logger.LogError(err, "Failed to encode stats response")
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}
	defer func() { _ = r.Body.Close() }()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeJSONResponse writes v as a JSON body with the given status code
func writeJSONResponse(w http.ResponseWriter, statusCode int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	_ = writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   error,
		Message: message,
	})
}
