package ai

import (
	"context"
	"fmt"
	"time"

	"interviewprep/internal/config"
	"interviewprep/internal/errors"
)

// Service handles AI operations for interview preparation
type Service struct {
	Provider  AIProvider // Exported for access from server package
	operation string
	config    *config.OperationAIConfig
	logger    *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	var provider AIProvider
	var err error

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, operationType, logger), nil
}

// NewServiceWithProvider wraps an existing provider, typically a test double
func NewServiceWithProvider(provider AIProvider, cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		operation: operationType,
		config:    cfg,
		logger:    logger,
	}
}

// Operation returns the operation this service was configured for
func (s *Service) Operation() string {
	return s.operation
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// CircuitBreakerStats returns breaker statistics when the provider keeps them
func (s *Service) CircuitBreakerStats() map[string]any {
	if reporter, ok := s.Provider.(interface{ GetCircuitBreakerStats() map[string]any }); ok {
		return reporter.GetCircuitBreakerStats()
	}
	return nil
}

// SetModelCheckTimeout bounds model availability checks when the provider supports it
func (s *Service) SetModelCheckTimeout(timeout time.Duration) {
	if setter, ok := s.Provider.(interface{ SetModelCheckTimeout(time.Duration) }); ok {
		setter.SetModelCheckTimeout(timeout)
	}
}

// Close releases the provider
func (s *Service) Close() error {
	return s.Provider.Close()
}
