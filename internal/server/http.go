package server

import (
	"time"

	"interviewprep/internal/ai"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
)

// ValidateRequest represents the request body for the validate endpoint
type ValidateRequest struct {
	Answer        string `json:"answer"`
	AllowOverride *bool  `json:"allowOverride,omitempty"`
}

// FeedbackRequest represents the request body for the feedback endpoint
type FeedbackRequest struct {
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	AllowOverride  *bool  `json:"allowOverride,omitempty"`
	JobDescription string `json:"jobDescription,omitempty"`
}

// QuestionsRequest represents the request body for the questions endpoint
type QuestionsRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
	Count          int    `json:"count,omitempty"`
	Focus          string `json:"focus,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Validation thresholds, swapped when the config file changes
	Thresholds *config.ThresholdStore

	// AI services, nil when no API key is configured
	Questions *ai.Service
	Feedback  *ai.Service

	Logger *errors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
	Thresholds     *config.ThresholdStore
	Questions      *ai.Service
	Feedback       *ai.Service
}

// NewServerConfig derives the server settings from the application config
func NewServerConfig(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.Server.MaxBodySize,
		RateLimit:      &cfg.Server.RateLimit,
		Thresholds:     config.NewThresholdStore(cfg.Validation.Thresholds()),
	}
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *errors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	thresholds := cfg.Thresholds
	if thresholds == nil {
		thresholds = config.NewThresholdStore(appCfg.Validation.Thresholds())
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Thresholds:     thresholds,
		Questions:      cfg.Questions,
		Feedback:       cfg.Feedback,
		Logger:         logger,
	}
}
