package cli

import (
	"fmt"

	"interviewprep/internal/ai"
	"interviewprep/internal/config"
	"interviewprep/internal/errors"
	"interviewprep/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for answer checks and AI coaching",
	Long: `Start an HTTP server that provides REST API endpoints for interview practice.

Available endpoints:
- POST /validate: Check an answer before submission
- POST /feedback: AI feedback on an answer that passes the checks
- POST /questions: Generate practice questions from a resume and job description
- GET /health: Health check endpoint
- GET /stats: Server statistics, active thresholds and rate limiting info

/feedback and /questions need an AI API key and answer 503 without one.

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	applyServeFlags(cmd.Flags(), &cfg.Server)

	// Validate TLS configuration after applying overrides
	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	serverCfg := server.NewServerConfig(cfg, Version)

	questions, feedback, err := newServeAIServices(cfg, logger)
	if err != nil {
		return err
	}
	serverCfg.Questions = questions
	serverCfg.Feedback = feedback

	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}

// applyServeFlags copies explicitly set flags over the loaded server config
func applyServeFlags(flags *pflag.FlagSet, srv *config.ServerConfig) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"port", &srv.Port},
		{"host", &srv.Host},
		{"tls-mode", &srv.TLS.Mode},
		{"cert-file", &srv.TLS.CertFile},
		{"key-file", &srv.TLS.KeyFile},
		{"ca-file", &srv.TLS.CAFile},
	}

	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		if value, err := flags.GetString(o.flag); err == nil {
			*o.target = value
		}
	}
}

// newServeAIServices creates the AI services for every operation that has an
// API key. Without any key the server still serves /validate.
func newServeAIServices(cfg *config.Config, logger *errors.Logger) (*ai.Service, *ai.Service, error) {
	if err := cfg.RequireAIKey(); err != nil {
		logger.Warn("AI coaching disabled", "reason", err.Error())
		return nil, nil, nil
	}

	questionsAIConfig := cfg.GetQuestionsConfig()
	questions, err := newServeAIService(cfg, &questionsAIConfig, config.OperationQuestions, logger)
	if err != nil {
		return nil, nil, err
	}

	feedbackAIConfig := cfg.GetFeedbackConfig()
	feedback, err := newServeAIService(cfg, &feedbackAIConfig, config.OperationFeedback, logger)
	if err != nil {
		if questions != nil {
			_ = questions.Close()
		}
		return nil, nil, err
	}

	return questions, feedback, nil
}

func newServeAIService(cfg *config.Config, opCfg *config.OperationAIConfig, operation string, logger *errors.Logger) (*ai.Service, error) {
	if opCfg.APIKey == "" {
		logger.Warn("No API key for AI operation, endpoint disabled", "operation", operation)
		return nil, nil
	}

	service, err := ai.NewService(opCfg, operation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s AI service: %w", operation, err)
	}
	if timeout := cfg.Observability.HealthCheck.AIModelCheckTimeout; timeout > 0 {
		service.SetModelCheckTimeout(timeout)
	}
	return service, nil
}
