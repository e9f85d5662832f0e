package config

import "fmt"

// AI operation names
const (
	OperationQuestions = "questions"
	OperationFeedback  = "feedback"
)

// Operations lists every AI operation in a stable order
func Operations() []string {
	return []string{OperationQuestions, OperationFeedback}
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// applyPromptFallbacks fills prompts missing on the operation from the global prompt set
func applyPromptFallbacks(op *PromptConfig, global PromptConfig) {
	if op.System == "" {
		op.System = global.System
	}
	if op.User == "" {
		op.User = global.User
	}
	if op.SystemFile == "" {
		op.SystemFile = global.SystemFile
	}
	if op.UserFile == "" {
		op.UserFile = global.UserFile
	}
}

// GetQuestionsConfig returns the AI configuration for question generation with fallback to global config
func (c *Config) GetQuestionsConfig() OperationAIConfig {
	config := c.AI.Questions
	c.applyOperationDefaults(&config)
	applyPromptFallbacks(&config.CustomPrompts, c.AI.CustomPrompts.Questions)
	return config
}

// GetFeedbackConfig returns the AI configuration for answer feedback with fallback to global config
func (c *Config) GetFeedbackConfig() OperationAIConfig {
	config := c.AI.Feedback
	c.applyOperationDefaults(&config)
	applyPromptFallbacks(&config.CustomPrompts, c.AI.CustomPrompts.Feedback)
	return config
}

// GetOperationConfig returns the resolved configuration for the named operation
func (c *Config) GetOperationConfig(operation string) (OperationAIConfig, error) {
	switch operation {
	case OperationQuestions:
		return c.GetQuestionsConfig(), nil
	case OperationFeedback:
		return c.GetFeedbackConfig(), nil
	default:
		return OperationAIConfig{}, fmt.Errorf("unknown AI operation: %s", operation)
	}
}
