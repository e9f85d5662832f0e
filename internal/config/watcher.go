package config

import (
	"sync/atomic"

	"interviewprep/internal/errors"
	"interviewprep/internal/validation"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ThresholdStore holds the validation thresholds currently in effect. It is
// safe for concurrent use.
type ThresholdStore struct {
	current atomic.Pointer[validation.Thresholds]
}

// NewThresholdStore creates a store holding t
func NewThresholdStore(t validation.Thresholds) *ThresholdStore {
	s := &ThresholdStore{}
	s.current.Store(&t)
	return s
}

// Load returns the active thresholds
func (s *ThresholdStore) Load() validation.Thresholds {
	return *s.current.Load()
}

// Store replaces the active thresholds when t is valid
func (s *ThresholdStore) Store(t validation.Thresholds) error {
	if err := t.Validate(); err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidThresholds, "rejected validation thresholds", err)
	}
	s.current.Store(&t)
	return nil
}

// WatchThresholds reloads validation thresholds into store whenever the
// config file changes. It reports false when no config file was read.
func (c *Config) WatchThresholds(store *ThresholdStore, logger *errors.Logger) bool {
	if c.source == nil || c.source.ConfigFileUsed() == "" {
		return false
	}

	v := c.source
	v.OnConfigChange(func(e fsnotify.Event) {
		reloadThresholds(v, e, store, logger)
	})
	v.WatchConfig()

	logger.Info("Watching config file for threshold changes", "file", v.ConfigFileUsed())
	return true
}

func reloadThresholds(v *viper.Viper, e fsnotify.Event, store *ThresholdStore, logger *errors.Logger) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}

	var vc ValidationConfig
	if err := v.UnmarshalKey("validation", &vc); err != nil {
		logger.LogError(err, "Failed to decode validation config after change", "file", e.Name)
		return
	}

	previous := store.Load()
	next := vc.Thresholds()
	if next == previous {
		return
	}
	if err := store.Store(next); err != nil {
		logger.LogError(err, "Keeping previous validation thresholds", "file", e.Name)
		return
	}

	logger.Info("Validation thresholds reloaded",
		"file", e.Name,
		"min_words", next.MinWordCount,
		"min_sentences", next.MinSentenceCount,
		"min_unique_words", next.MinUniqueWords)
}
