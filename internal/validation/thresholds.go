// Package validation scores free-text interview answers for length, structure,
// vocabulary and low-effort spam. Every function is pure and safe for
// concurrent use.
package validation

import "fmt"

// Thresholds are the minimum counts an answer must reach to be considered valid.
type Thresholds struct {
	MinWordCount     int `json:"minWordCount" yaml:"minWordCount" mapstructure:"minWordCount"`
	MinSentenceCount int `json:"minSentenceCount" yaml:"minSentenceCount" mapstructure:"minSentenceCount"`
	MinUniqueWords   int `json:"minUniqueWords" yaml:"minUniqueWords" mapstructure:"minUniqueWords"`
}

// DefaultThresholds returns the thresholds used when a caller supplies none.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWordCount:     50,
		MinSentenceCount: 3,
		MinUniqueWords:   15,
	}
}

// Validate reports whether every threshold is a positive count.
func (t Thresholds) Validate() error {
	if t.MinWordCount <= 0 {
		return fmt.Errorf("minWordCount must be positive, got %d", t.MinWordCount)
	}
	if t.MinSentenceCount <= 0 {
		return fmt.Errorf("minSentenceCount must be positive, got %d", t.MinSentenceCount)
	}
	if t.MinUniqueWords <= 0 {
		return fmt.Errorf("minUniqueWords must be positive, got %d", t.MinUniqueWords)
	}
	return nil
}

// Merge returns t with every non-positive field replaced by the matching field of fallback.
func (t Thresholds) Merge(fallback Thresholds) Thresholds {
	if t.MinWordCount <= 0 {
		t.MinWordCount = fallback.MinWordCount
	}
	if t.MinSentenceCount <= 0 {
		t.MinSentenceCount = fallback.MinSentenceCount
	}
	if t.MinUniqueWords <= 0 {
		t.MinUniqueWords = fallback.MinUniqueWords
	}
	return t
}
