package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	abbreviationPattern = regexp.MustCompile(`\b(Mr|Mrs|Ms|Dr|Prof|Sr|Jr)\.`)
	sentenceSplitter    = regexp.MustCompile(`[.!?]+`)
	punctuationPattern  = regexp.MustCompile(`[^\w\s\p{Z}]`)
)

// minSentenceLength is the number of characters a fragment needs to count as a sentence.
const minSentenceLength = 10

// CountWords returns the number of whitespace separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountSentences returns the number of sentence fragments longer than ten
// characters. Honorific abbreviations such as "Dr." do not end a sentence.
func CountSentences(text string) int {
	cleaned := abbreviationPattern.ReplaceAllString(text, "$1")

	count := 0
	for _, fragment := range sentenceSplitter.Split(cleaned, -1) {
		if utf8.RuneCountInString(strings.TrimSpace(fragment)) > minSentenceLength {
			count++
		}
	}
	return count
}

// CountUniqueWords returns the number of distinct lowercase words longer than
// two characters that are not stop words.
func CountUniqueWords(text string) int {
	seen := make(map[string]struct{})
	for _, word := range normalizedWords(text) {
		if isStopWord(word) {
			continue
		}
		seen[word] = struct{}{}
	}
	return len(seen)
}

// RepetitionScore returns the fraction of distinct words longer than two
// characters that occur more than once. Text with no such words scores 1.
func RepetitionScore(text string) float64 {
	words := normalizedWords(text)
	if len(words) == 0 {
		return 1.0
	}

	frequency := make(map[string]int, len(words))
	for _, word := range words {
		frequency[word]++
	}

	repeated := 0
	for _, n := range frequency {
		if n > 1 {
			repeated++
		}
	}
	return float64(repeated) / float64(len(frequency))
}

// normalizedWords lowercases text, strips punctuation and drops words of two
// characters or fewer.
func normalizedWords(text string) []string {
	stripped := punctuationPattern.ReplaceAllString(strings.ToLower(text), "")

	fields := strings.Fields(stripped)
	words := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) > 2 {
			words = append(words, field)
		}
	}
	return words
}
