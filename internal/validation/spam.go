package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Warning fragments that mark an answer as degenerate. ShouldBlockSubmission
// matches on these, so the warning texts below must keep containing them.
const (
	markerRepeatedPhrase = "Repeated phrase detected"
	markerLoremIpsum     = "Lorem Ipsum"
	markerKeyboardMash   = "keyboard mashing"
)

const (
	phraseWindow        = 3
	maxPhraseRepeats    = 10
	longWordLength      = 15
	maxLongWordRepeats  = 5
	maxLongWordFraction = 0.2
	mashRunLength       = 5
)

var loremIpsumPattern = regexp.MustCompile(`(?i)lorem\s+ipsum`)

// DetectSpamPatterns returns one warning per low-effort pattern found in text:
// a three word phrase repeated more than ten times, a long word dominating the
// answer, Lorem Ipsum filler, or a letter held down five or more times.
func DetectSpamPatterns(text string) []string {
	var warnings []string

	lower := strings.ToLower(text)
	tokens := strings.Fields(lower)

	if phrase, n, ok := findRepeatedPhrase(lower, tokens); ok {
		warnings = append(warnings, fmt.Sprintf("%s: %q appears %d times", markerRepeatedPhrase, phrase, n))
	}

	warnings = append(warnings, longWordWarnings(tokens)...)

	if loremIpsumPattern.MatchString(text) {
		warnings = append(warnings, fmt.Sprintf("Placeholder text detected (%s)", markerLoremIpsum))
	}

	if hasLetterRun(text, mashRunLength) {
		warnings = append(warnings, fmt.Sprintf("Repeated characters detected (possible %s)", markerKeyboardMash))
	}

	return warnings
}

// findRepeatedPhrase returns the first three word window that occurs in lower
// more than maxPhraseRepeats times.
func findRepeatedPhrase(lower string, tokens []string) (string, int, bool) {
	for i := 0; i+phraseWindow <= len(tokens); i++ {
		phrase := strings.Join(tokens[i:i+phraseWindow], " ")
		if n := strings.Count(lower, phrase); n > maxPhraseRepeats {
			return phrase, n, true
		}
	}
	return "", 0, false
}

// longWordWarnings reports, in order of first appearance, every word longer
// than longWordLength characters repeated enough to dominate the answer.
func longWordWarnings(tokens []string) []string {
	counts := make(map[string]int)
	var order []string
	for _, token := range tokens {
		if utf8.RuneCountInString(token) <= longWordLength {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	var warnings []string
	limit := float64(len(tokens)) * maxLongWordFraction
	for _, word := range order {
		n := counts[word]
		if n > maxLongWordRepeats && float64(n) > limit {
			warnings = append(warnings, fmt.Sprintf("Excessive repetition of word %q (%d times)", word, n))
		}
	}
	return warnings
}

// hasLetterRun reports whether text contains the same ASCII letter at least
// run times in a row, ignoring ASCII case.
func hasLetterRun(text string, run int) bool {
	var prev rune
	length := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if r < 'a' || r > 'z' {
			prev, length = 0, 0
			continue
		}
		if r == prev {
			length++
		} else {
			prev, length = r, 1
		}
		if length >= run {
			return true
		}
	}
	return false
}
