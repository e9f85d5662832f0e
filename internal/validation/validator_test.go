package validation

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

const starAnswer = "In my last role I noticed our release process was slow and error prone. " +
	"I was asked to reduce deployment failures before a major customer launch. " +
	"I automated builds with a pipeline, added integration checks, and trained teammates on rollback procedures. " +
	"As a result, failed deployments dropped by seventy percent and the launch shipped on schedule."

const shortAnswer = "I led a migration of our billing service to a new database. " +
	"The team finished two weeks early and customer complaints dropped noticeably afterwards."

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "whitespace only", text: "  \t\n ", expected: 0},
		{name: "single word", text: "hello", expected: 1},
		{name: "punctuation kept on tokens", text: "Hello, world!", expected: 2},
		{name: "mixed whitespace", text: " one\ttwo\n\nthree  four ", expected: 4},
		{name: "punctuation only", text: "!!! ??? ...", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.text); got != tt.expected {
				t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestCountSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "abbreviation does not split", text: "Dr. Smith gave a great talk about leadership and teamwork today.", expected: 1},
		{name: "several abbreviations", text: "Mr. Jones and Mrs. Lee met Prof. Kim at noon! Was the meeting useful? Yes.", expected: 2},
		{name: "short fragments ignored", text: "Yes. No. Maybe so.", expected: 0},
		{name: "runs of terminators", text: "This is the first sentence!!! And this is the second one?!", expected: 2},
		{name: "no terminator", text: "A sentence without a terminator", expected: 1},
		{name: "exactly ten characters", text: "abcdefghij.", expected: 0},
		{name: "eleven characters", text: "abcdefghijk.", expected: 1},
		{name: "punctuation only", text: "!!! ??? ...", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountSentences(tt.text); got != tt.expected {
				t.Errorf("CountSentences(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestCountUniqueWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty", text: "", expected: 0},
		{name: "stop words and short words dropped", text: "We built it for our customers.", expected: 2},
		{name: "case and punctuation folded", text: "Project, project! PROJECT? deadline.", expected: 2},
		{name: "only stop words", text: "the and for that with", expected: 0},
		{name: "star answer", text: starAnswer, expected: 33},
		{name: "non-breaking space separates words", text: "leadership\u00a0teamwork", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountUniqueWords(tt.text); got != tt.expected {
				t.Errorf("CountUniqueWords(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestRepetitionScore(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{name: "empty is maximally repetitive", text: "", expected: 1.0},
		{name: "only short words", text: "a an is it to", expected: 1.0},
		{name: "no repeats", text: "We built it for our customers.", expected: 0},
		{name: "stop words count", text: "the the cat", expected: 0.5},
		{name: "all repeated", text: "alpha beta alpha beta", expected: 1.0},
		{name: "non-breaking space separates words", text: "leadership\u00a0leadership", expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepetitionScore(tt.text); got != tt.expected {
				t.Errorf("RepetitionScore(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestDetectSpamPatterns(t *testing.T) {
	longWord := "supercalifragilistic"

	tests := []struct {
		name     string
		text     string
		contains []string
		count    int
	}{
		{name: "clean answer", text: starAnswer, count: 0},
		{name: "empty", text: "", count: 0},
		{
			name:     "repeated phrase over ten times",
			text:     strings.Repeat("i did it ", 11),
			contains: []string{"Repeated phrase detected", `"i did it"`},
			count:    1,
		},
		{name: "repeated phrase ten times", text: strings.Repeat("i did it ", 10), count: 0},
		{
			name:     "dominant long word",
			text:     strings.Repeat(longWord+" ", 6) + "one two three four",
			contains: []string{longWord, "6 times"},
			count:    1,
		},
		{
			name:  "long word diluted by other tokens",
			text:  strings.Repeat(longWord+" ", 6) + strings.Repeat("one two three four five ", 6),
			count: 0,
		},
		{
			name:     "every dominant long word reported",
			text:     strings.Repeat("extraordinarilyx ", 6) + strings.Repeat("incomprehensibly ", 6),
			contains: []string{"extraordinarilyx", "incomprehensibly"},
			count:    2,
		},
		{
			name:     "lorem ipsum",
			text:     "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
			contains: []string{"Lorem Ipsum"},
			count:    1,
		},
		{
			name:     "lorem ipsum across whitespace",
			text:     "LOREM\n\tIPSUM",
			contains: []string{"Lorem Ipsum"},
			count:    1,
		},
		{
			name:     "keyboard mashing",
			text:     "I was aaaaa confused",
			contains: []string{"keyboard mashing"},
			count:    1,
		},
		{
			name:     "keyboard mashing mixed case",
			text:     "zzZZz",
			contains: []string{"keyboard mashing"},
			count:    1,
		},
		{name: "four letters in a row", text: "aaaa bbbb", count: 0},
		{name: "digits are not letters", text: "1111111", count: 0},
		{name: "kelvin sign is not a letter k", text: strings.Repeat("\u212a", 5), count: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := DetectSpamPatterns(tt.text)
			if len(warnings) != tt.count {
				t.Fatalf("expected %d warnings, got %d: %v", tt.count, len(warnings), warnings)
			}
			joined := strings.Join(warnings, "\n")
			for _, want := range tt.contains {
				if !strings.Contains(joined, want) {
					t.Errorf("expected warnings to contain %q, got %v", want, warnings)
				}
			}
		})
	}
}

func TestValidateAnswer_Deterministic(t *testing.T) {
	inputs := []string{"", starAnswer, shortAnswer, "Lorem ipsum dolor sit amet", strings.Repeat("i did it ", 12)}
	for _, in := range inputs {
		first := Validate(in)
		second := Validate(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Validate(%q) is not deterministic: %+v vs %+v", in, first, second)
		}
	}
}

func TestValidateAnswer_Empty(t *testing.T) {
	result := Validate("")

	if result.WordCount != 0 || result.SentenceCount != 0 || result.UniqueWordCount != 0 {
		t.Errorf("expected zero counts, got %+v", result)
	}
	if result.Metrics.RepetitionScore != 1.0 {
		t.Errorf("expected repetition score 1.0, got %v", result.Metrics.RepetitionScore)
	}
	if result.IsValid {
		t.Error("empty answer must not be valid")
	}
	if result.Metrics.AvgWordLength != 0 {
		t.Errorf("expected avg word length 0, got %v", result.Metrics.AvgWordLength)
	}
	if !ShouldBlockSubmission(result, false) {
		t.Error("empty answer must be blocked")
	}
}

func TestValidateAnswer_WellFormed(t *testing.T) {
	result := Validate(starAnswer)

	if !result.IsValid {
		t.Fatalf("expected valid answer, got warnings %v", result.Warnings)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
	if msg := ValidationMessageFor(result); msg != nil {
		t.Errorf("expected nil message, got %+v", msg)
	}
	if result.WordCount != 56 || result.SentenceCount != 4 || result.UniqueWordCount != 33 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if !result.Metrics.HasMinimumContent || !result.Metrics.HasStructure {
		t.Errorf("expected content and structure flags, got %+v", result.Metrics)
	}
	wantAvg := float64(utf8.RuneCountInString(starAnswer)) / 56
	if result.Metrics.AvgWordLength != wantAvg {
		t.Errorf("expected avg word length %v, got %v", wantAvg, result.Metrics.AvgWordLength)
	}
}

func TestValidateAnswer_AvgWordLengthCountsCharacters(t *testing.T) {
	result := Validate("café naïve résumé")

	if result.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", result.WordCount)
	}
	if want := 17.0 / 3; result.Metrics.AvgWordLength != want {
		t.Errorf("expected avg word length %v, got %v", want, result.Metrics.AvgWordLength)
	}
}

func TestValidateAnswer_WarningOrder(t *testing.T) {
	result := Validate("aaaaa. aaaaa.")

	if len(result.Warnings) != 5 {
		t.Fatalf("expected 5 warnings, got %d: %v", len(result.Warnings), result.Warnings)
	}
	prefixes := []string{
		"Repeated characters detected",
		"Answer is too short: 2 words (minimum 50).",
		"Answer needs more structure: 0 sentences (minimum 3).",
		"Answer lacks variety: 1 unique words (minimum 15).",
		repetitionWarning,
	}
	for i, prefix := range prefixes {
		if !strings.HasPrefix(result.Warnings[i], prefix) {
			t.Errorf("warning[%d] = %q, want prefix %q", i, result.Warnings[i], prefix)
		}
	}
}

func TestValidateAnswer_RepetitionBoundary(t *testing.T) {
	thresholds := Thresholds{MinWordCount: 1, MinSentenceCount: 1, MinUniqueWords: 1}

	tests := []struct {
		name        string
		text        string
		score       float64
		expectValid bool
	}{
		{
			name:        "exactly thirty percent",
			text:        "alpha beta gamma delta epsilon zeta theta iota kappa lambda alpha beta gamma",
			score:       0.3,
			expectValid: true,
		},
		{
			name:        "above thirty percent",
			text:        "alpha beta gamma delta epsilon zeta theta iota kappa lambda omega sigma alpha beta gamma delta",
			score:       4.0 / 12.0,
			expectValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateAnswer(tt.text, thresholds)
			if result.Metrics.RepetitionScore != tt.score {
				t.Errorf("expected score %v, got %v", tt.score, result.Metrics.RepetitionScore)
			}
			if result.IsValid != tt.expectValid {
				t.Errorf("expected valid=%v, got %v (warnings %v)", tt.expectValid, result.IsValid, result.Warnings)
			}
			hasWarning := false
			for _, w := range result.Warnings {
				if w == repetitionWarning {
					hasWarning = true
				}
			}
			if hasWarning == tt.expectValid {
				t.Errorf("repetition warning present=%v, want %v", hasWarning, !tt.expectValid)
			}
		})
	}
}

func TestValidateAnswer_CustomThresholds(t *testing.T) {
	text := "We built it for our customers."

	if Validate(text).IsValid {
		t.Fatal("default thresholds should reject a six word answer")
	}

	result := ValidateAnswer(text, Thresholds{MinWordCount: 5, MinSentenceCount: 1, MinUniqueWords: 1})
	if !result.IsValid {
		t.Errorf("expected valid with relaxed thresholds, got warnings %v", result.Warnings)
	}
	if result.WordCount != 6 || result.SentenceCount != 1 || result.UniqueWordCount != 2 {
		t.Errorf("unexpected counts: %+v", result)
	}
}

func TestShouldBlockSubmission(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		expect bool
	}{
		{name: "well formed", text: starAnswer, expect: false},
		{name: "short but not degenerate", text: shortAnswer, expect: false},
		{name: "under twenty words", text: "I fixed the bug quickly.", expect: true},
		{name: "lorem ipsum", text: "Lorem ipsum dolor sit amet, consectetur adipiscing elit.", expect: true},
		{name: "lorem ipsum in long answer", text: starAnswer + " Lorem ipsum dolor sit amet.", expect: true},
		{name: "keyboard mash in long answer", text: starAnswer + " aaaaaaa", expect: true},
		{name: "repeated phrase", text: strings.Repeat("we shipped product ", 11), expect: true},
		{name: "high repetition", text: strings.Repeat("alpha beta ", 10), expect: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.text)
			if got := ShouldBlockSubmission(result, false); got != tt.expect {
				t.Errorf("ShouldBlockSubmission() = %v, want %v (result %+v)", got, tt.expect, result)
			}
			if ShouldBlockSubmission(result, true) {
				t.Error("override must never block")
			}
		})
	}
}

func TestShouldBlockSubmission_InvalidIsNotBlocked(t *testing.T) {
	result := Validate(shortAnswer)
	if result.IsValid {
		t.Fatal("expected short answer to be invalid under default thresholds")
	}
	if ShouldBlockSubmission(result, false) {
		t.Error("invalid but non-degenerate answer must not be blocked")
	}
}

func TestValidationMessageFor(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		expectNil  bool
		expectType string
	}{
		{name: "valid", text: starAnswer, expectNil: true},
		{name: "soft warning", text: shortAnswer, expectType: MessageTypeWarning},
		{name: "extreme", text: "", expectType: MessageTypeError},
		{name: "spam", text: "Lorem ipsum dolor sit amet", expectType: MessageTypeError},
		{name: "spam in long answer", text: starAnswer + " Lorem ipsum dolor sit amet.", expectType: MessageTypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidationMessageFor(Validate(tt.text))
			if tt.expectNil {
				if msg != nil {
					t.Errorf("expected nil, got %+v", msg)
				}
				return
			}
			if msg == nil {
				t.Fatal("expected message, got nil")
			}
			if msg.Type != tt.expectType {
				t.Errorf("expected type %q, got %q", tt.expectType, msg.Type)
			}
		})
	}

	warning := ValidationMessageFor(Validate(shortAnswer))
	if !strings.Contains(warning.Message, "STAR") {
		t.Errorf("warning message should mention the STAR method, got %q", warning.Message)
	}
}

func TestThresholds(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds should validate: %v", err)
	}
	if err := (Thresholds{MinWordCount: 0, MinSentenceCount: 1, MinUniqueWords: 1}).Validate(); err == nil {
		t.Error("expected error for zero word count")
	}

	merged := Thresholds{MinWordCount: 10}.Merge(DefaultThresholds())
	want := Thresholds{MinWordCount: 10, MinSentenceCount: 3, MinUniqueWords: 15}
	if merged != want {
		t.Errorf("Merge() = %+v, want %+v", merged, want)
	}
}

func BenchmarkValidate(b *testing.B) {
	long := strings.Repeat(starAnswer+" ", 50)

	b.Run("short answer", func(b *testing.B) {
		for b.Loop() {
			_ = Validate(shortAnswer)
		}
	})

	b.Run("long answer", func(b *testing.B) {
		for b.Loop() {
			_ = Validate(long)
		}
	})
}
