package validation

// stopWords contains common English function words excluded from the unique word count.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "any": true, "can": true,
	"had": true, "her": true, "was": true, "one": true, "our": true,
	"out": true, "has": true, "him": true, "his": true, "how": true,
	"its": true, "may": true, "new": true, "now": true, "old": true,
	"see": true, "two": true, "who": true, "did": true, "get": true,
	"let": true, "put": true, "say": true, "she": true, "too": true,
	"use": true, "that": true, "with": true, "have": true, "this": true,
	"will": true, "your": true, "from": true, "they": true, "know": true,
	"want": true, "been": true, "good": true, "much": true, "some": true,
	"time": true, "very": true, "when": true, "come": true, "here": true,
	"just": true, "like": true, "long": true, "make": true, "many": true,
	"more": true, "only": true, "over": true, "such": true, "take": true,
	"than": true, "them": true, "well": true, "were": true, "what": true,
	"into": true, "also": true, "then": true, "there": true, "their": true,
	"these": true, "those": true, "would": true, "could": true, "should": true,
	"about": true, "after": true, "before": true, "which": true, "while": true,
	"where": true, "because": true, "being": true, "each": true, "other": true,
}

func isStopWord(word string) bool {
	return stopWords[word]
}
