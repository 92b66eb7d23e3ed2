package moderation

import (
	"strings"
	"unicode/utf8"
)

// maxTextLength is the character limit for captions and post bodies
const maxTextLength = 5000

// AnalyzeText scores a raw text blob for profanity and spam heuristics.
// Pure function of the input string and the configured profanity list.
func AnalyzeText(text string, profanity []string) TextAnalysis {
	lower := strings.ToLower(text)

	var matches []string
	for _, term := range profanity {
		if strings.Contains(lower, strings.ToLower(term)) {
			matches = append(matches, term)
		}
	}

	count := utf8.RuneCountInString(text)

	return TextAnalysis{
		HasProfanity:     len(matches) > 0,
		ProfanityMatches: matches,
		SpamScore:        spamScore(text),
		CharacterCount:   count,
		Valid:            count > 0 && count <= maxTextLength,
	}
}

// spamScore applies additive heuristics, capped at 100
func spamScore(text string) int {
	score := 0

	// Too many emojis
	if emojiCount(text) > 10 {
		score += 30
	}

	// Any character repeated five or more times consecutively
	if hasRepeatedRun(text, 5) {
		score += 20
	}

	// Too many hashtags
	if strings.Count(text, "#") > 5 {
		score += 20
	}

	// A link in a very short message is almost always spam
	if containsURL(text) && utf8.RuneCountInString(text) < 50 {
		score += 30
	}

	if score > 100 {
		score = 100
	}
	return score
}

// emojiCount counts runes in the main emoji and symbol blocks
func emojiCount(text string) int {
	n := 0
	for _, r := range text {
		if r >= 0x1F300 && r <= 0x1F9FF {
			n++
		}
	}
	return n
}

// hasRepeatedRun reports whether any rune repeats at least n times in a row
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n {
			return true
		}
	}
	return false
}

func containsURL(text string) bool {
	return strings.Contains(text, "http://") || strings.Contains(text, "https://")
}
