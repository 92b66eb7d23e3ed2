package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testProfanity = []string{"damn", "hell", "crap"}

func TestAnalyzeText_Profanity(t *testing.T) {
	result := AnalyzeText("well damn, that looks great", testProfanity)
	assert.True(t, result.HasProfanity)
	assert.Equal(t, []string{"damn"}, result.ProfanityMatches)

	// Case-insensitive, every matching term recorded
	result = AnalyzeText("DAMN this HELL of a fit", testProfanity)
	assert.True(t, result.HasProfanity)
	assert.ElementsMatch(t, []string{"damn", "hell"}, result.ProfanityMatches)

	// Substring matching catches embedded terms
	result = AnalyzeText("hello world", testProfanity)
	assert.True(t, result.HasProfanity)
	assert.Equal(t, []string{"hell"}, result.ProfanityMatches)

	result = AnalyzeText("a perfectly clean caption", testProfanity)
	assert.False(t, result.HasProfanity)
	assert.Empty(t, result.ProfanityMatches)
}

func TestAnalyzeText_Validity(t *testing.T) {
	assert.False(t, AnalyzeText("", testProfanity).Valid)
	assert.True(t, AnalyzeText("x", testProfanity).Valid)
	assert.True(t, AnalyzeText(strings.Repeat("a", 5000), testProfanity).Valid)
	assert.False(t, AnalyzeText(strings.Repeat("a", 5001), testProfanity).Valid)
}

func TestAnalyzeText_CharacterCount(t *testing.T) {
	// Counted in runes, not bytes
	result := AnalyzeText("héllo 🌸", testProfanity)
	assert.Equal(t, 7, result.CharacterCount)
}

func TestAnalyzeText_SpamScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"clean text", "a normal caption about a dress", 0},
		{"short text with url", "buy now http://x.co", 30},
		{"long text with url", "this is a much longer message that happens to include https://example.com somewhere in it", 0},
		{"repeated characters", "soooooo cute", 20},
		{"many hashtags", "#a #b #c #d #e #f", 20},
		{"emoji flood", strings.Repeat("\U0001F600\U0001F60D", 6), 30},
		{"emoji flood at limit", strings.Repeat("\U0001F600\U0001F60D", 5), 0},
		{"stacked heuristics", "#a#b#c#d#e#f woooooow http://x.co", 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeText(tt.text, testProfanity).SpamScore)
		})
	}
}

func TestAnalyzeText_Idempotent(t *testing.T) {
	text := "damn #a #b #c #d #e #f soooo good http://x.co"
	first := AnalyzeText(text, testProfanity)
	second := AnalyzeText(text, testProfanity)
	assert.Equal(t, first, second)
}
