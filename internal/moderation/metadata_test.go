package moderation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testRestricted = []string{"minors", "explicit", "adult"}

func TestAnalyzeMetadata_Tags(t *testing.T) {
	result := AnalyzeMetadata([]string{"vintage", "denim"}, "a lovely jacket", testRestricted)
	assert.True(t, result.TagsValid)
	assert.Empty(t, result.InvalidTags)
	assert.True(t, result.BrandSafetyCompliant)
	assert.True(t, result.Valid)

	// Restricted substrings are caught case-insensitively
	result = AnalyzeMetadata([]string{"vintage", "Adults-Only", "EXPLICIT-content"}, "desc", testRestricted)
	assert.False(t, result.TagsValid)
	assert.Equal(t, []string{"Adults-Only", "EXPLICIT-content"}, result.InvalidTags)
	assert.False(t, result.BrandSafetyCompliant)
	assert.False(t, result.Valid)
}

func TestAnalyzeMetadata_Description(t *testing.T) {
	result := AnalyzeMetadata(nil, "", testRestricted)
	assert.False(t, result.DescriptionValid)
	assert.Equal(t, 0, result.DescriptionLength)
	// An empty description does not invalidate the metadata as a whole
	assert.True(t, result.Valid)

	result = AnalyzeMetadata(nil, strings.Repeat("d", 1000), testRestricted)
	assert.True(t, result.DescriptionValid)
	assert.True(t, result.Valid)

	result = AnalyzeMetadata(nil, strings.Repeat("d", 1001), testRestricted)
	assert.False(t, result.DescriptionValid)
	assert.False(t, result.Valid)
}

func TestAnalyzeMetadata_Idempotent(t *testing.T) {
	tags := []string{"vintage", "adult-themes"}
	first := AnalyzeMetadata(tags, "some description", testRestricted)
	second := AnalyzeMetadata(tags, "some description", testRestricted)
	assert.Equal(t, first, second)
}
