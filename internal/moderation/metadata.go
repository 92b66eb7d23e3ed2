package moderation

import (
	"strings"
	"unicode/utf8"
)

// maxDescriptionLength is the character limit for item descriptions
const maxDescriptionLength = 1000

// AnalyzeMetadata validates tags and description against the restricted-term
// list and length limits. A tag is invalid when its lowercased form contains
// any restricted substring. Pure function of its inputs.
func AnalyzeMetadata(tags []string, description string, restricted []string) MetadataAnalysis {
	var invalid []string
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, term := range restricted {
			if strings.Contains(lower, strings.ToLower(term)) {
				invalid = append(invalid, tag)
				break
			}
		}
	}

	descLen := utf8.RuneCountInString(description)

	return MetadataAnalysis{
		TagsValid:            len(invalid) == 0,
		InvalidTags:          invalid,
		DescriptionValid:     descLen > 0 && descLen <= maxDescriptionLength,
		DescriptionLength:    descLen,
		BrandSafetyCompliant: len(invalid) == 0,
		Valid:                len(invalid) == 0 && descLen <= maxDescriptionLength,
	}
}
