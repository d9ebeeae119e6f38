package models

import (
	"regexp"
	"strings"
)

var keywordStrip = regexp.MustCompile(`[^a-z0-9]+`)

// ExtractKeywords derives search tokens from joke text: lowercase, punctuation
// stripped, tokens longer than 2 characters, duplicates removed. Order follows
// first appearance.
func ExtractKeywords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		token := keywordStrip.ReplaceAllString(f, "")
		if len(token) <= 2 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

// JoinKeywords renders tokens into the single-column form stored on the joke
// row and matched by ILIKE search.
func JoinKeywords(tokens []string) string {
	return strings.Join(tokens, " ")
}
