// Package hashtag extracts hashtags from post text.
package hashtag

import "regexp"

var tagPattern = regexp.MustCompile(`#[A-Za-z0-9_]+`)

// Extract returns the hashtags found in text in order of appearance.
// Case is preserved and no deduplication is applied; downstream tag
// aggregation counts each post once per distinct tag regardless.
func Extract(text string) []string {
	return tagPattern.FindAllString(text, -1)
}
