package domain

import "strings"

// NormalizeKeyword canonicalizes a search term: whitespace trimmed,
// case folded. Two terms that normalize equally share one keyword watch.
func NormalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// NormalizeKeywords normalizes a subscription's keyword list, dropping
// blanks and duplicates while preserving first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		normalized := NormalizeKeyword(kw)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
