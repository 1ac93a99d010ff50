package domain

import "strings"

// NormalizeTitle is the single normalization function applied to every title
// comparison in the system: trip uniqueness checks, pin target-set matching,
// and the lower(title) SQL predicates in the repo layer. Comparing through
// one function avoids locale-dependent mismatches between in-memory and
// in-database matching.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeTitleSet normalizes a list of titles, dropping blanks and
// duplicates while preserving first-seen order.
func NormalizeTitleSet(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, t := range titles {
		n := NormalizeTitle(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
