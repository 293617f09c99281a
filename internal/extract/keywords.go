package extract

import "strings"

// Validate partitions the keyword sets into the subsets that actually occur
// in text. Matching is case-insensitive substring.
func Validate(text string, primary, secondary []string) (matchedPrimary, matchedSecondary []string) {
	lower := strings.ToLower(text)
	for _, kw := range primary {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matchedPrimary = append(matchedPrimary, kw)
		}
	}
	for _, kw := range secondary {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			matchedSecondary = append(matchedSecondary, kw)
		}
	}
	return matchedPrimary, matchedSecondary
}

// Relevant is the permissive gate used to decide whether an article is worth
// extracting at all. An empty keyword tier is no constraint for that tier.
// The crawl still walks keyword-irrelevant articles so the date cutoff can
// be tested in published order.
func Relevant(text string, primary, secondary []string) bool {
	if len(primary) == 0 && len(secondary) == 0 {
		return true
	}
	mp, ms := Validate(text, primary, secondary)
	primaryOK := len(primary) == 0 || len(mp) > 0
	secondaryOK := len(secondary) == 0 || len(ms) > 0
	return primaryOK || secondaryOK
}

// ShouldPersist is the strict save gate: a record is written downstream only
// when at least one concrete keyword matched. An empty match on both tiers
// suppresses the save even though it never suppresses crawling.
func ShouldPersist(matchedPrimary, matchedSecondary []string) bool {
	return len(matchedPrimary) > 0 || len(matchedSecondary) > 0
}
